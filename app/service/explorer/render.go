package explorer

import (
	"image/color"
	"math"

	"learnassist/app/service/chatlog"
	"learnassist/app/util/geom"
)

// Surface is a frame being drawn. Coordinates are screen cells.
type Surface interface {
	Clear(c color.RGBA)
	FillCircle(center geom.Point, radius int, c color.RGBA)
	StrokeCircle(center geom.Point, radius int, c color.RGBA)
	Line(from, to geom.Point, c color.RGBA)
	Text(at geom.Point, s string, c color.RGBA)
	TextSize(s string) (w, h int)
	Present() error
}

// Resizer is implemented by surfaces that follow the screen size.
type Resizer interface {
	Resize(width, height int)
}

var (
	colorBackground = color.RGBA{A: 255}
	colorEdge       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorNode       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorLabel      = color.RGBA{A: 255}
	colorSelected   = color.RGBA{B: 255, A: 255}
	colorLearned    = color.RGBA{G: 255, A: 255}
	colorButton     = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	colorButtonOn   = color.RGBA{G: 255, A: 255}
	colorInput      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const arrowSpread = math.Pi / 6

// Draw renders one frame: edges, nodes, the chat log, the input line and
// the buttons, then presents it.
func (c *Controller) Draw(s Surface, entries []chatlog.Entry) error {
	s.Clear(colorBackground)

	c.drawEdges(s)
	c.drawNodes(s)
	c.drawChat(s, entries)
	c.drawButtons(s)

	return s.Present()
}

func (c *Controller) drawEdges(s Surface) {
	arrowLen := float64(c.radius)

	for _, e := range c.graph.Edges() {
		from, ok1 := c.layout.Get(e.From)
		to, ok2 := c.layout.Get(e.To)
		if !ok1 || !ok2 {
			continue
		}

		start := from.Sub(c.offset)
		end := to.Sub(c.offset)
		s.Line(start, end, colorEdge)

		mid := geom.Pt((start.X+end.X)/2, (start.Y+end.Y)/2)
		angle := math.Atan2(float64(end.Y-start.Y), float64(end.X-start.X))

		for _, side := range []float64{-arrowSpread, arrowSpread} {
			tip := geom.Pt(
				mid.X-int(math.Round(arrowLen*math.Cos(angle+side))),
				mid.Y-int(math.Round(arrowLen*math.Sin(angle+side))),
			)
			s.Line(mid, tip, colorEdge)
		}
	}
}

func (c *Controller) drawNodes(s Surface) {
	for _, n := range c.graph.Nodes() {
		pos, ok := c.layout.Get(n.ID)
		if !ok {
			continue
		}

		center := pos.Sub(c.offset)

		if c.hasSelection && c.selected == n.ID {
			s.StrokeCircle(center, c.radius+1, colorSelected)
		}
		if c.graph.Tagged(n.ID) {
			s.FillCircle(center, c.radius+1, colorLearned)
		}
		s.FillCircle(center, c.radius, colorNode)

		w, h := s.TextSize(n.Text)
		s.Text(center.Sub(geom.Pt(w/2, h/2)), n.Text, colorLabel)
	}
}

// drawChat writes the input line on the last row and the log above it,
// newest entry lowest.
func (c *Controller) drawChat(s Surface, entries []chatlog.Entry) {
	_, lineHeight := s.TextSize("> ")
	if lineHeight <= 0 {
		lineHeight = 1
	}

	y := c.height - lineHeight
	s.Text(geom.Pt(1, y), "> "+string(c.input), colorInput)

	for i := len(entries) - 1; i >= 0 && y > 0; i-- {
		y -= lineHeight
		e := entries[i]
		s.Text(geom.Pt(1, y), e.Speaker+": "+e.Text, e.Color)
	}
}

func (c *Controller) drawButtons(s Surface) {
	for _, b := range c.buttons {
		col := colorButton
		if b.Toggle && b.On {
			col = colorButtonOn
		}

		r := b.Rect
		tl := r.Min
		tr := geom.Pt(r.Min.X+r.W-1, r.Min.Y)
		bl := geom.Pt(r.Min.X, r.Min.Y+r.H-1)
		br := geom.Pt(r.Min.X+r.W-1, r.Min.Y+r.H-1)

		s.Line(tl, tr, col)
		s.Line(tr, br, col)
		s.Line(br, bl, col)
		s.Line(bl, tl, col)

		w, h := s.TextSize(b.Label)
		s.Text(r.Center().Sub(geom.Pt(w/2, h/2)), b.Label, col)
	}
}
