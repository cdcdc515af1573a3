package tui

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"learnassist/app/util/geom"

	"github.com/charmbracelet/lipgloss"
)

const (
	runeLine   = '·'
	runeStroke = '•'
)

type cell struct {
	r  rune
	fg color.RGBA
	bg color.RGBA
}

// Canvas is a grid of terminal cells. Circles are measured in cells, so they
// come out taller than wide on most fonts.
type Canvas struct {
	width   int
	height  int
	cells   []cell
	present func(frame string)
}

func NewCanvas(width, height int, present func(frame string)) *Canvas {
	c := &Canvas{present: present}
	c.Resize(width, height)

	return c
}

func (c *Canvas) Resize(width, height int) {
	c.width, c.height = max(width, 0), max(height, 0)
	c.cells = make([]cell, c.width*c.height)
}

func (c *Canvas) Clear(bg color.RGBA) {
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', bg: bg}
	}
}

func (c *Canvas) FillCircle(center geom.Point, radius int, col color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			if cl := c.at(center.X+dx, center.Y+dy); cl != nil {
				cl.r = ' '
				cl.bg = col
			}
		}
	}
}

func (c *Canvas) StrokeCircle(center geom.Point, radius int, col color.RGBA) {
	for dy := -radius - 1; dy <= radius+1; dy++ {
		for dx := -radius - 1; dx <= radius+1; dx++ {
			if math.Abs(math.Hypot(float64(dx), float64(dy))-float64(radius)) >= 0.5 {
				continue
			}
			if cl := c.at(center.X+dx, center.Y+dy); cl != nil {
				cl.r = runeStroke
				cl.fg = col
			}
		}
	}
}

// Line walks from one end to the other with Bresenham's algorithm.
func (c *Canvas) Line(from, to geom.Point, col color.RGBA) {
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := sign(to.X-from.X), sign(to.Y-from.Y)
	errAcc := dx + dy

	x, y := from.X, from.Y
	for {
		if cl := c.at(x, y); cl != nil {
			cl.r = runeLine
			cl.fg = col
		}

		if x == to.X && y == to.Y {
			return
		}

		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x += sx
		}
		if e2 <= dx {
			errAcc += dx
			y += sy
		}
	}
}

// Text writes s on one row, keeping the background of the cells it covers.
func (c *Canvas) Text(at geom.Point, s string, col color.RGBA) {
	x := at.X
	for _, r := range s {
		if cl := c.at(x, at.Y); cl != nil {
			cl.r = r
			cl.fg = col
		}
		x++
	}
}

func (c *Canvas) TextSize(s string) (int, int) {
	return lipgloss.Width(s), 1
}

func (c *Canvas) Present() error {
	if c.present == nil {
		return fmt.Errorf("canvas has no output")
	}

	c.present(c.Render())

	return nil
}

// Render turns the grid into styled rows, one style per run of equally
// coloured cells.
func (c *Canvas) Render() string {
	rows := make([]string, 0, c.height)

	for y := 0; y < c.height; y++ {
		var (
			row strings.Builder
			run []rune
			cur cell
		)

		flush := func() {
			if len(run) == 0 {
				return
			}
			row.WriteString(style(cur).Render(string(run)))
			run = run[:0]
		}

		for x := 0; x < c.width; x++ {
			cl := c.cells[y*c.width+x]
			if cl.r == 0 {
				cl.r = ' '
			}
			if len(run) > 0 && (cl.fg != cur.fg || cl.bg != cur.bg) {
				flush()
			}
			cur = cl
			run = append(run, cl.r)
		}
		flush()

		rows = append(rows, row.String())
	}

	return strings.Join(rows, "\n")
}

func (c *Canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return nil
	}

	return &c.cells[y*c.width+x]
}

func style(cl cell) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(hex(cl.fg)).
		Background(hex(cl.bg))
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
