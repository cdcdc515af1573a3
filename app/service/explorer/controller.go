package explorer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"learnassist/app/config"
	"learnassist/app/service/graph"
	"learnassist/app/service/store"
	"learnassist/app/util/geom"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

// Controller is the pointer and keyboard state machine over the graph and
// its layout. It is not safe for concurrent use.
type Controller struct {
	graph  *graph.Graph
	store  *store.Service
	layout *Layout
	rng    *rand.Rand
	notify func(text string)

	placement    config.Placement
	radius       int
	width        int
	height       int
	buttonWidth  int
	buttonHeight int

	offset geom.Point

	panning      bool
	panPointer   geom.Point
	panOffset    geom.Point
	moveMode     bool
	selected     int
	hasSelection bool
	anchor       geom.Point
	anchored     bool

	input   []rune
	buttons []*Button
}

func New(di *do.Injector) (*Controller, error) {
	cfg := do.MustInvoke[*config.Config](di)
	g := do.MustInvoke[*graph.Graph](di)
	st := do.MustInvoke[*store.Service](di)

	seed := uint64(time.Now().UnixNano())

	return NewController(g, st, cfg.Explorer, rand.New(rand.NewPCG(seed, seed>>1))), nil
}

func NewController(g *graph.Graph, st *store.Service, cfg config.Explorer, rng *rand.Rand) *Controller {
	c := &Controller{
		graph:        g,
		store:        st,
		layout:       NewLayout(),
		rng:          rng,
		notify:       func(string) {},
		placement:    cfg.Placement,
		radius:       cfg.NodeRadius,
		width:        cfg.Width,
		height:       cfg.Height,
		buttonWidth:  cfg.ButtonWidth,
		buttonHeight: cfg.ButtonHeight,
	}

	c.buttons = []*Button{
		{Name: ButtonMove, Label: "Move", Toggle: true, action: c.toggleMove},
		{Name: ButtonSave, Label: "Save", action: c.save},
		{Name: ButtonLoad, Label: "Load", action: c.load},
		{Name: ButtonLearned, Label: "Mark Learned", action: c.markLearned},
		{Name: ButtonImport, Label: "From File", action: c.importScript},
	}
	stackButtons(c.buttons, c.width, c.height, c.buttonWidth, c.buttonHeight)

	return c
}

// OnNotice sets where user-facing status lines go.
func (c *Controller) OnNotice(fn func(text string)) {
	c.notify = fn
}

func (c *Controller) Layout() *Layout {
	return c.layout
}

func (c *Controller) Offset() geom.Point {
	return c.offset
}

func (c *Controller) Selected() (int, bool) {
	return c.selected, c.hasSelection
}

func (c *Controller) MoveMode() bool {
	return c.moveMode
}

func (c *Controller) Panning() bool {
	return c.panning
}

func (c *Controller) Input() string {
	return string(c.input)
}

func (c *Controller) Buttons() []Button {
	return pie.Map(c.buttons, func(b *Button) Button { return *b })
}

func (c *Controller) Size() (int, int) {
	return c.width, c.height
}

func (c *Controller) PointerDown(ctx context.Context, p geom.Point) error {
	if b := c.buttonAt(p); b != nil {
		if err := b.click(ctx); err != nil {
			return fmt.Errorf("%s: %w", b.Label, err)
		}
		return nil
	}

	id, ok := c.nodeAt(p)
	if !ok {
		c.panning = true
		c.panPointer = p
		c.panOffset = c.offset
		return nil
	}

	c.selected, c.hasSelection = id, true
	if c.moveMode {
		c.anchor, c.anchored = p, true
	}

	return nil
}

func (c *Controller) PointerMove(p geom.Point) {
	if c.panning {
		c.offset = c.panOffset.Add(c.panPointer.Sub(p))
		return
	}

	if !c.moveMode || !c.hasSelection || !c.anchored {
		return
	}

	pos, ok := c.layout.Get(c.selected)
	if !ok {
		return
	}

	c.layout.Set(c.selected, pos.Add(p.Sub(c.anchor)))
	c.anchor = p
}

// PointerUp ends a pan or a drag. The selection survives.
func (c *Controller) PointerUp(geom.Point) {
	c.panning = false
	if c.moveMode {
		c.anchored = false
	}
}

// Key edits the input line. Enter returns the buffered line and clears it;
// blank lines are dropped.
func (c *Controller) Key(k KeyPress) (string, bool) {
	switch k.Key {
	case KeyBackspace:
		if len(c.input) > 0 {
			c.input = c.input[:len(c.input)-1]
		}
	case KeyEnter:
		line := string(c.input)
		c.input = nil
		if strings.TrimSpace(line) == "" {
			return "", false
		}
		return line, true
	default:
		c.input = append(c.input, k.Rune)
	}

	return "", false
}

func (c *Controller) Resize(width, height int) {
	c.width, c.height = width, height
	stackButtons(c.buttons, width, height, c.buttonWidth, c.buttonHeight)
}

// PlaceAtCenter puts id at the middle of the visible area.
func (c *Controller) PlaceAtCenter(id int) {
	c.layout.Set(id, geom.Pt(c.width/2, c.height/2).Add(c.offset))
}

// InitializePositions gives every node without a position a random spot.
func (c *Controller) InitializePositions() {
	for _, n := range c.graph.Nodes() {
		if _, ok := c.layout.Get(n.ID); ok {
			continue
		}

		c.layout.Set(n.ID, c.layout.place(c.rng, c.placement))
	}
}

func (c *Controller) buttonAt(p geom.Point) *Button {
	i := pie.FindFirstUsing(c.buttons, func(b *Button) bool { return b.Rect.Contains(p) })
	if i < 0 {
		return nil
	}

	return c.buttons[i]
}

func (c *Controller) nodeAt(p geom.Point) (int, bool) {
	ids := c.layout.IDs()

	i := pie.FindFirstUsing(ids, func(id int) bool {
		pos, _ := c.layout.Get(id)
		return pos.Sub(c.offset).Dist(p) <= float64(c.radius)
	})
	if i < 0 {
		return 0, false
	}

	return ids[i], true
}

func (c *Controller) toggleMove(context.Context) error {
	c.moveMode = !c.moveMode
	c.anchored = false

	return nil
}

func (c *Controller) save(context.Context) error {
	handle, ok, err := c.store.Saves().SaveTarget()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	payload := store.Payload{Graph: c.graph.Snapshot(), Layout: c.layout.Map()}
	if err = c.store.Serialize(handle, payload); err != nil {
		return err
	}

	c.notify(fmt.Sprintf("Saved graph to %s", handle))

	return nil
}

func (c *Controller) load(context.Context) error {
	handle, ok, err := c.store.Saves().OpenTarget()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	payload, err := c.store.Deserialize(handle)
	if err != nil {
		return err
	}

	if err = c.graph.Restore(payload.Graph); err != nil {
		return err
	}

	c.layout.Replace(payload.Layout)
	c.hasSelection = false
	c.anchored = false
	c.InitializePositions()

	c.notify(fmt.Sprintf("Loaded graph from %s", handle))

	return nil
}

func (c *Controller) markLearned(context.Context) error {
	if !c.hasSelection {
		return nil
	}

	return c.graph.ToggleTag(c.selected)
}

func (c *Controller) importScript(context.Context) error {
	handle, ok, err := c.store.Scripts().OpenTarget()
	if err != nil {
		return err
	}

	if ok {
		if err = c.store.ImportScript(handle, c.graph); err != nil {
			return err
		}
		c.notify(fmt.Sprintf("Imported %s", handle))
	}

	c.InitializePositions()
	slog.Debug("Positions initialized", "nodes", c.layout.Len())

	return nil
}
