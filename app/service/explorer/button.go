package explorer

import (
	"context"

	"learnassist/app/util/geom"
)

const (
	ButtonMove    = "move"
	ButtonSave    = "save"
	ButtonLoad    = "load"
	ButtonLearned = "learned"
	ButtonImport  = "import"
)

type Button struct {
	Name   string
	Label  string
	Rect   geom.Rect
	Toggle bool
	On     bool

	action func(ctx context.Context) error
}

// click flips toggle buttons before running the action.
func (b *Button) click(ctx context.Context) error {
	if b.Toggle {
		b.On = !b.On
	}

	return b.action(ctx)
}

// stackButtons lays buttons out bottom-up along the right edge, first button
// lowest.
func stackButtons(buttons []*Button, width, height, bw, bh int) {
	for i, b := range buttons {
		b.Rect = geom.Rect{
			Min: geom.Pt(width-bw, height-bh*(i+1)),
			W:   bw,
			H:   bh,
		}
	}
}
