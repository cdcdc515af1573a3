package explorer

import "learnassist/app/util/geom"

// Event is one raw input event, already in screen coordinates.
type Event interface {
	isEvent()
}

type PointerDown struct{ Pos geom.Point }

type PointerMove struct{ Pos geom.Point }

type PointerUp struct{ Pos geom.Point }

type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyBackspace
)

type KeyPress struct {
	Key  Key
	Rune rune
}

type Resize struct{ Width, Height int }

type Quit struct{}

func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (PointerUp) isEvent()   {}
func (KeyPress) isEvent()    {}
func (Resize) isEvent()      {}
func (Quit) isEvent()        {}
