package explorer

import (
	"math/rand/v2"

	"learnassist/app/config"
	"learnassist/app/util/geom"

	"github.com/elliotchance/pie/v2"
)

const maxPlacementAttempts = 1000

// Layout maps node ids to graph coordinates and remembers insertion order,
// which is also the hit-test order.
type Layout struct {
	pos   map[int]geom.Point
	order []int
}

func NewLayout() *Layout {
	return &Layout{pos: make(map[int]geom.Point)}
}

func (l *Layout) Set(id int, p geom.Point) {
	if _, ok := l.pos[id]; !ok {
		l.order = append(l.order, id)
	}
	l.pos[id] = p
}

func (l *Layout) Get(id int) (geom.Point, bool) {
	p, ok := l.pos[id]
	return p, ok
}

func (l *Layout) IDs() []int {
	return append([]int(nil), l.order...)
}

func (l *Layout) Len() int {
	return len(l.order)
}

func (l *Layout) Map() map[int]geom.Point {
	out := make(map[int]geom.Point, len(l.pos))
	for id, p := range l.pos {
		out[id] = p
	}
	return out
}

// Replace swaps in a loaded layout; ids are ordered ascending.
func (l *Layout) Replace(positions map[int]geom.Point) {
	l.pos = make(map[int]geom.Point, len(positions))
	l.order = pie.Sort(pie.Keys(positions))
	for id, p := range positions {
		l.pos[id] = p
	}
}

// place finds a random spot at least spacing away on both axes from every
// placed node. After maxPlacementAttempts the last candidate is used.
func (l *Layout) place(rng *rand.Rand, box config.Placement) geom.Point {
	var candidate geom.Point

	for range maxPlacementAttempts {
		candidate = geom.Pt(randInclusive(rng, box.MinX, box.MaxX), randInclusive(rng, box.MinY, box.MaxY))

		crowded := pie.Any(pie.Values(l.pos), func(p geom.Point) bool {
			return abs(candidate.X-p.X) < box.Spacing && abs(candidate.Y-p.Y) < box.Spacing
		})
		if !crowded {
			break
		}
	}

	return candidate
}

func randInclusive(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
