package geom

import "math"

// Point is a position in graph or screen coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Dist(o Point) float64 {
	return math.Hypot(float64(p.X-o.X), float64(p.Y-o.Y))
}

// Rect is an axis aligned rectangle anchored at its top-left corner.
type Rect struct {
	Min  Point
	W, H int
}

// Contains reports whether p lies strictly inside r.
func (r Rect) Contains(p Point) bool {
	return p.X > r.Min.X && p.X < r.Min.X+r.W &&
		p.Y > r.Min.Y && p.Y < r.Min.Y+r.H
}

func (r Rect) Center() Point {
	return Point{X: r.Min.X + r.W/2, Y: r.Min.Y + r.H/2}
}
