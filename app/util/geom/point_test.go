package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointArithmetic(t *testing.T) {
	a := Pt(10, 10)
	b := Pt(3, -4)

	assert.Equal(t, Pt(13, 6), a.Add(b))
	assert.Equal(t, Pt(7, 14), a.Sub(b))
	assert.InDelta(t, 5.0, Pt(0, 0).Dist(b), 1e-9)
}

func TestRectContainsIsExclusive(t *testing.T) {
	r := Rect{Min: Pt(10, 10), W: 5, H: 5}

	assert.True(t, r.Contains(Pt(12, 12)))
	assert.False(t, r.Contains(Pt(10, 12)))
	assert.False(t, r.Contains(Pt(15, 12)))
	assert.Equal(t, Pt(12, 12), r.Center())
}
