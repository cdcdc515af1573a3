package chatlog

import (
	"image/color"
	"testing"

	"github.com/elliotchance/pie/v2"
	"github.com/stretchr/testify/assert"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func TestLogEvictsOldestFirst(t *testing.T) {
	l := New(2)

	l.Add("User", "one", white)
	l.Add("Tutor", "two", white)
	l.Add("System", "three", white)

	texts := pie.Map(l.Entries(), func(e Entry) string { return e.Text })
	assert.Equal(t, []string{"two", "three"}, texts)
	assert.Equal(t, 2, l.Len())
}

func TestLogKeepsSpeakerAndColor(t *testing.T) {
	l := New(5)
	green := color.RGBA{G: 255, A: 255}

	l.Add("BaseChat", "hi", green)

	entries := l.Entries()
	assert.Len(t, entries, 1)
	assert.Equal(t, "BaseChat", entries[0].Speaker)
	assert.Equal(t, green, entries[0].Color)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestLogEntriesIsACopy(t *testing.T) {
	l := New(3)
	l.Add("User", "a", white)

	entries := l.Entries()
	entries[0].Text = "changed"

	assert.Equal(t, "a", l.Entries()[0].Text)
}

func TestNewFallsBackToDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Capacity())
}
