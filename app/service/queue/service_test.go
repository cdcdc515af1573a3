package queue

import (
	"testing"

	"learnassist/app/service/explorer"
	"learnassist/app/util/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainReturnsEventsInOrder(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	s.Add(explorer.PointerDown{Pos: geom.Pt(1, 2)})
	s.Add(explorer.PointerUp{Pos: geom.Pt(1, 2)})

	events, ok := s.Drain()
	require.True(t, ok)
	assert.Equal(t, []explorer.Event{
		explorer.PointerDown{Pos: geom.Pt(1, 2)},
		explorer.PointerUp{Pos: geom.Pt(1, 2)},
	}, events)

	events, ok = s.Drain()
	assert.True(t, ok)
	assert.Empty(t, events)
}

func TestAddDropsWhenFull(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	for range bufferSize + 10 {
		s.Add(explorer.Quit{})
	}

	events, _ := s.Drain()
	assert.Len(t, events, bufferSize)
}

func TestAddAfterShutdownDoesNotPanic(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, s.Shutdown())

	assert.NotPanics(t, func() { s.Add(explorer.Quit{}) })

	_, ok := s.Drain()
	assert.False(t, ok)
}
