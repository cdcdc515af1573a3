package chatlog

import (
	"image/color"
	"time"
)

const DefaultCapacity = 60

type Entry struct {
	Speaker   string
	Text      string
	Color     color.RGBA
	Timestamp time.Time
}

// Log keeps the last capacity entries, oldest first.
type Log struct {
	capacity int
	entries  []Entry
}

func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Log{capacity: capacity}
}

func (l *Log) Add(speaker, text string, c color.RGBA) {
	entry := Entry{
		Speaker:   speaker,
		Text:      text,
		Color:     c,
		Timestamp: time.Now(),
	}

	if len(l.entries) >= l.capacity {
		l.entries = append(l.entries[1:], entry)
	} else {
		l.entries = append(l.entries, entry)
	}
}

func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

func (l *Log) Len() int {
	return len(l.entries)
}

func (l *Log) Capacity() int {
	return l.capacity
}
