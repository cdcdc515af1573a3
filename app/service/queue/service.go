package queue

import (
	"log/slog"

	"learnassist/app/service/explorer"

	"github.com/samber/do"
)

const bufferSize = 256

var _ do.Shutdownable = (*Service)(nil)

// Service carries input events from the terminal goroutine to the engine.
type Service struct {
	queue chan explorer.Event
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		queue: make(chan explorer.Event, bufferSize),
	}, nil
}

// Add never blocks; events are dropped when the buffer is full or the queue
// is shut down.
func (s *Service) Add(event explorer.Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("event dropped after shutdown", "event", event)
		}
	}()

	select {
	case s.queue <- event:
	default:
		slog.Warn("event queue is full", "event", event)
	}
}

// Drain returns every pending event without waiting. ok is false once the
// queue is shut down and empty.
func (s *Service) Drain() (events []explorer.Event, ok bool) {
	for {
		select {
		case event, open := <-s.queue:
			if !open {
				return events, false
			}
			events = append(events, event)
		default:
			return events, true
		}
	}
}

func (s *Service) Channel() <-chan explorer.Event {
	return s.queue
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
