package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"learnassist/app/client/tui"
	"learnassist/app/config"
	"learnassist/app/service/agent"
	"learnassist/app/service/chatlog"
	"learnassist/app/service/command"
	"learnassist/app/service/explorer"
	"learnassist/app/service/graph"
	"learnassist/app/service/queue"

	"github.com/samber/do"
)

const DecorationLearned = "LEARNED CONCEPTS"

// Service owns the session state and is the only goroutine that touches it.
type Service struct {
	graph      *graph.Graph
	agents     *agent.Service
	controller *explorer.Controller
	queueSvc   *queue.Service
	surface    explorer.Surface
	chat       *chatlog.Log
	interp     *command.Interpreter

	frame    time.Duration
	maxDepth int
	depth    int
	dirty    bool
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*graph.Graph](di),
		do.MustInvoke[*agent.Service](di),
		do.MustInvoke[*explorer.Controller](di),
		do.MustInvoke[*queue.Service](di),
		do.MustInvoke[*tui.Client](di).Canvas(),
	), nil
}

func NewService(
	cfg *config.Config,
	g *graph.Graph,
	agents *agent.Service,
	controller *explorer.Controller,
	queueSvc *queue.Service,
	surface explorer.Surface,
) *Service {
	s := &Service{
		graph:      g,
		agents:     agents,
		controller: controller,
		queueSvc:   queueSvc,
		surface:    surface,
		chat:       chatlog.New(cfg.Explorer.ChatCapacity),
		frame:      time.Second / time.Duration(cfg.Explorer.FrameRate),
		maxDepth:   cfg.Explorer.MaxRelayDepth,
		dirty:      true,
	}

	s.interp = command.New(g, agents, controller, s)
	controller.OnNotice(s.system)

	return s
}

func (s *Service) Chat() *chatlog.Log {
	return s.chat
}

// Run is the frame loop. Each frame drains all pending events, applies them
// and draws when anything changed. It returns on a Quit event, when the
// queue shuts down or when ctx is done.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.frame)
	defer ticker.Stop()

	s.controller.InitializePositions()

	slog.Info("Engine started", "frame", s.frame)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		events, open := s.queueSvc.Drain()
		for _, event := range events {
			if s.apply(ctx, event) {
				slog.Info("Engine stopped")
				return nil
			}
		}

		if !open {
			return nil
		}

		if !s.dirty {
			continue
		}

		if err := s.controller.Draw(s.surface, s.chat.Entries()); err != nil {
			slog.Warn("Failed to draw frame", "error", err)
			continue
		}
		s.dirty = false
	}
}

// apply reports whether the session should end.
func (s *Service) apply(ctx context.Context, event explorer.Event) bool {
	s.dirty = true

	switch e := event.(type) {
	case explorer.PointerDown:
		if err := s.controller.PointerDown(ctx, e.Pos); err != nil {
			s.reportError(err)
		}
	case explorer.PointerMove:
		s.controller.PointerMove(e.Pos)
	case explorer.PointerUp:
		s.controller.PointerUp(e.Pos)
	case explorer.KeyPress:
		if line, ok := s.controller.Key(e); ok {
			s.Receive(ctx, line, agent.User)
		}
	case explorer.Resize:
		s.controller.Resize(e.Width, e.Height)
		if r, ok := s.surface.(explorer.Resizer); ok {
			r.Resize(e.Width, e.Height)
		}
	case explorer.Quit:
		return true
	default:
		slog.Warn("Unknown event", "event", event)
	}

	return false
}

// Receive logs a message from source and lets privileged speakers either run
// a command or talk to the tutor. Agent replies re-enter here, bounded by the
// relay depth.
func (s *Service) Receive(ctx context.Context, text, source string) {
	c, ok := s.agents.Color(source)
	if !ok {
		slog.Warn("Message from unknown speaker dropped", "source", source)
		return
	}

	for _, line := range strings.Split(text, "\n") {
		s.chat.Add(source, line, c)
	}
	s.dirty = true

	if !command.Privileged(source) {
		return
	}

	if s.depth >= s.maxDepth {
		slog.Warn("Relay depth reached", "source", source, "depth", s.depth)
		s.system("Agent relay limit reached, waiting for the user")
		return
	}

	s.depth++
	defer func() { s.depth-- }()

	if s.interp.TryHandle(ctx, text, source) {
		return
	}

	if err := s.agents.Decorate(agent.Tutor, DecorationLearned, s.graph.TaggedNames()); err != nil {
		s.reportError(err)
		return
	}

	reply, err := s.agents.Route(ctx, text, agent.Tutor)
	if err != nil {
		s.reportError(err)
		return
	}
	if reply.Failure != nil {
		slog.Warn("Tutor completion failed", "error", reply.Failure)
		s.system(reply.Text)
		return
	}

	s.Receive(ctx, reply.Text, agent.Tutor)
}

func (s *Service) system(text string) {
	c, _ := s.agents.Color(agent.System)
	for _, line := range strings.Split(text, "\n") {
		s.chat.Add(agent.System, line, c)
	}
	s.dirty = true
}

func (s *Service) reportError(err error) {
	slog.Error("Session error", "error", err)
	s.system(err.Error())
}
