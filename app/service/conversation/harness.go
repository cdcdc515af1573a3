package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/oops"
)

const toolMarker = "TOOL RESULT: "

// Completer produces the next assistant turn for an ordered conversation.
type Completer interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}

type Option func(*Harness)

// WithTimeout bounds a single completion call.
func WithTimeout(d time.Duration) Option {
	return func(h *Harness) {
		h.timeout = d
	}
}

// WithName labels log records of this harness.
func WithName(name string) Option {
	return func(h *Harness) {
		h.name = name
	}
}

// Harness keeps one agent's history and talks to the completion backend.
// It is not safe for concurrent use.
type Harness struct {
	name      string
	completer Completer
	sanitizer Sanitizer
	timeout   time.Duration

	turns []Turn
	base  []Turn

	decorations     map[string]string
	decorationOrder []string
}

// New builds a harness whose history starts with the system prompt followed
// by seed turns taken pairwise as user/assistant. A trailing unpaired seed
// becomes a user turn.
func New(completer Completer, prompt string, seed []string, sanitizer Sanitizer, opts ...Option) *Harness {
	if sanitizer == nil {
		sanitizer = Dialogue{}
	}

	turns := []Turn{{Role: RoleSystem, Content: prompt}}
	for i := 0; i < len(seed); i += 2 {
		turns = append(turns, Turn{Role: RoleUser, Content: seed[i]})
		if i+1 < len(seed) {
			turns = append(turns, Turn{Role: RoleAssistant, Content: seed[i+1]})
		}
	}

	h := &Harness{
		completer:   completer,
		sanitizer:   sanitizer,
		turns:       turns,
		base:        append([]Turn(nil), turns...),
		decorations: make(map[string]string),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Decorate sets a block that is appended to the system prompt on every send.
func (h *Harness) Decorate(key, value string) {
	if _, ok := h.decorations[key]; !ok {
		h.decorationOrder = append(h.decorationOrder, key)
	}
	h.decorations[key] = value
}

func (h *Harness) Decoration(key string) (string, bool) {
	value, ok := h.decorations[key]
	return value, ok
}

// Reset restores the history captured at construction. Decorations stay.
func (h *Harness) Reset() {
	h.turns = append([]Turn(nil), h.base...)
}

func (h *Harness) History() []Turn {
	return append([]Turn(nil), h.turns...)
}

// Send records text as a user turn and asks the backend for a reply.
//
// A backend failure rolls the history back and is reported through
// Reply.Failure with a nil error. A reply the sanitizer cannot parse is kept
// in history and returned as an ErrDataFormat error.
func (h *Harness) Send(ctx context.Context, text string, origin Origin) (Reply, error) {
	if origin == OriginTool {
		text = toolMarker + text
	}

	h.turns = append(h.turns, Turn{Role: RoleUser, Content: text})

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := h.completer.Complete(ctx, h.decorated())
	if err != nil {
		h.turns = h.turns[:len(h.turns)-1]

		slog.Warn("Completion failed",
			"agent", h.name,
			"error", err,
			"duration", time.Since(start))

		return Reply{
			Text:    fmt.Sprintf("API Error : %v", err),
			Failure: fmt.Errorf("%w: %w", ErrCompletionFailed, err),
		}, nil
	}

	h.turns = append(h.turns, Turn{Role: RoleAssistant, Content: raw})

	slog.Debug("Completion received",
		"agent", h.name,
		"length", len(raw),
		"duration", time.Since(start))

	reply, err := h.sanitizer.Sanitize(raw)
	if err != nil {
		return Reply{Text: raw}, oops.In("conversation").
			Code("data_format").
			With("agent", h.name).
			Wrapf(fmt.Errorf("%w: %w", ErrDataFormat, err), "sanitize reply")
	}

	return reply, nil
}

// decorated copies the history and appends the decorations to the copy of
// the system turn.
func (h *Harness) decorated() []Turn {
	turns := append([]Turn(nil), h.turns...)
	if len(h.decorationOrder) == 0 {
		return turns
	}

	var builder strings.Builder
	builder.WriteString(turns[0].Content)
	for _, key := range h.decorationOrder {
		builder.WriteString(fmt.Sprintf("\n ==== %s ====\n %s\n ========", key, h.decorations[key]))
	}
	turns[0].Content = builder.String()

	return turns
}
