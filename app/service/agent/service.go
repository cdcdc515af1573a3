package agent

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"learnassist/app/client/llm"
	"learnassist/app/config"
	"learnassist/app/service/conversation"

	"github.com/samber/do"
	"github.com/samber/oops"
)

// Speakers that are not agents.
const (
	User   = "User"
	System = "System"
)

// Agents of a session.
const (
	BaseChat = "BaseChat"
	Tutor    = "Tutor"
	Expander = "Expander"
)

var ErrUnknownAgent = errors.New("unknown agent")

var (
	ColorUser     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ColorSystem   = color.RGBA{R: 127, G: 127, B: 127, A: 255}
	ColorBaseChat = color.RGBA{G: 255, A: 255}
	ColorTutor    = color.RGBA{G: 127, B: 127, A: 255}
	ColorExpander = color.RGBA{R: 200, G: 120, B: 255, A: 255}
)

// Service is the registry of named agents and of speaker colours. It routes
// only where it is told to.
type Service struct {
	agents map[string]*conversation.Harness
	order  []string
	colors map[string]color.RGBA
}

func NewRegistry() *Service {
	return &Service{
		agents: make(map[string]*conversation.Harness),
		colors: map[string]color.RGBA{
			User:   ColorUser,
			System: ColorSystem,
		},
	}
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	defs := []struct {
		name      string
		model     config.ModelConfig
		prompt    string
		fallback  string
		sanitizer conversation.Sanitizer
		color     color.RGBA
	}{
		{BaseChat, cfg.LLM.BaseChat, cfg.Prompts.BaseChat, conversation.PromptBaseChat, conversation.Dialogue{}, ColorBaseChat},
		{Tutor, cfg.LLM.Tutor, cfg.Prompts.Tutor, conversation.PromptTutor, conversation.Dialogue{}, ColorTutor},
		{Expander, cfg.LLM.Expander, cfg.Prompts.Expander, conversation.PromptExpander, conversation.ConceptRecord{}, ColorExpander},
	}

	s := NewRegistry()

	for _, def := range defs {
		client, err := llm.New(def.model)
		if err != nil {
			return nil, fmt.Errorf("llm.New(%s): %w", def.name, err)
		}

		source := def.prompt
		if source == "" {
			source = def.fallback
		}
		prompt, err := conversation.LoadPrompt(source)
		if err != nil {
			return nil, fmt.Errorf("LoadPrompt(%s): %w", def.name, err)
		}

		harness := conversation.New(client, prompt, nil, def.sanitizer,
			conversation.WithName(def.name),
			conversation.WithTimeout(cfg.LLM.Timeout))

		s.Register(def.name, harness, def.color)
	}

	return s, nil
}

func (s *Service) Register(name string, harness *conversation.Harness, c color.RGBA) {
	if _, ok := s.agents[name]; !ok {
		s.order = append(s.order, name)
	}

	s.agents[name] = harness
	s.colors[name] = c
}

func (s *Service) Agent(name string) (*conversation.Harness, bool) {
	h, ok := s.agents[name]
	return h, ok
}

// Names lists agents in registration order.
func (s *Service) Names() []string {
	return append([]string(nil), s.order...)
}

// Color returns the display colour of any known speaker, agent or not.
func (s *Service) Color(speaker string) (color.RGBA, bool) {
	c, ok := s.colors[speaker]
	return c, ok
}

// Route sends text to the named agent and returns its sanitised reply.
func (s *Service) Route(ctx context.Context, text, name string) (conversation.Reply, error) {
	h, err := s.lookup(name)
	if err != nil {
		return conversation.Reply{}, err
	}

	return h.Send(ctx, text, conversation.OriginUser)
}

func (s *Service) Decorate(name, key, value string) error {
	h, err := s.lookup(name)
	if err != nil {
		return err
	}

	h.Decorate(key, value)

	return nil
}

func (s *Service) Reset(name string) error {
	h, err := s.lookup(name)
	if err != nil {
		return err
	}

	h.Reset()

	return nil
}

func (s *Service) ResetAll() {
	for _, name := range s.order {
		s.agents[name].Reset()
	}
}

func (s *Service) lookup(name string) (*conversation.Harness, error) {
	h, ok := s.agents[name]
	if !ok {
		return nil, oops.In("agent").Code("unknown_agent").With("agent", name).Wrap(ErrUnknownAgent)
	}

	return h, nil
}
