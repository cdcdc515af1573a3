package tui

import (
	"learnassist/app/service/explorer"
	"learnassist/app/util/geom"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type frameMsg string

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

// Sender accepts input events for the engine.
type Sender interface {
	Add(event explorer.Event)
}

// Model forwards terminal input as events and shows whatever frame the
// engine rendered last. It holds no session state.
type Model struct {
	events Sender
	frame  string
}

func NewModel(events Sender) Model {
	return Model{events: events}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = string(msg)
	case tea.WindowSizeMsg:
		m.events.Add(explorer.Resize{Width: msg.Width, Height: msg.Height})
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.events.Add(explorer.Quit{})
			return m, tea.Quit
		}
		m.key(msg)
	}

	return m, nil
}

func (m Model) View() string {
	return m.frame
}

func (m Model) mouse(msg tea.MouseMsg) {
	pos := geom.Pt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.events.Add(explorer.PointerDown{Pos: pos})
		}
	case tea.MouseActionMotion:
		m.events.Add(explorer.PointerMove{Pos: pos})
	case tea.MouseActionRelease:
		m.events.Add(explorer.PointerUp{Pos: pos})
	}
}

func (m Model) key(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.events.Add(explorer.KeyPress{Key: explorer.KeyEnter})
	case tea.KeyBackspace:
		m.events.Add(explorer.KeyPress{Key: explorer.KeyBackspace})
	case tea.KeySpace:
		m.events.Add(explorer.KeyPress{Key: explorer.KeyRune, Rune: ' '})
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.events.Add(explorer.KeyPress{Key: explorer.KeyRune, Rune: r})
		}
	}
}
