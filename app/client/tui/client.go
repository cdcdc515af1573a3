package tui

import (
	"context"
	"errors"
	"fmt"

	"learnassist/app/config"
	"learnassist/app/service/queue"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/do"
)

// Client runs the terminal program. Frames drawn on its canvas are handed
// to the program as messages.
type Client struct {
	program *tea.Program
	canvas  *Canvas
}

func New(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)
	ctx := do.MustInvoke[context.Context](di)
	queueSvc := do.MustInvoke[*queue.Service](di)

	program := tea.NewProgram(NewModel(queueSvc),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx))

	canvas := NewCanvas(cfg.Explorer.Width, cfg.Explorer.Height, func(frame string) {
		program.Send(frameMsg(frame))
	})

	return &Client{program: program, canvas: canvas}, nil
}

func (c *Client) Canvas() *Canvas {
	return c.canvas
}

// Run blocks until the program exits. Cancellation is a normal exit.
func (c *Client) Run() error {
	if _, err := c.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal program: %w", err)
	}

	return nil
}

func (c *Client) Quit() {
	c.program.Quit()
}
