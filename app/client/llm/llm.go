package llm

import (
	"context"
	"fmt"
	"strings"

	"learnassist/app/config"
	"learnassist/app/service/conversation"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var _ conversation.Completer = (*Client)(nil)

// Client completes conversations against an OpenAI compatible endpoint.
type Client struct {
	model       llms.Model
	temperature float64
}

func New(cfg config.ModelConfig) (*Client, error) {
	model, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.Token),
		openai.WithModel(cfg.Model),
		openai.WithCallback(LogCallbackHandler{}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	return NewWithModel(model, cfg.Temperature), nil
}

func NewWithModel(model llms.Model, temperature float64) *Client {
	return &Client{
		model:       model,
		temperature: temperature,
	}
}

func (c *Client) Complete(ctx context.Context, turns []conversation.Turn) (string, error) {
	messages := make([]llms.MessageContent, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, llms.TextParts(messageType(turn.Role), turn.Content))
	}

	resp, err := c.model.GenerateContent(ctx, messages, llms.WithTemperature(c.temperature))
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no chat completion found")
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func messageType(role conversation.Role) llms.ChatMessageType {
	switch role {
	case conversation.RoleSystem:
		return llms.ChatMessageTypeSystem
	case conversation.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
