package llm

import (
	"context"
	"errors"
	"testing"

	"learnassist/app/service/conversation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	reply    *llms.ContentResponse
	err      error
	messages []llms.MessageContent
	options  llms.CallOptions
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.options)
	}

	return f.reply, f.err
}

func (f *fakeModel) Call(context.Context, string, ...llms.CallOption) (string, error) {
	return "", errors.New("not used")
}

func TestCompleteMapsRolesAndTemperature(t *testing.T) {
	model := &fakeModel{reply: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "  /addnode Loops \n"}},
	}}
	client := NewWithModel(model, 0)

	reply, err := client.Complete(context.Background(), []conversation.Turn{
		{Role: conversation.RoleSystem, Content: "sys"},
		{Role: conversation.RoleUser, Content: "q"},
		{Role: conversation.RoleAssistant, Content: "a"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/addnode Loops", reply)
	require.Len(t, model.messages, 3)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, model.messages[2].Role)
	assert.Equal(t, []llms.ContentPart{llms.TextContent{Text: "q"}}, model.messages[1].Parts)
	assert.InDelta(t, 0.0, model.options.Temperature, 1e-9)
}

func TestCompleteErrors(t *testing.T) {
	_, err := NewWithModel(&fakeModel{err: errors.New("429")}, 0).
		Complete(context.Background(), []conversation.Turn{{Role: conversation.RoleUser, Content: "q"}})
	assert.ErrorContains(t, err, "429")

	_, err = NewWithModel(&fakeModel{reply: &llms.ContentResponse{}}, 0).
		Complete(context.Background(), []conversation.Turn{{Role: conversation.RoleUser, Content: "q"}})
	assert.ErrorContains(t, err, "no chat completion")
}
