package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	replies []string
	err     error
	calls   [][]Turn
}

func (s *stubCompleter) Complete(ctx context.Context, turns []Turn) (string, error) {
	s.calls = append(s.calls, turns)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "ok", nil
	}

	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func (s *stubCompleter) last() []Turn {
	return s.calls[len(s.calls)-1]
}

func TestNewPairsSeedTurns(t *testing.T) {
	h := New(&stubCompleter{}, "sys", []string{"q1", "a1", "q2"}, nil)

	assert.Equal(t, []Turn{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleUser, Content: "q2"},
	}, h.History())
}

func TestSendSuccessAppendsTwoTurns(t *testing.T) {
	completer := &stubCompleter{replies: []string{"hello back"}}
	h := New(completer, "sys", nil, nil)
	before := len(h.History())

	reply, err := h.Send(context.Background(), "hello", OriginUser)
	require.NoError(t, err)

	assert.Equal(t, "hello back", reply.Text)
	assert.NoError(t, reply.Failure)

	history := h.History()
	require.Len(t, history, before+2)
	assert.Equal(t, Turn{Role: RoleUser, Content: "hello"}, history[before])
	assert.Equal(t, Turn{Role: RoleAssistant, Content: "hello back"}, history[before+1])
}

func TestSendFailureRollsBack(t *testing.T) {
	completer := &stubCompleter{err: errors.New("quota exceeded")}
	h := New(completer, "sys", []string{"q", "a"}, nil)
	before := h.History()

	reply, err := h.Send(context.Background(), "hello", OriginUser)
	require.NoError(t, err)

	assert.Equal(t, before, h.History())
	assert.ErrorIs(t, reply.Failure, ErrCompletionFailed)
	assert.Contains(t, reply.Text, "API Error")
	assert.Contains(t, reply.Text, "quota exceeded")
}

func TestSendToolOriginIsMarked(t *testing.T) {
	completer := &stubCompleter{}
	h := New(completer, "sys", nil, nil)

	_, err := h.Send(context.Background(), "42", OriginTool)
	require.NoError(t, err)

	assert.Equal(t, "TOOL RESULT: 42", h.History()[1].Content)
	assert.Equal(t, "TOOL RESULT: 42", completer.last()[1].Content)
}

func TestDecorationsAreAppliedFreshEachSend(t *testing.T) {
	completer := &stubCompleter{}
	h := New(completer, "sys", nil, nil)

	h.Decorate("GRAPH", "A (0) is connected to: ")
	_, err := h.Send(context.Background(), "one", OriginUser)
	require.NoError(t, err)
	_, err = h.Send(context.Background(), "two", OriginUser)
	require.NoError(t, err)

	want := "sys\n ==== GRAPH ====\n A (0) is connected to: \n ========"
	assert.Equal(t, want, completer.calls[0][0].Content)
	assert.Equal(t, want, completer.calls[1][0].Content)
	assert.Equal(t, "sys", h.History()[0].Content)
}

func TestDecorateUpsertKeepsOrder(t *testing.T) {
	completer := &stubCompleter{}
	h := New(completer, "sys", nil, nil)

	h.Decorate("A", "1")
	h.Decorate("B", "2")
	h.Decorate("A", "3")

	_, err := h.Send(context.Background(), "x", OriginUser)
	require.NoError(t, err)

	want := "sys\n ==== A ====\n 3\n ========\n ==== B ====\n 2\n ========"
	assert.Equal(t, want, completer.last()[0].Content)

	value, ok := h.Decoration("A")
	assert.True(t, ok)
	assert.Equal(t, "3", value)
}

func TestCompleterCannotMutateHistory(t *testing.T) {
	completer := &stubCompleter{}
	h := New(completer, "sys", nil, nil)

	_, err := h.Send(context.Background(), "x", OriginUser)
	require.NoError(t, err)
	completer.last()[1].Content = "tampered"

	assert.Equal(t, "x", h.History()[1].Content)
}

func TestResetRestoresBaseButKeepsDecorations(t *testing.T) {
	completer := &stubCompleter{}
	h := New(completer, "sys", []string{"q", "a"}, nil)
	h.Decorate("LEARNED CONCEPTS", "Loops")

	_, err := h.Send(context.Background(), "x", OriginUser)
	require.NoError(t, err)
	require.Len(t, h.History(), 5)

	h.Reset()
	assert.Len(t, h.History(), 3)

	_, err = h.Send(context.Background(), "y", OriginUser)
	require.NoError(t, err)
	assert.Contains(t, completer.last()[0].Content, "LEARNED CONCEPTS")
}

func TestSendDataFormatError(t *testing.T) {
	completer := &stubCompleter{replies: []string{"no json here"}}
	h := New(completer, "sys", nil, ConceptRecord{})

	_, err := h.Send(context.Background(), "Recursion", OriginUser)
	require.ErrorIs(t, err, ErrDataFormat)
	assert.Len(t, h.History(), 3)
}

type blockingCompleter struct{}

func (blockingCompleter) Complete(ctx context.Context, _ []Turn) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestSendTimeoutIsACompletionFailure(t *testing.T) {
	h := New(blockingCompleter{}, "sys", nil, nil, WithTimeout(10*time.Millisecond), WithName("Tutor"))

	reply, err := h.Send(context.Background(), "x", OriginUser)
	require.NoError(t, err)

	assert.ErrorIs(t, reply.Failure, context.DeadlineExceeded)
	assert.Len(t, h.History(), 1)
}
