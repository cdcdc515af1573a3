package llm

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/llms"
)

var _ callbacks.Handler = (*LogCallbackHandler)(nil)

// LogCallbackHandler reports model traffic to slog. Hooks for chains, tools
// and retrievers are inherited as no-ops.
type LogCallbackHandler struct {
	callbacks.SimpleHandler
}

func (l LogCallbackHandler) HandleLLMGenerateContentStart(ctx context.Context, ms []llms.MessageContent) {
	slog.DebugContext(ctx, "LLM generate content start", "messages", len(ms))
}

func (l LogCallbackHandler) HandleLLMGenerateContentEnd(ctx context.Context, res *llms.ContentResponse) {
	if res == nil {
		return
	}

	slog.DebugContext(ctx, "LLM generate content end", "choices", len(res.Choices))
}

func (l LogCallbackHandler) HandleLLMError(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "LLM error", "error", err)
}
