package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph/model"
)

const structuredToolName = "emit_result"

// ChatAdapter turns any graph/model.ChatModel into an Oracle by asking the
// model to call a single synthetic tool (emit_result) whose schema is the
// request's Schema, then decoding that tool call's Input back to JSON. This
// keeps the three provider SDKs (anthropic-sdk-go, openai-go,
// generative-ai-go) wired through the engine's own ChatModel abstraction
// instead of introducing a second client per provider.
type ChatAdapter struct {
	chat   model.ChatModel
	policy retryPolicy
}

// NewChatAdapter wraps an existing graph/model.ChatModel as an Oracle. Used
// by the oracle/anthropic, oracle/openai, and oracle/google subpackages to
// expose their respective provider clients.
func NewChatAdapter(chat model.ChatModel) *ChatAdapter {
	return &ChatAdapter{chat: chat, policy: defaultRetryPolicy()}
}

func (a *ChatAdapter) StructuredCall(ctx context.Context, req StructuredRequest) (json.RawMessage, error) {
	messages := []model.Message{
		{Role: model.RoleSystem, Content: req.SystemPrompt},
		{Role: model.RoleUser, Content: req.UserPrompt},
	}
	tools := []model.ToolSpec{
		{
			Name:        structuredToolName,
			Description: "Emit the final structured result for this task.",
			Schema:      req.Schema,
		},
	}

	var out model.ChatOut
	err := withRetry(ctx, a.policy, func() error {
		var callErr error
		out, callErr = a.chat.Chat(ctx, messages, tools)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("oracle chat call failed: %w", err)
	}

	for _, call := range out.ToolCalls {
		if call.Name != structuredToolName {
			continue
		}
		raw, err := json.Marshal(call.Input)
		if err != nil {
			return nil, fmt.Errorf("oracle: encoding tool call input: %w", err)
		}
		return raw, nil
	}

	return nil, ErrNoToolCall{}
}
