// Package oracle abstracts the language-model backends that every planning
// worker consults for structured output: a parsed plan, a list of
// attractions, a cultural-tips summary, a budget estimate. It wraps the
// underlying graph/model ChatModel adapters rather than replacing them, so
// the same Anthropic/OpenAI/Google clients the engine already ships with
// back every worker's Oracle call.
package oracle

import (
	"context"
	"encoding/json"
)

// StructuredRequest is a single call to an oracle that must return JSON
// matching Schema rather than free text.
type StructuredRequest struct {
	// SystemPrompt sets the oracle's role and constraints for this call.
	SystemPrompt string
	// UserPrompt is the task-specific instruction and context.
	UserPrompt string
	// Schema is the JSON Schema the response must satisfy.
	Schema map[string]interface{}
	// Temperature controls sampling randomness; adapters that don't expose
	// it (e.g. via tool-call translation) may ignore it.
	Temperature float64
}

// Oracle is a structured-output language-model call. Every worker (planner,
// geography, research, food_culture, transport_budget, critic) consults one
// of these instead of talking to a provider SDK directly.
type Oracle interface {
	StructuredCall(ctx context.Context, req StructuredRequest) (json.RawMessage, error)
}

// ErrNoToolCall is returned when the underlying chat model responded with
// text instead of the expected structured tool call.
type ErrNoToolCall struct{}

func (ErrNoToolCall) Error() string {
	return "oracle: model did not return a structured result"
}
