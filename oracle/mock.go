package oracle

import (
	"context"
	"encoding/json"
	"sync"
)

// Mock is a deterministic test double for Oracle, grounded in
// graph/model.MockChatModel's configurable-responses-plus-call-history
// shape.
type Mock struct {
	// Responses are returned in order; once exhausted, the last response
	// repeats for subsequent calls.
	Responses []json.RawMessage
	// Err, if set, is returned instead of a response.
	Err error

	mu    sync.Mutex
	calls []StructuredRequest
	idx   int
}

func (m *Mock) StructuredCall(ctx context.Context, req StructuredRequest) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Responses) == 0 {
		return json.RawMessage(`{}`), nil
	}
	i := m.idx
	if i >= len(m.Responses) {
		i = len(m.Responses) - 1
	} else {
		m.idx++
	}
	return m.Responses[i], nil
}

// Calls returns the recorded call history.
func (m *Mock) Calls() []StructuredRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StructuredRequest{}, m.calls...)
}

// CallCount reports how many times StructuredCall has been invoked.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
