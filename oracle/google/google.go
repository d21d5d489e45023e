// Package google wires the engine's Google ChatModel into the oracle
// abstraction used by the travel-planning workers.
package google

import (
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph/model/google"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle"
)

// New builds an Oracle backed by a Google Gemini model.
func New(apiKey, modelName string) oracle.Oracle {
	return oracle.NewChatAdapter(google.NewChatModel(apiKey, modelName))
}
