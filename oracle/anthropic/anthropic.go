// Package anthropic wires the engine's Anthropic ChatModel into the oracle
// abstraction used by the travel-planning workers.
package anthropic

import (
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph/model/anthropic"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle"
)

// New builds an Oracle backed by Anthropic's Claude models.
func New(apiKey, modelName string) oracle.Oracle {
	return oracle.NewChatAdapter(anthropic.NewChatModel(apiKey, modelName))
}
