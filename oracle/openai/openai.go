// Package openai wires the engine's OpenAI ChatModel into the oracle
// abstraction used by the travel-planning workers.
package openai

import (
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph/model/openai"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle"
)

// New builds an Oracle backed by an OpenAI GPT model.
func New(apiKey, modelName string) oracle.Oracle {
	return oracle.NewChatAdapter(openai.NewChatModel(apiKey, modelName))
}
