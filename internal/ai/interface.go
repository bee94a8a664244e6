package ai

import (
	"context"
)

// Turn is one prior exchange in the conversation, as fed back to the model.
// Role is "user" or "model".
type Turn struct {
	Role string
	Text string
}

// Generator defines the contract for the text-generation backend.
// This interface allows swapping providers (Gemini, OpenAI, etc.) and lets
// tests inject a fake that errors or returns garbage.
type Generator interface {
	// Generate sends the system instruction, conversation history and the
	// new user message, returning the model's raw text reply.
	Generate(ctx context.Context, system string, history []Turn, userMessage string) (string, error)

	// Close releases backend resources.
	Close()
}
