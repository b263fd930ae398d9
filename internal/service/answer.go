package service

import (
	"context"
	"fmt"
)

// Answerer synthesizes a grounded answer from a question and the retrieved
// context passages, in ranking order.
type Answerer interface {
	GenerateAnswer(ctx context.Context, question string, contextPassages []string) (string, error)
}

// StubAnswerer returns deterministic templated answers when no language
// model provider is configured. It never claims to have used context it
// did not receive.
type StubAnswerer struct{}

// NewStubAnswerer creates a StubAnswerer.
func NewStubAnswerer() *StubAnswerer {
	return &StubAnswerer{}
}

func (a *StubAnswerer) GenerateAnswer(_ context.Context, question string, contextPassages []string) (string, error) {
	if len(contextPassages) == 0 {
		return fmt.Sprintf("I don't have enough information to answer: '%s'. No relevant content was found.", question), nil
	}
	return fmt.Sprintf("Based on the retrieved context, here's a response to: '%s'. Found %d relevant chunks.",
		question, len(contextPassages)), nil
}
