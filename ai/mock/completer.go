package mock

import (
	"context"

	"github.com/poiesic/recall/ai"
)

// Completer is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type Completer struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns the content of the last human message unchanged.
	CompleteFunc func(ctx context.Context, messages []ai.PromptMessage) (string, error)

	callCount int
	lastCall  []ai.PromptMessage
}

// NewCompleter creates a mock completer with default echo behavior.
// Note: Returns concrete type to allow test assertions.
func NewCompleter() *Completer {
	return &Completer{}
}

// Complete returns the injected behavior's result, or echoes the last human
// message. The echo default keeps reformulation tests simple: the query
// passes through unchanged.
func (m *Completer) Complete(ctx context.Context, messages []ai.PromptMessage) (string, error) {
	m.callCount++
	m.lastCall = messages

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages)
	}

	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.PromptHuman {
			return messages[i].Content, nil
		}
	}
	return "", nil
}

// CallCount returns the number of times Complete was called.
func (m *Completer) CallCount() int {
	return m.callCount
}

// LastMessages returns the prompt messages from the most recent call.
func (m *Completer) LastMessages() []ai.PromptMessage {
	return m.lastCall
}

// Reset clears the call count and injected behavior.
func (m *Completer) Reset() {
	m.callCount = 0
	m.lastCall = nil
	m.CompleteFunc = nil
}
