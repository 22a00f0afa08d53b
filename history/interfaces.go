package history

import (
	"context"

	"github.com/poiesic/recall/core"
)

// DefaultMaxTurns is the per-conversation history bound: 5 turns, i.e. 10
// messages.
const DefaultMaxTurns = 5

// Repository stores bounded per-conversation chat history.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Append adds a completed turn to the conversation's history and evicts
	// the oldest turns beyond the repository's bound.
	Append(ctx context.Context, conversationID string, turn core.Turn) error

	// Recent returns up to n most recent turns for the conversation, in
	// chronological order (oldest first).
	Recent(ctx context.Context, conversationID string, n int) ([]core.Turn, error)

	// Close closes the repository and releases resources.
	Close() error
}
