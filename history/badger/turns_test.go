package badger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepository(t *testing.T, opts ...Option) *TurnRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository(opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func turn(i int) core.Turn {
	return core.Turn{
		Question:  fmt.Sprintf("question %d", i),
		Answer:    fmt.Sprintf("answer %d", i),
		Timestamp: time.Now().UTC(),
	}
}

func TestAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Append(ctx, "conv-1", turn(i)))
	}

	turns, err := repo.Recent(ctx, "conv-1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	// Chronological order, oldest first
	assert.Equal(t, "question 1", turns[0].Question)
	assert.Equal(t, "question 3", turns[2].Question)
	assert.Equal(t, "answer 2", turns[1].Answer)
}

func TestRecentLimitsToLastN(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	for i := 1; i <= 4; i++ {
		require.NoError(t, repo.Append(ctx, "conv-1", turn(i)))
	}

	turns, err := repo.Recent(ctx, "conv-1", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "question 3", turns[0].Question)
	assert.Equal(t, "question 4", turns[1].Question)
}

func TestAppendEvictsBeyondBound(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	for i := 1; i <= history.DefaultMaxTurns+3; i++ {
		require.NoError(t, repo.Append(ctx, "conv-1", turn(i)))
	}

	turns, err := repo.Recent(ctx, "conv-1", history.DefaultMaxTurns+3)
	require.NoError(t, err)
	require.Len(t, turns, history.DefaultMaxTurns)
	// Oldest three evicted
	assert.Equal(t, "question 4", turns[0].Question)
	assert.Equal(t, fmt.Sprintf("question %d", history.DefaultMaxTurns+3), turns[len(turns)-1].Question)
}

func TestConversationsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	require.NoError(t, repo.Append(ctx, "conv-a", turn(1)))
	require.NoError(t, repo.Append(ctx, "conv-b", turn(2)))

	turnsA, err := repo.Recent(ctx, "conv-a", 10)
	require.NoError(t, err)
	require.Len(t, turnsA, 1)
	assert.Equal(t, "question 1", turnsA[0].Question)

	turnsB, err := repo.Recent(ctx, "conv-b", 10)
	require.NoError(t, err)
	require.Len(t, turnsB, 1)
	assert.Equal(t, "question 2", turnsB[0].Question)
}

func TestRecentUnknownConversation(t *testing.T) {
	repo := setupRepository(t)
	turns, err := repo.Recent(context.Background(), "never-seen", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestCustomMaxTurns(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t, WithMaxTurns(2))

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Append(ctx, "conv-1", turn(i)))
	}

	turns, err := repo.Recent(ctx, "conv-1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "question 4", turns[0].Question)
	assert.Equal(t, "question 5", turns[1].Question)
}
