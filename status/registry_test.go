package status

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGetDelete(t *testing.T) {
	ctx := context.Background()
	registry := NewMemory()

	_, ok, err := registry.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, registry.Set(ctx, "conv-1", "Extracting text from document..."))
	phase, ok, err := registry.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Extracting text from document...", phase)

	// Overwrite marks a phase transition
	require.NoError(t, registry.Set(ctx, "conv-1", "Upserting 42 vectors..."))
	phase, ok, err = registry.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Upserting 42 vectors...", phase)

	require.NoError(t, registry.Delete(ctx, "conv-1"))
	_, ok, err = registry.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryDeleteAbsentKey(t *testing.T) {
	registry := NewMemory()
	assert.NoError(t, registry.Delete(context.Background(), "never-set"))
}

// Two concurrent tasks on different conversation ids must never observe each
// other's phases.
func TestMemoryConcurrentTasksIsolated(t *testing.T) {
	ctx := context.Background()
	registry := NewMemory()

	const phases = 100
	var wg sync.WaitGroup
	for _, id := range []string{"conv-a", "conv-b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < phases; i++ {
				phase := fmt.Sprintf("%s phase %d", id, i)
				require.NoError(t, registry.Set(ctx, id, phase))
				got, ok, err := registry.Get(ctx, id)
				require.NoError(t, err)
				require.True(t, ok)
				// Own writes only; never another conversation's phase
				require.Equal(t, phase, got)
			}
			require.NoError(t, registry.Delete(ctx, id))
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 0, registry.Len())
}
