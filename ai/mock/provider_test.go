package mock

import (
	"context"
	"testing"

	"github.com/poiesic/recall/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDefaults(t *testing.T) {
	ctx := context.Background()
	provider := NewProvider()

	concrete, ok := provider.(*Provider)
	require.True(t, ok)
	assert.Same(t, concrete.GetEmbedder(), provider.Embedder())
	assert.Same(t, concrete.GetCompleter(), provider.Completer())
	assert.Same(t, concrete.GetDescriber(), provider.Describer())

	// Default embedder is deterministic: same text, same vector.
	first, err := provider.Embedder().EmbedText(ctx, "stable input")
	require.NoError(t, err)
	second, err := provider.Embedder().EmbedText(ctx, "stable input")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Default completer echoes the last human message.
	answer, err := provider.Completer().Complete(ctx, []ai.PromptMessage{
		{Role: ai.PromptSystem, Content: "instructions"},
		{Role: ai.PromptHuman, Content: "echo me"},
	})
	require.NoError(t, err)
	assert.Equal(t, "echo me", answer)

	description, err := provider.Describer().DescribeImage(ctx, "image/png", []byte{0x89})
	require.NoError(t, err)
	assert.NotEmpty(t, description)

	assert.NoError(t, provider.Close())
}
