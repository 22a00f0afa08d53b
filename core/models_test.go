package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("identical content produces identical IDs", func(t *testing.T) {
		a := IDFromContent("conversation-42")
		b := IDFromContent("conversation-42")
		assert.Equal(t, a, b)
	})

	t.Run("different content produces different IDs", func(t *testing.T) {
		a := IDFromContent("conversation-42")
		b := IDFromContent("conversation-43")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		a := IDFromContent("")
		b := IDFromContent("")
		assert.Equal(t, a, b)
	})
}

func TestTurnMessages(t *testing.T) {
	turn := Turn{
		Question:  "what is entropy?",
		Answer:    "a measure of disorder",
		Timestamp: time.Now().UTC(),
	}

	messages := turn.Messages()
	assert.Len(t, messages, 2)
	assert.Equal(t, RoleHuman, messages[0].Role)
	assert.Equal(t, "what is entropy?", messages[0].Content)
	assert.Equal(t, RoleAI, messages[1].Role)
	assert.Equal(t, "a measure of disorder", messages[1].Content)
}
