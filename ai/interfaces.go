package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// PromptRole identifies the author of a prompt message.
type PromptRole string

const (
	// PromptSystem is the system instruction role.
	PromptSystem PromptRole = "system"
	// PromptHuman is the user role.
	PromptHuman PromptRole = "human"
	// PromptAI is the assistant role.
	PromptAI PromptRole = "ai"
)

// PromptMessage is a single message in a chat completion prompt.
type PromptMessage struct {
	Role    PromptRole
	Content string
}

// Completer produces chat completions from prompt messages.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends the prompt messages to the chat model and returns the
	// generated text. Returns an error if the completion call fails.
	Complete(ctx context.Context, messages []PromptMessage) (string, error)
}

// Describer produces textual descriptions of images.
// Implementations must be thread-safe for concurrent use.
type Describer interface {
	// DescribeImage analyzes the image bytes and returns a detailed textual
	// description, transcribing any text or equations it contains.
	// Returns an error if the vision call fails.
	DescribeImage(ctx context.Context, mimeType string, data []byte) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder, Completer, and
// Describer instances, ensuring they share configuration appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Completer returns the chat completion service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// Describer returns the image description service.
	// The returned Describer is safe for concurrent use.
	Describer() Describer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
