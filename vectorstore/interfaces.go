package vectorstore

import (
	"context"

	"github.com/poiesic/recall/core"
)

// Point is a single vector entry: a unique id, the embedding vector, and the
// chunk it represents as payload. Written once at ingestion time.
type Point struct {
	ID      string
	Vector  []float32
	Payload core.Chunk
}

// Hit is a similarity search result: the stored chunk and its score.
// Higher scores mean closer matches.
type Hit struct {
	Chunk core.Chunk
	Score float32
}

// Index is a vector similarity index.
// Implementations must be thread-safe and support concurrent access.
type Index interface {
	// EnsureReady prepares the index for use, creating the backing
	// collection with the given vector dimensionality if it does not exist.
	// Safe to call more than once.
	EnsureReady(ctx context.Context, dimensions int) error

	// Upsert writes the points to the index. Points with an id already
	// present are overwritten.
	Upsert(ctx context.Context, points []Point) error

	// Search returns up to limit points nearest to the vector, ordered by
	// descending similarity score.
	Search(ctx context.Context, vector []float32, limit int) ([]Hit, error)

	// Close releases resources held by the index.
	Close() error
}
