// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package knowledge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/status"
	"github.com/poiesic/recall/vectorstore"
)

// Batching and retrieval defaults.
const (
	DefaultEmbedBatchSize  = 100
	DefaultUpsertBatchSize = 100
	DefaultSearchLimit     = 5

	previewLength = 200
)

// Store is the knowledge store. It turns documents into embedded chunks in
// the vector index and answers similarity searches over them.
type Store struct {
	index       vectorstore.Index
	embedder    ai.Embedder
	splitter    *Splitter
	registry    status.Registry
	embedBatch  int
	upsertBatch int
	searchLimit int
	logger      *slog.Logger
}

// IngestResult summarizes a single document ingestion.
type IngestResult struct {
	Stored        int // chunks written to the index
	FailedBatches int // embedding batches skipped after an error
	TotalBatches  int
}

// Option configures a Store.
type Option func(*Store)

// WithRegistry sets the task status registry progress phases are written to.
// Without a registry, progress reporting is skipped.
func WithRegistry(registry status.Registry) Option {
	return func(s *Store) {
		s.registry = registry
	}
}

// WithSplitter replaces the default splitter.
func WithSplitter(splitter *Splitter) Option {
	return func(s *Store) {
		if splitter != nil {
			s.splitter = splitter
		}
	}
}

// WithEmbedBatchSize sets how many chunks are embedded per batch.
// Default is DefaultEmbedBatchSize.
func WithEmbedBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.embedBatch = n
		}
	}
}

// WithUpsertBatchSize sets how many points are upserted per index call.
// Default is DefaultUpsertBatchSize.
func WithUpsertBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.upsertBatch = n
		}
	}
}

// WithSearchLimit sets how many results Search returns.
// Default is DefaultSearchLimit.
func WithSearchLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.searchLimit = n
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a knowledge store over the given index and embedder.
func NewStore(index vectorstore.Index, embedder ai.Embedder, opts ...Option) (*Store, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Store{
		index:       index,
		embedder:    embedder,
		splitter:    NewSplitter(DefaultChunkSize, DefaultChunkOverlap),
		embedBatch:  DefaultEmbedBatchSize,
		upsertBatch: DefaultUpsertBatchSize,
		searchLimit: DefaultSearchLimit,
		logger:      slog.Default().With("component", "knowledge"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddDocument splits, embeds, and indexes the document. When taskID is
// non-empty, progress phases are written to the status registry as work
// advances; the entry itself is owned and removed by the caller.
//
// Embedding failures are per batch: a failed batch is logged and skipped
// while the rest proceed. If some batches survive, the result reports the
// stored count alongside a core.ErrPartialBatch error; if none survive, the
// error wraps core.ErrExternalService.
func (s *Store) AddDocument(ctx context.Context, doc core.Document, taskID string) (IngestResult, error) {
	var result IngestResult

	if err := core.ValidateDocument(&doc); err != nil {
		return result, err
	}

	s.setStatus(ctx, taskID, "Splitting text into chunks...")

	texts, err := s.splitter.Split(doc.Text)
	if err != nil {
		return result, fmt.Errorf("splitting document from %s: %w", doc.Source, err)
	}
	if len(texts) == 0 {
		return result, fmt.Errorf("%w: %s", ErrNoChunks, doc.Source)
	}

	preview := makePreview(doc.Text)
	chunks := make([]core.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = core.Chunk{
			Text:       text,
			Source:     doc.Source,
			SourceType: doc.SourceType,
			Preview:    preview,
		}
	}

	points, failed, total := s.embedChunks(ctx, taskID, chunks)
	result.FailedBatches = failed
	result.TotalBatches = total

	if len(points) == 0 {
		return result, fmt.Errorf("%w: all %d embedding batches failed for %s",
			core.ErrExternalService, total, doc.Source)
	}

	s.setStatus(ctx, taskID, fmt.Sprintf("Upserting %d vectors...", len(points)))

	for start := 0; start < len(points); start += s.upsertBatch {
		end := min(start+s.upsertBatch, len(points))
		if err := s.index.Upsert(ctx, points[start:end]); err != nil {
			return result, fmt.Errorf("%w: upserting vectors for %s: %w",
				core.ErrExternalService, doc.Source, err)
		}
		result.Stored = end
	}

	s.logger.Info("document indexed",
		"source", doc.Source, "chunks", result.Stored, "failed_batches", failed)

	if failed > 0 {
		return result, fmt.Errorf("%w: %d of %d embedding batches failed for %s",
			core.ErrPartialBatch, failed, total, doc.Source)
	}
	return result, nil
}

// embedChunks embeds the chunks batch by batch and returns the surviving
// points along with the failed and total batch counts.
func (s *Store) embedChunks(ctx context.Context, taskID string, chunks []core.Chunk) ([]vectorstore.Point, int, int) {
	total := (len(chunks) + s.embedBatch - 1) / s.embedBatch
	points := make([]vectorstore.Point, 0, len(chunks))
	failed := 0

	for start := 0; start < len(chunks); start += s.embedBatch {
		end := min(start+s.embedBatch, len(chunks))
		batchNum := start/s.embedBatch + 1

		s.setStatus(ctx, taskID, fmt.Sprintf("Embedding Batch %d/%d (%d/%d chunks)...",
			batchNum, total, end, len(chunks)))

		texts := make([]string, end-start)
		for i, chunk := range chunks[start:end] {
			texts[i] = chunk.Text
		}

		vectors, err := s.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			s.logger.Warn("embedding batch failed, skipping",
				"batch", batchNum, "total", total, "err", err)
			failed++
			continue
		}
		if len(vectors) != len(texts) {
			s.logger.Warn("embedding batch returned wrong vector count, skipping",
				"batch", batchNum, "want", len(texts), "got", len(vectors))
			failed++
			continue
		}

		for i, vector := range vectors {
			points = append(points, vectorstore.Point{
				ID:      uuid.NewString(),
				Vector:  vector,
				Payload: chunks[start+i],
			})
		}
	}

	return points, failed, total
}

// Search embeds the query and returns the nearest stored chunks in
// descending similarity order. It is fail-soft: any error is logged and an
// empty slice returned, so a degraded index reads as "nothing found".
func (s *Store) Search(ctx context.Context, query string) []core.Chunk {
	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("query embedding failed", "err", err)
		return nil
	}

	hits, err := s.index.Search(ctx, vector, s.searchLimit)
	if err != nil {
		s.logger.Error("vector search failed", "err", err)
		return nil
	}

	chunks := make([]core.Chunk, len(hits))
	for i, hit := range hits {
		chunks[i] = hit.Chunk
	}
	return chunks
}

// setStatus reports a progress phase. Status is advisory: a missing registry
// or a write failure never interrupts ingestion.
func (s *Store) setStatus(ctx context.Context, taskID, phase string) {
	if taskID == "" || s.registry == nil {
		return
	}
	if err := s.registry.Set(ctx, taskID, phase); err != nil {
		s.logger.Warn("status update failed", "task", taskID, "err", err)
	}
}

// makePreview returns the head of the document text, truncated on a rune
// boundary with an ellipsis when the text is longer.
func makePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}
