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


// Package memory implements vectorstore.Index as an in-memory cosine index.
// Intended for tests and local single-process runs.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/poiesic/recall/vectorstore"
)

// Index is a simple in-memory vector index.
type Index struct {
	mu     sync.RWMutex
	points map[string]vectorstore.Point
}

var _ vectorstore.Index = (*Index)(nil)

// NewIndex creates an empty in-memory index.
// Note: Returns concrete type to allow test assertions via Len().
func NewIndex() *Index {
	return &Index{
		points: make(map[string]vectorstore.Point),
	}
}

// EnsureReady is a no-op for the in-memory index.
func (idx *Index) EnsureReady(ctx context.Context, dimensions int) error {
	return nil
}

// Upsert stores the points, overwriting any with the same id.
func (idx *Index) Upsert(ctx context.Context, points []vectorstore.Point) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, point := range points {
		idx.points[point.ID] = point
	}
	return nil
}

// Search returns up to limit points ordered by descending cosine similarity.
func (idx *Index) Search(ctx context.Context, vector []float32, limit int) ([]vectorstore.Hit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]vectorstore.Hit, 0, len(idx.points))
	for _, point := range idx.points {
		hits = append(hits, vectorstore.Hit{
			Chunk: point.Payload,
			Score: cosineSimilarity(vector, point.Vector),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if limit >= 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Len returns the number of stored points.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.points)
}

// Close is a no-op for the in-memory index.
func (idx *Index) Close() error {
	return nil
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Mismatched or zero-length vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
