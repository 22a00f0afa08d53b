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


// Package pgvector implements vectorstore.Index on Postgres with the
// pgvector extension.
package pgvector

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/vectorstore"
)

// Store implements vectorstore.Index backed by a pgvector table.
type Store struct {
	pool      *pgxpool.Pool
	tableName string
	logger    *slog.Logger
}

var _ vectorstore.Index = (*Store)(nil)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-zA-Z0-9_]{0,62}$`)

// isValidTableName validates that a table name contains only safe characters
// to prevent SQL injection. Table names must start with a letter or
// underscore and be 1-63 characters (the Postgres identifier limit).
func isValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}

// NewStore creates a pgvector-backed index over the given pool and table.
//
// Returns vectorstore.Index interface to enforce abstraction.
func NewStore(pool *pgxpool.Pool, tableName string) (vectorstore.Index, error) {
	return newStore(pool, tableName)
}

func newStore(pool *pgxpool.Pool, tableName string) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("connection pool required")
	}
	if !isValidTableName(tableName) {
		return nil, fmt.Errorf("%w: %q", vectorstore.ErrInvalidTableName, tableName)
	}
	return &Store{
		pool:      pool,
		tableName: tableName,
		logger:    slog.Default().With("component", "pgvector-store"),
	}, nil
}

// EnsureReady creates the vector extension and the backing table if they do
// not exist. Safe to call more than once.
func (s *Store) EnsureReady(ctx context.Context, dimensions int) error {
	if dimensions < 1 {
		return fmt.Errorf("%w: dimensions must be positive", vectorstore.ErrDimensionMismatch)
	}

	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			content TEXT NOT NULL,
			source TEXT NOT NULL,
			source_type TEXT NOT NULL,
			preview TEXT NOT NULL DEFAULT '',
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`, pgx.Identifier{s.tableName}.Sanitize(), dimensions)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.tableName, err)
	}

	s.logger.Debug("index ready", "table", s.tableName, "dimensions", dimensions)
	return nil
}

// Upsert writes the points in a single batch round-trip.
func (s *Store) Upsert(ctx context.Context, points []vectorstore.Point) error {
	if len(points) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, content, source, source_type, preview, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			source = EXCLUDED.source,
			source_type = EXCLUDED.source_type,
			preview = EXCLUDED.preview,
			embedding = EXCLUDED.embedding
	`, pgx.Identifier{s.tableName}.Sanitize())

	batch := &pgx.Batch{}
	for _, point := range points {
		batch.Queue(query,
			point.ID,
			point.Payload.Text,
			point.Payload.Source,
			string(point.Payload.SourceType),
			point.Payload.Preview,
			pgv.NewVector(point.Vector),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range points {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert point: %w", err)
		}
	}

	return nil
}

// Search returns up to limit nearest points by cosine similarity.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]vectorstore.Hit, error) {
	query := fmt.Sprintf(`
		SELECT content, source, source_type, preview, 1 - (embedding <=> $1) AS similarity
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgx.Identifier{s.tableName}.Sanitize())

	rows, err := s.pool.Query(ctx, query, pgv.NewVector(vector), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute similarity search: %w", err)
	}
	defer rows.Close()

	var hits []vectorstore.Hit
	for rows.Next() {
		var chunk core.Chunk
		var sourceType string
		var similarity float64

		if err := rows.Scan(&chunk.Text, &chunk.Source, &sourceType, &chunk.Preview, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		chunk.SourceType = core.SourceType(sourceType)

		hits = append(hits, vectorstore.Hit{
			Chunk: chunk,
			Score: float32(similarity),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return hits, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
