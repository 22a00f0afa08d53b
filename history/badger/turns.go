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


// Package badger implements history.Repository on BadgerDB.
//
// Turns are stored as JSON values under fixed-width composite keys so a
// prefix scan over a conversation yields turns in append order.
package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/history"
)

// TurnRepository implements history.Repository for BadgerDB.
type TurnRepository struct {
	backend  *Backend
	idSeq    *badger.Sequence
	maxTurns int
	logger   *slog.Logger
}

var _ history.Repository = (*TurnRepository)(nil)

// Option configures a TurnRepository.
type Option func(*TurnRepository)

// WithMaxTurns sets the per-conversation history bound.
// Default is history.DefaultMaxTurns.
func WithMaxTurns(n int) Option {
	return func(r *TurnRepository) {
		if n > 0 {
			r.maxTurns = n
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *TurnRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewTurnRepository creates a new TurnRepository.
func NewTurnRepository(backend *Backend, opts ...Option) (*TurnRepository, error) {
	if backend == nil {
		return nil, history.ErrBackendRequired
	}

	idSeq, err := backend.GetSequence(turnIDSeq)
	if err != nil {
		return nil, err
	}

	r := &TurnRepository{
		backend:  backend,
		idSeq:    idSeq,
		maxTurns: history.DefaultMaxTurns,
		logger:   slog.Default().With("component", "history"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close releases the ID sequence.
func (r *TurnRepository) Close() error {
	return r.idSeq.Release()
}

// Append adds a completed turn to the conversation's history and evicts the
// oldest turns beyond the bound.
func (r *TurnRepository) Append(ctx context.Context, conversationID string, turn core.Turn) error {
	convID := core.IDFromContent(conversationID)

	value, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("%w: %w", history.ErrSerializationFailed, err)
	}

	seq, err := r.idSeq.Next()
	if err != nil {
		return err
	}

	return r.backend.Update(func(tx *badger.Txn) error {
		if err := tx.Set(makeTurnKey(convID, seq), value); err != nil {
			return err
		}

		// Evict oldest keys beyond the bound
		keys, err := collectTurnKeys(tx, convID)
		if err != nil {
			return err
		}
		for len(keys) > r.maxTurns {
			if err := tx.Delete(keys[0]); err != nil {
				return err
			}
			keys = keys[1:]
		}
		return nil
	})
}

// Recent returns up to n most recent turns for the conversation, in
// chronological order.
func (r *TurnRepository) Recent(ctx context.Context, conversationID string, n int) ([]core.Turn, error) {
	convID := core.IDFromContent(conversationID)

	var turns []core.Turn
	err := r.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTurnPrefix(convID)
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var turn core.Turn
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &turn)
			})
			if err != nil {
				return fmt.Errorf("%w: %w", history.ErrSerializationFailed, err)
			}
			turns = append(turns, turn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if n >= 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return turns, nil
}

// collectTurnKeys returns copies of all turn keys for the conversation, in
// append order.
func collectTurnKeys(tx *badger.Txn, convID core.ID) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeTurnPrefix(convID)
	opts.PrefetchValues = false
	it := tx.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys, nil
}
