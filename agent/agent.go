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

package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/extract"
	"github.com/poiesic/recall/extract/web"
	"github.com/poiesic/recall/history"
	"github.com/poiesic/recall/knowledge"
	"github.com/poiesic/recall/status"
)

// Agent routes requests and runs the query and ingestion pipelines.
type Agent struct {
	store     *knowledge.Store
	completer ai.Completer
	describer ai.Describer
	extractor extract.DocumentExtractor
	scraper   extract.Scraper
	registry  status.Registry
	turns     history.Repository
	scheduler *scheduler
	logger    *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent) error

// WithExtractor replaces the default plain text document extractor.
func WithExtractor(extractor extract.DocumentExtractor) Option {
	return func(a *Agent) error {
		if extractor != nil {
			a.extractor = extractor
		}
		return nil
	}
}

// WithScraper replaces the default web scraper.
func WithScraper(scraper extract.Scraper) Option {
	return func(a *Agent) error {
		if scraper != nil {
			a.scraper = scraper
		}
		return nil
	}
}

// WithPoolSize sets the background ingestion worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(a *Agent) error {
		if a.scheduler != nil {
			a.scheduler.release()
		}
		sched, err := newScheduler(size)
		if err != nil {
			return err
		}
		a.scheduler = sched
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) error {
		if logger != nil {
			a.logger = logger
		}
		return nil
	}
}

// NewAgent creates an agent over the knowledge store, AI provider, status
// registry, and history repository.
func NewAgent(
	store *knowledge.Store,
	provider ai.Provider,
	registry status.Registry,
	turns history.Repository,
	opts ...Option,
) (*Agent, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if turns == nil {
		return nil, ErrHistoryRequired
	}

	sched, err := newScheduler(0)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		store:     store,
		completer: provider.Completer(),
		describer: provider.Describer(),
		extractor: extract.NewPlainText(),
		scraper:   web.NewScraper(),
		registry:  registry,
		turns:     turns,
		scheduler: sched,
		logger:    slog.Default().With("component", "agent"),
	}

	for _, opt := range opts {
		if optErr := opt(a); optErr != nil {
			a.Release()
			return nil, optErr
		}
	}

	return a, nil
}

// Release shuts down the background worker pool.
// The agent should not be used after calling Release.
func (a *Agent) Release() {
	if a.scheduler != nil {
		a.scheduler.release()
	}
}

// Invoke runs the request through its routed pipeline. State.FinalAnswer is
// always populated with user-ready text; the returned typed error is the
// same failure before rendering, kept for callers that log or branch on it.
func (a *Agent) Invoke(ctx context.Context, state *State) error {
	intent := Route(*state)
	a.logger.Debug("routing request", "intent", intent.String())

	switch intent {
	case IntentBusyStatus:
		state.FinalAnswer = busyAnswer(state.BusyStatus)
		return nil
	case IntentQuery:
		err := a.runQuery(ctx, state)
		if err != nil {
			state.FinalAnswer = renderAnswer("", err)
		}
		return err
	default:
		answer, err := a.runIngestion(ctx, state)
		state.FinalAnswer = renderAnswer(answer, err)
		return err
	}
}

// Ask is the query boundary: it performs the pre-query busy check against
// the status registry, loads recent history, runs the pipeline, and appends
// the completed turn. Busy short-circuits and failed turns are not recorded.
func (a *Agent) Ask(ctx context.Context, conversationID, question string) (string, error) {
	state := State{Question: question, TaskID: conversationID}

	phase, busy, err := a.registry.Get(ctx, conversationID)
	if err != nil {
		a.logger.Warn("busy check failed, proceeding with query", "err", err)
	} else if busy {
		state.BusyStatus = phase
	}

	turns, err := a.turns.Recent(ctx, conversationID, history.DefaultMaxTurns)
	if err != nil {
		a.logger.Warn("history load failed, proceeding without it", "err", err)
	}
	state.History = turns

	invokeErr := a.Invoke(ctx, &state)

	if invokeErr == nil && Route(state) == IntentQuery {
		turn := core.Turn{
			Question:  question,
			Answer:    state.FinalAnswer,
			Timestamp: time.Now().UTC(),
		}
		if err := a.turns.Append(ctx, conversationID, turn); err != nil {
			a.logger.Error("failed to append history turn", "err", err)
		}
	}

	return state.FinalAnswer, invokeErr
}
