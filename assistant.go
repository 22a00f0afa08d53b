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

// Package recall assembles the knowledge assistant: AI provider, vector
// index, knowledge store, task status registry, and chat history, with a
// factory for request-handling agents.
package recall

import (
	"log/slog"

	"github.com/poiesic/recall/agent"
	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/ai/openai"
	"github.com/poiesic/recall/history"
	historybadger "github.com/poiesic/recall/history/badger"
	"github.com/poiesic/recall/knowledge"
	"github.com/poiesic/recall/status"
	"github.com/poiesic/recall/vectorstore"
	"github.com/poiesic/recall/vectorstore/memory"
)

// Assistant owns the long-lived collaborators of a deployment.
type Assistant struct {
	backend  *historybadger.Backend
	turns    history.Repository
	provider ai.Provider
	index    vectorstore.Index
	store    *knowledge.Store
	registry status.Registry
	logger   *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig *ai.Config
	index    vectorstore.Index
	registry status.Registry
}

// WithAIConfig sets the AI service configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithIndex sets the vector index.
// Default is an ephemeral in-memory index.
func WithIndex(index vectorstore.Index) AssistantOption {
	return func(o *assistantOptions) {
		if index != nil {
			o.index = index
		}
	}
}

// WithRegistry sets the task status registry.
// Default is an in-process registry.
func WithRegistry(registry status.Registry) AssistantOption {
	return func(o *assistantOptions) {
		if registry != nil {
			o.registry = registry
		}
	}
}

// NewAssistant opens the chat history at historyPath and wires the assistant
// together. An empty historyPath keeps history in memory.
func NewAssistant(historyPath string, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
		index:    memory.NewIndex(),
		registry: status.NewMemory(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := historybadger.OpenBackend(historyPath, historyPath == "")
	if err != nil {
		return nil, err
	}

	turns, err := historybadger.NewTurnRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		turns.Close()
		backend.Close()
		return nil, err
	}

	store, err := knowledge.NewStore(options.index, provider.Embedder(),
		knowledge.WithRegistry(options.registry))
	if err != nil {
		provider.Close()
		turns.Close()
		backend.Close()
		return nil, err
	}

	return &Assistant{
		backend:  backend,
		turns:    turns,
		provider: provider,
		index:    options.index,
		store:    store,
		registry: options.registry,
		logger:   slog.Default(),
	}, nil
}

// Close releases the assistant's collaborators.
func (a *Assistant) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.index.Close(); err != nil {
		a.logger.Error("error closing vector index", "err", err)
	}

	if err := a.turns.Close(); err != nil {
		a.logger.Error("error closing history repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing history backend", "err", err)
		return err
	}
	return nil
}

// KnowledgeStore returns the knowledge store.
func (a *Assistant) KnowledgeStore() *knowledge.Store {
	return a.store
}

// Registry returns the task status registry.
func (a *Assistant) Registry() status.Registry {
	return a.registry
}

// History returns the chat history repository.
func (a *Assistant) History() history.Repository {
	return a.turns
}

// NewAgent creates a request-handling agent over the assistant's services.
func (a *Assistant) NewAgent(opts ...agent.Option) (*agent.Agent, error) {
	return agent.NewAgent(a.store, a.provider, a.registry, a.turns, opts...)
}
