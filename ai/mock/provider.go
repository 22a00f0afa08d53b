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


package mock

import "github.com/poiesic/recall/ai"

// Provider is a test double for ai.Provider.
// It aggregates mock embedder, completer, and describer instances.
type Provider struct {
	embedder  *Embedder
	completer *Completer
	describer *Describer
}

// NewProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetEmbedder()/GetCompleter()/GetDescriber() to access concrete types
// for test assertions.
func NewProvider() ai.Provider {
	return &Provider{
		embedder:  NewEmbedder(),
		completer: NewCompleter(),
		describer: NewDescriber(),
	}
}

// NewProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewProviderWithServices(embedder *Embedder, completer *Completer, describer *Describer) ai.Provider {
	return &Provider{
		embedder:  embedder,
		completer: completer,
		describer: describer,
	}
}

// Embedder returns the mock embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Completer returns the mock completer.
func (p *Provider) Completer() ai.Completer {
	return p.completer
}

// Describer returns the mock describer.
func (p *Provider) Describer() ai.Describer {
	return p.describer
}

// Close is a no-op for mock provider.
func (p *Provider) Close() error {
	return nil
}

// GetEmbedder returns the underlying mock embedder for test assertions.
func (p *Provider) GetEmbedder() *Embedder {
	return p.embedder
}

// GetCompleter returns the underlying mock completer for test assertions.
func (p *Provider) GetCompleter() *Completer {
	return p.completer
}

// GetDescriber returns the underlying mock describer for test assertions.
func (p *Provider) GetDescriber() *Describer {
	return p.describer
}
