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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/poiesic/recall/ai"
	aimock "github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/core"
	extractmock "github.com/poiesic/recall/extract/mock"
	historybadger "github.com/poiesic/recall/history/badger"
	"github.com/poiesic/recall/knowledge"
	"github.com/poiesic/recall/status"
	"github.com/poiesic/recall/vectorstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	agent     *Agent
	index     *memory.Index
	store     *knowledge.Store
	registry  *status.Memory
	completer *aimock.Completer
	describer *aimock.Describer
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	index := memory.NewIndex()
	registry := status.NewMemory()

	embedder := aimock.NewEmbedder()
	completer := aimock.NewCompleter()
	describer := aimock.NewDescriber()
	provider := aimock.NewProviderWithServices(embedder, completer, describer)

	store, err := knowledge.NewStore(index, embedder, knowledge.WithRegistry(registry))
	require.NoError(t, err)

	repo, backend, err := historybadger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	ag, err := NewAgent(store, provider, registry, repo, opts...)
	require.NoError(t, err)
	t.Cleanup(ag.Release)

	return &fixture{
		agent:     ag,
		index:     index,
		store:     store,
		registry:  registry,
		completer: completer,
		describer: describer,
	}
}

func (f *fixture) ingestNote(t *testing.T, text string) {
	t.Helper()
	state := State{Question: text, MediaKind: core.MediaNote}
	require.NoError(t, f.agent.Invoke(context.Background(), &state))
	require.Equal(t, "Note saved to your knowledge base.", state.FinalAnswer)
}

func TestAskAnswersFromKnowledgeBase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ingestNote(t, "The melting point of gallium is 29.76 degrees Celsius.")

	answer, err := f.agent.Ask(ctx, "conv-1", "What is the melting point of gallium?")
	require.NoError(t, err)
	assert.NotEmpty(t, answer)
	assert.NotEqual(t, fallbackAnswer, answer)

	// Completed turn is recorded.
	turns, err := f.agent.turns.Recent(ctx, "conv-1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "What is the melting point of gallium?", turns[0].Question)
	assert.Equal(t, answer, turns[0].Answer)
}

func TestAskFallsBackOnEmptyKnowledgeBase(t *testing.T) {
	f := newFixture(t)

	answer, err := f.agent.Ask(context.Background(), "conv-1", "What is entropy?")
	require.NoError(t, err)
	assert.Equal(t, fallbackAnswer, answer)
}

func TestAskBusyShortCircuit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ingestNote(t, "The gallium melting point is unusually low for a metal.")

	const phase = "Embedding Batch 2/5 (150/500 chunks)..."
	require.NoError(t, f.registry.Set(ctx, "conv-1", phase))

	answer, err := f.agent.Ask(ctx, "conv-1", "Tell me about gallium")
	require.NoError(t, err)

	// Exact status string, no retrieval-derived content, no model calls.
	assert.Contains(t, answer, phase)
	assert.NotContains(t, answer, "gallium")
	assert.Zero(t, f.completer.CallCount())

	// Busy turns are not recorded.
	turns, err := f.agent.turns.Recent(ctx, "conv-1", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestGradingLaw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	empty := State{Question: "anything"}
	require.NoError(t, f.agent.Invoke(ctx, &empty))
	assert.False(t, empty.IsRelevant)
	assert.Equal(t, fallbackAnswer, empty.FinalAnswer)

	f.ingestNote(t, "Superconductors expel magnetic fields below a critical temperature.")

	populated := State{Question: "superconductors"}
	require.NoError(t, f.agent.Invoke(ctx, &populated))
	assert.True(t, populated.IsRelevant)
	assert.NotEmpty(t, populated.Context)
	assert.Equal(t, len(populated.Context) > 0, populated.IsRelevant)
}

func TestGenerationFailureRendersAtBoundary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ingestNote(t, "Osmium is the densest naturally occurring element.")

	// Fail only the generation call (the second Complete invocation).
	n := 0
	f.completer.CompleteFunc = func(ctx context.Context, messages []ai.PromptMessage) (string, error) {
		n++
		if n >= 2 {
			return "", errors.New("model unavailable")
		}
		return "osmium density", nil
	}

	state := State{Question: "How dense is osmium?"}
	err := f.agent.Invoke(ctx, &state)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExternalService)
	assert.Equal(t,
		"Sorry, something went wrong while processing your request. Please try again later.",
		state.FinalAnswer)
}

func TestIngestDocumentMissingInput(t *testing.T) {
	f := newFixture(t)

	state := State{MediaKind: core.MediaDocument}
	err := f.agent.Invoke(context.Background(), &state)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInputMissing)
	assert.Equal(t, "Error: no input was provided to process.", state.FinalAnswer)
}

func TestIngestDocumentFromFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Helium does not solidify at atmospheric pressure."), 0644))

	state := State{
		MediaKind: core.MediaDocument,
		FilePath:  path,
		FileName:  "notes.txt",
		TaskID:    "conv-1",
	}
	require.NoError(t, f.agent.Invoke(ctx, &state))
	assert.Equal(t, `Saved the document "notes.txt" to your knowledge base.`, state.FinalAnswer)
	assert.Positive(t, f.index.Len())

	// Registry entry is cleared after the call returns.
	_, present, err := f.registry.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.False(t, present)
}

func TestIngestURL(t *testing.T) {
	ctx := context.Background()
	scraper := extractmock.NewScraper()
	f := newFixture(t, WithScraper(scraper))

	state := State{MediaKind: core.MediaURL, URL: "https://example.com/article"}
	require.NoError(t, f.agent.Invoke(ctx, &state))
	assert.Equal(t, "Processed and saved the content of: https://example.com/article", state.FinalAnswer)
	assert.Equal(t, "https://example.com/article", scraper.LastURL)
	assert.Positive(t, f.index.Len())
}

func TestIngestImageStoresDescription(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	path := filepath.Join(t.TempDir(), "sketch.png")
	require.NoError(t, os.WriteFile(path, []byte("not a real png"), 0644))

	state := State{MediaKind: core.MediaImage, FilePath: path}
	require.NoError(t, f.agent.Invoke(ctx, &state))

	assert.Contains(t, state.FinalAnswer, "Image analyzed and saved.")
	assert.Contains(t, state.FinalAnswer, "A diagram with unlabeled axes.")
	assert.Positive(t, f.index.Len())
	assert.Equal(t, 1, f.describer.CallCount())
}

func TestIngestReportsSuccessOnPartialBatchFailure(t *testing.T) {
	ctx := context.Background()
	index := memory.NewIndex()
	registry := status.NewMemory()

	// The middle embedding batch fails; the others succeed.
	embedder := aimock.NewEmbedder()
	calls := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("rate limited")
		}
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = aimock.DeterministicVector(text, 384)
		}
		return vectors, nil
	}
	provider := aimock.NewProviderWithServices(embedder, aimock.NewCompleter(), aimock.NewDescriber())

	// A tiny chunk size and batch size turn a short note into three batches.
	store, err := knowledge.NewStore(index, embedder,
		knowledge.WithRegistry(registry),
		knowledge.WithSplitter(knowledge.NewSplitter(40, 0)),
		knowledge.WithEmbedBatchSize(2))
	require.NoError(t, err)

	repo, backend, err := historybadger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	ag, err := NewAgent(store, provider, registry, repo)
	require.NoError(t, err)
	t.Cleanup(ag.Release)

	facts := []string{
		"Neon glows orange in glass tubes.",
		"Argon fills incandescent bulbs.",
		"Krypton appears in some flash lamps.",
		"Xenon powers arc lamps in projectors.",
		"Helium lifts weather balloons.",
		"Radon seeps from granite bedrock.",
	}
	state := State{
		Question:  strings.Join(facts, "\n\n"),
		MediaKind: core.MediaNote,
		TaskID:    "conv-1",
	}

	// The call still succeeds and the user sees the normal confirmation.
	require.NoError(t, ag.Invoke(ctx, &state))
	assert.Equal(t, "Note saved to your knowledge base.", state.FinalAnswer)

	// The failed batch is skipped; the rest of the note is indexed.
	assert.Equal(t, len(facts)-2, index.Len())

	_, present, err := registry.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.False(t, present)
}

func TestScheduleIngestionCleanupOnSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	path := filepath.Join(t.TempDir(), "upload.txt")
	require.NoError(t, os.WriteFile(path, []byte("Tungsten has the highest melting point of all metals."), 0644))

	handle, err := f.agent.ScheduleIngestion(ctx, State{
		MediaKind:   core.MediaDocument,
		FilePath:    path,
		FileName:    "upload.txt",
		TaskID:      "conv-1",
		CleanupFile: true,
	})
	require.NoError(t, err)

	<-handle.Done()
	require.NoError(t, handle.Err())
	assert.Contains(t, handle.Answer(), "upload.txt")

	// Temp file released, registry key absent.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	_, present, err := f.registry.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.False(t, present)
	assert.Positive(t, f.index.Len())
}

func TestScheduleIngestionCleanupOnFailure(t *testing.T) {
	ctx := context.Background()
	extractor := extractmock.NewDocumentExtractor()
	extractor.ExtractFileFunc = func(ctx context.Context, path string) (string, error) {
		return "", errors.New("corrupt file")
	}
	f := newFixture(t, WithExtractor(extractor))

	path := filepath.Join(t.TempDir(), "broken.txt")
	require.NoError(t, os.WriteFile(path, []byte("unreadable"), 0644))

	handle, err := f.agent.ScheduleIngestion(ctx, State{
		MediaKind:   core.MediaDocument,
		FilePath:    path,
		TaskID:      "conv-1",
		CleanupFile: true,
	})
	require.NoError(t, err)

	<-handle.Done()
	require.Error(t, handle.Err())
	assert.ErrorIs(t, handle.Err(), core.ErrExtractionEmpty)
	assert.Equal(t, "Error: no usable text could be extracted from the source.", handle.Answer())

	// Cleanup holds on the failure path too.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	_, present, err := f.registry.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.False(t, present)
	assert.Zero(t, f.index.Len())
}

func TestScheduleIngestionRejectsQueries(t *testing.T) {
	f := newFixture(t)

	_, err := f.agent.ScheduleIngestion(context.Background(), State{Question: "hello"})
	assert.ErrorIs(t, err, ErrNotIngestion)
}

func TestConcurrentIngestionsKeepRegistriesIsolated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	for _, conv := range []string{"conv-a", "conv-b"} {
		wg.Add(1)
		go func(conv string) {
			defer wg.Done()
			handle, err := f.agent.ScheduleIngestion(ctx, State{
				MediaKind: core.MediaNote,
				Question:  "note for " + conv,
				TaskID:    conv,
			})
			assert.NoError(t, err)
			<-handle.Done()
			assert.NoError(t, handle.Err())
		}(conv)
	}
	wg.Wait()

	for _, conv := range []string{"conv-a", "conv-b"} {
		_, present, err := f.registry.Get(ctx, conv)
		require.NoError(t, err)
		assert.False(t, present, "registry entry for %s should be cleared", conv)
	}
	assert.Equal(t, 2, f.index.Len())
}

func TestRenderAnswer(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		err    error
		want   string
	}{
		{"success passthrough", "done", nil, "done"},
		{"input missing", "", core.ErrInputMissing, "Error: no input was provided to process."},
		{"extraction empty", "", core.ErrExtractionEmpty, "Error: no usable text could be extracted from the source."},
		{"external service", "", core.ErrExternalService, "Sorry, something went wrong while processing your request. Please try again later."},
		{"unexpected", "", errors.New("boom"), "Sorry, an unexpected error occurred. Please try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderAnswer(tt.answer, tt.err))
		})
	}
}

func TestFormatHistory(t *testing.T) {
	turns := []core.Turn{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
		{Question: "q3", Answer: "a3"},
		{Question: "q4", Answer: "a4"},
	}

	out := formatHistory(turns, "q4")
	// Bounded to the last 3 turns.
	assert.NotContains(t, out, "q1")
	assert.Contains(t, out, "Human: q2")
	assert.Contains(t, out, "AI: a3")
	// The current question's duplicate is excluded, its answer kept.
	assert.NotContains(t, out, "Human: q4")
	assert.Contains(t, out, "AI: a4")
}
