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
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/recall/core"
)

// runIngestion dispatches to the ingestion pipeline for the routed intent.
// Cleanup is owed on every exit path: the task's registry entry is deleted
// and a temporary input file is removed, success or failure.
func (a *Agent) runIngestion(ctx context.Context, state *State) (answer string, err error) {
	if state.TaskID != "" {
		defer func() {
			cleanupCtx := context.WithoutCancel(ctx)
			if derr := a.registry.Delete(cleanupCtx, state.TaskID); derr != nil {
				a.logger.Error("failed to clear task status", "task", state.TaskID, "err", derr)
			}
		}()
	}

	if state.CleanupFile && state.FilePath != "" {
		path := state.FilePath
		defer func() {
			if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
				a.logger.Error("failed to remove temporary file", "path", path, "err", rerr)
			}
		}()
	}

	switch Route(*state) {
	case IntentIngestDocument:
		return a.ingestDocument(ctx, state)
	case IntentIngestURL:
		return a.ingestURL(ctx, state)
	case IntentIngestImage:
		return a.ingestImage(ctx, state)
	case IntentIngestNote:
		return a.ingestNote(ctx, state)
	default:
		return "", ErrNotIngestion
	}
}

func (a *Agent) ingestDocument(ctx context.Context, state *State) (string, error) {
	if state.FilePath == "" {
		return "", fmt.Errorf("%w: no document file provided", core.ErrInputMissing)
	}

	name := state.FileName
	if name == "" {
		name = filepath.Base(state.FilePath)
	}

	a.setPhase(ctx, state.TaskID, "Extracting text from document...")

	text, err := a.extractor.ExtractFile(ctx, state.FilePath)
	if err != nil {
		return "", fmt.Errorf("%w: extracting %s: %w", core.ErrExtractionEmpty, name, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: document %s", core.ErrExtractionEmpty, name)
	}

	if err := a.addToStore(ctx, state, core.Document{
		Text:       text,
		Source:     name,
		SourceType: core.SourceDocument,
	}); err != nil {
		return "", err
	}

	return fmt.Sprintf("Saved the document %q to your knowledge base.", name), nil
}

func (a *Agent) ingestURL(ctx context.Context, state *State) (string, error) {
	if state.URL == "" {
		return "", fmt.Errorf("%w: no URL provided", core.ErrInputMissing)
	}

	a.setPhase(ctx, state.TaskID, fmt.Sprintf("Scraping content from %s...", state.URL))

	text, err := a.scraper.Scrape(ctx, state.URL)
	if err != nil {
		return "", fmt.Errorf("%w: scraping %s: %w", core.ErrExternalService, state.URL, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: page %s", core.ErrExtractionEmpty, state.URL)
	}

	if err := a.addToStore(ctx, state, core.Document{
		Text:       text,
		Source:     state.URL,
		SourceType: core.SourceURL,
	}); err != nil {
		return "", err
	}

	return fmt.Sprintf("Processed and saved the content of: %s", state.URL), nil
}

func (a *Agent) ingestImage(ctx context.Context, state *State) (string, error) {
	if state.FilePath == "" {
		return "", fmt.Errorf("%w: no image file provided", core.ErrInputMissing)
	}

	data, err := os.ReadFile(state.FilePath)
	if err != nil {
		return "", fmt.Errorf("%w: reading image: %w", core.ErrInputMissing, err)
	}

	a.setPhase(ctx, state.TaskID, "Analyzing image...")

	description, err := a.describer.DescribeImage(ctx, http.DetectContentType(data), data)
	if err != nil {
		return "", fmt.Errorf("%w: describing image: %w", core.ErrExternalService, err)
	}
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("%w: image description", core.ErrExtractionEmpty)
	}

	if err := a.addToStore(ctx, state, core.Document{
		Text:       description,
		Source:     "image_upload",
		SourceType: core.SourceImageDescription,
	}); err != nil {
		return "", err
	}

	return fmt.Sprintf("Image analyzed and saved.\n\nGenerated description:\n%s", description), nil
}

func (a *Agent) ingestNote(ctx context.Context, state *State) (string, error) {
	if strings.TrimSpace(state.Question) == "" {
		return "", fmt.Errorf("%w: note text is empty", core.ErrInputMissing)
	}

	if err := a.addToStore(ctx, state, core.Document{
		Text:       state.Question,
		Source:     "user_note",
		SourceType: core.SourceNote,
	}); err != nil {
		return "", err
	}

	return "Note saved to your knowledge base.", nil
}

// addToStore hands the document to the knowledge store. A partial batch
// failure is logged and treated as success: the surviving chunks are stored
// and the user still gets a confirmation.
func (a *Agent) addToStore(ctx context.Context, state *State, doc core.Document) error {
	result, err := a.store.AddDocument(ctx, doc, state.TaskID)
	if err != nil {
		if errors.Is(err, core.ErrPartialBatch) {
			a.logger.Warn("ingestion completed with partial coverage",
				"source", doc.Source,
				"stored", result.Stored,
				"failed_batches", result.FailedBatches)
			return nil
		}
		return err
	}
	return nil
}

// setPhase publishes an ingestion phase. Advisory, like the knowledge
// store's own progress updates.
func (a *Agent) setPhase(ctx context.Context, taskID, phase string) {
	if taskID == "" {
		return
	}
	if err := a.registry.Set(ctx, taskID, phase); err != nil {
		a.logger.Warn("status update failed", "task", taskID, "err", err)
	}
}

// renderAnswer converts a pipeline result into user-facing text. This is the
// single place typed errors become messages.
func renderAnswer(answer string, err error) string {
	switch {
	case err == nil:
		return answer
	case errors.Is(err, core.ErrInputMissing):
		return "Error: no input was provided to process."
	case errors.Is(err, core.ErrExtractionEmpty):
		return "Error: no usable text could be extracted from the source."
	case errors.Is(err, core.ErrExternalService):
		return "Sorry, something went wrong while processing your request. Please try again later."
	default:
		return "Sorry, an unexpected error occurred. Please try again later."
	}
}
