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
	"fmt"
	"strings"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
)

// promptHistoryTurns bounds how much history feeds the prompts: 3 turns,
// i.e. 6 messages.
const promptHistoryTurns = 3

const reformulationPrompt = `You are an expert at optimizing search queries for semantic vector databases.
Transform the user input into a specific, context-rich query.
Use the chat history to resolve pronouns like "it", "that", "the previous one".

If the question is standalone, just clean it up.
If the question refers to history (e.g. "What did you say about X?"), include X in the new query.
Respond with the optimized query only.`

const generationPrompt = `You are a knowledgeable personal study assistant.

The texts provided in the context are your own internal knowledge. Never say
"according to the context" or "the document says"; answer directly and with
confidence, as if teaching from memory.

Use ONLY the provided context to form your answer, without mentioning that
you are doing so. If the answer is not in the context, say: "I don't have
that specific information right now."`

const fallbackAnswer = "I don't have any information about that in your knowledge base."

// runQuery executes reformulate → retrieve → grade → generate | fallback,
// mutating the state as each stage completes.
func (a *Agent) runQuery(ctx context.Context, state *State) error {
	state.ReformulatedQuery = a.reformulate(ctx, state)

	chunks := a.store.Search(ctx, state.ReformulatedQuery)
	state.Context = make([]string, len(chunks))
	for i, chunk := range chunks {
		state.Context[i] = chunk.Text
	}

	state.IsRelevant = len(state.Context) > 0
	if !state.IsRelevant {
		state.FinalAnswer = fallbackAnswer
		return nil
	}

	answer, err := a.generate(ctx, state)
	if err != nil {
		return fmt.Errorf("%w: generating answer: %w", core.ErrExternalService, err)
	}
	state.FinalAnswer = answer
	return nil
}

// reformulate resolves references in the question against recent history to
// produce a standalone search query. A completion failure degrades to the
// raw question so retrieval still runs.
func (a *Agent) reformulate(ctx context.Context, state *State) string {
	messages := []ai.PromptMessage{
		{Role: ai.PromptSystem, Content: reformulationPrompt},
		{Role: ai.PromptHuman, Content: fmt.Sprintf(
			"Chat History:\n%s\nUser Question: %s\n\nOptimized Query:",
			formatHistory(state.History, state.Question), state.Question)},
	}

	reformulated, err := a.completer.Complete(ctx, messages)
	if err != nil {
		a.logger.Warn("query reformulation failed, using raw question", "err", err)
		return state.Question
	}

	reformulated = strings.TrimSpace(reformulated)
	if reformulated == "" {
		return state.Question
	}
	return reformulated
}

// generate produces an answer constrained to the retrieved context.
func (a *Agent) generate(ctx context.Context, state *State) (string, error) {
	messages := []ai.PromptMessage{
		{Role: ai.PromptSystem, Content: generationPrompt},
		{Role: ai.PromptHuman, Content: fmt.Sprintf(
			"Context:\n%s\n\nChat History:\n%s\nUser Question: %s",
			strings.Join(state.Context, "\n\n"),
			formatHistory(state.History, state.Question), state.Question)},
	}

	return a.completer.Complete(ctx, messages)
}

// busyAnswer is the status short-circuit response. It carries the observed
// phase string verbatim and nothing retrieval-derived.
func busyAnswer(status string) string {
	return fmt.Sprintf("I'm currently busy with a background task:\n\n"+
		"Status: %s\n\n"+
		"Please wait for it to finish before asking new questions about this material.", status)
}

// formatHistory renders the last turns as alternating Human/AI lines,
// skipping a human message that duplicates the current question.
func formatHistory(turns []core.Turn, currentQuestion string) string {
	if len(turns) > promptHistoryTurns {
		turns = turns[len(turns)-promptHistoryTurns:]
	}

	var b strings.Builder
	for _, turn := range turns {
		for _, msg := range turn.Messages() {
			if msg.Role == core.RoleHuman && msg.Content == currentQuestion {
				continue
			}
			label := "Human"
			if msg.Role == core.RoleAI {
				label = "AI"
			}
			fmt.Fprintf(&b, "%s: %s\n", label, msg.Content)
		}
	}
	return b.String()
}
