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

import "github.com/poiesic/recall/core"

// State is the per-invocation request state. It is created at the boundary,
// mutated by the pipeline stages in sequence, and discarded once FinalAnswer
// is produced. Intermediate fields stay populated for observability.
type State struct {
	// Inputs.
	Question  string
	MediaKind core.MediaKind
	FilePath  string
	FileName  string
	URL       string
	TaskID    string

	// CleanupFile marks FilePath as a temporary resource owned by this
	// invocation; the ingestion pipeline removes it on every exit path.
	CleanupFile bool

	// BusyStatus carries the registry phase observed by the pre-query busy
	// check. A non-empty value short-circuits routing; control information
	// never travels inside the question text.
	BusyStatus string

	// History is the conversation's recent turns, loaded by the caller.
	History []core.Turn

	// Pipeline outputs.
	ReformulatedQuery string
	Context           []string
	IsRelevant        bool
	FinalAnswer       string
}
