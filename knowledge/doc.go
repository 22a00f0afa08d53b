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

// Package knowledge implements the knowledge store: it splits documents into
// overlapping chunks, embeds them in batches, writes the resulting points to
// a vector index, and answers similarity searches over the stored chunks.
//
// Ingestion degrades rather than fails: an embedding batch that errors is
// skipped and the surviving batches are still stored. Search is fail-soft
// and returns no results instead of an error.
package knowledge
