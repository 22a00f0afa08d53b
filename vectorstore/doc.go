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


// Package vectorstore defines the vector index abstraction used by the
// knowledge store.
//
// Points are written once at ingestion time and never mutated, only
// searched. Two implementations are provided:
//
//   - vectorstore/pgvector: production index on Postgres with the pgvector
//     extension
//   - vectorstore/memory: in-memory cosine index for tests and local runs
package vectorstore
