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

// Package agent implements the orchestration state machine: an intent router
// that dispatches each request to the query pipeline, one of four ingestion
// pipelines, or a busy-status short circuit.
//
// Pipelines return typed errors; they are rendered to user-facing text
// exactly once, at the Invoke boundary. Background ingestion runs on a
// supervised worker pool and always clears its status registry entry and
// temporary files, on success and on failure alike.
package agent
