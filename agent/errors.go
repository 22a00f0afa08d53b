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

import "errors"

var (
	// ErrStoreRequired is returned when a nil knowledge store is provided.
	ErrStoreRequired = errors.New("knowledge store is required")

	// ErrProviderRequired is returned when a nil AI provider is provided.
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrRegistryRequired is returned when a nil status registry is provided.
	ErrRegistryRequired = errors.New("status registry is required")

	// ErrHistoryRequired is returned when a nil history repository is provided.
	ErrHistoryRequired = errors.New("history repository is required")

	// ErrNotIngestion is returned when a non-ingestion request is handed to
	// the background scheduler.
	ErrNotIngestion = errors.New("request does not route to an ingestion pipeline")
)
