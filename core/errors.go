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


package core

import "errors"

// Failure taxonomy shared across the pipelines. Pipeline code returns these
// wrapped with context; rendering to user-facing text happens once at the
// agent boundary.
var (
	// ErrInputMissing indicates an ingestion path was invoked without its
	// required input (file reference, URL, or raw text).
	ErrInputMissing = errors.New("required input missing")

	// ErrExtractionEmpty indicates extraction produced no usable text.
	ErrExtractionEmpty = errors.New("extraction produced no text")

	// ErrExternalService indicates an embedding, generation, or vector
	// index call failed.
	ErrExternalService = errors.New("external service failure")

	// ErrPartialBatch indicates one or more embedding batches failed while
	// others succeeded during a single ingestion.
	ErrPartialBatch = errors.New("partial batch failure")

	// ErrBusyConflict indicates a query arrived while an ingestion was in
	// flight for the same conversation.
	ErrBusyConflict = errors.New("conversation busy with background task")
)

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyContent indicates a text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrInvalidSourceType indicates an unrecognized SourceType value.
	ErrInvalidSourceType = errors.New("invalid source type")

	// ErrInvalidMediaKind indicates an unrecognized MediaKind value.
	ErrInvalidMediaKind = errors.New("invalid media kind")
)
