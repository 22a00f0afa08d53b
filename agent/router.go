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

// Intent is the routing decision for a request, decided once at the boundary.
type Intent int

const (
	// IntentQuery runs the retrieval-augmented query pipeline.
	IntentQuery Intent = iota
	// IntentBusyStatus short-circuits with the observed busy status.
	IntentBusyStatus
	// IntentIngestDocument ingests an uploaded document file.
	IntentIngestDocument
	// IntentIngestURL ingests a scraped web page.
	IntentIngestURL
	// IntentIngestImage ingests a described image.
	IntentIngestImage
	// IntentIngestNote ingests a raw text note.
	IntentIngestNote
)

// String returns the intent name for logging.
func (i Intent) String() string {
	switch i {
	case IntentBusyStatus:
		return "busy_status"
	case IntentIngestDocument:
		return "ingest_document"
	case IntentIngestURL:
		return "ingest_url"
	case IntentIngestImage:
		return "ingest_image"
	case IntentIngestNote:
		return "ingest_note"
	default:
		return "query"
	}
}

// Route picks the pipeline for the request. Pure and total: an observed busy
// status always wins, then the declared media kind, then the query pipeline.
func Route(state State) Intent {
	if state.BusyStatus != "" {
		return IntentBusyStatus
	}

	switch state.MediaKind {
	case core.MediaDocument:
		return IntentIngestDocument
	case core.MediaURL:
		return IntentIngestURL
	case core.MediaImage:
		return IntentIngestImage
	case core.MediaNote:
		return IntentIngestNote
	}
	return IntentQuery
}
