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

package extract

import "context"

// DocumentExtractor extracts plain text from a file on disk.
// Implementations must be thread-safe for concurrent use.
type DocumentExtractor interface {
	// ExtractFile returns the text content of the file at path.
	// A readable but content-free file yields an empty string, not an error;
	// callers decide what emptiness means.
	ExtractFile(ctx context.Context, path string) (string, error)
}

// Scraper extracts the readable text of a web page.
// Implementations must be thread-safe for concurrent use.
type Scraper interface {
	// Scrape fetches the URL and returns its visible text with markup,
	// scripts, and styles removed.
	Scrape(ctx context.Context, url string) (string, error)
}
