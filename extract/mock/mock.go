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

// Package mock provides test doubles for the extract interfaces.
package mock

import "context"

// DocumentExtractor is a test double for extract.DocumentExtractor.
type DocumentExtractor struct {
	// ExtractFileFunc is called by ExtractFile if set.
	// If nil, returns a fixed placeholder naming the path.
	ExtractFileFunc func(ctx context.Context, path string) (string, error)

	// LastPath records the path of the most recent call.
	LastPath string
}

// NewDocumentExtractor creates a mock document extractor.
// Note: Returns concrete type to allow test assertions.
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// ExtractFile returns placeholder text or delegates to ExtractFileFunc.
func (m *DocumentExtractor) ExtractFile(ctx context.Context, path string) (string, error) {
	m.LastPath = path

	if m.ExtractFileFunc != nil {
		return m.ExtractFileFunc(ctx, path)
	}
	return "Extracted text from " + path, nil
}

// Scraper is a test double for extract.Scraper.
type Scraper struct {
	// ScrapeFunc is called by Scrape if set.
	// If nil, returns a fixed placeholder naming the URL.
	ScrapeFunc func(ctx context.Context, url string) (string, error)

	// LastURL records the URL of the most recent call.
	LastURL string
}

// NewScraper creates a mock scraper.
// Note: Returns concrete type to allow test assertions.
func NewScraper() *Scraper {
	return &Scraper{}
}

// Scrape returns placeholder text or delegates to ScrapeFunc.
func (m *Scraper) Scrape(ctx context.Context, url string) (string, error) {
	m.LastURL = url

	if m.ScrapeFunc != nil {
		return m.ScrapeFunc(ctx, url)
	}
	return "Page text from " + url, nil
}
