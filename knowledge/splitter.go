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

package knowledge

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// Default chunking parameters. Chunks overlap so sentences cut at a chunk
// boundary remain retrievable from both sides.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// defaultSeparators are tried in order, coarsest first, so chunk boundaries
// prefer paragraph breaks over mid-word cuts.
var defaultSeparators = []string{"\n\n", "\n", ".", " ", ""}

// Splitter wraps the langchaingo recursive character splitter.
type Splitter struct {
	inner textsplitter.TextSplitter
}

// NewSplitter creates a recursive character splitter with the given chunk
// size and overlap. A non-positive size and a negative overlap fall back to
// the defaults.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}

	return &Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(defaultSeparators),
		),
	}
}

// Split splits text into chunks, dropping any that are blank after trimming.
func (s *Splitter) Split(text string) ([]string, error) {
	raw, err := s.inner.SplitText(text)
	if err != nil {
		return nil, err
	}

	chunks := make([]string, 0, len(raw))
	for _, chunk := range raw {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
