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

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Source must not be empty
//   - SourceType must be a recognized value
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if doc.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySource)
	}

	if err := ValidateSourceType(doc.SourceType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateSourceType validates that a SourceType has a recognized value.
func ValidateSourceType(st SourceType) error {
	switch st {
	case SourceDocument, SourceURL, SourceImageDescription, SourceNote:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidSourceType, st)
}

// ValidateMediaKind validates that a MediaKind has a recognized value.
// MediaNone is valid: it marks a plain query.
func ValidateMediaKind(mk MediaKind) error {
	switch mk {
	case MediaNone, MediaDocument, MediaURL, MediaImage, MediaNote:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidMediaKind, mk)
}
