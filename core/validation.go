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

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Text must contain at least one non-whitespace character
//
// NOT validated (populated by the segmenter):
//   - TokenCount (0 is valid before tokenization)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrEmptyDocument)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return ErrEmptyDocument
	}

	return nil
}

// ValidateSegment validates a Segment according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - StartOffset must be < EndOffset and non-negative
//   - Depth must be >= 0
//   - Depth > 0 requires a parent segment
func ValidateSegment(seg *Segment) error {
	if seg == nil {
		return fmt.Errorf("%w: segment is nil", ErrInvalidSegment)
	}

	if seg.Content == "" {
		return fmt.Errorf("%w: empty content", ErrInvalidSegment)
	}

	if seg.StartOffset < 0 || seg.EndOffset <= seg.StartOffset {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrInvalidOffsets)
	}

	if seg.Depth < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrNegativeDepth)
	}

	if seg.Depth > 0 && seg.ParentId == 0 {
		return fmt.Errorf("%w: sub-segment without parent", ErrInvalidSegment)
	}

	return nil
}

// ValidateQuery checks that a query contains searchable content.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	return nil
}
