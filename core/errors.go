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

// Domain validation errors
var (
	// ErrEmptyDocument indicates the document has no extractable text.
	// This is the only fatal input-validation error: every other failure
	// degrades into low-confidence findings instead.
	ErrEmptyDocument = errors.New("document text cannot be empty")

	// ErrEmptyQuery indicates the query string is empty.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidSegment indicates a Segment failed validation.
	ErrInvalidSegment = errors.New("invalid segment")

	// ErrInvalidOffsets indicates a segment's byte offsets are inconsistent.
	ErrInvalidOffsets = errors.New("segment offsets out of order")

	// ErrNegativeDepth indicates a segment or finding carries a negative depth.
	ErrNegativeDepth = errors.New("depth cannot be negative")
)
