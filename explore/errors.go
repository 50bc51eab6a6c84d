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


package explore

import "errors"

var (
	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrSegmenterRequired is returned when a segmenter is not provided.
	ErrSegmenterRequired = errors.New("segmenter required")

	// ErrScorerRequired is returned when a scorer is not provided.
	ErrScorerRequired = errors.New("scorer required")

	// ErrExplorerRequired is returned when an explorer is not provided.
	ErrExplorerRequired = errors.New("explorer required")

	// ErrInvalidWorkerCount is returned when the worker count is below 1.
	ErrInvalidWorkerCount = errors.New("worker count must be at least 1")

	// ErrInvalidThreshold is returned when a threshold is outside [0,1].
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")

	// ErrInvalidMaxDepth is returned when the dive configuration is unusable.
	ErrInvalidMaxDepth = errors.New("max depth and sub-segment size must be at least 1")
)
