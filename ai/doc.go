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


// Package ai provides abstractions for the AI services used by deepread.
//
// This package defines interfaces for AI operations including text embeddings
// and query-focused content extraction. It follows the dependency inversion
// principle, allowing the core processing logic to depend on abstractions
// rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Extractor: Extracts query-relevant content with a confidence score
//   - Provider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types to enforce abstraction and prevent accidental coupling to
// concrete implementations. Test utility constructors (mock.NewMockEmbedder,
// mock.NewMockExtractor) return concrete types to enable test assertions and
// behavior injection via function fields.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	result, err := provider.Extractor().Extract(ctx, "what are the termination clauses?", segmentText)
package ai
