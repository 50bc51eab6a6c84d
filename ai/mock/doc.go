// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Extractor,
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	result, err := mockProvider.Extractor().Extract(ctx, "query", "segment text")
//
//	// Custom behavior injection
//	mockExtractor := mock.NewMockExtractor()
//	mockExtractor.ExtractFunc = func(ctx context.Context, query, content string) (ai.Extraction, error) {
//	    return ai.Extraction{Content: "canned", Confidence: 0.9}, nil
//	}
//
//	// Check call counts
//	count := mockExtractor.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockExtractor: Returns the first sentence overlapping the query, with
//     confidence equal to the fraction of query words present
//   - MockProvider: Aggregates mock embedder and extractor
package mock
