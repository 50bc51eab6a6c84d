package ai

import "context"

// Embedder generates vector embeddings from text for semantic relevance scoring.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Extractor pulls query-relevant content out of a segment of text.
// Implementations must be thread-safe for concurrent use.
type Extractor interface {
	// Extract analyzes the segment content against the query and returns the
	// extracted content together with the model's confidence that the content
	// actually answers the query. Returns an Extraction with empty content
	// and zero confidence when the segment holds nothing relevant.
	// Returns an error if the extraction call fails.
	Extract(ctx context.Context, query, content string) (Extraction, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Extractor instances, ensuring
// they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Extractor returns the content extraction service.
	// The returned Extractor is safe for concurrent use.
	Extractor() Extractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
