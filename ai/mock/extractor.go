package mock

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/poiesic/deepread/ai"
)

// MockExtractor is a test double for ai.Extractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// ExtractFunc is called by Extract if set.
	// If nil, uses default word-overlap behavior.
	ExtractFunc func(ctx context.Context, query, content string) (ai.Extraction, error)

	callCount atomic.Int64
}

// NewMockExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// Extract returns a deterministic extraction based on lexical overlap between
// the query and the content. Sentences containing query words are returned
// as the extracted content; confidence is the fraction of query words found.
func (m *MockExtractor) Extract(ctx context.Context, query, content string) (ai.Extraction, error) {
	m.callCount.Add(1)

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, query, content)
	}

	queryWords := fieldsLower(query)
	if len(queryWords) == 0 {
		return ai.Extraction{}, nil
	}

	contentLower := strings.ToLower(content)
	matched := 0
	for _, w := range queryWords {
		if strings.Contains(contentLower, w) {
			matched++
		}
	}
	if matched == 0 {
		return ai.Extraction{}, nil
	}

	// Return the first sentence containing any query word
	extracted := ""
	for _, sentence := range strings.Split(content, ".") {
		lower := strings.ToLower(sentence)
		for _, w := range queryWords {
			if strings.Contains(lower, w) {
				extracted = strings.TrimSpace(sentence)
				break
			}
		}
		if extracted != "" {
			break
		}
	}

	return ai.Extraction{
		Content:    extracted,
		Confidence: float64(matched) / float64(len(queryWords)),
	}, nil
}

// CallCount returns the number of times Extract was called.
func (m *MockExtractor) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockExtractor) Reset() {
	m.callCount.Store(0)
	m.ExtractFunc = nil
}

func fieldsLower(s string) []string {
	words := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'()[]{}")
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
