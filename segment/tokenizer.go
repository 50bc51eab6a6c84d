package segment

import (
	"unicode"

	"github.com/poiesic/deepread/core"
)

// Tokenizer turns text into token boundaries. Segmentation is defined in
// token space, so the tokenizer determines both segment sizes and the byte
// offsets segments map back to.
//
// Implementations must be deterministic: identical input must always produce
// identical spans.
type Tokenizer interface {
	// Count returns the number of tokens in the text.
	Count(text string) int

	// Spans returns the byte range of every token, in order.
	// Ranges never overlap and are strictly increasing.
	Spans(text string) []core.Span
}

// WordTokenizer tokenizes on whitespace boundaries. It needs no model data,
// runs offline, and is the default tokenizer. Counts run lower than BPE
// tokenizers on the same text, so segment sizes are effectively coarser.
type WordTokenizer struct{}

// NewWordTokenizer creates a whitespace-boundary tokenizer.
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{}
}

// Count returns the number of whitespace-delimited tokens.
func (t *WordTokenizer) Count(text string) int {
	count := 0
	inToken := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inToken = false
			continue
		}
		if !inToken {
			count++
			inToken = true
		}
	}
	return count
}

// Spans returns the byte range of every whitespace-delimited token.
func (t *WordTokenizer) Spans(text string) []core.Span {
	var spans []core.Span
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, core.Span{Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, core.Span{Start: start, End: len(text)})
	}
	return spans
}
