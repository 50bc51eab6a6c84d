package segment

import (
	"github.com/pkoukk/tiktoken-go"
	"github.com/poiesic/deepread/core"
)

// BPETokenizer tokenizes with a tiktoken BPE encoding, matching the token
// accounting of OpenAI-family models. Encoding data is fetched on first use,
// so construction can fail without network access; fall back to
// WordTokenizer in offline environments.
type BPETokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewBPETokenizer creates a tokenizer for the named tiktoken encoding,
// e.g. "cl100k_base".
func NewBPETokenizer(encoding string) (*BPETokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return &BPETokenizer{enc: enc}, nil
}

// Count returns the number of BPE tokens in the text.
func (t *BPETokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Spans returns the byte range of every BPE token. BPE operates on bytes,
// so each token decodes to a fixed byte width and offsets accumulate exactly.
func (t *BPETokenizer) Spans(text string) []core.Span {
	ids := t.enc.Encode(text, nil, nil)
	spans := make([]core.Span, 0, len(ids))
	pos := 0
	for _, id := range ids {
		width := len(t.enc.Decode([]int{id}))
		spans = append(spans, core.Span{Start: pos, End: pos + width})
		pos += width
	}
	return spans
}
