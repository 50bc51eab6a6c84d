package segment

import (
	"log/slog"

	"github.com/poiesic/deepread/core"
)

// Segmenter splits documents into ordered, overlapping, token-bounded
// segments. Output is deterministic: identical inputs produce byte-identical
// boundaries and identical segment IDs.
type Segmenter struct {
	tokenizer Tokenizer
	logger    *slog.Logger
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithTokenizer sets the tokenizer used to define segment boundaries.
// Default is the offline WordTokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(s *Segmenter) {
		if t != nil {
			s.tokenizer = t
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Segmenter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSegmenter creates a new segmenter.
func NewSegmenter(opts ...Option) *Segmenter {
	s := &Segmenter{
		tokenizer: NewWordTokenizer(),
		logger:    slog.Default().With("component", "segmenter"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Segment splits the document into depth-0 segments of at most size tokens,
// with consecutive segments sharing overlap tokens. Every token of the
// document belongs to at least one segment. A document of size tokens or
// fewer yields exactly one segment.
//
// For a document of N > size tokens the number of segments is
// ceil((N-overlap)/(size-overlap)).
//
// The document's TokenCount is populated as a side effect.
func (s *Segmenter) Segment(doc *core.Document, size, overlap int) ([]core.Segment, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}
	if err := validateGeometry(size, overlap); err != nil {
		return nil, err
	}

	spans := s.tokenizer.Spans(doc.Text)
	if len(spans) == 0 {
		return nil, core.ErrEmptyDocument
	}
	doc.TokenCount = len(spans)

	segments := cut(doc.Text, spans, 0, 0, 0, size, overlap)
	s.logger.Debug("segmented document",
		"tokens", doc.TokenCount,
		"segments", len(segments),
		"size", size,
		"overlap", overlap)
	return segments, nil
}

// SubSegment splits a segment into finer-grained children at depth+1.
// Child offsets remain in document coordinates so findings at any depth
// cite positions in the original text. The same coverage and determinism
// guarantees as Segment apply, scoped to the parent's content.
func (s *Segmenter) SubSegment(parent core.Segment, size, overlap int) ([]core.Segment, error) {
	if err := core.ValidateSegment(&parent); err != nil {
		return nil, err
	}
	if err := validateGeometry(size, overlap); err != nil {
		return nil, err
	}

	spans := s.tokenizer.Spans(parent.Content)
	if len(spans) == 0 {
		return nil, core.ErrEmptyDocument
	}

	children := cut(parent.Content, spans, parent.StartOffset, parent.Depth+1, parent.Id, size, overlap)
	s.logger.Debug("sub-segmented segment",
		"parent", parent.Id,
		"depth", parent.Depth+1,
		"children", len(children))
	return children, nil
}

// cut is the shared segmentation kernel. base shifts offsets into document
// coordinates when text is itself a slice of the document.
func cut(text string, spans []core.Span, base, depth int, parent core.ID, size, overlap int) []core.Segment {
	n := len(spans)
	step := size - overlap

	var segments []core.Segment
	for start, index := 0, 0; start < n; start, index = start+step, index+1 {
		end := start + size
		if end > n {
			end = n
		}

		startOff := spans[start].Start
		endOff := spans[end-1].End
		content := text[startOff:endOff]

		segments = append(segments, core.Segment{
			Id:          core.SegmentID(depth, base+startOff, base+endOff, content),
			StartOffset: base + startOff,
			EndOffset:   base + endOff,
			Content:     content,
			TokenCount:  end - start,
			ParentId:    parent,
			Depth:       depth,
			Index:       index,
		})

		if end == n {
			break
		}
	}
	return segments
}

func validateGeometry(size, overlap int) error {
	if size <= 0 {
		return ErrInvalidSegmentSize
	}
	if overlap < 0 || overlap >= size {
		return ErrOverlapTooLarge
	}
	return nil
}
