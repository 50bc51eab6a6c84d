package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated deterministically from segment content and position.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SegmentID derives the ID for a segment from its depth, document offsets,
// and content. Two segmentation runs over the same document always produce
// the same IDs.
func SegmentID(depth, start, end int, content string) ID {
	key := strconv.Itoa(depth) + ":" + strconv.Itoa(start) + ":" + strconv.Itoa(end) + ":" + content
	return IDFromContent(key)
}

// Document is the raw input to a processing job.
// All entities derived from it are ephemeral; nothing survives the job.
type Document struct {
	Text       string
	TokenCount int // Populated by the segmenter if zero
}

// Segment is a contiguous, token-bounded slice of a document, possibly
// overlapping its neighbors. Depth-0 segments trace to the document;
// deeper segments trace to a parent segment via ParentId.
type Segment struct {
	Id          ID
	StartOffset int // Byte offset into the document text (inclusive)
	EndOffset   int // Byte offset into the document text (exclusive)
	Content     string
	TokenCount  int
	ParentId    ID  // 0 for depth-0 segments
	Depth       int // 0 for segments cut directly from the document
	Index       int // Position among siblings, in document order
}

// ScoreBreakdown records the individual relevance signals before weighting.
type ScoreBreakdown struct {
	Sparse     float64 // Lexical overlap (BM25-style)
	Semantic   float64 // Embedding cosine similarity
	Structural float64 // Positional heuristic (0.5 when unavailable)
}

// ScoredSegment pairs a segment with its hybrid relevance score.
type ScoredSegment struct {
	Segment   Segment
	Relevance float64 // In [0,1]
	Breakdown ScoreBreakdown
}

// Span is a byte range within the document text.
type Span struct {
	Start int
	End   int
}

// Finding is query-relevant content extracted from exactly one segment,
// with the extraction's confidence and provenance.
type Finding struct {
	SegmentId  ID
	Query      string
	Content    string  // Extracted content; empty when extraction failed
	Confidence float64 // In [0,1]; 0 when extraction failed or timed out
	Depth      int
	Spans      []Span // Evidence spans in document coordinates
	Failed     bool   // Set when the extraction call errored or timed out
}

// Citation points a piece of the synthesized answer back at its segment.
type Citation struct {
	SegmentId ID
	Start     int
	End       int
	Depth     int
}

// Stats carries per-job processing counters for observability.
type Stats struct {
	SegmentsTotal    int
	SegmentsKept     int
	SegmentsExplored int
	DeepDives        int
	Duration         time.Duration
}

// SynthesizedAnswer is the final merged, cited result of a processing job.
type SynthesizedAnswer struct {
	Text       string
	Citations  []Citation // Ordered by document position
	Confidence float64    // Weighted average of constituent finding confidences
	Partial    bool       // True when the job degraded to a best-effort answer
	Reason     string     // Diagnostic reason when Partial is true
	Stats      Stats
}
