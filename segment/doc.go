// Package segment splits raw document text into ordered, overlapping,
// token-bounded segments.
//
// Segmentation is defined in token space via a pluggable Tokenizer: the
// offline WordTokenizer by default, or a tiktoken BPE tokenizer matching
// model token accounting. Every token belongs to at least one segment, and
// identical inputs always produce byte-identical boundaries.
//
// SubSegment re-applies the same algorithm inside one segment at finer
// granularity, producing depth+1 children whose offsets stay in document
// coordinates. This is the mechanism recursive deep-dives are built on.
package segment
