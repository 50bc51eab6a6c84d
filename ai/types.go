package ai

// Extraction is the result of running the extraction contract against one
// segment of text.
type Extraction struct {
	// Content is the extracted, query-relevant content. Empty when the
	// segment contains nothing relevant to the query.
	Content string

	// Confidence is a score in [0,1] indicating how well-supported the
	// extracted content is by the segment. 0 means nothing relevant found.
	Confidence float64
}
