package relevance

import "math"

// BM25 parameters. Standard values from the literature; not worth configuring
// until a corpus shows they matter.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// bm25Index is a per-job lexical index over segment contents. It is built
// once per Score call and discarded with the job.
type bm25Index struct {
	termFreqs []map[string]int
	docLens   []int
	docFreq   map[string]int
	avgLen    float64
}

// newBM25Index tokenizes the segment contents and builds term statistics.
func newBM25Index(contents []string) *bm25Index {
	idx := &bm25Index{
		termFreqs: make([]map[string]int, len(contents)),
		docLens:   make([]int, len(contents)),
		docFreq:   make(map[string]int),
	}

	totalLen := 0
	for i, content := range contents {
		tokens := tokenizeAndFilter(content)
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		idx.termFreqs[i] = tf
		idx.docLens[i] = len(tokens)
		totalLen += len(tokens)

		for term := range tf {
			idx.docFreq[term]++
		}
	}

	if len(contents) > 0 {
		idx.avgLen = float64(totalLen) / float64(len(contents))
	}
	return idx
}

// scores computes the BM25 score of the query against every document,
// normalized to [0,1] by the highest-scoring document. All-zero rows stay
// zero so a query with no lexical overlap scores nothing everywhere.
func (idx *bm25Index) scores(query string) []float64 {
	queryTerms := tokenizeAndFilter(query)
	raw := make([]float64, len(idx.termFreqs))
	n := float64(len(idx.termFreqs))

	for i, tf := range idx.termFreqs {
		docLen := float64(idx.docLens[i])
		norm := 1.0
		if idx.avgLen > 0 {
			norm = 1 - bm25B + bm25B*docLen/idx.avgLen
		}

		score := 0.0
		for _, term := range queryTerms {
			freq := float64(tf[term])
			if freq == 0 {
				continue
			}
			df := float64(idx.docFreq[term])
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			score += idf * freq * (bm25K1 + 1) / (freq + bm25K1*norm)
		}
		raw[i] = score
	}

	maxScore := 0.0
	for _, s := range raw {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore > 0 {
		for i := range raw {
			raw[i] /= maxScore
		}
	}
	return raw
}
