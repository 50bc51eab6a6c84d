// Package relevance scores document segments against a query using a hybrid
// of three signals:
//
//   - Sparse: BM25-style lexical overlap, built per job over the segment set
//   - Semantic: cosine similarity of batch-computed dense embeddings
//   - Structural: a positional heuristic (neutral 0.5 when unavailable)
//
// Signals are blended with configurable weights that must sum to 1.0, so
// every relevance score lands in [0,1]. When the embedding service is
// unreachable the scorer degrades to sparse-only scoring with a logged
// warning rather than failing the job.
package relevance
