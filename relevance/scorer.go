package relevance

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/poiesic/deepread/ai"
	"github.com/poiesic/deepread/core"
)

// Weights controls the blend of relevance signals. The three weights must
// sum to 1.0 so the combined score stays in [0,1].
type Weights struct {
	Sparse     float64
	Semantic   float64
	Structural float64
}

// DefaultWeights returns the default signal blend.
// These are a tunable starting point, not a calibrated optimum.
func DefaultWeights() Weights {
	return Weights{Sparse: 0.4, Semantic: 0.5, Structural: 0.1}
}

// Validate checks that all weights are non-negative and sum to 1.0.
func (w Weights) Validate() error {
	if w.Sparse < 0 || w.Semantic < 0 || w.Structural < 0 {
		return ErrNegativeWeight
	}
	if math.Abs(w.Sparse+w.Semantic+w.Structural-1.0) > 1e-9 {
		return ErrWeightSum
	}
	return nil
}

// Scorer computes hybrid relevance scores for segments against a query.
// Sparse lexical scoring is always available; semantic scoring depends on
// the embedding service and degrades to sparse-only when it is unreachable.
type Scorer struct {
	embedder       ai.Embedder
	weights        Weights
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights sets the signal blend. Default is DefaultWeights().
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// WithRetry configures the retry policy guarding embedding calls before the
// scorer degrades to sparse-only mode. Defaults: 2 attempts, 500ms base delay.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(s *Scorer) {
		s.maxRetries = maxRetries
		s.retryBaseDelay = baseDelay
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScorer creates a new scorer.
func NewScorer(embedder ai.Embedder, opts ...Option) (*Scorer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Scorer{
		embedder:       embedder,
		weights:        DefaultWeights(),
		maxRetries:     2,
		retryBaseDelay: 500 * time.Millisecond,
		logger:         slog.Default().With("component", "scorer"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.weights.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Score computes a relevance score in [0,1] for every segment, preserving
// input order. Embeddings for all segments are computed in a single batched
// call. If the embedding service fails after retries, the scorer folds the
// semantic weight into the sparse signal, logs a warning, and continues —
// embedder unavailability is never fatal to the job.
func (s *Scorer) Score(ctx context.Context, query string, segments []core.Segment) ([]core.ScoredSegment, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return []core.ScoredSegment{}, nil
	}

	contents := make([]string, len(segments))
	for i, seg := range segments {
		contents[i] = seg.Content
	}

	sparse := newBM25Index(contents).scores(query)
	semantic, degraded := s.semanticScores(ctx, query, contents)

	weights := s.weights
	if degraded {
		// Sparse carries the semantic weight so totals still sum to 1.0.
		weights.Sparse += weights.Semantic
		weights.Semantic = 0
	}

	scored := make([]core.ScoredSegment, len(segments))
	for i, seg := range segments {
		breakdown := core.ScoreBreakdown{
			Sparse:     sparse[i],
			Structural: structuralScore(seg, len(segments)),
		}
		if !degraded {
			breakdown.Semantic = semantic[i]
		}

		relevance := weights.Sparse*breakdown.Sparse +
			weights.Semantic*breakdown.Semantic +
			weights.Structural*breakdown.Structural

		scored[i] = core.ScoredSegment{
			Segment:   seg,
			Relevance: clamp01(relevance),
			Breakdown: breakdown,
		}
	}
	return scored, nil
}

// Filter drops segments scoring below the threshold, preserving document
// order. Ties keep their original order; no re-sorting happens here.
func Filter(scored []core.ScoredSegment, threshold float64) []core.ScoredSegment {
	kept := make([]core.ScoredSegment, 0, len(scored))
	for _, ss := range scored {
		if ss.Relevance >= threshold {
			kept = append(kept, ss)
		}
	}
	return kept
}

// semanticScores embeds the query and all segment contents (one batch call)
// and returns per-segment cosine similarities. The second return is true
// when the scorer degraded to sparse-only mode.
func (s *Scorer) semanticScores(ctx context.Context, query string, contents []string) ([]float64, bool) {
	var queryVec []float32
	var segVecs [][]float32

	err := ai.RetryWithBackoff(ctx, func() error {
		var err error
		queryVec, err = s.embedder.EmbedText(ctx, query)
		if err != nil {
			return err
		}
		segVecs, err = s.embedder.EmbedTexts(ctx, contents)
		return err
	}, s.maxRetries, s.retryBaseDelay)

	if err != nil {
		s.logger.Warn("embedding service unavailable, degrading to sparse-only scoring", "err", err)
		return nil, true
	}
	if len(segVecs) != len(contents) || len(queryVec) == 0 {
		s.logger.Warn("embedding result mismatch, degrading to sparse-only scoring",
			"expected", len(contents), "received", len(segVecs))
		return nil, true
	}

	queryVec = NormalizeVector(queryVec)
	scores := make([]float64, len(contents))
	for i, vec := range segVecs {
		scores[i] = CosineSimilarity(queryVec, vec)
	}
	return scores, false
}

// structuralScore is a positional heuristic: document openings and closings
// tend to summarize. Sub-segments carry no document-level position, so they
// get the neutral score.
func structuralScore(seg core.Segment, total int) float64 {
	if seg.Depth > 0 || total <= 1 {
		return 0.5
	}
	switch seg.Index {
	case 0:
		return 0.7
	case total - 1:
		return 0.6
	default:
		return 0.5
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
