package explore

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/deepread/core"
	"github.com/poiesic/deepread/relevance"
	"github.com/poiesic/deepread/segment"
)

// DiveConfig holds the tuning knobs for recursive deep-dives.
type DiveConfig struct {
	// ConfidenceThreshold is the confidence at which a dive converges.
	ConfidenceThreshold float64

	// RelevanceThreshold filters sub-segments before re-exploration.
	RelevanceThreshold float64

	// MaxDepth is the hard, confidence-independent recursion cap.
	// It guarantees termination regardless of confidence outcomes.
	MaxDepth int

	// MinSubSegmentSize floors the token size of sub-segments so recursion
	// cannot shrink segments into meaningless fragments.
	MinSubSegmentSize int

	// LevelTimeout bounds the wall-clock time of each recursion level.
	LevelTimeout time.Duration
}

// DefaultDiveConfig returns the default deep-dive tuning.
func DefaultDiveConfig() DiveConfig {
	return DiveConfig{
		ConfidenceThreshold: 0.7,
		RelevanceThreshold:  0.35,
		MaxDepth:            3,
		MinSubSegmentSize:   64,
		LevelTimeout:        10 * time.Second,
	}
}

// Validate checks the dive configuration.
func (c DiveConfig) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return ErrInvalidThreshold
	}
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 1 {
		return ErrInvalidThreshold
	}
	if c.MaxDepth < 1 {
		return ErrInvalidMaxDepth
	}
	if c.MinSubSegmentSize < 1 {
		return ErrInvalidMaxDepth
	}
	return nil
}

// DiveResult is the outcome of one deep-dive: the best finding seen across
// every attempt for the segment, the terminal state, and how many
// extraction attempts it took.
type DiveResult struct {
	Finding  core.Finding
	State    DiveState
	Attempts int
}

// DeepDiver re-explores low-confidence segments at finer granularity.
// Each dive sub-segments the target, rescopes scoring and exploration to the
// children at depth+1, and recurses on the most promising child until it
// converges, hits the depth cap, or runs out of level budget. Exploration
// and deep-dive levels share one worker pool, so the global concurrency
// ceiling holds at every depth.
type DeepDiver struct {
	segmenter *segment.Segmenter
	scorer    *relevance.Scorer
	explorer  *Explorer
	config    DiveConfig
	monitor   Monitor
	logger    *slog.Logger
}

// DiverOption configures a DeepDiver.
type DiverOption func(*DeepDiver)

// WithDiverMonitor sets the progress monitor.
// Default is a no-op monitor.
func WithDiverMonitor(m Monitor) DiverOption {
	return func(d *DeepDiver) {
		if m != nil {
			d.monitor = m
		}
	}
}

// WithDiverLogger sets a custom logger.
// Default is slog.Default().
func WithDiverLogger(logger *slog.Logger) DiverOption {
	return func(d *DeepDiver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDeepDiver creates a new deep diver.
func NewDeepDiver(segmenter *segment.Segmenter, scorer *relevance.Scorer, explorer *Explorer, config DiveConfig, opts ...DiverOption) (*DeepDiver, error) {
	if segmenter == nil {
		return nil, ErrSegmenterRequired
	}
	if scorer == nil {
		return nil, ErrScorerRequired
	}
	if explorer == nil {
		return nil, ErrExplorerRequired
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	d := &DeepDiver{
		segmenter: segmenter,
		scorer:    scorer,
		explorer:  explorer,
		config:    config,
		monitor:   NoopMonitor(),
		logger:    slog.Default().With("component", "deepdiver"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// DeepDive refines a low-confidence finding by recursively re-exploring its
// segment at finer granularity. The returned finding is the best-confidence
// finding seen across all attempts — never worse than the base finding.
// Termination is guaranteed: depth strictly increases toward MaxDepth, and
// each level is bounded by LevelTimeout.
func (d *DeepDiver) DeepDive(ctx context.Context, query string, seg core.Segment, base core.Finding) DiveResult {
	result := DiveResult{Finding: base, State: DivePending}
	result.State = d.dive(ctx, query, seg, &result)

	d.monitor.DiveFinished(seg.Id, result.State, result.Finding.Confidence)
	d.logger.Debug("deep dive finished",
		"segment", seg.Id,
		"state", result.State.String(),
		"confidence", result.Finding.Confidence,
		"attempts", result.Attempts)
	return result
}

// dive runs one recursion level for seg and returns the terminal state.
// The best finding and attempt count accumulate in result across levels.
func (d *DeepDiver) dive(ctx context.Context, query string, seg core.Segment, result *DiveResult) DiveState {
	childDepth := seg.Depth + 1
	if childDepth >= d.config.MaxDepth {
		return DiveMaxDepthReached
	}
	if err := ctx.Err(); err != nil {
		return DiveTimedOut
	}

	d.monitor.DiveStarted(seg.Id, childDepth)

	levelCtx, cancel := context.WithTimeout(ctx, d.config.LevelTimeout)
	defer cancel()

	// SUB_SEGMENTING: quarter the granularity, floored.
	result.State = DiveSubSegmenting
	subSize := seg.TokenCount / 4
	if subSize < d.config.MinSubSegmentSize {
		subSize = d.config.MinSubSegmentSize
	}
	if subSize >= seg.TokenCount {
		// Segment too small to split further; the chain is exhausted.
		return DiveMaxDepthReached
	}
	overlap := subSize / 10

	children, err := d.segmenter.SubSegment(seg, subSize, overlap)
	if err != nil || len(children) <= 1 {
		d.logger.Debug("segment cannot be refined", "segment", seg.Id, "err", err)
		return DiveMaxDepthReached
	}

	scored, err := d.scorer.Score(levelCtx, query, children)
	if err != nil {
		if levelCtx.Err() != nil {
			return DiveTimedOut
		}
		d.logger.Warn("sub-segment scoring failed", "segment", seg.Id, "err", err)
		return DiveMaxDepthReached
	}

	kept := relevance.Filter(scored, d.config.RelevanceThreshold)
	if len(kept) == 0 {
		// Nothing passes the filter at this granularity; explore the whole
		// set rather than giving up on the dive.
		kept = scored
	}

	// EXPLORING: same extraction contract, scoped to this segment at depth+1.
	result.State = DiveExploring
	findings, exploreErr := d.explorer.ExploreBatch(levelCtx, query, kept)
	result.Attempts += len(findings)

	var bestChild *core.Segment
	bestChildConfidence := -1.0
	for i, f := range findings {
		if f.Failed {
			continue
		}
		if f.Confidence > result.Finding.Confidence {
			result.Finding = f
		}
		if f.Confidence > bestChildConfidence {
			bestChildConfidence = f.Confidence
			bestChild = &kept[i].Segment
		}
	}

	if result.Finding.Confidence >= d.config.ConfidenceThreshold {
		return DiveConverged
	}
	if exploreErr != nil || levelCtx.Err() != nil {
		if ctx.Err() == nil && levelCtx.Err() != nil {
			d.logger.Warn("deep dive level timed out", "segment", seg.Id, "depth", childDepth)
		}
		return DiveTimedOut
	}
	if bestChild == nil {
		// Every child extraction failed at this level.
		return DiveMaxDepthReached
	}

	// Recurse on the most promising child. The per-level timeout restarts;
	// the depth cap still bounds the chain.
	return d.dive(ctx, query, *bestChild, result)
}
