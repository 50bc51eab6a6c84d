package explore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/deepread/ai"
	"github.com/poiesic/deepread/core"
)

// Explorer runs the extraction contract over relevant segments with bounded
// concurrency. Segments are partitioned into fixed-size batches; within a
// batch all extractions run concurrently on a shared worker pool, batches
// run sequentially. The pool's capacity is the hard ceiling on in-flight
// extraction calls — deep-dive sub-exploration shares the same pool, so the
// ceiling is global to the job.
type Explorer struct {
	extractor ai.Extractor
	pool      *ants.Pool
	workers   int
	timeout   time.Duration
	monitor   Monitor
	logger    *slog.Logger
}

// ExplorerOption configures an Explorer.
type ExplorerOption func(*Explorer)

// WithExplorerMonitor sets the progress monitor.
// Default is a no-op monitor.
func WithExplorerMonitor(m Monitor) ExplorerOption {
	return func(e *Explorer) {
		if m != nil {
			e.monitor = m
		}
	}
}

// WithExplorerLogger sets a custom logger.
// Default is slog.Default().
func WithExplorerLogger(logger *slog.Logger) ExplorerOption {
	return func(e *Explorer) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExplorer creates a new explorer.
// workers bounds concurrent extraction calls: 1 serializes everything (for
// backends that reject concurrent calls), 5-10 suits concurrent backends.
// timeout applies per segment; a timed-out segment degrades to a
// confidence-0 finding without affecting its siblings.
func NewExplorer(extractor ai.Extractor, workers int, timeout time.Duration, opts ...ExplorerOption) (*Explorer, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if workers < 1 {
		return nil, ErrInvalidWorkerCount
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}

	e := &Explorer{
		extractor: extractor,
		pool:      pool,
		workers:   workers,
		timeout:   timeout,
		monitor:   NoopMonitor(),
		logger:    slog.Default().With("component", "explorer"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ExploreBatch extracts query-relevant content from every segment, returning
// one finding per segment in input order. Extraction failures and timeouts
// are absorbed into confidence-0 findings with the Failed flag set.
//
// Cancellation is cooperative and checked only at batch boundaries: segments
// of an already-started batch finish, no new batch starts. On cancellation
// the findings collected so far are returned alongside the context error.
func (e *Explorer) ExploreBatch(ctx context.Context, query string, scored []core.ScoredSegment) ([]core.Finding, error) {
	if len(scored) == 0 {
		return []core.Finding{}, nil
	}

	findings := make([]core.Finding, len(scored))
	depth := scored[0].Segment.Depth

	for batchStart := 0; batchStart < len(scored); batchStart += e.workers {
		if err := ctx.Err(); err != nil {
			e.logger.Debug("exploration cancelled at batch boundary",
				"processed", batchStart, "total", len(scored))
			return findings[:batchStart], err
		}

		batchEnd := batchStart + e.workers
		if batchEnd > len(scored) {
			batchEnd = len(scored)
		}

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			idx := i
			seg := scored[i].Segment
			wg.Add(1)
			if err := e.pool.Submit(func() {
				defer wg.Done()
				findings[idx] = e.extractOne(ctx, query, seg)
			}); err != nil {
				// Pool rejected the task (released or overcommitted):
				// degrade this segment, keep the batch going.
				wg.Done()
				e.logger.Error("worker pool rejected extraction task", "segment", seg.Id, "err", err)
				findings[idx] = failedFinding(query, seg)
			}
		}
		wg.Wait()

		e.monitor.BatchCompleted(depth, batchEnd, len(scored))
	}

	return findings, nil
}

// Release releases the worker pool.
// The explorer should not be used after calling Release.
func (e *Explorer) Release() {
	e.pool.Release()
}

// extractOne runs one extraction call under the per-segment timeout.
func (e *Explorer) extractOne(ctx context.Context, query string, seg core.Segment) core.Finding {
	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	result, err := e.extractor.Extract(callCtx, query, seg.Content)
	if err != nil {
		e.logger.Warn("extraction failed for segment",
			"segment", seg.Id, "depth", seg.Depth, "err", err)
		return failedFinding(query, seg)
	}

	return core.Finding{
		SegmentId:  seg.Id,
		Query:      query,
		Content:    result.Content,
		Confidence: result.Confidence,
		Depth:      seg.Depth,
		Spans:      []core.Span{{Start: seg.StartOffset, End: seg.EndOffset}},
	}
}

// failedFinding is the degraded result for a segment whose extraction
// errored or timed out. Failure is local: siblings are unaffected.
func failedFinding(query string, seg core.Segment) core.Finding {
	return core.Finding{
		SegmentId: seg.Id,
		Query:     query,
		Depth:     seg.Depth,
		Spans:     []core.Span{{Start: seg.StartOffset, End: seg.EndOffset}},
		Failed:    true,
	}
}
