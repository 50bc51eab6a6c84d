package deepread

import (
	"errors"
	"time"

	"github.com/poiesic/deepread/relevance"
)

// Config holds the per-job processing configuration. It is read-only once a
// job starts: workers consult it but never mutate it, so no locking is
// needed anywhere in the pipeline.
type Config struct {
	// SegmentSize is the maximum token count of a depth-0 segment.
	SegmentSize int

	// Overlap is the token overlap between consecutive segments.
	// Must be smaller than SegmentSize.
	Overlap int

	// RelevanceThreshold drops segments scoring below it before exploration.
	RelevanceThreshold float64

	// ConfidenceThreshold separates findings that stand from findings that
	// trigger a recursive deep-dive.
	ConfidenceThreshold float64

	// MaxDepth is the hard recursion cap for deep-dives.
	MaxDepth int

	// MaxParallelWorkers bounds in-flight extraction calls for the whole
	// job, at every depth. Use 1 for backends that serialize requests,
	// 5-10 for backends supporting concurrent calls.
	MaxParallelWorkers int

	// PerSegmentTimeout bounds a single extraction call. A timed-out
	// segment degrades to a confidence-0 finding.
	PerSegmentTimeout time.Duration

	// LevelTimeout bounds one deep-dive recursion level.
	LevelTimeout time.Duration

	// MinSubSegmentSize floors sub-segment token sizes during deep-dives.
	MinSubSegmentSize int

	// Weights blends the relevance signals. Must sum to 1.0.
	Weights relevance.Weights

	// Provider names the extraction backend, used to look up WorkerLimits.
	Provider string

	// WorkerLimits caps workers per provider name, overriding
	// MaxParallelWorkers for backends with known concurrency limits.
	// Passed per job, never global state, so jobs stay independently
	// testable.
	WorkerLimits map[string]int
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithSegmentSize sets the depth-0 segment size in tokens.
func WithSegmentSize(size int) Option {
	return func(c *Config) { c.SegmentSize = size }
}

// WithOverlap sets the token overlap between consecutive segments.
func WithOverlap(overlap int) Option {
	return func(c *Config) { c.Overlap = overlap }
}

// WithRelevanceThreshold sets the minimum relevance for exploration.
func WithRelevanceThreshold(threshold float64) Option {
	return func(c *Config) { c.RelevanceThreshold = threshold }
}

// WithConfidenceThreshold sets the confidence below which findings deep-dive.
func WithConfidenceThreshold(threshold float64) Option {
	return func(c *Config) { c.ConfidenceThreshold = threshold }
}

// WithMaxDepth sets the hard recursion cap.
func WithMaxDepth(depth int) Option {
	return func(c *Config) { c.MaxDepth = depth }
}

// WithMaxParallelWorkers sets the global extraction concurrency ceiling.
func WithMaxParallelWorkers(workers int) Option {
	return func(c *Config) { c.MaxParallelWorkers = workers }
}

// WithPerSegmentTimeout sets the timeout for a single extraction call.
func WithPerSegmentTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.PerSegmentTimeout = timeout }
}

// WithLevelTimeout sets the timeout for one deep-dive level.
func WithLevelTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.LevelTimeout = timeout }
}

// WithWeights sets the relevance signal blend.
func WithWeights(w relevance.Weights) Option {
	return func(c *Config) { c.Weights = w }
}

// WithProvider names the extraction backend for worker-limit lookup.
func WithProvider(name string) Option {
	return func(c *Config) { c.Provider = name }
}

// WithWorkerLimits sets per-provider worker caps.
func WithWorkerLimits(limits map[string]int) Option {
	return func(c *Config) { c.WorkerLimits = limits }
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SegmentSize:         8192,
		Overlap:             200,
		RelevanceThreshold:  0.35,
		ConfidenceThreshold: 0.7,
		MaxDepth:            3,
		MaxParallelWorkers:  5,
		PerSegmentTimeout:   30 * time.Second,
		LevelTimeout:        10 * time.Second,
		MinSubSegmentSize:   64,
		Weights:             relevance.DefaultWeights(),
	}
}

// NewConfig creates a Config with default values and applies the provided options.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Workers resolves the effective worker ceiling for this job: the
// per-provider limit when one is configured, MaxParallelWorkers otherwise.
func (c *Config) Workers() int {
	if limit, ok := c.WorkerLimits[c.Provider]; ok && limit >= 1 && limit < c.MaxParallelWorkers {
		return limit
	}
	return c.MaxParallelWorkers
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.SegmentSize < 1 {
		return errors.New("config: SegmentSize must be at least 1")
	}
	if c.Overlap < 0 || c.Overlap >= c.SegmentSize {
		return errors.New("config: Overlap must be non-negative and smaller than SegmentSize")
	}
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 1 {
		return errors.New("config: RelevanceThreshold must be between 0 and 1")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return errors.New("config: ConfidenceThreshold must be between 0 and 1")
	}
	if c.MaxDepth < 1 {
		return errors.New("config: MaxDepth must be at least 1")
	}
	if c.MaxParallelWorkers < 1 {
		return errors.New("config: MaxParallelWorkers must be at least 1")
	}
	if c.MinSubSegmentSize < 1 {
		return errors.New("config: MinSubSegmentSize must be at least 1")
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	return nil
}
