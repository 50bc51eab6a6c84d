// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package deepread answers queries over documents far larger than a model
// context window. A document is segmented into overlapping token-bounded
// slices, scored for relevance with hybrid sparse+dense signals, explored
// with bounded concurrency, recursively refined where confidence is weak,
// and aggregated into a single cited answer.
package deepread

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/deepread/ai"
	"github.com/poiesic/deepread/core"
	"github.com/poiesic/deepread/explore"
	"github.com/poiesic/deepread/relevance"
	"github.com/poiesic/deepread/segment"
)

// Processor runs complete query-answering jobs over oversized documents.
// All state derived from a document lives and dies within one Process call;
// the processor itself only holds wiring and read-only configuration.
type Processor struct {
	segmenter  *segment.Segmenter
	scorer     *relevance.Scorer
	explorer   *explore.Explorer
	diver      *explore.DeepDiver
	aggregator *explore.Aggregator
	config     *Config
	monitor    explore.Monitor
	logger     *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*processorOptions)

type processorOptions struct {
	monitor   explore.Monitor
	tokenizer segment.Tokenizer
	logger    *slog.Logger
}

// WithMonitor attaches a progress monitor. Notifications are one-way; the
// monitor cannot pause or alter processing. Default is a no-op monitor.
func WithMonitor(m explore.Monitor) ProcessorOption {
	return func(o *processorOptions) {
		if m != nil {
			o.monitor = m
		}
	}
}

// WithTokenizer sets the tokenizer defining segment boundaries.
// Default is the offline word tokenizer.
func WithTokenizer(t segment.Tokenizer) ProcessorOption {
	return func(o *processorOptions) {
		if t != nil {
			o.tokenizer = t
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(o *processorOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewProcessor wires a processor from an AI provider and a job configuration.
func NewProcessor(provider ai.Provider, config *Config, opts ...ProcessorOption) (*Processor, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	options := &processorOptions{
		monitor: explore.NoopMonitor(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	segOpts := []segment.Option{segment.WithLogger(options.logger)}
	if options.tokenizer != nil {
		segOpts = append(segOpts, segment.WithTokenizer(options.tokenizer))
	}
	segmenter := segment.NewSegmenter(segOpts...)

	scorer, err := relevance.NewScorer(provider.Embedder(),
		relevance.WithWeights(config.Weights),
		relevance.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	explorer, err := explore.NewExplorer(provider.Extractor(), config.Workers(), config.PerSegmentTimeout,
		explore.WithExplorerMonitor(options.monitor),
		explore.WithExplorerLogger(options.logger))
	if err != nil {
		return nil, err
	}

	diver, err := explore.NewDeepDiver(segmenter, scorer, explorer, explore.DiveConfig{
		ConfidenceThreshold: config.ConfidenceThreshold,
		RelevanceThreshold:  config.RelevanceThreshold,
		MaxDepth:            config.MaxDepth,
		MinSubSegmentSize:   config.MinSubSegmentSize,
		LevelTimeout:        config.LevelTimeout,
	},
		explore.WithDiverMonitor(options.monitor),
		explore.WithDiverLogger(options.logger))
	if err != nil {
		explorer.Release()
		return nil, err
	}

	return &Processor{
		segmenter:  segmenter,
		scorer:     scorer,
		explorer:   explorer,
		diver:      diver,
		aggregator: explore.NewAggregator(explore.WithAggregatorLogger(options.logger)),
		config:     config,
		monitor:    options.monitor,
		logger:     options.logger,
	}, nil
}

// Process answers the query from the document and returns a synthesized,
// cited answer. The only fatal input error is an empty document (or empty
// query); every downstream failure — provider errors, timeouts, embedding
// outages, exhausted recursion — degrades into a partial answer instead.
//
// On context cancellation the findings gathered so far are aggregated into a
// partial answer returned alongside the context error.
func (p *Processor) Process(ctx context.Context, query string, doc *core.Document) (*core.SynthesizedAnswer, error) {
	start := time.Now()

	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	p.monitor.Start(query)
	var stats core.Stats

	// Phase 1: segment.
	segments, err := p.segmenter.Segment(doc, p.config.SegmentSize, p.config.Overlap)
	if err != nil {
		return nil, err
	}
	stats.SegmentsTotal = len(segments)
	p.monitor.AfterSegmentation(len(segments))

	// A document that fits one segment needs no recursion at all.
	fastPath := len(segments) == 1
	if fastPath {
		p.logger.Debug("document fits a single segment, skipping recursion")
	}

	// Phase 2: score and filter.
	scored, err := p.scorer.Score(ctx, query, segments)
	if err != nil {
		return nil, err
	}
	kept := relevance.Filter(scored, p.config.RelevanceThreshold)
	stats.SegmentsKept = len(kept)
	p.monitor.AfterScoring(len(kept), len(segments))

	if len(kept) == 0 {
		answer := p.finish(core.SynthesizedAnswer{
			Citations: []core.Citation{},
			Partial:   true,
			Reason:    "no segments passed the relevance filter",
		}, stats, start)
		return answer, nil
	}

	// Phase 3: explore relevant segments with bounded concurrency.
	findings, exploreErr := p.explorer.ExploreBatch(ctx, query, kept)
	stats.SegmentsExplored = len(findings)
	if exploreErr != nil {
		answer := p.aggregator.Aggregate(query, findings)
		answer.Partial = true
		answer.Reason = "processing cancelled"
		return p.finish(answer, stats, start), exploreErr
	}

	// Phase 4: deep-dive low-confidence findings. Dives run sequentially;
	// each dive's sub-exploration reuses the shared pool, keeping the
	// global concurrency ceiling intact.
	if !fastPath {
		for i, f := range findings {
			if f.Confidence >= p.config.ConfidenceThreshold {
				continue
			}
			if ctx.Err() != nil {
				break
			}
			result := p.diver.DeepDive(ctx, query, kept[i].Segment, f)
			findings[i] = result.Finding
			stats.DeepDives++
		}
	}

	// Phase 5: aggregate.
	answer := p.aggregator.Aggregate(query, findings)
	if answer.Partial && stats.DeepDives > 0 {
		answer.Reason = "all extraction attempts failed at every depth"
	}
	return p.finish(answer, stats, start), nil
}

// Release releases the shared worker pool.
// The processor should not be used after calling Release.
func (p *Processor) Release() {
	p.explorer.Release()
}

func (p *Processor) finish(answer core.SynthesizedAnswer, stats core.Stats, start time.Time) *core.SynthesizedAnswer {
	stats.Duration = time.Since(start)
	answer.Stats = stats
	p.monitor.Finish(&answer)
	p.logger.Info("processing complete",
		"segments", stats.SegmentsTotal,
		"kept", stats.SegmentsKept,
		"explored", stats.SegmentsExplored,
		"dives", stats.DeepDives,
		"confidence", answer.Confidence,
		"duration", stats.Duration)
	return &answer
}
