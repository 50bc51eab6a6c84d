package explore

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/deepread/core"
)

// Aggregator merges findings into a synthesized, cited answer. Overlapping
// segments frequently extract near-identical content; the aggregator
// collapses those duplicates and orders what remains by document position
// for narrative coherence. Confidence is used only for filtering and
// duplicate resolution, never for ordering.
type Aggregator struct {
	dedupeThreshold float64
	logger          *slog.Logger
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithDedupeThreshold sets the token-overlap ratio above which two findings
// count as duplicates. Default is 0.85.
func WithDedupeThreshold(threshold float64) AggregatorOption {
	return func(a *Aggregator) {
		if threshold > 0 && threshold <= 1 {
			a.dedupeThreshold = threshold
		}
	}
}

// WithAggregatorLogger sets a custom logger.
// Default is slog.Default().
func WithAggregatorLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAggregator creates a new aggregator.
func NewAggregator(opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		dedupeThreshold: 0.85,
		logger:          slog.Default().With("component", "aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate merges findings into one answer. The result is independent of
// input order: findings are canonically sorted by document position before
// deduplication, so any permutation of the same finding set yields identical
// text and citations. Zero usable findings produce a partial answer with a
// diagnostic reason, never an error.
func (a *Aggregator) Aggregate(query string, findings []core.Finding) core.SynthesizedAnswer {
	usable := make([]core.Finding, 0, len(findings))
	for _, f := range findings {
		if f.Failed || f.Content == "" || f.Confidence == 0 {
			continue
		}
		usable = append(usable, f)
	}

	sortByPosition(usable)
	merged := a.dedupe(usable)
	sortByPosition(merged)

	if len(merged) == 0 {
		return core.SynthesizedAnswer{
			Citations: []core.Citation{},
			Partial:   true,
			Reason:    "no usable findings extracted",
		}
	}

	parts := make([]string, 0, len(merged))
	citations := make([]core.Citation, 0, len(merged))
	var weightedConfidence, totalWeight float64

	for _, f := range merged {
		parts = append(parts, f.Content)
		for _, span := range f.Spans {
			citations = append(citations, core.Citation{
				SegmentId: f.SegmentId,
				Start:     span.Start,
				End:       span.End,
				Depth:     f.Depth,
			})
		}
		weight := float64(len(f.Content))
		weightedConfidence += f.Confidence * weight
		totalWeight += weight
	}

	confidence := 0.0
	if totalWeight > 0 {
		confidence = weightedConfidence / totalWeight
	}

	a.logger.Debug("aggregated findings",
		"input", len(findings),
		"usable", len(usable),
		"merged", len(merged),
		"confidence", confidence)

	return core.SynthesizedAnswer{
		Text:       strings.Join(parts, "\n\n"),
		Citations:  citations,
		Confidence: confidence,
	}
}

// dedupe collapses near-duplicate findings, keeping the highest-confidence
// copy of each duplicate group. Input must already be position-sorted so the
// scan is deterministic.
func (a *Aggregator) dedupe(findings []core.Finding) []core.Finding {
	kept := make([]core.Finding, 0, len(findings))
	keptTokens := make([]map[string]bool, 0, len(findings))

	for _, candidate := range findings {
		tokens := tokenSet(candidate.Content)

		duplicate := false
		for i, existing := range kept {
			if jaccard(tokens, keptTokens[i]) >= a.dedupeThreshold {
				duplicate = true
				if candidate.Confidence > existing.Confidence {
					kept[i] = candidate
					keptTokens[i] = tokens
				}
				break
			}
		}
		if !duplicate {
			kept = append(kept, candidate)
			keptTokens = append(keptTokens, tokens)
		}
	}
	return kept
}

// sortByPosition orders findings by their first evidence span, breaking ties
// by depth then segment ID so the ordering is total and deterministic.
func sortByPosition(findings []core.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		aStart, bStart := spanStart(a), spanStart(b)
		if aStart != bStart {
			return aStart < bStart
		}
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		return a.SegmentId < b.SegmentId
	})
}

func spanStart(f core.Finding) int {
	if len(f.Spans) == 0 {
		return 0
	}
	return f.Spans[0].Start
}

// tokenSet lowercases and splits content into a set of words for
// duplicate detection.
func tokenSet(text string) map[string]bool {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:'\"-()[]{}")
		if w != "" {
			set[w] = true
		}
	}
	return set
}

// jaccard computes |a∩b| / |a∪b| for two token sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for tok := range a {
		if b[tok] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
