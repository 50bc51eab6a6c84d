// Package explore runs the extraction contract over relevant segments and
// refines weak results recursively.
//
// The Explorer partitions segments into fixed-size batches and runs each
// batch concurrently on a bounded worker pool — in-flight extraction calls
// never exceed the configured ceiling, and a failed or timed-out segment
// degrades to a confidence-0 finding without touching its siblings.
//
// The DeepDiver applies the same explore-and-filter algorithm at finer
// granularities: a low-confidence segment is sub-segmented, rescored, and
// re-explored at depth+1, recursing on the most promising child until it
// converges, hits the hard depth cap, or exhausts the per-level time budget.
// The best finding seen across all attempts is always returned.
//
// The Aggregator merges findings into one cited answer: near-duplicates from
// segment overlap collapse to their highest-confidence copy, and the
// survivors are ordered by document position.
package explore
