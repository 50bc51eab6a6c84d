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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/deepread"
	"github.com/poiesic/deepread/ai"
	"github.com/poiesic/deepread/ai/openai"
	"github.com/poiesic/deepread/core"
	"github.com/poiesic/deepread/segment"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "deepread",
		Usage: "Query documents far larger than a model context window",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Answer a query from a document file",
				ArgsUsage: "<document-file>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query to answer from the document",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible host URL for both embedding and completion",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (defaults to --host)",
					},
					&cli.StringFlag{
						Name:  "completion-host",
						Usage: "Completion service host URL (defaults to --host)",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "completion-model",
						Usage: "Completion model name used for extraction",
						Value: "qwen2.5:3b",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Maximum concurrent extraction calls (use 1 for serializing backends)",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "segment-size",
						Usage: "Maximum tokens per top-level segment",
						Value: 8192,
					},
					&cli.IntFlag{
						Name:  "overlap",
						Usage: "Token overlap between consecutive segments",
						Value: 200,
					},
					&cli.Float64Flag{
						Name:  "relevance-threshold",
						Usage: "Minimum relevance score for a segment to be explored",
						Value: 0.35,
					},
					&cli.Float64Flag{
						Name:  "confidence-threshold",
						Usage: "Confidence below which a finding triggers a deep-dive",
						Value: 0.7,
					},
					&cli.IntFlag{
						Name:  "max-depth",
						Usage: "Hard recursion cap for deep-dives",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "segment-timeout",
						Usage: "Timeout for a single extraction call",
						Value: 30 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "level-timeout",
						Usage: "Timeout for one deep-dive recursion level",
						Value: 10 * time.Second,
					},
					&cli.StringFlag{
						Name:  "encoding",
						Usage: "BPE encoding for token counting (e.g. cl100k_base); word-based when empty",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Suppress progress output",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	// Validate arguments
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one document file is required")
	}
	docPath := c.Args().First()

	if c.Int("workers") < 1 {
		return fmt.Errorf("workers must be greater than 0")
	}
	if c.Int("overlap") >= c.Int("segment-size") {
		return fmt.Errorf("overlap must be smaller than segment-size")
	}

	// Read the document
	text, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	// Hosts default to the shared --host value
	embeddingHost := c.String("embedding-host")
	if embeddingHost == "" {
		embeddingHost = c.String("host")
	}
	completionHost := c.String("completion-host")
	if completionHost == "" {
		completionHost = c.String("host")
	}

	// Create AI config
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithCompletionHost(completionHost),
		ai.WithCompletionModel(c.String("completion-model")),
	)

	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	// Create processing config
	config := deepread.NewConfig(
		deepread.WithSegmentSize(c.Int("segment-size")),
		deepread.WithOverlap(c.Int("overlap")),
		deepread.WithRelevanceThreshold(c.Float64("relevance-threshold")),
		deepread.WithConfidenceThreshold(c.Float64("confidence-threshold")),
		deepread.WithMaxDepth(c.Int("max-depth")),
		deepread.WithMaxParallelWorkers(c.Int("workers")),
		deepread.WithPerSegmentTimeout(c.Duration("segment-timeout")),
		deepread.WithLevelTimeout(c.Duration("level-timeout")),
	)

	opts := []deepread.ProcessorOption{}
	if !c.Bool("quiet") {
		opts = append(opts, deepread.WithMonitor(newConsoleMonitor(os.Stderr)))
	}
	if encoding := c.String("encoding"); encoding != "" {
		tokenizer, err := segment.NewBPETokenizer(encoding)
		if err != nil {
			return fmt.Errorf("failed to load encoding %q: %w", encoding, err)
		}
		opts = append(opts, deepread.WithTokenizer(tokenizer))
	}

	processor, err := deepread.NewProcessor(provider, config, opts...)
	if err != nil {
		return fmt.Errorf("failed to create processor: %w", err)
	}
	defer processor.Release()

	fmt.Fprintf(os.Stderr, "Document: %s (%d bytes)\n", docPath, len(text))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", embeddingHost)
	fmt.Fprintf(os.Stderr, "Completion host: %s\n", completionHost)
	fmt.Fprintln(os.Stderr)

	answer, err := processor.Process(ctx, c.String("query"), &core.Document{Text: string(text)})
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	printAnswer(answer)
	return nil
}

func printAnswer(answer *core.SynthesizedAnswer) {
	fmt.Println(answer.Text)
	fmt.Println()

	if answer.Partial {
		fmt.Printf("Partial answer: %s\n", answer.Reason)
	}
	fmt.Printf("Confidence: %.2f\n", answer.Confidence)

	if len(answer.Citations) > 0 {
		fmt.Println("Citations:")
		for _, cite := range answer.Citations {
			fmt.Printf("  [%d] bytes %d-%d (depth %d)\n", cite.SegmentId, cite.Start, cite.End, cite.Depth)
		}
	}

	s := answer.Stats
	fmt.Printf("Segments: %d total, %d kept, %d explored, %d deep-dives, %s\n",
		s.SegmentsTotal, s.SegmentsKept, s.SegmentsExplored, s.DeepDives, s.Duration.Round(time.Millisecond))
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
