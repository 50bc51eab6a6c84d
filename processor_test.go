package deepread

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/deepread/ai/mock"
	"github.com/poiesic/deepread/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillerDocument builds a document of n distinct filler words, with extra
// words spliced in at the given token position.
func fillerDocument(n int, at int, extra ...string) *core.Document {
	words := make([]string, 0, n+len(extra))
	for i := 0; i < n; i++ {
		if i == at {
			words = append(words, extra...)
		}
		words = append(words, fmt.Sprintf("filler%d", i))
	}
	return &core.Document{Text: strings.Join(words, " ")}
}

func TestNewProcessor(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		p, err := NewProcessor(mock.NewMockProvider(), DefaultConfig())
		require.NoError(t, err)
		defer p.Release()
		assert.NotNil(t, p)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		p, err := NewProcessor(mock.NewMockProvider(), nil)
		require.NoError(t, err)
		defer p.Release()
		assert.NotNil(t, p)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewProcessor(nil, DefaultConfig())
		assert.ErrorIs(t, err, ErrProviderRequired)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Overlap = cfg.SegmentSize
		_, err := NewProcessor(mock.NewMockProvider(), cfg)
		assert.Error(t, err)
	})
}

func TestConfigWorkers(t *testing.T) {
	t.Run("default ceiling", func(t *testing.T) {
		cfg := NewConfig(WithMaxParallelWorkers(5))
		assert.Equal(t, 5, cfg.Workers())
	})

	t.Run("provider limit tightens the ceiling", func(t *testing.T) {
		cfg := NewConfig(
			WithMaxParallelWorkers(5),
			WithProvider("local-ollama"),
			WithWorkerLimits(map[string]int{"local-ollama": 1}),
		)
		assert.Equal(t, 1, cfg.Workers())
	})

	t.Run("unknown provider keeps the ceiling", func(t *testing.T) {
		cfg := NewConfig(
			WithMaxParallelWorkers(5),
			WithProvider("other"),
			WithWorkerLimits(map[string]int{"local-ollama": 1}),
		)
		assert.Equal(t, 5, cfg.Workers())
	})

	t.Run("limit above the ceiling is ignored", func(t *testing.T) {
		cfg := NewConfig(
			WithMaxParallelWorkers(5),
			WithProvider("fast"),
			WithWorkerLimits(map[string]int{"fast": 50}),
		)
		assert.Equal(t, 5, cfg.Workers())
	})
}

func TestProcess_FatalInputs(t *testing.T) {
	p, err := NewProcessor(mock.NewMockProvider(), DefaultConfig())
	require.NoError(t, err)
	defer p.Release()
	ctx := context.Background()

	t.Run("nil document", func(t *testing.T) {
		_, err := p.Process(ctx, "query", nil)
		assert.ErrorIs(t, err, core.ErrEmptyDocument)
	})

	t.Run("whitespace document", func(t *testing.T) {
		_, err := p.Process(ctx, "query", &core.Document{Text: "  \n "})
		assert.ErrorIs(t, err, core.ErrEmptyDocument)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := p.Process(ctx, "  ", &core.Document{Text: "some text"})
		assert.ErrorIs(t, err, core.ErrEmptyQuery)
	})
}

func TestProcess_SingleSegmentFastPath(t *testing.T) {
	p, err := NewProcessor(mock.NewMockProvider(), DefaultConfig())
	require.NoError(t, err)
	defer p.Release()

	doc := &core.Document{
		Text: "The refund policy allows returns within thirty days of purchase. " +
			"Items must be unused and in original packaging.",
	}

	answer, err := p.Process(context.Background(), "refund policy", doc)
	require.NoError(t, err)
	require.NotNil(t, answer)

	assert.False(t, answer.Partial)
	assert.Contains(t, answer.Text, "refund")
	assert.Equal(t, 1, answer.Stats.SegmentsTotal)
	assert.Equal(t, 1, answer.Stats.SegmentsExplored)
	assert.Equal(t, 0, answer.Stats.DeepDives, "single-segment documents skip recursion")
	assert.Greater(t, answer.Confidence, 0.0)
	require.NotEmpty(t, answer.Citations)
	assert.Equal(t, 0, answer.Citations[0].Depth)
}

func TestProcess_MultiSegmentDocument(t *testing.T) {
	config := NewConfig(
		WithSegmentSize(20),
		WithOverlap(2),
		WithMaxParallelWorkers(2),
	)

	p, err := NewProcessor(mock.NewMockProvider(), config)
	require.NoError(t, err)
	defer p.Release()

	// 100 filler words with the answer spliced into the middle. Exactly one
	// segment carries both query words.
	doc := fillerDocument(100, 50, "refund", "policy")

	answer, err := p.Process(context.Background(), "refund policy", doc)
	require.NoError(t, err)
	require.NotNil(t, answer)

	assert.Greater(t, answer.Stats.SegmentsTotal, 1)
	assert.False(t, answer.Partial)
	assert.Contains(t, answer.Text, "refund")
	assert.NotEmpty(t, answer.Citations)
	assert.Greater(t, answer.Confidence, 0.0)
	assert.Equal(t, answer.Stats.SegmentsExplored, answer.Stats.SegmentsKept)
}

func TestProcess_OffTopicDocument(t *testing.T) {
	// Orthogonal embeddings and zero lexical overlap: nothing passes the
	// relevance filter, which yields an empty partial answer, not an error.
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vecs := make([][]float32, len(texts))
		for i := range texts {
			vecs[i] = []float32{0, 1}
		}
		return vecs, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockExtractor())

	p, err := NewProcessor(provider, NewConfig(WithSegmentSize(20), WithOverlap(2)))
	require.NoError(t, err)
	defer p.Release()

	doc := fillerDocument(100, 0)
	answer, err := p.Process(context.Background(), "spacecraft propulsion systems", doc)
	require.NoError(t, err, "an off-topic document is not an error")
	require.NotNil(t, answer)

	assert.True(t, answer.Partial)
	assert.Equal(t, 0.0, answer.Confidence)
	assert.Empty(t, answer.Text)
	assert.Empty(t, answer.Citations)
	assert.Equal(t, 0, answer.Stats.SegmentsKept)
	assert.Equal(t, 0, answer.Stats.SegmentsExplored)
}

func TestProcess_Cancellation(t *testing.T) {
	p, err := NewProcessor(mock.NewMockProvider(), NewConfig(WithSegmentSize(20), WithOverlap(2)))
	require.NoError(t, err)
	defer p.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := fillerDocument(100, 50, "refund", "policy")
	answer, err := p.Process(ctx, "refund policy", doc)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, answer, "cancellation still returns the partial answer")
	assert.True(t, answer.Partial)
	assert.Equal(t, "processing cancelled", answer.Reason)
}

func TestProcess_FindingDepthNeverExceedsCap(t *testing.T) {
	config := NewConfig(
		WithSegmentSize(20),
		WithOverlap(2),
		WithMaxDepth(2),
	)

	p, err := NewProcessor(mock.NewMockProvider(), config)
	require.NoError(t, err)
	defer p.Release()

	doc := fillerDocument(100, 50, "refund", "policy")
	answer, err := p.Process(context.Background(), "refund policy", doc)
	require.NoError(t, err)

	for _, cite := range answer.Citations {
		assert.Less(t, cite.Depth, config.MaxDepth,
			"citations must never come from below the depth cap")
	}
}
