package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/deepread/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeDocument builds a document of exactly n distinct words.
func makeDocument(n int) *core.Document {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "word%d", i)
	}
	return &core.Document{Text: sb.String()}
}

func TestSegment_SingleSegment(t *testing.T) {
	s := NewSegmenter()

	t.Run("document smaller than segment size", func(t *testing.T) {
		doc := makeDocument(10)
		segments, err := s.Segment(doc, 100, 10)
		require.NoError(t, err)
		require.Len(t, segments, 1)

		seg := segments[0]
		assert.Equal(t, 0, seg.Depth)
		assert.Equal(t, 0, seg.Index)
		assert.Equal(t, core.ID(0), seg.ParentId)
		assert.Equal(t, 10, seg.TokenCount)
		assert.Equal(t, 0, seg.StartOffset)
		assert.Equal(t, len(doc.Text), seg.EndOffset)
		assert.Equal(t, doc.Text, seg.Content)
	})

	t.Run("document exactly at segment size", func(t *testing.T) {
		doc := makeDocument(100)
		segments, err := s.Segment(doc, 100, 10)
		require.NoError(t, err)
		assert.Len(t, segments, 1)
	})

	t.Run("populates document token count", func(t *testing.T) {
		doc := makeDocument(42)
		_, err := s.Segment(doc, 100, 10)
		require.NoError(t, err)
		assert.Equal(t, 42, doc.TokenCount)
	})
}

func TestSegment_BoundaryMath(t *testing.T) {
	s := NewSegmenter()

	t.Run("segment count follows the step formula", func(t *testing.T) {
		// 100 tokens, size 10, overlap 2: step 8, starts 0,8,...,96.
		doc := makeDocument(100)
		segments, err := s.Segment(doc, 10, 2)
		require.NoError(t, err)
		assert.Len(t, segments, 13)
	})

	t.Run("large document", func(t *testing.T) {
		// 4000 tokens, size 100, overlap 20: step 80,
		// ceil((4000-20)/80) = 50 segments.
		doc := makeDocument(4000)
		segments, err := s.Segment(doc, 100, 20)
		require.NoError(t, err)
		assert.Len(t, segments, 50)
	})

	t.Run("every token is covered", func(t *testing.T) {
		doc := makeDocument(97)
		segments, err := s.Segment(doc, 10, 3)
		require.NoError(t, err)

		last := segments[len(segments)-1]
		assert.Equal(t, len(doc.Text), last.EndOffset, "last segment must reach the end of the document")
		assert.Equal(t, 0, segments[0].StartOffset)
	})

	t.Run("consecutive segments overlap", func(t *testing.T) {
		doc := makeDocument(50)
		segments, err := s.Segment(doc, 10, 3)
		require.NoError(t, err)
		require.Greater(t, len(segments), 1)

		for i := 1; i < len(segments); i++ {
			assert.Less(t, segments[i].StartOffset, segments[i-1].EndOffset,
				"segment %d should overlap segment %d", i, i-1)
		}
	})

	t.Run("indexes are sequential", func(t *testing.T) {
		doc := makeDocument(50)
		segments, err := s.Segment(doc, 10, 2)
		require.NoError(t, err)
		for i, seg := range segments {
			assert.Equal(t, i, seg.Index)
		}
	})

	t.Run("no segment exceeds the size", func(t *testing.T) {
		doc := makeDocument(103)
		segments, err := s.Segment(doc, 10, 2)
		require.NoError(t, err)
		for _, seg := range segments {
			assert.LessOrEqual(t, seg.TokenCount, 10)
			assert.Greater(t, seg.TokenCount, 0)
		}
	})
}

func TestSegment_Determinism(t *testing.T) {
	s := NewSegmenter()
	doc1 := makeDocument(200)
	doc2 := makeDocument(200)

	first, err := s.Segment(doc1, 20, 5)
	require.NoError(t, err)
	second, err := s.Segment(doc2, 20, 5)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Id, second[i].Id, "segment %d IDs must match across runs", i)
		assert.Equal(t, first[i].StartOffset, second[i].StartOffset)
		assert.Equal(t, first[i].EndOffset, second[i].EndOffset)
	}
}

func TestSegment_Validation(t *testing.T) {
	s := NewSegmenter()

	t.Run("nil document", func(t *testing.T) {
		_, err := s.Segment(nil, 10, 2)
		assert.ErrorIs(t, err, core.ErrEmptyDocument)
	})

	t.Run("whitespace-only document", func(t *testing.T) {
		_, err := s.Segment(&core.Document{Text: "   \n "}, 10, 2)
		assert.ErrorIs(t, err, core.ErrEmptyDocument)
	})

	t.Run("zero segment size", func(t *testing.T) {
		_, err := s.Segment(makeDocument(10), 0, 0)
		assert.ErrorIs(t, err, ErrInvalidSegmentSize)
	})

	t.Run("overlap equal to size", func(t *testing.T) {
		_, err := s.Segment(makeDocument(10), 10, 10)
		assert.ErrorIs(t, err, ErrOverlapTooLarge)
	})

	t.Run("overlap greater than size", func(t *testing.T) {
		_, err := s.Segment(makeDocument(10), 10, 15)
		assert.ErrorIs(t, err, ErrOverlapTooLarge)
	})

	t.Run("negative overlap", func(t *testing.T) {
		_, err := s.Segment(makeDocument(10), 10, -1)
		assert.ErrorIs(t, err, ErrOverlapTooLarge)
	})
}

func TestSubSegment(t *testing.T) {
	s := NewSegmenter()

	doc := makeDocument(400)
	parents, err := s.Segment(doc, 100, 10)
	require.NoError(t, err)
	require.Greater(t, len(parents), 1)

	// Use a middle parent so offsets are clearly non-zero.
	parent := parents[1]

	children, err := s.SubSegment(parent, 25, 2)
	require.NoError(t, err)
	require.Greater(t, len(children), 1)

	t.Run("children carry document coordinates", func(t *testing.T) {
		for _, child := range children {
			assert.GreaterOrEqual(t, child.StartOffset, parent.StartOffset)
			assert.LessOrEqual(t, child.EndOffset, parent.EndOffset)
			assert.Equal(t, doc.Text[child.StartOffset:child.EndOffset], child.Content,
				"child content must equal the document slice at its offsets")
		}
	})

	t.Run("children are one level deeper", func(t *testing.T) {
		for _, child := range children {
			assert.Equal(t, parent.Depth+1, child.Depth)
			assert.Equal(t, parent.Id, child.ParentId)
		}
	})

	t.Run("children cover the parent", func(t *testing.T) {
		assert.Equal(t, parent.StartOffset, children[0].StartOffset)
		assert.Equal(t, parent.EndOffset, children[len(children)-1].EndOffset)
	})

	t.Run("sub-segmentation is deterministic", func(t *testing.T) {
		again, err := s.SubSegment(parent, 25, 2)
		require.NoError(t, err)
		require.Equal(t, len(children), len(again))
		for i := range children {
			assert.Equal(t, children[i].Id, again[i].Id)
		}
	})

	t.Run("invalid parent", func(t *testing.T) {
		_, err := s.SubSegment(core.Segment{}, 25, 2)
		assert.ErrorIs(t, err, core.ErrInvalidSegment)
	})
}
