package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("the same text")
		b := IDFromContent("the same text")
		if a != b {
			t.Errorf("same content produced different IDs: %d vs %d", a, b)
		}
	})

	t.Run("different content different id", func(t *testing.T) {
		a := IDFromContent("first text")
		b := IDFromContent("second text")
		if a == b {
			t.Errorf("different content produced the same ID: %d", a)
		}
	})

	t.Run("empty content has an id", func(t *testing.T) {
		if IDFromContent("") == 0 && IDFromContent("") != IDFromContent("") {
			t.Error("empty content should still hash deterministically")
		}
	})
}

func TestSegmentID(t *testing.T) {
	t.Run("deterministic across runs", func(t *testing.T) {
		a := SegmentID(0, 100, 200, "segment content")
		b := SegmentID(0, 100, 200, "segment content")
		if a != b {
			t.Errorf("identical segments produced different IDs: %d vs %d", a, b)
		}
	})

	t.Run("position disambiguates identical content", func(t *testing.T) {
		a := SegmentID(0, 100, 200, "repeated paragraph")
		b := SegmentID(0, 500, 600, "repeated paragraph")
		if a == b {
			t.Error("segments at different offsets should have different IDs")
		}
	})

	t.Run("depth disambiguates identical spans", func(t *testing.T) {
		a := SegmentID(0, 100, 200, "content")
		b := SegmentID(1, 100, 200, "content")
		if a == b {
			t.Error("segments at different depths should have different IDs")
		}
	})
}
