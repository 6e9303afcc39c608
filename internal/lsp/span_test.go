package lsp

import (
	"testing"

	"commitlang/internal/rope"
	"commitlang/internal/source"
)

func TestRangeForSpanMultiline(t *testing.T) {
	r := rope.FromString("feat: \U0001F389\ndocs\n")

	// "docs" occupies bytes 11..15: six header bytes, four emoji bytes, one
	// newline.
	got := rangeForSpan(r, source.NewSpan(11, 15))
	want := lspRange{Start: position{1, 0}, End: position{1, 4}}
	if got != want {
		t.Fatalf("range = %+v, want %+v", got, want)
	}
}

func TestPositionOffsetRoundTrip(t *testing.T) {
	r := rope.FromString("feat: \U0001F389\ndocs\n")

	tests := []struct {
		offset int
		pos    position
	}{
		{0, position{0, 0}},
		{6, position{0, 6}},
		{10, position{0, 8}}, // past the emoji: two UTF-16 units
		{11, position{1, 0}},
		{15, position{1, 4}},
	}
	for _, tt := range tests {
		if got := positionFor(r, tt.offset); got != tt.pos {
			t.Errorf("positionFor(%d) = %+v, want %+v", tt.offset, got, tt.pos)
		}
		if got := offsetFor(r, tt.pos); got != tt.offset {
			t.Errorf("offsetFor(%+v) = %d, want %d", tt.pos, got, tt.offset)
		}
	}
}

func TestOffsetForClamps(t *testing.T) {
	r := rope.FromString("feat: x\n")

	if got := offsetFor(r, position{0, 99}); got != 7 {
		t.Errorf("column past line end = %d, want 7", got)
	}
	if got := offsetFor(r, position{9, 0}); got != 8 {
		t.Errorf("line past document end = %d, want 8", got)
	}
}
