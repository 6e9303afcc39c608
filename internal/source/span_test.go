package source

import "testing"

func TestSpanBasics(t *testing.T) {
	s := NewSpan(2, 5)
	if s.Empty() {
		t.Fatal("span 2-5 should not be empty")
	}
	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
	if !s.Contains(2) || !s.Contains(4) {
		t.Error("span should contain its interior offsets")
	}
	if s.Contains(5) {
		t.Error("span end is exclusive")
	}
	if NewSpan(3, 3).Contains(3) {
		t.Error("empty span contains nothing")
	}
}

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		a, b Span
		want bool
	}{
		{NewSpan(0, 4), NewSpan(2, 6), true},
		{NewSpan(0, 4), NewSpan(4, 6), false},
		{NewSpan(4, 6), NewSpan(0, 4), false},
		{NewSpan(0, 10), NewSpan(3, 4), true},
		{NewSpan(3, 3), NewSpan(0, 10), false},
	}
	for _, tt := range tests {
		if got := tt.a.Overlaps(tt.b); got != tt.want {
			t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSpanCoverAndShift(t *testing.T) {
	s := NewSpan(4, 6).Cover(NewSpan(1, 5))
	if s.Start != 1 || s.End != 6 {
		t.Fatalf("cover = %v, want 1-6", s)
	}
	sh := NewSpan(4, 6).Shift(-2)
	if sh.Start != 2 || sh.End != 4 {
		t.Fatalf("shift = %v, want 2-4", sh)
	}
}

func TestToLineCol(t *testing.T) {
	content := []byte("a\nb\n")
	idx := buildLineIndex(content)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{1, LineCol{1, 2}}, // the newline ends line 1
		{2, LineCol{2, 1}},
		{3, LineCol{2, 2}},
		{4, LineCol{3, 1}}, // EOF after trailing newline
	}
	for _, tt := range tests {
		if got := toLineCol(idx, tt.off); got != tt.want {
			t.Errorf("toLineCol(%d) = %v, want %v", tt.off, got, tt.want)
		}
	}
}

func TestTextLine(t *testing.T) {
	txt := NewText("msg", []byte("feat: x\n\nbody line\n"))
	tests := []struct {
		n    uint32
		want string
	}{
		{0, ""},
		{1, "feat: x"},
		{2, ""},
		{3, "body line"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := txt.Line(tt.n); got != tt.want {
			t.Errorf("Line(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTextResolve(t *testing.T) {
	txt := NewText("msg", []byte("fix: a\nbody\n"))
	start, end := txt.Resolve(NewSpan(7, 11))
	if start != (LineCol{2, 1}) {
		t.Errorf("start = %v, want 2:1", start)
	}
	if end != (LineCol{2, 5}) {
		t.Errorf("end = %v, want 2:5", end)
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 1},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\nb\n", 2},
	}
	for _, tt := range tests {
		txt := NewText("msg", []byte(tt.in))
		if got := txt.LineCount(); got != tt.want {
			t.Errorf("LineCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
