package source

import "fmt"

// Span is a half-open byte range [Start, End) within a single document.
type Span struct {
	Start uint32 // inclusive, bytes
	End   uint32 // exclusive, bytes
}

func NewSpan(start, end uint32) Span {
	return Span{Start: start, End: end}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

// Contains reports whether the byte offset falls inside the span.
// Empty spans contain nothing.
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Cover extends the span to include other.
func (s Span) Cover(other Span) Span {
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Shift moves the span by delta bytes. delta may be negative; the caller
// guarantees the result stays non-negative.
func (s Span) Shift(delta int64) Span {
	return Span{
		Start: uint32(int64(s.Start) + delta),
		End:   uint32(int64(s.End) + delta),
	}
}
