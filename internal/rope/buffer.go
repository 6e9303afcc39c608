package rope

import (
	"errors"
	"fmt"
)

// Edit replaces the byte range [Start, End) with Text. Within a batch each
// edit addresses the text produced by the previous one, the way LSP
// incremental sync delivers changes.
type Edit struct {
	Start int
	End   int
	Text  string
}

// ErrRangeOutOfBounds reports an edit whose range does not fit the text it
// addresses. Ranges are never clamped.
var ErrRangeOutOfBounds = errors.New("edit range out of bounds")

// VersionError reports an ApplyEdits call whose version does not advance the
// buffer version.
type VersionError struct {
	Current  int
	Proposed int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("version %d does not advance current version %d", e.Proposed, e.Current)
}

// Buffer owns a rope and a strictly increasing version. It is not safe for
// concurrent use; callers serialize access per document.
type Buffer struct {
	rope    Rope
	version int
}

// NewBuffer builds a buffer holding text at the given initial version.
func NewBuffer(text string, version int) *Buffer {
	return &Buffer{rope: FromString(text), version: version}
}

// Rope returns the current rope. The returned value is immutable and stays
// valid after later edits.
func (b *Buffer) Rope() Rope { return b.rope }

func (b *Buffer) Version() int { return b.version }

func (b *Buffer) Len() int { return b.rope.Len() }

func (b *Buffer) String() string { return b.rope.String() }

// ApplyEdits validates and applies a batch of edits, then moves the buffer to
// version. The version must be strictly greater than the current one, and
// every edit must satisfy 0 <= Start <= End <= len at the moment it applies.
// On any error the buffer is left exactly as it was.
func (b *Buffer) ApplyEdits(version int, edits []Edit) error {
	if version <= b.version {
		return &VersionError{Current: b.version, Proposed: version}
	}
	r := b.rope
	for _, e := range edits {
		if e.Start < 0 || e.End < e.Start || e.End > r.Len() {
			return fmt.Errorf("edit [%d,%d) of %d bytes: %w", e.Start, e.End, r.Len(), ErrRangeOutOfBounds)
		}
		r = r.Replace(e.Start, e.End, e.Text)
	}
	b.rope = r
	b.version = version
	return nil
}
