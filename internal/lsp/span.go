package lsp

import (
	"commitlang/internal/rope"
	"commitlang/internal/source"
)

// The wire protocol speaks 0-based lines and UTF-16 columns; everything
// behind this file speaks byte offsets. The rope carries the UTF-16 sums,
// so conversions stay logarithmic.

func positionFor(r rope.Rope, offset int) position {
	line, col := r.OffsetToPosition(offset)
	return position{Line: line, Character: col}
}

func offsetFor(r rope.Rope, pos position) int {
	return r.PositionToOffset(pos.Line, pos.Character)
}

func rangeForSpan(r rope.Rope, sp source.Span) lspRange {
	return lspRange{
		Start: positionFor(r, int(sp.Start)),
		End:   positionFor(r, int(sp.End)),
	}
}
