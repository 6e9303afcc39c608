package diagfmt

import (
	"fmt"
	"strings"

	"commitlang/internal/diag"
	"commitlang/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview renders the lines an edit touches, before and after
// applying it.
func buildFixEditPreview(txt *source.Text, edit diag.FixEdit) (fixEditPreview, error) {
	if txt == nil {
		return fixEditPreview{}, fmt.Errorf("nil text")
	}

	startPos, endPos := txt.Resolve(edit.Span)
	endLine := max(endPos.Line, startPos.Line)

	blockStart := lineEdge(txt, startPos.Line-1)
	blockEnd := min(max(lineEdge(txt, endLine), blockStart), txt.Len())
	window := txt.Content[blockStart:blockEnd]

	relStart := int(edit.Span.Start) - int(blockStart)
	relEnd := int(edit.Span.End) - int(blockStart)
	if relStart < 0 || relEnd < relStart || relEnd > len(window) {
		return fixEditPreview{}, fmt.Errorf("edit [%d,%d) does not fit the preview block", relStart, relEnd)
	}

	var patched strings.Builder
	patched.Grow(len(window) + len(edit.NewText))
	patched.Write(window[:relStart])
	patched.WriteString(edit.NewText)
	patched.Write(window[relEnd:])

	return fixEditPreview{
		before: previewLines(string(window)),
		after:  previewLines(patched.String()),
	}, nil
}

func previewLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

// lineEdge returns the offset just past the newline terminating the 1-based
// line, the text length when the line is last, and 0 for line 0.
func lineEdge(txt *source.Text, line uint32) uint32 {
	if line == 0 {
		return 0
	}
	if int(line) <= len(txt.LineIdx) {
		return txt.LineIdx[line-1] + 1
	}
	return txt.Len()
}
