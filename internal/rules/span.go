package rules

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"commitlang/internal/source"
)

// trimLine drops the trailing newline from a node span.
func trimLine(text string, sp source.Span) source.Span {
	if sp.End > sp.Start && sp.End <= u32(len(text)) && text[sp.End-1] == '\n' {
		sp.End--
	}
	return sp
}

// firstLine narrows a node span to its first line, newline excluded.
func firstLine(text string, sp source.Span) source.Span {
	if s := cut(text, sp); s != "" {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			sp.End = sp.Start + u32(i)
		}
	}
	return sp
}

func zeroAt(off uint32) source.Span {
	return source.NewSpan(off, off)
}

func cut(text string, sp source.Span) string {
	if sp.Start > sp.End || sp.End > u32(len(text)) {
		return ""
	}
	return text[sp.Start:sp.End]
}

func u32(v int) uint32 {
	n, err := safecast.Conv[uint32](v)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return n
}
