package cst

import (
	"fmt"
	"strings"

	"commitlang/internal/source"
)

// Dump renders the top-level structure one node per line, including header
// and trailer payload fields. The output is deterministic; tests compare
// trees by comparing dumps.
func Dump(t *Tree, text string) string {
	var sb strings.Builder
	for _, id := range t.TopLevel() {
		n := t.Get(id)
		fmt.Fprintf(&sb, "%s %s", n.Kind, n.Span)
		switch {
		case n.Header != nil:
			h := n.Header
			fmt.Fprintf(&sb, " type=%q", cut(text, h.Type))
			if h.Flags.Has(HeaderHasScope) {
				fmt.Fprintf(&sb, " scope=%q", cut(text, h.Scope))
			}
			if !h.Bang.Empty() {
				sb.WriteString(" bang")
			}
			if h.Flags.Has(HeaderMissingColon) {
				sb.WriteString(" no-colon")
			}
			if h.Flags.Has(HeaderTypeWhitespace) {
				sb.WriteString(" type-ws")
			}
			if h.Flags.Has(HeaderScopeUnclosed) {
				sb.WriteString(" scope-open")
			}
			fmt.Fprintf(&sb, " desc=%q", cut(text, h.Description))
		case n.Trailer != nil:
			fmt.Fprintf(&sb, " token=%q sep=%s value=%q",
				cut(text, n.Trailer.Token), n.Trailer.Sep, cut(text, n.Trailer.Value))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func cut(text string, sp source.Span) string {
	if sp.Start > sp.End || sp.End > uint32(len(text)) {
		return ""
	}
	return text[sp.Start:sp.End]
}
