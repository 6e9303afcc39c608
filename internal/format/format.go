// Package format computes canonical-form edits for a commit message: the
// header normalized to "type(scope)!: description" spacing, trailing header
// whitespace dropped, exactly one blank line between header and body, and a
// blank line in front of the trailers. Headers with syntax defects (missing
// colon, unclosed scope) are left alone; the linter owns those. Formatting
// never invents or rewords content.
package format

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"commitlang/internal/diag"
	"commitlang/internal/fix"
	"commitlang/internal/model"
	"commitlang/internal/parser"
	"commitlang/internal/source"
)

// Edits returns the edit list that brings the message into canonical form.
// An empty result means the text already is.
func Edits(m *model.Message, text string) []diag.FixEdit {
	var edits []diag.FixEdit
	if e, ok := headerEdit(m.Header, text); ok {
		edits = append(edits, e)
	}
	return append(edits, blankEdits(m, text)...)
}

// Document formats text in one step and reports whether anything changed.
func Document(text string) (string, bool, error) {
	tree := parser.Parse(text)
	edits := Edits(model.Extract(tree, text), text)
	if len(edits) == 0 {
		return text, false, nil
	}
	out, err := fix.Apply(text, edits)
	if err != nil {
		return text, false, err
	}
	return out, out != text, nil
}

func headerEdit(h *model.Header, text string) (diag.FixEdit, bool) {
	if h == nil {
		return diag.FixEdit{}, false
	}
	line := trimLine(text, h.Span)
	current := cut(text, line)

	if h.MissingColon || h.UnclosedScope {
		trimmed := strings.TrimRight(current, " \t")
		if len(trimmed) == len(current) {
			return diag.FixEdit{}, false
		}
		sp := source.NewSpan(line.Start+u32(len(trimmed)), line.End)
		return diag.FixEdit{Span: sp, OldText: current[len(trimmed):]}, true
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(h.Type))
	if scope := strings.TrimSpace(h.Scope); h.HasScope && scope != "" {
		b.WriteByte('(')
		b.WriteString(scope)
		b.WriteByte(')')
	}
	if h.Bang {
		b.WriteByte('!')
	}
	b.WriteByte(':')
	if h.Description != "" {
		b.WriteByte(' ')
		b.WriteString(h.Description)
	}
	canonical := b.String()
	if canonical == current {
		return diag.FixEdit{}, false
	}
	return diag.FixEdit{Span: line, NewText: canonical, OldText: current}, true
}

func blankEdits(m *model.Message, text string) []diag.FixEdit {
	var edits []diag.FixEdit
	if h := m.Header; h != nil && len(m.Paragraphs) > 0 {
		first := m.Paragraphs[0]
		blanks := m.BlanksBetween(h.Span.End, first.Span.Start)
		switch {
		case len(blanks) == 0:
			edits = append(edits, diag.FixEdit{
				Span:    source.NewSpan(first.Span.Start, first.Span.Start),
				NewText: "\n",
			})
		case len(blanks) > 1:
			extra := blanks[1]
			total := extra.Len()
			for _, b := range blanks[2:] {
				extra = extra.Cover(b)
				total += b.Len()
			}
			// collapsing is only safe when nothing sits between the blanks
			if extra.Len() == total {
				edits = append(edits, diag.FixEdit{Span: extra, OldText: cut(text, extra)})
			}
		}
	}
	if len(m.Trailers) > 0 {
		first := m.Trailers[0]
		if !m.PrecededByBlank(first.Span.Start) {
			edits = append(edits, diag.FixEdit{
				Span:    source.NewSpan(first.Span.Start, first.Span.Start),
				NewText: "\n",
			})
		}
	}
	return edits
}

func trimLine(text string, sp source.Span) source.Span {
	if sp.End > sp.Start && sp.End <= u32(len(text)) && text[sp.End-1] == '\n' {
		sp.End--
	}
	return sp
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
