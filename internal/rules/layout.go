package rules

import (
	"fmt"

	"commitlang/internal/diag"
	"commitlang/internal/model"
)

// blankBeforeBody wants exactly one blank line between the header and the
// body: missing is an error, more than one is a warning.
type blankBeforeBody struct{}

func (blankBeforeBody) Code() diag.Code { return diag.CodeBlankBeforeBody }

func (blankBeforeBody) Evaluate(m *model.Message, text string) []diag.Diagnostic {
	h := m.Header
	if h == nil || len(m.Paragraphs) == 0 {
		return nil
	}
	first := m.Paragraphs[0]
	blanks := m.BlanksBetween(h.Span.End, first.Span.Start)
	switch {
	case len(blanks) == 0:
		d := diag.NewError(diag.CodeBlankBeforeBody, firstLine(text, first.Span),
			"body must be separated from the header by one blank line").
			WithFix("insert a blank line",
				diag.FixEdit{Span: zeroAt(first.Span.Start), NewText: "\n"})
		return []diag.Diagnostic{d}
	case len(blanks) > 1:
		extra := blanks[1]
		total := extra.Len()
		for _, b := range blanks[2:] {
			extra = extra.Cover(b)
			total += b.Len()
		}
		d := diag.NewWarning(diag.CodeBlankBeforeBody, extra,
			fmt.Sprintf("%d blank lines between header and body, want one", len(blanks)))
		// collapsing is only safe when nothing sits between the blanks
		if extra.Len() == total {
			d = d.WithFix("keep one blank line",
				diag.FixEdit{Span: extra, NewText: "", OldText: cut(text, extra)})
		}
		return []diag.Diagnostic{d}
	}
	return nil
}

// blankBeforeTrailers wants a blank line in front of the trailer zone,
// whether it follows the body or the header directly.
type blankBeforeTrailers struct{}

func (blankBeforeTrailers) Code() diag.Code { return diag.CodeBlankBeforeTrailers }

func (blankBeforeTrailers) Evaluate(m *model.Message, text string) []diag.Diagnostic {
	if len(m.Trailers) == 0 {
		return nil
	}
	first := m.Trailers[0]
	if m.PrecededByBlank(first.Span.Start) {
		return nil
	}
	d := diag.NewError(diag.CodeBlankBeforeTrailers, firstLine(text, first.Span),
		"trailers must be separated from the body by a blank line").
		WithFix("insert a blank line",
			diag.FixEdit{Span: zeroAt(first.Span.Start), NewText: "\n"})
	return []diag.Diagnostic{d}
}

// textAfterTrailer reports every unclassifiable line in the trailer zone.
type textAfterTrailer struct{}

func (textAfterTrailer) Code() diag.Code { return diag.CodeTextAfterTrailer }

func (textAfterTrailer) Evaluate(m *model.Message, text string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, sp := range m.Errors {
		out = append(out, diag.NewError(diag.CodeTextAfterTrailer, trimLine(text, sp),
			"free text is not allowed after trailers"))
	}
	return out
}
