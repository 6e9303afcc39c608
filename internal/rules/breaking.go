package rules

import (
	"commitlang/internal/diag"
	"commitlang/internal/model"
)

// breakingDuplicate flags every BREAKING CHANGE trailer after the first.
type breakingDuplicate struct{}

func (breakingDuplicate) Code() diag.Code { return diag.CodeBreakingDuplicate }

func (breakingDuplicate) Evaluate(m *model.Message, _ string) []diag.Diagnostic {
	var first *model.Trailer
	var out []diag.Diagnostic
	for i := range m.Trailers {
		tr := &m.Trailers[i]
		if !model.IsBreakingToken(tr.Token) {
			continue
		}
		if first == nil {
			first = tr
			continue
		}
		out = append(out, diag.NewError(diag.CodeBreakingDuplicate, tr.TokenSpan,
			"more than one BREAKING CHANGE trailer").
			WithNote(first.TokenSpan, "first BREAKING CHANGE trailer is here"))
	}
	return out
}

// breakingNoTrailer nudges a bang-marked commit to document the break.
type breakingNoTrailer struct{}

func (breakingNoTrailer) Code() diag.Code { return diag.CodeBreakingNoTrailer }

func (breakingNoTrailer) Evaluate(m *model.Message, _ string) []diag.Diagnostic {
	h := m.Header
	if h == nil || !h.Bang {
		return nil
	}
	for _, tr := range m.Trailers {
		if model.IsBreakingToken(tr.Token) {
			return nil
		}
	}
	return []diag.Diagnostic{diag.NewHint(diag.CodeBreakingNoTrailer, h.BangSpan,
		"breaking change has no BREAKING CHANGE trailer explaining it")}
}
