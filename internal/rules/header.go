package rules

import (
	"fmt"
	"strings"

	"commitlang/internal/config"
	"commitlang/internal/diag"
	"commitlang/internal/model"
	"commitlang/internal/source"
)

// headerFormat reports the structural defects the header scanner flagged:
// no header line at all, a missing colon, whitespace inside the type, and
// an unclosed scope. One configurable rule; each defect keeps its own code.
type headerFormat struct{}

func (headerFormat) Code() diag.Code { return diag.CodeHeaderFormat }

func (headerFormat) Evaluate(m *model.Message, text string) []diag.Diagnostic {
	h := m.Header
	if h == nil {
		return []diag.Diagnostic{diag.NewError(diag.CodeEmptyMessage,
			source.NewSpan(0, 0), "commit message has no header line")}
	}
	var out []diag.Diagnostic
	if h.MissingColon {
		out = append(out, diag.NewError(diag.CodeMissingColon, trimLine(text, h.Span),
			`header must look like "type(scope): description"`))
	}
	if h.TypeWhitespace {
		out = append(out, diag.NewError(diag.CodeTypeWhitespace, h.TypeSpan,
			"commit type must be a single word"))
	}
	if h.UnclosedScope {
		out = append(out, diag.NewError(diag.CodeUnclosedScope, h.ScopeSpan,
			"scope parentheses are unbalanced"))
	}
	return out
}

// typeEnum checks the header type against the configured vocabulary.
// Matching is case-sensitive; both sides are NFC-normalized.
type typeEnum struct {
	cfg *config.Config
}

func (typeEnum) Code() diag.Code { return diag.CodeTypeEnum }

func (r typeEnum) Evaluate(m *model.Message, _ string) []diag.Diagnostic {
	h := m.Header
	if h == nil || h.Type == "" || h.TypeWhitespace || h.MissingColon {
		return nil
	}
	if r.cfg.HasType(h.Type) {
		return nil
	}
	names := make([]string, len(r.cfg.Types))
	for i, t := range r.cfg.Types {
		names[i] = t.Name
	}
	d := diag.NewWarning(diag.CodeTypeEnum, h.TypeSpan,
		fmt.Sprintf("type %q is not in the allowed set", h.Type)).
		WithNote(h.TypeSpan, "allowed types: "+strings.Join(names, ", "))
	if lower := strings.ToLower(h.Type); r.cfg.HasType(lower) {
		d = d.WithFix(fmt.Sprintf("use %q", lower),
			diag.FixEdit{Span: h.TypeSpan, NewText: lower, OldText: h.Type})
	}
	return []diag.Diagnostic{d}
}

type missingSpaceAfterColon struct{}

func (missingSpaceAfterColon) Code() diag.Code { return diag.CodeMissingSpaceAfterColon }

func (missingSpaceAfterColon) Evaluate(m *model.Message, _ string) []diag.Diagnostic {
	h := m.Header
	if h == nil || h.ColonSpan.Empty() || h.PaddingSpan.Len() != 0 || h.Description == "" {
		return nil
	}
	d := diag.NewError(diag.CodeMissingSpaceAfterColon, h.ColonSpan,
		"missing space after the colon").
		WithFix("insert a space", diag.FixEdit{Span: zeroAt(h.ColonSpan.End), NewText: " "})
	return []diag.Diagnostic{d}
}

type extraSpaceAfterColon struct{}

func (extraSpaceAfterColon) Code() diag.Code { return diag.CodeExtraSpaceAfterColon }

func (extraSpaceAfterColon) Evaluate(m *model.Message, text string) []diag.Diagnostic {
	h := m.Header
	if h == nil || h.ColonSpan.Empty() || h.PaddingSpan.Len() <= 1 {
		return nil
	}
	d := diag.NewWarning(diag.CodeExtraSpaceAfterColon, h.PaddingSpan,
		"more than one space after the colon").
		WithFix("keep a single space",
			diag.FixEdit{Span: h.PaddingSpan, NewText: " ", OldText: cut(text, h.PaddingSpan)})
	return []diag.Diagnostic{d}
}

type subjectEmpty struct{}

func (subjectEmpty) Code() diag.Code { return diag.CodeSubjectEmpty }

func (subjectEmpty) Evaluate(m *model.Message, _ string) []diag.Diagnostic {
	h := m.Header
	if h == nil || h.MissingColon || h.Description != "" {
		return nil
	}
	return []diag.Diagnostic{diag.NewError(diag.CodeSubjectEmpty, h.ColonSpan,
		"description is empty")}
}

type subjectFullStop struct{}

func (subjectFullStop) Code() diag.Code { return diag.CodeSubjectFullStop }

func (subjectFullStop) Evaluate(m *model.Message, _ string) []diag.Diagnostic {
	h := m.Header
	if h == nil || !strings.HasSuffix(h.Description, ".") {
		return nil
	}
	sp := source.NewSpan(h.DescSpan.End-1, h.DescSpan.End)
	d := diag.NewWarning(diag.CodeSubjectFullStop, sp,
		"description ends with a period").
		WithFix("drop the period", diag.FixEdit{Span: sp, NewText: "", OldText: "."})
	return []diag.Diagnostic{d}
}

type scopeEmpty struct{}

func (scopeEmpty) Code() diag.Code { return diag.CodeScopeEmpty }

func (scopeEmpty) Evaluate(m *model.Message, _ string) []diag.Diagnostic {
	h := m.Header
	if h == nil || !h.HasScope || h.Scope != "" || h.UnclosedScope {
		return nil
	}
	parens := source.NewSpan(h.ScopeSpan.Start-1, h.ScopeSpan.End+1)
	d := diag.NewError(diag.CodeScopeEmpty, parens, "scope is empty").
		WithFix("remove the empty scope", diag.FixEdit{Span: parens, NewText: "", OldText: "()"})
	return []diag.Diagnostic{d}
}

// scopeEnum fires only when a scope vocabulary is configured.
type scopeEnum struct {
	cfg *config.Config
}

func (scopeEnum) Code() diag.Code { return diag.CodeScopeEnum }

func (r scopeEnum) Evaluate(m *model.Message, _ string) []diag.Diagnostic {
	h := m.Header
	if h == nil || !h.HasScope || h.UnclosedScope || h.Scope == "" {
		return nil
	}
	if !r.cfg.ScopesConfigured() || r.cfg.HasScope(h.Scope) {
		return nil
	}
	d := diag.NewWarning(diag.CodeScopeEnum, h.ScopeSpan,
		fmt.Sprintf("scope %q is not in the allowed set", h.Scope)).
		WithNote(h.ScopeSpan, "allowed scopes: "+strings.Join(r.cfg.Scopes, ", "))
	return []diag.Diagnostic{d}
}
