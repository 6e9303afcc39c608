package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"commitlang/internal/config"
	"commitlang/internal/diag"
	"commitlang/internal/model"
	"commitlang/internal/source"
)

const (
	defaultHeaderLimit = 72
	defaultBodyLimit   = 100
)

// headerMaxLength is disabled by default; the limit comes from config.
type headerMaxLength struct {
	cfg *config.Config
}

func (headerMaxLength) Code() diag.Code { return diag.CodeHeaderMaxLength }

func (r headerMaxLength) Evaluate(m *model.Message, text string) []diag.Diagnostic {
	if m.Header == nil {
		return nil
	}
	limit := r.cfg.RuleLimit(diag.CodeHeaderMaxLength.ID(), defaultHeaderLimit)
	sp := trimLine(text, m.Header.Span)
	return checkLineLength(diag.CodeHeaderMaxLength, sp, cut(text, sp), limit, "header")
}

// bodyMaxLength is disabled by default; every body line is checked.
type bodyMaxLength struct {
	cfg *config.Config
}

func (bodyMaxLength) Code() diag.Code { return diag.CodeBodyMaxLength }

func (r bodyMaxLength) Evaluate(m *model.Message, _ string) []diag.Diagnostic {
	limit := r.cfg.RuleLimit(diag.CodeBodyMaxLength.ID(), defaultBodyLimit)
	var out []diag.Diagnostic
	for _, p := range m.Paragraphs {
		start := p.Span.Start
		for _, line := range strings.Split(p.Text, "\n") {
			sp := source.NewSpan(start, start+u32(len(line)))
			out = append(out, checkLineLength(diag.CodeBodyMaxLength, sp, line, limit, "body line")...)
			start += u32(len(line)) + 1
		}
	}
	return out
}

// checkLineLength flags the characters beyond limit. Lengths count runes,
// not bytes, so multi-byte characters are not penalized.
func checkLineLength(code diag.Code, sp source.Span, line string, limit int, what string) []diag.Diagnostic {
	n := utf8.RuneCountInString(line)
	if limit <= 0 || n <= limit {
		return nil
	}
	off := 0
	for i := 0; i < limit; i++ {
		_, size := utf8.DecodeRuneInString(line[off:])
		off += size
	}
	over := source.NewSpan(sp.Start+u32(off), sp.End)
	return []diag.Diagnostic{diag.NewWarning(code, over,
		fmt.Sprintf("%s is %d characters long, the limit is %d", what, n, limit))}
}
