// Package model flattens the lossless tree into the view rules and
// completions consume. Extraction is a pure walk over the top-level nodes:
// it never fails, and absent or malformed pieces come back as zero values.
package model

import (
	"strings"

	"commitlang/internal/cst"
	"commitlang/internal/source"
)

// Header is the decomposed header line. String fields are cut from the
// source text; their spans locate them. Defect booleans mirror the scanner
// flags so rules do not need the tree.
type Header struct {
	Span source.Span

	Type     string
	TypeSpan source.Span

	HasScope  bool
	Scope     string // text between the parens, empty for "()"
	ScopeSpan source.Span

	Bang     bool
	BangSpan source.Span

	ColonSpan   source.Span // empty when MissingColon
	PaddingSpan source.Span // whitespace between ':' and the description

	Description string
	DescSpan    source.Span

	MissingColon   bool
	TypeWhitespace bool
	UnclosedScope  bool
}

// Paragraph is one run of body lines. Text excludes the final newline but
// keeps interior ones.
type Paragraph struct {
	Span source.Span
	Text string
}

// Trailer is one trailer with continuation lines folded into the value.
type Trailer struct {
	Span      source.Span
	Token     string
	TokenSpan source.Span
	Sep       cst.TrailerSep
	Value     string
	ValueSpan source.Span
}

// Message is the semantic view of one commit message. Blanks, Comments and
// Errors carry raw line spans; together with the other spans they cover the
// document, so rules can reconstruct node order through span adjacency.
type Message struct {
	Header     *Header // nil when the document has no header line
	Paragraphs []Paragraph
	Trailers   []Trailer
	Blanks     []source.Span
	Comments   []source.Span
	Errors     []source.Span
	Breaking   bool
}

// BlanksBetween returns the blank-line spans lying inside [from, to).
func (m *Message) BlanksBetween(from, to uint32) []source.Span {
	var out []source.Span
	for _, sp := range m.Blanks {
		if sp.Start >= from && sp.End <= to {
			out = append(out, sp)
		}
	}
	return out
}

// PrecededByBlank reports whether the node starting at off directly follows
// a blank line, looking through comment lines. Node spans tile the document,
// so adjacency identifies the preceding node.
func (m *Message) PrecededByBlank(off uint32) bool {
	for off > 0 {
		if sp, ok := spanEndingAt(m.Comments, off); ok {
			off = sp.Start
			continue
		}
		_, ok := spanEndingAt(m.Blanks, off)
		return ok
	}
	return false
}

func spanEndingAt(spans []source.Span, off uint32) (source.Span, bool) {
	for _, sp := range spans {
		if sp.End == off {
			return sp, true
		}
	}
	return source.Span{}, false
}

// IsBreakingToken reports whether a trailer token spells the breaking-change
// marker. Matching is exact; the two canonical spellings are the only ones
// recognized.
func IsBreakingToken(token string) bool {
	return token == "BREAKING CHANGE" || token == "BREAKING-CHANGE"
}

// Extract builds the message view for a parsed tree. text must be the exact
// source the tree was parsed from.
func Extract(t *cst.Tree, text string) *Message {
	m := &Message{}
	for _, id := range t.TopLevel() {
		n := t.Get(id)
		switch n.Kind {
		case cst.KindHeader:
			if m.Header == nil && n.Header != nil {
				m.Header = extractHeader(n, text)
				if m.Header.Bang {
					m.Breaking = true
				}
			}
		case cst.KindBodyParagraph:
			m.Paragraphs = append(m.Paragraphs, Paragraph{
				Span: n.Span,
				Text: strings.TrimSuffix(cut(text, n.Span), "\n"),
			})
		case cst.KindTrailer:
			tr := extractTrailer(n, text)
			if IsBreakingToken(tr.Token) {
				m.Breaking = true
			}
			m.Trailers = append(m.Trailers, tr)
		case cst.KindBlankLine:
			m.Blanks = append(m.Blanks, n.Span)
		case cst.KindCommentLine:
			m.Comments = append(m.Comments, n.Span)
		case cst.KindError:
			m.Errors = append(m.Errors, n.Span)
		}
	}
	return m
}

func extractHeader(n *cst.Node, text string) *Header {
	h := n.Header
	return &Header{
		Span:           n.Span,
		Type:           cut(text, h.Type),
		TypeSpan:       h.Type,
		HasScope:       h.Flags.Has(cst.HeaderHasScope),
		Scope:          cut(text, h.Scope),
		ScopeSpan:      h.Scope,
		Bang:           !h.Bang.Empty(),
		BangSpan:       h.Bang,
		ColonSpan:      h.Colon,
		PaddingSpan:    h.Padding,
		Description:    cut(text, h.Description),
		DescSpan:       h.Description,
		MissingColon:   h.Flags.Has(cst.HeaderMissingColon),
		TypeWhitespace: h.Flags.Has(cst.HeaderTypeWhitespace),
		UnclosedScope:  h.Flags.Has(cst.HeaderScopeUnclosed),
	}
}

func extractTrailer(n *cst.Node, text string) Trailer {
	tr := n.Trailer
	return Trailer{
		Span:      n.Span,
		Token:     cut(text, tr.Token),
		TokenSpan: tr.Token,
		Sep:       tr.Sep,
		Value:     cut(text, tr.Value),
		ValueSpan: tr.Value,
	}
}

func cut(text string, sp source.Span) string {
	if sp.Start > sp.End || sp.End > uint32(len(text)) {
		return ""
	}
	return text[sp.Start:sp.End]
}
