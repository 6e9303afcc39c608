package model

import (
	"testing"

	"commitlang/internal/parser"
)

func extract(t *testing.T, text string) *Message {
	t.Helper()
	return Extract(parser.Parse(text), text)
}

func TestExtractFullMessage(t *testing.T) {
	text := "feat(ui)!: add\n\nbody one\nbody two\n\nBREAKING CHANGE: api\nCloses #42\n"
	m := extract(t, text)

	h := m.Header
	if h == nil {
		t.Fatal("no header extracted")
	}
	if h.Type != "feat" || h.TypeSpan.Start != 0 || h.TypeSpan.End != 4 {
		t.Errorf("type = %q %v", h.Type, h.TypeSpan)
	}
	if !h.HasScope || h.Scope != "ui" {
		t.Errorf("scope = %q (has=%v)", h.Scope, h.HasScope)
	}
	if !h.Bang {
		t.Error("bang not detected")
	}
	if h.Description != "add" {
		t.Errorf("description = %q", h.Description)
	}
	if h.MissingColon || h.TypeWhitespace || h.UnclosedScope {
		t.Errorf("unexpected defect flags: %+v", h)
	}

	if len(m.Paragraphs) != 1 {
		t.Fatalf("paragraphs = %d, want 1", len(m.Paragraphs))
	}
	if p := m.Paragraphs[0]; p.Text != "body one\nbody two" {
		t.Errorf("paragraph text = %q", p.Text)
	}

	if len(m.Trailers) != 2 {
		t.Fatalf("trailers = %d, want 2", len(m.Trailers))
	}
	if tr := m.Trailers[0]; tr.Token != "BREAKING CHANGE" || tr.Value != "api" {
		t.Errorf("trailer 0 = %q: %q", tr.Token, tr.Value)
	}
	if tr := m.Trailers[1]; tr.Token != "Closes" || tr.Value != "42" {
		t.Errorf("trailer 1 = %q: %q", tr.Token, tr.Value)
	}

	if !m.Breaking {
		t.Error("message not marked breaking")
	}
	if len(m.Blanks) != 2 {
		t.Errorf("blanks = %d, want 2", len(m.Blanks))
	}
}

func TestExtractBreaking(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"bang only", "feat!: x\n", true},
		{"spaced trailer", "fix: y\n\nBREAKING CHANGE: z\n", true},
		{"hyphen trailer", "fix: y\n\nBREAKING-CHANGE: z\n", true},
		{"plain message", "fix: y\n\nCloses #1\n", false},
		{"lowercase is not breaking", "fix: y\n\nbreaking change: z\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extract(t, tt.text).Breaking; got != tt.want {
				t.Errorf("Breaking = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractNoHeader(t *testing.T) {
	m := extract(t, "# only a comment\n\n")
	if m.Header != nil {
		t.Errorf("header = %+v, want nil", m.Header)
	}
	if len(m.Comments) != 1 || len(m.Blanks) != 1 {
		t.Errorf("comments=%d blanks=%d, want 1 and 1", len(m.Comments), len(m.Blanks))
	}
	if m.Breaking {
		t.Error("headerless message marked breaking")
	}
}

func TestExtractErrors(t *testing.T) {
	m := extract(t, "fix: z\n\nCloses #1\nplain\n")
	if len(m.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(m.Errors))
	}
	if sp := m.Errors[0]; sp.Start != 18 || sp.End != 24 {
		t.Errorf("error span = %v, want 18-24", sp)
	}
}

func TestExtractDefectFlags(t *testing.T) {
	m := extract(t, "words\n")
	h := m.Header
	if h == nil {
		t.Fatal("no header extracted")
	}
	if !h.MissingColon {
		t.Error("missing colon not flagged")
	}
	if h.Type != "words" || h.Description != "" {
		t.Errorf("type=%q desc=%q", h.Type, h.Description)
	}
}

func TestIsBreakingToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"BREAKING CHANGE", true},
		{"BREAKING-CHANGE", true},
		{"breaking change", false},
		{"BREAKING  CHANGE", false},
		{"Closes", false},
	}
	for _, tt := range tests {
		if got := IsBreakingToken(tt.token); got != tt.want {
			t.Errorf("IsBreakingToken(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}
