package rules

import (
	"reflect"
	"strings"
	"testing"

	"commitlang/internal/config"
	"commitlang/internal/diag"
	"commitlang/internal/model"
	"commitlang/internal/parser"
	"commitlang/internal/source"
)

func lint(t *testing.T, cfg *config.Config, text string) []diag.Diagnostic {
	t.Helper()
	tree := parser.Parse(text)
	return NewEngine(cfg, 0).Run(model.Extract(tree, text), text)
}

func render(t *testing.T, cfg *config.Config, text string, notes bool) string {
	t.Helper()
	got := lint(t, cfg, text)
	return diag.Format(got, source.NewText("msg", []byte(text)), notes)
}

func TestRuleScenarios(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "clean header",
			text: "feat: add new feature\n",
		},
		{
			name: "clean full message",
			text: "fix(core)!: drop legacy paths\n\nThe old loader is gone.\n\nBREAKING CHANGE: loader removed\n",
		},
		{
			name: "comment before header",
			text: "# comment\nfeat: add stuff\n",
		},
		{
			name: "missing space after colon",
			text: "feat:add thing\n",
			want: []string{
				"error missing-space-after-colon msg:1:5 missing space after the colon",
			},
		},
		{
			name: "unknown type",
			text: "Feat: thing\n",
			want: []string{
				`warning type-enum msg:1:1 type "Feat" is not in the allowed set`,
			},
		},
		{
			name: "missing blank before body",
			text: "fix: bug\nmore text\n",
			want: []string{
				"error blank-before-body msg:2:1 body must be separated from the header by one blank line",
			},
		},
		{
			name: "bang without breaking trailer",
			text: "feat!: drop old api\n",
			want: []string{
				"hint breaking-no-trailer msg:1:5 breaking change has no BREAKING CHANGE trailer explaining it",
			},
		},
		{
			name: "two spaces after colon",
			text: "feat:  two\n",
			want: []string{
				"warning extra-space-after-colon msg:1:6 more than one space after the colon",
			},
		},
		{
			name: "empty description",
			text: "feat:\n",
			want: []string{
				"error subject-empty msg:1:5 description is empty",
			},
		},
		{
			name: "description ends with period",
			text: "feat: thing.\n",
			want: []string{
				"warning subject-full-stop msg:1:12 description ends with a period",
			},
		},
		{
			name: "empty scope",
			text: "feat(): x\n",
			want: []string{
				"error scope-empty msg:1:5 scope is empty",
			},
		},
		{
			name: "unclosed scope",
			text: "feat(ui: x\n",
			want: []string{
				"error unclosed-scope msg:1:6 scope parentheses are unbalanced",
			},
		},
		{
			name: "whitespace in type",
			text: "feat stuff: x\n",
			want: []string{
				"error type-whitespace msg:1:1 commit type must be a single word",
			},
		},
		{
			name: "no colon at all",
			text: "just some words\n",
			want: []string{
				`error missing-colon msg:1:1 header must look like "type(scope): description"`,
				"error type-whitespace msg:1:1 commit type must be a single word",
			},
		},
		{
			name: "free text after trailers",
			text: "fix: z\n\nCloses #1\nplain\n",
			want: []string{
				"error text-after-trailer msg:4:1 free text is not allowed after trailers",
			},
		},
		{
			name: "duplicate breaking trailer",
			text: "feat!: x\n\nBREAKING CHANGE: a\nBREAKING-CHANGE: b\n",
			want: []string{
				"error breaking-duplicate msg:4:1 more than one BREAKING CHANGE trailer",
			},
		},
		{
			name: "missing blank before trailers",
			text: "fix: y\nCloses #1\n",
			want: []string{
				"error blank-before-trailers msg:2:1 trailers must be separated from the body by a blank line",
			},
		},
		{
			name: "empty document",
			text: "",
			want: []string{
				"error empty-message msg:1:1 commit message has no header line",
			},
		},
		{
			name: "three blank lines before body",
			text: "feat: x\n\n\n\nbody\n",
			want: []string{
				"warning blank-before-body msg:3:1 3 blank lines between header and body, want one",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, config.Default(), tt.text, false)
			want := strings.Join(tt.want, "\n")
			if got != want {
				t.Fatalf("diagnostics mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
			}
		})
	}
}

func TestEngineConfig(t *testing.T) {
	on := true
	off := false
	sevError := diag.SevError
	sevWarning := diag.SevWarning

	tests := []struct {
		name string
		cfg  *config.Config
		text string
		want []string
	}{
		{
			name: "scope outside vocabulary",
			cfg:  config.New(nil, []string{"ui", "api"}, nil),
			text: "feat(core): x\n",
			want: []string{
				`warning scope-enum msg:1:6 scope "core" is not in the allowed set`,
			},
		},
		{
			name: "scope inside vocabulary",
			cfg:  config.New(nil, []string{"ui", "api"}, nil),
			text: "feat(ui): x\n",
		},
		{
			name: "custom type vocabulary",
			cfg:  config.New([]config.Type{{Name: "feat"}}, nil, nil),
			text: "fix: y\n",
			want: []string{
				`warning type-enum msg:1:1 type "fix" is not in the allowed set`,
			},
		},
		{
			name: "rule disabled",
			cfg: config.New(nil, nil, map[string]config.RuleSetting{
				"subject-full-stop": {Enabled: &off},
			}),
			text: "feat: thing.\n",
		},
		{
			name: "severity override per rule",
			cfg: config.New(nil, nil, map[string]config.RuleSetting{
				"type-enum": {Severity: &sevError},
			}),
			text: "Feat: thing\n",
			want: []string{
				`error type-enum msg:1:1 type "Feat" is not in the allowed set`,
			},
		},
		{
			name: "severity override per code",
			cfg: config.New(nil, nil, map[string]config.RuleSetting{
				"missing-colon": {Severity: &sevWarning},
			}),
			text: "just some words\n",
			want: []string{
				"error type-whitespace msg:1:1 commit type must be a single word",
				`warning missing-colon msg:1:1 header must look like "type(scope): description"`,
			},
		},
		{
			name: "header length limit",
			cfg: config.New(nil, nil, map[string]config.RuleSetting{
				"header-max-length": {Enabled: &on, Limit: intp(10)},
			}),
			text: "feat: this is a long header\n",
			want: []string{
				"warning header-max-length msg:1:11 header is 27 characters long, the limit is 10",
			},
		},
		{
			name: "body length limit",
			cfg: config.New(nil, nil, map[string]config.RuleSetting{
				"body-max-length": {Enabled: &on, Limit: intp(5)},
			}),
			text: "fix: y\n\nabcdefgh\n",
			want: []string{
				"warning body-max-length msg:3:6 body line is 8 characters long, the limit is 5",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, tt.cfg, tt.text, false)
			want := strings.Join(tt.want, "\n")
			if got != want {
				t.Fatalf("diagnostics mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
			}
		})
	}
}

func intp(v int) *int { return &v }

func TestEngineNotes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "duplicate breaking points at the first",
			text: "feat!: x\n\nBREAKING CHANGE: a\nBREAKING-CHANGE: b\n",
			want: []string{
				"note breaking-duplicate msg:3:1 first BREAKING CHANGE trailer is here",
				"error breaking-duplicate msg:4:1 more than one BREAKING CHANGE trailer",
			},
		},
		{
			name: "type enum lists the vocabulary",
			text: "Feat: thing\n",
			want: []string{
				"note type-enum msg:1:1 allowed types: feat, fix, docs, style, refactor, perf, test, build, ci, chore, revert",
				`warning type-enum msg:1:1 type "Feat" is not in the allowed set`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, config.Default(), tt.text, true)
			want := strings.Join(tt.want, "\n")
			if got != want {
				t.Fatalf("diagnostics mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
			}
		})
	}
}

type panicRule struct{}

func (panicRule) Code() diag.Code { return diag.UnknownCode }

func (panicRule) Evaluate(*model.Message, string) []diag.Diagnostic {
	panic("kaboom")
}

func TestEngineRuleIsolation(t *testing.T) {
	text := "Feat: thing\n"
	tree := parser.Parse(text)
	msg := model.Extract(tree, text)

	e := NewEngine(config.Default(), 0)
	e.Register(panicRule{})
	got := e.Run(msg, text)

	want := strings.Join([]string{
		"error rule-failed msg:1:1 rule CC0000 panicked: kaboom",
		`warning type-enum msg:1:1 type "Feat" is not in the allowed set`,
	}, "\n")
	rendered := diag.Format(got, source.NewText("msg", []byte(text)), false)
	if rendered != want {
		t.Fatalf("diagnostics mismatch\n--- got ---\n%s\n--- want ---\n%s", rendered, want)
	}
}

func TestEngineCap(t *testing.T) {
	text := "just some words\n"
	tree := parser.Parse(text)
	msg := model.Extract(tree, text)

	got := NewEngine(config.Default(), 1).Run(msg, text)
	if len(got) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(got))
	}
	if got[0].Code != diag.CodeMissingColon {
		t.Fatalf("got code %s, want %s", got[0].Code.ID(), diag.CodeMissingColon.ID())
	}
}

func TestEngineDeterministic(t *testing.T) {
	text := "Feat(ui:  thing.\nCloses #1\nwhat\n"
	cfg := config.Default()

	first := lint(t, cfg, text)
	second := lint(t, cfg, text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated runs disagree:\n%v\n%v", first, second)
	}
	if len(first) == 0 {
		t.Fatal("expected diagnostics for a defective message")
	}
}
