package diagfmt

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"commitlang/internal/diag"
	"commitlang/internal/source"
)

func prettyString(t *testing.T, inputs []Input, opts PrettyOpts) string {
	t.Helper()
	var sb strings.Builder
	Pretty(&sb, inputs, opts)
	return sb.String()
}

func TestPrettyBasic(t *testing.T) {
	txt := source.NewText("msg", []byte("feat:add thing\n"))
	diags := []diag.Diagnostic{
		diag.NewError(diag.CodeMissingSpaceAfterColon, sp(4, 5), "missing space after the colon"),
	}

	got := prettyString(t, []Input{{Text: txt, Diagnostics: diags}}, PrettyOpts{})
	want := strings.Join([]string{
		"msg:1:5: ERROR missing-space-after-colon: missing space after the colon",
		"  1 | feat:add thing",
		"    |     ^",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("Pretty() =\n%s\nwant\n%s", got, want)
	}
}

func TestPrettyUnderlineWidth(t *testing.T) {
	txt := source.NewText("msg", []byte("Feat: thing\n"))
	diags := []diag.Diagnostic{
		diag.NewWarning(diag.CodeTypeEnum, sp(0, 4), "type Feat is not in the configured set"),
	}

	got := prettyString(t, []Input{{Text: txt, Diagnostics: diags}}, PrettyOpts{})
	want := strings.Join([]string{
		"msg:1:1: WARNING type-enum: type Feat is not in the configured set",
		"  1 | Feat: thing",
		"    | ^~~~",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("Pretty() =\n%s\nwant\n%s", got, want)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	txt := source.NewText("msg", []byte("feat:add thing\n"))
	d := diag.NewError(diag.CodeMissingSpaceAfterColon, sp(4, 5), "missing space after the colon")
	d = d.WithNote(sp(0, 4), "header starts here")
	d = d.WithFix("add a space after the colon", diag.FixEdit{Span: sp(5, 5), NewText: " "})

	opts := PrettyOpts{ShowNotes: true, ShowFixes: true, ShowPreview: true}
	got := prettyString(t, []Input{{Text: txt, Diagnostics: []diag.Diagnostic{d}}}, opts)
	want := strings.Join([]string{
		"msg:1:5: ERROR missing-space-after-colon: missing space after the colon",
		"  1 | feat:add thing",
		"    |     ^",
		"msg:1:1: NOTE: header starts here",
		"  fix: add a space after the colon",
		"       feat: add thing",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("Pretty() =\n%s\nwant\n%s", got, want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	txt := source.NewText("msg", []byte("fix: y\nbody one\nbody two\n"))
	diags := []diag.Diagnostic{
		diag.NewError(diag.CodeBlankBeforeBody, sp(7, 7), "missing blank line between header and body"),
	}

	got := prettyString(t, []Input{{Text: txt, Diagnostics: diags}}, PrettyOpts{Context: 1})
	want := strings.Join([]string{
		"msg:2:1: ERROR blank-before-body: missing blank line between header and body",
		"  1 | fix: y",
		"  2 | body one",
		"    | ^",
		"  3 | body two",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("Pretty() =\n%s\nwant\n%s", got, want)
	}
}

func TestPrettySeparatesDiagnostics(t *testing.T) {
	txt := source.NewText("msg", []byte("just some words\n"))
	diags := []diag.Diagnostic{
		diag.NewError(diag.CodeMissingColon, sp(0, 0), "header is missing the colon after the type"),
		diag.NewError(diag.CodeTypeWhitespace, sp(0, 15), "type contains whitespace"),
	}

	got := prettyString(t, []Input{{Text: txt, Diagnostics: diags}}, PrettyOpts{})
	if strings.Count(got, "\n\n") != 1 {
		t.Fatalf("want one blank separator between diagnostics:\n%s", got)
	}
}

func TestPrettyWidthTruncation(t *testing.T) {
	long := "feat: " + strings.Repeat("word ", 40)
	txt := source.NewText("msg", []byte(long+"\n"))
	diags := []diag.Diagnostic{
		diag.NewWarning(diag.CodeHeaderMaxLength, sp(0, 6), "header is too long"),
	}

	got := prettyString(t, []Input{{Text: txt, Diagnostics: diags}}, PrettyOpts{Width: 20})
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "  1 | ") && len(line) > len("  1 | ")+20 {
			t.Fatalf("line not truncated: %q", line)
		}
	}
	if !strings.Contains(got, "...") {
		t.Fatalf("expected an ellipsis in truncated output:\n%s", got)
	}
}

func TestPrettyColor(t *testing.T) {
	old := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = old }()

	txt := source.NewText("msg", []byte("feat:add thing\n"))
	diags := []diag.Diagnostic{
		diag.NewError(diag.CodeMissingSpaceAfterColon, sp(4, 5), "missing space after the colon"),
	}

	got := prettyString(t, []Input{{Text: txt, Diagnostics: diags}}, PrettyOpts{Color: true})
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI escapes in colored output:\n%q", got)
	}

	plain := prettyString(t, []Input{{Text: txt, Diagnostics: diags}}, PrettyOpts{})
	if strings.Contains(plain, "\x1b[") {
		t.Fatalf("unexpected ANSI escapes without color:\n%q", plain)
	}
}
