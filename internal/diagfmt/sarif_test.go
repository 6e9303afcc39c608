package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"commitlang/internal/diag"
	"commitlang/internal/source"
)

func TestSarif(t *testing.T) {
	txt := source.NewText("msg", []byte("Feat:add thing\n"))
	diags := []diag.Diagnostic{
		diag.NewError(diag.CodeMissingSpaceAfterColon, sp(4, 5), "missing space after the colon"),
		diag.NewWarning(diag.CodeTypeEnum, sp(0, 4), "type Feat is not in the configured set"),
		diag.NewHint(diag.CodeBreakingNoTrailer, sp(0, 4), "advisory"),
	}
	meta := SarifRunMeta{
		ToolName:       "commitlang",
		ToolVersion:    "0.1.0",
		InvocationArgs: []string{"commitlang", "lint", "--format", "sarif"},
	}

	var buf bytes.Buffer
	if err := Sarif(&buf, []Input{{Text: txt, Diagnostics: diags}}, meta); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF output: %v\n%s", err, buf.String())
	}

	if log.Version != "2.1.0" {
		t.Errorf("version = %q", log.Version)
	}
	if len(log.Runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(log.Runs))
	}
	run := log.Runs[0]

	if run.Tool.Driver.Name != "commitlang" || run.Tool.Driver.Version != "0.1.0" {
		t.Errorf("driver = %+v", run.Tool.Driver)
	}
	if len(run.Tool.Driver.Rules) != 3 {
		t.Fatalf("rules = %d, want 3", len(run.Tool.Driver.Rules))
	}
	if len(run.Invocations) != 1 || run.Invocations[0].CommandLine != "commitlang lint --format sarif" {
		t.Errorf("invocations = %+v", run.Invocations)
	}

	if len(run.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(run.Results))
	}
	first := run.Results[0]
	if first.RuleID != "missing-space-after-colon" || first.RuleIndex != 0 {
		t.Errorf("first rule = %q index %d", first.RuleID, first.RuleIndex)
	}
	if first.Level != "error" {
		t.Errorf("first level = %q", first.Level)
	}
	region := first.Locations[0].PhysicalLocation.Region
	if region.StartLine != 1 || region.StartColumn != 5 || region.EndColumn != 6 {
		t.Errorf("region = %+v", region)
	}
	if got := run.Results[1].Level; got != "warning" {
		t.Errorf("second level = %q", got)
	}
	if got := run.Results[2].Level; got != "note" {
		t.Errorf("third level = %q", got)
	}
}

func TestSarifRuleIndexDedup(t *testing.T) {
	txt := source.NewText("msg", []byte("feat:x\nfix:y\n"))
	diags := []diag.Diagnostic{
		diag.NewError(diag.CodeMissingSpaceAfterColon, sp(4, 5), "missing space after the colon"),
		diag.NewError(diag.CodeMissingSpaceAfterColon, sp(11, 12), "missing space after the colon"),
	}

	var buf bytes.Buffer
	if err := Sarif(&buf, []Input{{Text: txt, Diagnostics: diags}}, SarifRunMeta{ToolName: "commitlang"}); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF output: %v", err)
	}
	run := log.Runs[0]
	if len(run.Tool.Driver.Rules) != 1 {
		t.Fatalf("rules = %d, want 1 after dedup", len(run.Tool.Driver.Rules))
	}
	if run.Results[0].RuleIndex != 0 || run.Results[1].RuleIndex != 0 {
		t.Fatalf("rule indexes = %d, %d", run.Results[0].RuleIndex, run.Results[1].RuleIndex)
	}
}

func TestShort(t *testing.T) {
	txt := source.NewText("msg", []byte("feat:add thing\n"))
	diags := []diag.Diagnostic{
		diag.NewError(diag.CodeMissingSpaceAfterColon, sp(4, 5), "missing space after the colon"),
	}

	var buf bytes.Buffer
	if err := Short(&buf, []Input{{Text: txt, Diagnostics: diags}, {Text: txt}}, false); err != nil {
		t.Fatalf("Short() error: %v", err)
	}
	want := "error missing-space-after-colon msg:1:5 missing space after the colon\n"
	if buf.String() != want {
		t.Fatalf("Short() = %q, want %q", buf.String(), want)
	}
}
