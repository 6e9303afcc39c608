// Package driver runs the parse-and-lint pipeline over batches of inputs:
// message files, stdin, and git revision ranges.
package driver

import (
	"fmt"

	"commitlang/internal/config"
	"commitlang/internal/diag"
	"commitlang/internal/model"
	"commitlang/internal/parser"
	"commitlang/internal/rules"
	"commitlang/internal/source"
)

// Input is one message to lint: a file path to read, or preset content
// (stdin, a commit object).
type Input struct {
	Name    string // display name; defaults to Path
	Path    string // file to read; empty when Content is preset
	Content string
}

// Result is the outcome of linting one input. Results follow input order.
type Result struct {
	Name        string
	Text        *source.Text
	Diagnostics []diag.Diagnostic
	ReadErr     error // set when the input could not be read
}

// Options configure a batch run.
type Options struct {
	Config         *config.Config
	MaxDiagnostics int
	Jobs           int // parallel workers, 0 for GOMAXPROCS
	Observer       Observer
}

// Tally aggregates diagnostics across results for exit-code decisions.
type Tally struct {
	Errors     int
	Warnings   int
	Hints      int
	Infos      int
	Unreadable int
}

// Count tallies the diagnostics of all results by severity.
func Count(results []Result) Tally {
	var t Tally
	for _, r := range results {
		if r.ReadErr != nil {
			t.Unreadable++
		}
		for _, d := range r.Diagnostics {
			switch d.Severity {
			case diag.SevError:
				t.Errors++
			case diag.SevWarning:
				t.Warnings++
			case diag.SevHint:
				t.Hints++
			default:
				t.Infos++
			}
		}
	}
	return t
}

func lintOne(in Input, engine *rules.Engine) Result {
	name := in.Name
	if name == "" {
		name = in.Path
	}

	var txt *source.Text
	if in.Path != "" {
		loaded, err := source.LoadText(in.Path)
		if err != nil {
			return Result{
				Name: name,
				Text: source.NewText(name, nil),
				Diagnostics: []diag.Diagnostic{diag.NewError(diag.CodeInputUnreadable, source.Span{},
					fmt.Sprintf("failed to read input: %v", err))},
				ReadErr: err,
			}
		}
		txt = loaded
		if in.Name == "" {
			name = txt.Name
		}
	} else {
		txt = source.NewText(name, []byte(in.Content))
	}

	text := string(txt.Content)
	tree := parser.Parse(text)
	m := model.Extract(tree, text)
	return Result{
		Name:        name,
		Text:        txt,
		Diagnostics: engine.Run(m, text),
	}
}
