// Package fix applies suggested edits to a commit message buffer.
//
// Edits come from diagnostics (lint --suggest, fmt). Application is atomic:
// overlapping edits, spans outside the buffer, or a failed old-text guard
// reject the whole batch and the caller keeps the original text. Insertions
// exactly at another edit's boundary do not conflict.
package fix

import (
	"fmt"
	"sort"

	"commitlang/internal/diag"
)

// Skipped records a fix that Collect left out, with the reason.
type Skipped struct {
	Code   diag.Code
	Title  string
	Reason string
}

// Collect picks every fix whose edits do not overlap an already picked one,
// in diagnostic order. A skipped fix never blocks the remaining ones.
func Collect(diags []diag.Diagnostic) ([]diag.FixEdit, []Skipped) {
	var picked []diag.FixEdit
	var skipped []Skipped
	for _, d := range diags {
		for _, f := range d.Fixes {
			switch {
			case len(f.Edits) == 0:
				skipped = append(skipped, Skipped{Code: d.Code, Title: f.Title, Reason: "fix has no edits"})
			case conflicts(picked, f.Edits):
				skipped = append(skipped, Skipped{Code: d.Code, Title: f.Title, Reason: "conflicts with an earlier fix"})
			default:
				picked = append(picked, f.Edits...)
			}
		}
	}
	return picked, skipped
}

// Apply applies the edits to text, back to front so earlier offsets stay
// valid. Every span is checked against the original text; OldText, when set,
// must still match what it replaces.
func Apply(text string, edits []diag.FixEdit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	sorted := append([]diag.FixEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Span, sorted[j].Span
		if a.Start != b.Start {
			return a.Start > b.Start
		}
		return a.End > b.End
	})
	// sorted descending by start, so any overlap shows up between neighbors
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Span.Overlaps(sorted[i-1].Span) {
			return text, fmt.Errorf("fix: edits %s and %s overlap", sorted[i].Span, sorted[i-1].Span)
		}
	}

	buf := []byte(text)
	for _, e := range sorted {
		start, end := int(e.Span.Start), int(e.Span.End)
		if end < start || end > len(text) {
			return text, fmt.Errorf("fix: edit %s is outside the text", e.Span)
		}
		if e.OldText != "" && string(buf[start:end]) != e.OldText {
			return text, fmt.Errorf("fix: text at %s does not match the edit guard", e.Span)
		}
		rest := append([]byte(nil), buf[end:]...)
		buf = append(append(buf[:start], e.NewText...), rest...)
	}
	return string(buf), nil
}

func conflicts(picked, edits []diag.FixEdit) bool {
	for _, p := range picked {
		for _, e := range edits {
			if p.Span.Overlaps(e.Span) {
				return true
			}
		}
	}
	return false
}
