package diag

import (
	"fmt"
	"sort"
	"strings"

	"commitlang/internal/source"
)

// Format renders diagnostics one line per entry, "severity code
// name:line:col message", each note directly under its owner. Golden
// assertions in tests and the CLI short output share this shape.
func Format(diags []Diagnostic, txt *source.Text, includeNotes bool) string {
	if txt == nil || len(diags) == 0 {
		return ""
	}

	ordered := make([]Diagnostic, len(diags))
	copy(ordered, diags)
	sort.SliceStable(ordered, func(i, j int) bool {
		return formatLess(ordered[i], ordered[j])
	})

	lines := make([]string, 0, len(ordered))
	for _, d := range ordered {
		start, _ := txt.Resolve(d.Primary)
		lines = append(lines, entryLine(severityLabel(d.Severity), d.Code.ID(), txt.Name, start, d.Message))
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			nstart, _ := txt.Resolve(note.Span)
			lines = append(lines, entryLine("note", d.Code.ID(), txt.Name, nstart, note.Msg))
		}
	}
	return strings.Join(lines, "\n")
}

func formatLess(a, b Diagnostic) bool {
	if a.Primary.Start != b.Primary.Start {
		return a.Primary.Start < b.Primary.Start
	}
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	if a.Code != b.Code {
		return a.Code.ID() < b.Code.ID()
	}
	return a.Message < b.Message
}

func entryLine(label, code, name string, at source.LineCol, msg string) string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", label, code, name, at.Line, at.Col, flatten(msg))
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevHint:
		return "hint"
	default:
		return "info"
	}
}

// flatten folds a multi-line message onto a single line.
func flatten(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	return strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
}
