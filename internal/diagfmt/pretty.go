package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"commitlang/internal/diag"
	"commitlang/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgBlue)
	hintColor    = color.New(color.FgCyan)
	noteColor    = color.New(color.Faint)
)

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	case diag.SevHint:
		return hintColor
	default:
		return infoColor
	}
}

func paint(c *color.Color, enabled bool, s string) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

// Pretty renders diagnostics for terminals. Each diagnostic prints
//
//	<path>:<line>:<col>: <SEV> <code>: <message>
//
// followed by the span's line with a ^~~~ underline, then notes and
// suggested fixes when enabled. Inputs are expected sorted.
func Pretty(w io.Writer, inputs []Input, opts PrettyOpts) {
	first := true
	for _, in := range inputs {
		name := formatName(in.Text, opts.PathMode)
		for _, d := range in.Diagnostics {
			if !first {
				fmt.Fprintln(w)
			}
			first = false
			printDiagnostic(w, in.Text, name, d, opts)
		}
	}
}

func printDiagnostic(w io.Writer, txt *source.Text, name string, d diag.Diagnostic, opts PrettyOpts) {
	start, end := txt.Resolve(d.Primary)
	sev := severityColor(d.Severity)

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		name, start.Line, start.Col,
		paint(sev, opts.Color, d.Severity.String()),
		paint(sev, opts.Color, d.Code.ID()),
		d.Message)

	printContext(w, txt, d.Primary, start, end, sev, opts)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			npos, _ := txt.Resolve(n.Span)
			fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
				name, npos.Line, npos.Col,
				paint(noteColor, opts.Color, "NOTE"),
				n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(w, "  fix: %s\n", f.Title)
			if !opts.ShowPreview {
				continue
			}
			for _, e := range f.Edits {
				preview, err := buildFixEditPreview(txt, e)
				if err != nil {
					continue
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "       %s\n", expandTabs(line))
				}
			}
		}
	}
}

// printContext shows the span's line plus opts.Context lines around it,
// with a caret underline on the span itself.
func printContext(w io.Writer, txt *source.Text, span source.Span, start, end source.LineCol, sev *color.Color, opts PrettyOpts) {
	from := int(start.Line) - int(opts.Context)
	to := int(start.Line) + int(opts.Context)
	if from < 1 {
		from = 1
	}
	if lines := int(txt.LineCount()); to > lines {
		to = lines
	}

	gutter := len(fmt.Sprintf("%d", to))
	for ln := from; ln <= to; ln++ {
		raw := txt.Line(lineNum(ln))
		display := expandTabs(raw)
		if opts.Width > 0 {
			display = truncateLine(display, int(opts.Width))
		}
		fmt.Fprintf(w, "  %*d | %s\n", gutter, ln, display)
		if ln == int(start.Line) {
			underline := buildUnderline(raw, start, end)
			fmt.Fprintf(w, "  %*s | %s\n", gutter, "", paint(sev, opts.Color, underline))
		}
	}
}

// buildUnderline marks the span's bytes on its first line. Columns are
// 1-based byte offsets; widths are measured after tab expansion so the
// carets line up with the displayed text.
func buildUnderline(raw string, start, end source.LineCol) string {
	startByte := min(int(start.Col)-1, len(raw))
	endByte := len(raw)
	if end.Line == start.Line {
		endByte = min(int(end.Col)-1, len(raw))
	}
	if endByte < startByte {
		endByte = startByte
	}

	pad := runewidth.StringWidth(expandTabs(raw[:startByte]))
	width := runewidth.StringWidth(expandTabs(raw[startByte:endByte]))
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", pad) + "^" + strings.Repeat("~", width-1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func truncateLine(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

func lineNum(v int) uint32 {
	n, err := safecast.Conv[uint32](v)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return n
}
