package diagfmt

import (
	"encoding/json"
	"io"

	"commitlang/internal/diag"
	"commitlang/internal/source"
)

// LocationJSON is a position inside one input.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is a secondary remark attached to a diagnostic.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON is one text edit of a suggested fix.
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON is a suggested fix.
type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one diagnostic in JSON form.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root structure of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// jsonEncoder carries the options plus the text of the input currently
// being encoded, so the per-diagnostic helpers stay short.
type jsonEncoder struct {
	opts JSONOpts
	txt  *source.Text
}

func (e *jsonEncoder) location(span source.Span) LocationJSON {
	loc := LocationJSON{
		File:      formatName(e.txt, e.opts.PathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if !e.opts.IncludePositions {
		return loc
	}
	start, end := e.txt.Resolve(span)
	loc.StartLine, loc.StartCol = start.Line, start.Col
	loc.EndLine, loc.EndCol = end.Line, end.Col
	return loc
}

func (e *jsonEncoder) diagnostic(d diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: e.location(d.Primary),
	}
	if e.opts.IncludeNotes {
		for _, note := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Message: note.Msg, Location: e.location(note.Span)})
		}
	}
	if e.opts.IncludeFixes {
		for _, fix := range d.Fixes {
			out.Fixes = append(out.Fixes, FixJSON{Title: fix.Title, Edits: e.edits(fix.Edits)})
		}
	}
	return out
}

func (e *jsonEncoder) edits(edits []diag.FixEdit) []FixEditJSON {
	if len(edits) == 0 {
		return nil
	}
	out := make([]FixEditJSON, 0, len(edits))
	for _, edit := range edits {
		ej := FixEditJSON{
			Location: e.location(edit.Span),
			NewText:  edit.NewText,
			OldText:  edit.OldText,
		}
		if e.opts.IncludePreviews {
			if preview, err := buildFixEditPreview(e.txt, edit); err == nil {
				ej.BeforeLines = append([]string(nil), preview.before...)
				ej.AfterLines = append([]string(nil), preview.after...)
			}
		}
		out = append(out, ej)
	}
	return out
}

// BuildDiagnosticsOutput assembles the JSON structure without serializing it.
// A non-zero Max truncates the combined list across all inputs.
func BuildDiagnosticsOutput(inputs []Input, opts JSONOpts) DiagnosticsOutput {
	enc := jsonEncoder{opts: opts}
	list := []DiagnosticJSON{}
	for _, in := range inputs {
		enc.txt = in.Text
		for _, d := range in.Diagnostics {
			if opts.Max > 0 && len(list) == opts.Max {
				return DiagnosticsOutput{Diagnostics: list, Count: len(list)}
			}
			list = append(list, enc.diagnostic(d))
		}
	}
	return DiagnosticsOutput{Diagnostics: list, Count: len(list)}
}

// JSON writes the diagnostics of all inputs as one indented JSON document.
func JSON(w io.Writer, inputs []Input, opts JSONOpts) error {
	output := BuildDiagnosticsOutput(inputs, opts)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
