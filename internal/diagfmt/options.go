// Package diagfmt renders lint results for people and machines: a pretty
// terminal form, the compact one-line form, JSON, and SARIF.
package diagfmt

import (
	"commitlang/internal/diag"
	"commitlang/internal/source"
)

// Input pairs one analyzed text with its diagnostics, already sorted.
type Input struct {
	Text        *source.Text
	Diagnostics []diag.Diagnostic
}

// PathMode specifies how input names are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses a readable form automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8 // extra lines shown around the span line
	PathMode    PathMode
	Width       uint8 // maximum rendered line width, 0 for unlimited
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col next to byte offsets
	PathMode         PathMode
	Max              int // output truncation, 0 for all
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

// SarifRunMeta provides tool metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}

func formatName(txt *source.Text, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return txt.FormatName("absolute", "")
	case PathModeRelative:
		return txt.FormatName("relative", "")
	case PathModeBasename:
		return txt.FormatName("basename", "")
	default:
		return txt.FormatName("auto", "")
	}
}
