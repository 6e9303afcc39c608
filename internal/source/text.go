package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// TextFlags encodes metadata about how a text was obtained.
type TextFlags uint8

const (
	// TextVirtual indicates the text came from memory (stdin, a commit
	// object, a test) rather than a file on disk.
	TextVirtual TextFlags = 1 << iota
	TextHadBOM
	TextNormalizedCRLF
)

// Text is one commit message with a precomputed line index. Inputs are
// independent: batch linting builds one Text per input and shares nothing,
// the server builds one per published snapshot.
type Text struct {
	Name    string // path, commit hash, or virtual label
	Content []byte
	LineIdx []uint32 // byte offset of every '\n'
	Flags   TextFlags
}

// NewText wraps in-memory content. The content is stored as is; no
// normalization happens on virtual inputs.
func NewText(name string, content []byte) *Text {
	return &Text{
		Name:    name,
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   TextVirtual,
	}
}

// LoadText reads a message file from disk, dropping a UTF-8 BOM and
// normalizing CRLF line endings so spans always count LF-only bytes.
func LoadText(path string) (*Text, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := TextFlags(0)
	if hadBOM {
		flags |= TextHadBOM
	}
	if hadCRLF {
		flags |= TextNormalizedCRLF
	}
	return &Text{
		Name:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	}, nil
}

func (t *Text) Len() uint32 {
	n, err := safecast.Conv[uint32](len(t.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}

// LineCount returns the number of lines; an empty text has one empty line.
func (t *Text) LineCount() uint32 {
	n, err := safecast.Conv[uint32](len(t.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index overflow: %w", err))
	}
	if len(t.Content) > 0 && t.Content[len(t.Content)-1] != '\n' {
		return n + 1
	}
	if n == 0 {
		return 1
	}
	return n
}

// Resolve converts a span into 1-based line/column positions. Columns count
// bytes; UTF-16 conversion is the transport layer's job.
func (t *Text) Resolve(span Span) (start, end LineCol) {
	return toLineCol(t.LineIdx, span.Start), toLineCol(t.LineIdx, span.End)
}

// Line returns the text of the 1-based line without its terminator, or ""
// when the line does not exist.
func (t *Text) Line(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	lenLineIdx := uint32(len(t.LineIdx))
	lenContent := t.Len()

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = t.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = t.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}
	return string(t.Content[start:end])
}

// FormatName renders the input name for display.
// mode: "absolute", "relative", "basename", "auto".
func (t *Text) FormatName(mode, baseDir string) string {
	if t.Flags&TextVirtual != 0 {
		return t.Name
	}
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(t.Name); err == nil {
			return filepath.ToSlash(abs)
		}
		return t.Name

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := filepath.Rel(baseDir, t.Name); err == nil {
			return filepath.ToSlash(rel)
		}
		return t.Name

	case "basename":
		return filepath.Base(t.Name)

	case "auto":
		if len(t.Name) < 40 || !filepath.IsAbs(t.Name) {
			return t.Name
		}
		return filepath.Base(t.Name)

	default:
		return t.Name
	}
}
