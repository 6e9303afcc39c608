package source

import (
	"bytes"
	"path/filepath"
	"sort"
)

// LineCol is a human-readable position: 1-based line and 1-based byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func removeBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, utf8BOM) {
		return content[len(utf8BOM):], true
	}
	return content, false
}

// normalizeCRLF folds every \r\n into \n, leaving lone \r untouched.
// Reports whether anything changed.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if bytes.IndexByte(content, '\r') < 0 {
		return content, false
	}
	out := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	return out, len(out) != len(content)
}

func buildLineIndex(content []byte) []uint32 {
	var out []uint32
	base := 0
	for {
		i := bytes.IndexByte(content[base:], '\n')
		if i < 0 {
			return out
		}
		out = append(out, uint32(base+i))
		base += i + 1
	}
}

// toLineCol maps a byte offset to 1-based line/column. A newline byte counts
// as the last column of the line it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	n := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	if n == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	start := lineIdx[n-1] + 1
	return LineCol{Line: uint32(n) + 1, Col: off - start + 1}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
