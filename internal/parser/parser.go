// Package parser turns commit-message text into the lossless cst.Tree. The
// grammar is line-anchored: the first non-comment, non-blank line is the
// header, the body runs until the first trailer-shaped line, and from that
// point every non-blank line must be a trailer or an indented continuation
// of the previous one. Parsing never fails; unclassifiable lines become
// error nodes and header defects become flags on the header payload.
package parser

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"commitlang/internal/cst"
	"commitlang/internal/source"
)

// mode tracks which zone of the message the scanner is in.
type mode uint8

const (
	modePreHeader mode = iota
	modeBody
	modeTrailers
)

const breakingSpace = "BREAKING CHANGE"

// Parse builds the tree for text from scratch.
func Parse(text string) *cst.Tree {
	nodes, _ := scanRegion(text, 0, len(text), modePreHeader)
	t := cst.NewTree(uint(len(nodes)) + 1)
	t.SetRoot(source.NewSpan(0, u32(len(text))))
	for i := range nodes {
		t.Append(nodes[i])
	}
	return t
}

// scanRegion classifies the byte range [start, end) line by line, starting
// in mode m. The returned nodes tile the region exactly; the second result
// is the mode in effect after the region.
func scanRegion(text string, start, end int, m mode) ([]cst.Node, mode) {
	var nodes []cst.Node
	pos := start
	for pos < end {
		lineStart := pos
		nl, contentEnd := lineBounds(text, pos, end)
		content := text[lineStart:contentEnd]
		pos = nl

		switch {
		case strings.HasPrefix(content, "#"):
			nodes = append(nodes, newNode(cst.KindCommentLine, lineStart, nl))

		case strings.TrimSpace(content) == "":
			nodes = append(nodes, newNode(cst.KindBlankLine, lineStart, nl))

		case m == modePreHeader:
			n := newNode(cst.KindHeader, lineStart, nl)
			n.Header = scanHeader(content, u32(lineStart))
			nodes = append(nodes, n)
			m = modeBody

		default:
			if tokenLen, sep, valueStart, ok := trailerShape(content); ok {
				spanEnd, valueEnd := nl, contentEnd
				// absorb indented continuation lines into the value
				for pos < end {
					nextNl, nextContent := lineBounds(text, pos, end)
					line := text[pos:nextContent]
					if len(line) == 0 || (line[0] != ' ' && line[0] != '\t') || strings.TrimSpace(line) == "" {
						break
					}
					spanEnd, valueEnd = nextNl, nextContent
					pos = nextNl
				}
				n := newNode(cst.KindTrailer, lineStart, spanEnd)
				n.Trailer = &cst.Trailer{
					Token: spanAt(0, lineStart, lineStart+tokenLen),
					Sep:   sep,
					Value: spanAt(0, lineStart+valueStart, valueEnd),
				}
				nodes = append(nodes, n)
				m = modeTrailers
				continue
			}

			if m == modeBody {
				spanEnd := nl
				// absorb the rest of the paragraph
				for pos < end {
					nextNl, nextContent := lineBounds(text, pos, end)
					line := text[pos:nextContent]
					if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
						break
					}
					if _, _, _, isTrailer := trailerShape(line); isTrailer {
						break
					}
					spanEnd = nextNl
					pos = nextNl
				}
				nodes = append(nodes, newNode(cst.KindBodyParagraph, lineStart, spanEnd))
				continue
			}

			nodes = append(nodes, newNode(cst.KindError, lineStart, nl))
		}
	}
	return nodes, m
}

// trailerShape reports whether a line (without its newline) opens like a
// trailer: "Token: value" or "Token #value", where the token is Word(-Word)*
// or the spaced BREAKING CHANGE spelling. It returns the token length and
// the offset where the value starts.
func trailerShape(line string) (tokenLen int, sep cst.TrailerSep, valueStart int, ok bool) {
	if strings.HasPrefix(line, breakingSpace) {
		tokenLen = len(breakingSpace)
	} else {
		i := 0
		for i < len(line) && isTokenByte(line[i]) {
			i++
		}
		if i == 0 || line[0] == '-' || line[i-1] == '-' || strings.Contains(line[:i], "--") {
			return 0, 0, 0, false
		}
		tokenLen = i
	}
	rest := line[tokenLen:]
	switch {
	case strings.HasPrefix(rest, ":"):
		valueStart = tokenLen + 1
		if valueStart < len(line) && line[valueStart] == ' ' {
			valueStart++
		}
		return tokenLen, cst.SepColon, valueStart, true
	case strings.HasPrefix(rest, " #"):
		return tokenLen, cst.SepHash, tokenLen + 2, true
	}
	return 0, 0, 0, false
}

func isTokenByte(b byte) bool {
	return b == '-' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// lineBounds finds the end of the line starting at pos within [pos, end):
// nl is the offset right after the newline (or the region end), content is
// the offset of the newline itself.
func lineBounds(text string, pos, end int) (nl, content int) {
	if i := strings.IndexByte(text[pos:end], '\n'); i >= 0 {
		return pos + i + 1, pos + i
	}
	return end, end
}

func newNode(kind cst.Kind, start, end int) cst.Node {
	return cst.Node{Kind: kind, Span: spanAt(0, start, end)}
}

func spanAt(base uint32, start, end int) source.Span {
	return source.NewSpan(base+u32(start), base+u32(end))
}

func u32(v int) uint32 {
	n, err := safecast.Conv[uint32](v)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return n
}
