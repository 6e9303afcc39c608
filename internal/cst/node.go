package cst

import "commitlang/internal/source"

// Kind discriminates the node variants of the commit-message tree.
type Kind uint8

const (
	KindDocument Kind = iota
	KindHeader
	KindBlankLine
	KindBodyParagraph
	KindTrailer
	KindCommentLine
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindHeader:
		return "header"
	case KindBlankLine:
		return "blank"
	case KindBodyParagraph:
		return "paragraph"
	case KindTrailer:
		return "trailer"
	case KindCommentLine:
		return "comment"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// HeaderFlags records recoverable defects found while scanning the header
// line. The scanner never fails; it flags what it could not match.
type HeaderFlags uint8

const (
	// HeaderMissingColon: the line has no ':' after the type/scope prefix.
	HeaderMissingColon HeaderFlags = 1 << iota
	// HeaderTypeWhitespace: whitespace inside the type word.
	HeaderTypeWhitespace
	// HeaderHasScope: a '(' opened a scope segment.
	HeaderHasScope
	// HeaderScopeUnclosed: the scope segment never saw ')'.
	HeaderScopeUnclosed
)

func (f HeaderFlags) Has(flag HeaderFlags) bool { return f&flag != 0 }

// Header carries the field breakdown of the header line. Absent pieces have
// empty spans; Flags says why. All spans are absolute byte offsets into the
// document.
type Header struct {
	Type        source.Span // type word, possibly empty
	Scope       source.Span // text between the parens, set only with HeaderHasScope
	Bang        source.Span // the '!' byte, empty when absent
	Colon       source.Span // the ':' byte, empty when HeaderMissingColon
	Padding     source.Span // run of spaces between ':' and the description
	Description source.Span // rest of the line, trailing newline excluded
	Flags       HeaderFlags
}

// TrailerSep tells which separator form introduced the trailer value.
type TrailerSep uint8

const (
	SepColon TrailerSep = iota // "Token: value"
	SepHash                    // "Token #value"
)

func (s TrailerSep) String() string {
	if s == SepHash {
		return "hash"
	}
	return "colon"
}

// Trailer carries the token/value breakdown of a trailer. Value may span
// continuation lines and excludes the final newline.
type Trailer struct {
	Token source.Span
	Sep   TrailerSep
	Value source.Span
}

// Node is one tree node. Only the document root populates Children; Header
// and Trailer nodes carry their payloads, other kinds are plain spans.
type Node struct {
	Kind     Kind
	Span     source.Span
	Parent   NodeID
	Children []NodeID
	Header   *Header
	Trailer  *Trailer
}
