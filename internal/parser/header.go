package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"commitlang/internal/cst"
)

// headerState drives the one-pass prefix scan. The scan never fails: states
// with a recovery mark remember where a segment may have ended and resolve
// the guess once a later character settles it.
type headerState uint8

const (
	stType          headerState = iota // inside the type word
	stTypeRecovery                     // whitespace may have ended the type
	stScope                            // inside the scope, '(' through ')'
	stScopeDone                        // just saw the ')' ending the scope
	stScopeRecovery                    // the scope may have ended without ')'
	stRest                             // between scope/type and the colon
	stEndRecovery                      // the colon should have appeared by now
	stDone
)

// prefixLengths segments a header line into type, scope, and rest byte
// lengths. The scope includes its parentheses; the rest runs from the scope
// (or type) up to and including the colon when one exists. The description
// starts right after the three segments.
func prefixLengths(line string) (typeLen, scopeLen, restLen int) {
	state := stType
	mark := 0
	cursor := 0
	for cursor < len(line) {
		c, size := utf8.DecodeRuneInString(line[cursor:])
		next := state
		switch state {
		case stType:
			switch c {
			case '(':
				next = stScope
			case ')':
				next = stScopeDone // unexpected, continue anyway
			case '!':
				next = stRest
			case ':':
				next = stDone
			case ' ', '\t':
				next = stTypeRecovery
				mark = cursor
			}
		case stTypeRecovery:
			switch c {
			case '(':
				next = stScope
			case ')':
				// the second word was probably a scope
				typeLen = mark
				scopeLen = cursor - mark
				next = stScopeDone
			case '!':
				// restart right after the whitespace that opened the
				// recovery and treat the second word as a scope
				typeLen = mark + 1
				scopeLen = 0
				cursor = mark + 1
				state = stScope
				continue
			case ':':
				next = stDone
			}
		case stScope:
			switch c {
			case ')':
				next = stScopeDone
			case '!', ':', ' ', '\t':
				if (c == ':' || c == '!') && !strings.ContainsAny(line[cursor+size:], ":!)") {
					next = stRest
				} else {
					next = stScopeRecovery
					mark = cursor
				}
			}
		case stScopeDone:
			switch c {
			case '!':
				next = stRest
			case ':':
				next = stDone
			default:
				next = stEndRecovery
				mark = cursor
			}
		case stScopeRecovery:
			switch c {
			case ')':
				next = stScopeDone
			case '(':
				// unexpected, keep scanning in hope of seeing the end
			case '!', ':':
				if line[mark] == ' ' || line[mark] == '\t' {
					next = stScopeRecovery
					mark = cursor
				} else {
					// we probably are not inside the scope anymore
					scopeLen = mark - typeLen
					restLen = 0
					cursor = mark
					state = stRest
					continue
				}
			}
		case stRest:
			switch c {
			case ':':
				next = stDone
			case '!':
				// stay
			default:
				next = stEndRecovery
				mark = cursor
			}
		case stEndRecovery:
			switch c {
			case ' ', '\t', '!':
				// keep scanning for a colon
			case ':':
				next = stDone
			default:
				// anything else means the prefix ended back at the mark
				restLen = mark - typeLen - scopeLen
				return typeLen, scopeLen, restLen
			}
		}

		state = next
		cursor += size
		switch state {
		case stType, stTypeRecovery:
			typeLen += size
		case stScope, stScopeRecovery, stScopeDone:
			scopeLen += size
		case stRest, stEndRecovery:
			restLen += size
		case stDone:
			restLen += size
			return typeLen, scopeLen, restLen
		}
	}

	// the line ended mid-state; resolve pending recoveries
	switch state {
	case stScopeRecovery:
		scopeLen = mark - typeLen
		restLen = 0
	case stEndRecovery:
		restLen = mark - typeLen - scopeLen
	}
	return typeLen, scopeLen, restLen
}

// scanHeader splits one header line (without its newline) into the field
// spans of a cst.Header. base is the absolute offset of the line start.
func scanHeader(line string, base uint32) *cst.Header {
	typeLen, scopeLen, restLen := prefixLengths(line)
	h := &cst.Header{}

	h.Type = spanAt(base, 0, typeLen)
	if strings.IndexFunc(line[:typeLen], unicode.IsSpace) >= 0 {
		h.Flags |= cst.HeaderTypeWhitespace
	}

	scopeEnd := typeLen + scopeLen
	if scopeLen > 0 {
		h.Flags |= cst.HeaderHasScope
		seg := line[typeLen:scopeEnd]
		innerStart, innerEnd := typeLen, scopeEnd
		if seg[0] == '(' {
			innerStart++
		} else {
			h.Flags |= cst.HeaderScopeUnclosed
		}
		if seg[len(seg)-1] == ')' {
			innerEnd--
		} else {
			h.Flags |= cst.HeaderScopeUnclosed
		}
		if innerEnd < innerStart {
			innerEnd = innerStart
		}
		h.Scope = spanAt(base, innerStart, innerEnd)
	}

	restEnd := scopeEnd + restLen
	rest := line[scopeEnd:restEnd]
	if i := strings.IndexByte(rest, '!'); i >= 0 {
		h.Bang = spanAt(base, scopeEnd+i, scopeEnd+i+1)
	}
	if restLen > 0 && rest[restLen-1] == ':' {
		h.Colon = spanAt(base, restEnd-1, restEnd)
	} else {
		h.Flags |= cst.HeaderMissingColon
	}

	padEnd := restEnd
	for padEnd < len(line) && (line[padEnd] == ' ' || line[padEnd] == '\t') {
		padEnd++
	}
	h.Padding = spanAt(base, restEnd, padEnd)

	descEnd := len(line)
	for descEnd > padEnd && (line[descEnd-1] == ' ' || line[descEnd-1] == '\t') {
		descEnd--
	}
	h.Description = spanAt(base, padEnd, descEnd)
	return h
}
