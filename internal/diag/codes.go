package diag

import "fmt"

// Code is a compact numeric identifier for a diagnostic with a stable,
// user-facing string ID. Numeric ranges group related checks: 1xxx for
// message structure, 2xxx for header content, 3xxx for body layout, 4xxx
// for trailers and breaking-change handling, 9xxx for engine internals.
type Code uint16

const (
	UnknownCode Code = 0

	// Structure (1xxx)
	CodeHeaderFormat     Code = 1000
	CodeEmptyMessage     Code = 1001
	CodeMissingColon     Code = 1002
	CodeTypeWhitespace   Code = 1003
	CodeUnclosedScope    Code = 1004
	CodeScopeEmpty       Code = 1005
	CodeTextAfterTrailer Code = 1006

	// Header content (2xxx)
	CodeTypeEnum               Code = 2001
	CodeScopeEnum              Code = 2002
	CodeMissingSpaceAfterColon Code = 2003
	CodeExtraSpaceAfterColon   Code = 2004
	CodeSubjectEmpty           Code = 2005
	CodeSubjectFullStop        Code = 2006
	CodeHeaderMaxLength        Code = 2007

	// Body layout (3xxx)
	CodeBlankBeforeBody     Code = 3001
	CodeBlankBeforeTrailers Code = 3002
	CodeBodyMaxLength       Code = 3003

	// Trailers and breaking changes (4xxx)
	CodeBreakingDuplicate Code = 4001
	CodeBreakingNoTrailer Code = 4002

	// Engine (9xxx)
	CodeRuleFailed      Code = 9001
	CodeInputUnreadable Code = 9002
)

var codeIDs = map[Code]string{
	CodeHeaderFormat:           "header-format",
	CodeEmptyMessage:           "empty-message",
	CodeMissingColon:           "missing-colon",
	CodeTypeWhitespace:         "type-whitespace",
	CodeUnclosedScope:          "unclosed-scope",
	CodeScopeEmpty:             "scope-empty",
	CodeTextAfterTrailer:       "text-after-trailer",
	CodeTypeEnum:               "type-enum",
	CodeScopeEnum:              "scope-enum",
	CodeMissingSpaceAfterColon: "missing-space-after-colon",
	CodeExtraSpaceAfterColon:   "extra-space-after-colon",
	CodeSubjectEmpty:           "subject-empty",
	CodeSubjectFullStop:        "subject-full-stop",
	CodeHeaderMaxLength:        "header-max-length",
	CodeBlankBeforeBody:        "blank-before-body",
	CodeBlankBeforeTrailers:    "blank-before-trailers",
	CodeBodyMaxLength:          "body-max-length",
	CodeBreakingDuplicate:      "breaking-duplicate",
	CodeBreakingNoTrailer:      "breaking-no-trailer",
	CodeRuleFailed:             "rule-failed",
	CodeInputUnreadable:        "input-unreadable",
}

var codeDescription = map[Code]string{
	UnknownCode:                "unknown diagnostic",
	CodeHeaderFormat:           "header does not match type(scope)!: description",
	CodeEmptyMessage:           "commit message has no header line",
	CodeMissingColon:           "header is missing the colon after the type",
	CodeTypeWhitespace:         "type contains whitespace",
	CodeUnclosedScope:          "scope parenthesis is never closed",
	CodeScopeEmpty:             "scope is empty",
	CodeTextAfterTrailer:       "free text after the first trailer",
	CodeTypeEnum:               "type is not in the configured set",
	CodeScopeEnum:              "scope is not in the configured set",
	CodeMissingSpaceAfterColon: "missing space after the colon",
	CodeExtraSpaceAfterColon:   "more than one space after the colon",
	CodeSubjectEmpty:           "description is empty",
	CodeSubjectFullStop:        "description ends with a period",
	CodeHeaderMaxLength:        "header exceeds the configured length",
	CodeBlankBeforeBody:        "header and body are not separated by one blank line",
	CodeBlankBeforeTrailers:    "body and trailers are not separated by a blank line",
	CodeBodyMaxLength:          "body line exceeds the configured length",
	CodeBreakingDuplicate:      "more than one BREAKING CHANGE trailer",
	CodeBreakingNoTrailer:      "breaking marker without a BREAKING CHANGE trailer",
	CodeRuleFailed:             "a lint rule failed internally",
	CodeInputUnreadable:        "input could not be read",
}

var codeByID = func() map[string]Code {
	m := make(map[string]Code, len(codeIDs))
	for c, id := range codeIDs {
		m[id] = c
	}
	return m
}()

// ID returns the stable string identifier used in config files and output.
func (c Code) ID() string {
	if id, ok := codeIDs[c]; ok {
		return id
	}
	return fmt.Sprintf("CC%04d", uint16(c))
}

// Title returns a short description of the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// CodeFromID resolves a stable string identifier back to its Code.
func CodeFromID(id string) (Code, bool) {
	c, ok := codeByID[id]
	return c, ok
}

// Codes returns every known code in ascending numeric order.
func Codes() []Code {
	out := make([]Code, 0, len(codeIDs))
	for c := range codeIDs {
		out = append(out, c)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
