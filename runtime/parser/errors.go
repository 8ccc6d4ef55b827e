package parser

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes parse failures. Tokenizer-level failures (no rule
// match, exhausted input, lookahead type mismatch) surface as *lexer.Error
// from the expression entry points; the template parser converts them to
// syntax errors with document positions.
type ErrorKind int

const (
	// ErrSyntax means a production had no matching case for the lookahead.
	ErrSyntax ErrorKind = iota
	// ErrMissingClosingTag means an if or for block reached the end of the
	// token stream before its closing tag.
	ErrMissingClosingTag
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMissingClosingTag:
		return "missing closing tag"
	default:
		return "syntax error"
	}
}

// Error is a fatal parse failure with source attribution. When the parser
// still holds the full source, Error renders a caret snippet under the
// offending line.
type Error struct {
	Kind    ErrorKind
	Message string
	Value   string // offending text, if any
	Line    int
	Source  string // full source for snippet rendering, may be empty
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Message)
	if snippet := e.snippet(); snippet != "" {
		return msg + "\n" + snippet
	}
	return msg
}

// snippet shows the offending source line with a caret under the first
// occurrence of the offending value.
func (e *Error) snippet() string {
	if e.Source == "" || e.Line < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if e.Line > len(lines) {
		return ""
	}
	lineContent := lines[e.Line-1]

	col := 0
	if e.Value != "" {
		if idx := strings.Index(lineContent, e.Value); idx >= 0 {
			col = idx
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%4d | %s\n", e.Line, lineContent)
	b.WriteString("     | " + strings.Repeat(" ", col) + "^")
	return b.String()
}
