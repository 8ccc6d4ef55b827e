package lexer

import "fmt"

// ErrorKind categorizes tokenizer failures.
type ErrorKind int

const (
	// ErrUnexpectedToken means no rule matched the input at the cursor.
	ErrUnexpectedToken ErrorKind = iota
	// ErrUnexpectedEnd means a token was required but the input ran out.
	ErrUnexpectedEnd
	// ErrUnexpectedType means the lookahead token did not have the type the
	// caller demanded.
	ErrUnexpectedType
)

// Error is a fatal tokenizing failure. Nothing is retried: the enclosing
// parse aborts and the error propagates to the caller.
type Error struct {
	Kind  ErrorKind
	Value string    // offending text, if any
	Want  TokenType // only set for ErrUnexpectedType
	Got   TokenType // only set for ErrUnexpectedType
	Line  int
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnexpectedEnd:
		return fmt.Sprintf("line %d: unexpected end of input", e.Line)
	case ErrUnexpectedType:
		return fmt.Sprintf("line %d: expected %s, got %s %q", e.Line, e.Want, e.Got, e.Value)
	default:
		return fmt.Sprintf("line %d: unexpected token %q", e.Line, e.Value)
	}
}
