package lexer

import (
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// Tokenizer turns source text into a lazy stream of tokens according to an
// ordered rule list. State (cursor, line counter, lookahead slot) is
// per-instance and owned exclusively by the parse call that created it.
type Tokenizer struct {
	source string
	rules  []Rule
	cursor int
	line   int

	// Single-token lookahead, memoized by Peek.
	peeked  Token
	hasPeek bool

	logger *slog.Logger
}

// NewTokenizer creates a tokenizer over source using the given rules.
// lineOffset is the line number of the first character, so tokens produced
// from a substring of a larger document still report document positions.
func NewTokenizer(source string, rules []Rule, lineOffset int) *Tokenizer {
	if lineOffset < 1 {
		lineOffset = 1
	}

	logLevel := slog.LevelInfo
	if os.Getenv("BRACE_DEBUG_LEXER") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	return &Tokenizer{
		source: source,
		rules:  rules,
		line:   lineOffset,
		logger: logger,
	}
}

// Line returns the current line counter, advanced by counting newline
// characters in consumed tokens.
func (t *Tokenizer) Line() int {
	return t.line
}

// Peek returns the next token without consuming it. ok is false when the
// input is exhausted.
func (t *Tokenizer) Peek() (tok Token, ok bool, err error) {
	if t.hasPeek {
		return t.peeked, true, nil
	}
	tok, ok, err = t.next()
	if err != nil || !ok {
		return Token{}, false, err
	}
	t.peeked = tok
	t.hasPeek = true
	return tok, true, nil
}

// Expect consumes and returns the lookahead token if it has the wanted type.
// A mismatch or exhausted input is fatal.
func (t *Tokenizer) Expect(want TokenType) (Token, error) {
	tok, ok, err := t.Peek()
	if err != nil {
		return Token{}, err
	}
	if !ok {
		return Token{}, &Error{Kind: ErrUnexpectedEnd, Line: t.line}
	}
	if tok.Type != want {
		return Token{}, &Error{Kind: ErrUnexpectedType, Value: tok.Value, Want: want, Got: tok.Type, Line: tok.Line}
	}
	t.hasPeek = false
	return tok, nil
}

// next matches rules against the remaining input, first match wins. Skip
// rules consume their match and recurse for the next real token.
func (t *Tokenizer) next() (Token, bool, error) {
	if t.cursor >= len(t.source) {
		return Token{}, false, nil
	}

	rest := t.source[t.cursor:]
	for _, rule := range t.rules {
		loc := rule.Pattern.FindStringIndex(rest)
		if loc == nil {
			continue
		}
		matched := rest[:loc[1]]
		startLine := t.line
		t.cursor += loc[1]
		t.line += strings.Count(matched, "\n")

		if rule.Type == Skip {
			return t.next()
		}

		t.logger.Debug("[LEXER] token", "type", rule.Type, "value", matched, "line", startLine)
		return Token{Type: rule.Type, Value: matched, Line: startLine}, true, nil
	}

	ch, _ := utf8.DecodeRuneInString(rest)
	return Token{}, false, &Error{Kind: ErrUnexpectedToken, Value: string(ch), Line: t.line}
}
