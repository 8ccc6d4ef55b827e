package lexer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// collect drains the tokenizer into a slice. Fatal on lexing errors so
// expectation diffs stay readable.
func collect(t *testing.T, source string, rules []Rule) []Token {
	t.Helper()
	tz := NewTokenizer(source, rules, 1)

	var tokens []Token
	for {
		tok, ok, err := tz.Peek()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		if !ok {
			return tokens
		}
		if _, err := tz.Expect(tok.Type); err != nil {
			t.Fatalf("unexpected expect error: %v", err)
		}
		tokens = append(tokens, tok)
	}
}

func TestTemplateTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "text only",
			input: "hello world",
			expected: []Token{
				{TEXT, "hello world", 1},
			},
		},
		{
			name:  "text around tag",
			input: "a{name}b",
			expected: []Token{
				{TEXT, "a", 1},
				{TAG, "{name}", 1},
				{TEXT, "b", 1},
			},
		},
		{
			name:  "if block with else",
			input: "{if ok}yes{else}no{/if}",
			expected: []Token{
				{IF, "{if ok}", 1},
				{TEXT, "yes", 1},
				{ELSE, "{else}", 1},
				{TEXT, "no", 1},
				{IF_END, "{/if}", 1},
			},
		},
		{
			name:  "else if chain",
			input: "{if a}1{else if b}2{else}3{/if}",
			expected: []Token{
				{IF, "{if a}", 1},
				{TEXT, "1", 1},
				{ELSEIF, "{else if b}", 1},
				{TEXT, "2", 1},
				{ELSE, "{else}", 1},
				{TEXT, "3", 1},
				{IF_END, "{/if}", 1},
			},
		},
		{
			name:  "for block",
			input: "{for x in items}{x}{/for}",
			expected: []Token{
				{FOR, "{for x in items}", 1},
				{TAG, "{x}", 1},
				{FOR_END, "{/for}", 1},
			},
		},
		{
			name:  "import tag",
			input: `{import "partial.html" with (a: 1)}`,
			expected: []Token{
				{IMPORT, `{import "partial.html" with (a: 1)}`, 1},
			},
		},
		{
			name:  "flagged tags keep their prefix",
			input: "{#!value}{!if ok}x{/if}",
			expected: []Token{
				{TAG, "{#!value}", 1},
				{IF, "{!if ok}", 1},
				{TEXT, "x", 1},
				{IF_END, "{/if}", 1},
			},
		},
		{
			name:  "script body is verbatim text",
			input: "<script>if (x) { f(); }</script>{name}",
			expected: []Token{
				{TEXT, "<script>if (x) { f(); }</script>", 1},
				{TAG, "{name}", 1},
			},
		},
		{
			name:  "style body is verbatim text",
			input: "<style>.a { color: red }</style>",
			expected: []Token{
				{TEXT, "<style>.a { color: red }</style>", 1},
			},
		},
		{
			name:  "html comment is verbatim text",
			input: "<!-- {not a tag} -->",
			expected: []Token{
				{TEXT, "<!-- {not a tag} -->", 1},
			},
		},
		{
			name:  "line numbers advance with newlines",
			input: "a\nb\n{if ok}\nc{/if}",
			expected: []Token{
				{TEXT, "a\nb\n", 1},
				{IF, "{if ok}", 3},
				{TEXT, "\nc", 3},
				{IF_END, "{/if}", 4},
			},
		},
		{
			name:  "identifier starting with keyword is a plain tag",
			input: "{iffy}{formula}",
			expected: []Token{
				{TAG, "{iffy}", 1},
				{TAG, "{formula}", 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, tt.input, TemplateRules)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpressionTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "arithmetic with precedence-relevant operators",
			input: "1 + 2 * 3",
			expected: []Token{
				{NUMBER, "1", 1},
				{PLUS, "+", 1},
				{NUMBER, "2", 1},
				{STAR, "*", 1},
				{NUMBER, "3", 1},
			},
		},
		{
			name:  "two char operators win over their prefixes",
			input: "a <= b != c || d",
			expected: []Token{
				{IDENT, "a", 1},
				{LT_EQ, "<=", 1},
				{IDENT, "b", 1},
				{NOT_EQ, "!=", 1},
				{IDENT, "c", 1},
				{OR_OR, "||", 1},
				{IDENT, "d", 1},
			},
		},
		{
			name:  "keywords before identifiers",
			input: "for item in items",
			expected: []Token{
				{FOR, "for", 1},
				{IDENT, "item", 1},
				{IN, "in", 1},
				{IDENT, "items", 1},
			},
		},
		{
			name:  "keyword prefix does not split identifiers",
			input: "innermost format truest",
			expected: []Token{
				{IDENT, "innermost", 1},
				{IDENT, "format", 1},
				{IDENT, "truest", 1},
			},
		},
		{
			name:  "string literals in both quote styles",
			input: `"double" 'single'`,
			expected: []Token{
				{STRING, `"double"`, 1},
				{STRING, `'single'`, 1},
			},
		},
		{
			name:  "escaped quotes stay inside the literal",
			input: `"say \"hi\"" 'it\'s' "back\\slash"`,
			expected: []Token{
				{STRING, `"say \"hi\""`, 1},
				{STRING, `'it\'s'`, 1},
				{STRING, `"back\\slash"`, 1},
			},
		},
		{
			name:  "member and call punctuation",
			input: "a.b[0](c, d)",
			expected: []Token{
				{IDENT, "a", 1},
				{DOT, ".", 1},
				{IDENT, "b", 1},
				{LSQUARE, "[", 1},
				{NUMBER, "0", 1},
				{RSQUARE, "]", 1},
				{LPAREN, "(", 1},
				{IDENT, "c", 1},
				{COMMA, ",", 1},
				{IDENT, "d", 1},
				{RPAREN, ")", 1},
			},
		},
		{
			name:  "ternary with literals",
			input: "ok ? true : null",
			expected: []Token{
				{IDENT, "ok", 1},
				{QUESTION, "?", 1},
				{TRUE, "true", 1},
				{COLON, ":", 1},
				{NULL, "null", 1},
			},
		},
		{
			name:  "decimal numbers",
			input: "3.14 10",
			expected: []Token{
				{NUMBER, "3.14", 1},
				{NUMBER, "10", 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, tt.input, ExpressionRules)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPeekIsMemoized(t *testing.T) {
	tz := NewTokenizer("a b", ExpressionRules, 1)

	first, ok, err := tz.Peek()
	if err != nil || !ok {
		t.Fatalf("Peek() = %v, %v, %v", first, ok, err)
	}
	second, ok, err := tz.Peek()
	if err != nil || !ok {
		t.Fatalf("Peek() = %v, %v, %v", second, ok, err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Peek changed result (-first +second):\n%s", diff)
	}

	consumed, err := tz.Expect(IDENT)
	if err != nil {
		t.Fatalf("Expect(IDENT) error: %v", err)
	}
	if consumed.Value != "a" {
		t.Errorf("Expect consumed %q, want %q", consumed.Value, "a")
	}
}

func TestExpectTypeMismatch(t *testing.T) {
	tz := NewTokenizer("42", ExpressionRules, 1)

	_, err := tz.Expect(IDENT)
	var lerr *Error
	if !errors.As(err, &lerr) {
		t.Fatalf("Expect error = %v, want *Error", err)
	}
	if lerr.Kind != ErrUnexpectedType {
		t.Errorf("Kind = %v, want ErrUnexpectedType", lerr.Kind)
	}
	if lerr.Want != IDENT || lerr.Got != NUMBER {
		t.Errorf("Want/Got = %v/%v, want IDENT/NUMBER", lerr.Want, lerr.Got)
	}
}

func TestExpectAtEndOfInput(t *testing.T) {
	tz := NewTokenizer("   ", ExpressionRules, 1)

	_, err := tz.Expect(IDENT)
	var lerr *Error
	if !errors.As(err, &lerr) {
		t.Fatalf("Expect error = %v, want *Error", err)
	}
	if lerr.Kind != ErrUnexpectedEnd {
		t.Errorf("Kind = %v, want ErrUnexpectedEnd", lerr.Kind)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	tz := NewTokenizer("a @ b", ExpressionRules, 1)

	if _, err := tz.Expect(IDENT); err != nil {
		t.Fatalf("Expect(IDENT) error: %v", err)
	}

	_, _, err := tz.Peek()
	var lerr *Error
	if !errors.As(err, &lerr) {
		t.Fatalf("Peek error = %v, want *Error", err)
	}
	if lerr.Kind != ErrUnexpectedToken {
		t.Errorf("Kind = %v, want ErrUnexpectedToken", lerr.Kind)
	}
	if lerr.Value != "@" {
		t.Errorf("Value = %q, want %q", lerr.Value, "@")
	}
}

func TestLineOffsetCarriesThrough(t *testing.T) {
	tz := NewTokenizer("x", ExpressionRules, 7)

	tok, err := tz.Expect(IDENT)
	if err != nil {
		t.Fatalf("Expect(IDENT) error: %v", err)
	}
	if tok.Line != 7 {
		t.Errorf("Line = %d, want 7", tok.Line)
	}
}
