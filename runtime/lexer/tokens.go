package lexer

// TokenType identifies the lexical class of a token. Template-level types are
// produced by TemplateRules, expression-level types by ExpressionRules; the
// statement keyword types (IMPORT, IF, FOR) are shared by both rule sets.
type TokenType int

const (
	// Template-level tokens
	TEXT TokenType = iota
	TAG
	IMPORT
	IF
	ELSEIF
	ELSE
	IF_END
	FOR
	FOR_END

	// Expression keywords
	WITH
	IN
	TRUE
	FALSE
	NULL

	// Expression literals and names
	IDENT
	NUMBER
	STRING

	// Operators
	OR_OR   // ||
	AND_AND // &&
	EQ_EQ   // ==
	NOT_EQ  // !=
	LT_EQ   // <=
	GT_EQ   // >=
	LT      // <
	GT      // >
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	NOT     // !

	// Punctuation
	QUESTION // ?
	COLON    // :
	DOT      // .
	COMMA    // ,
	LPAREN   // (
	RPAREN   // )
	LSQUARE  // [
	RSQUARE  // ]
)

// Skip marks a rule whose match is consumed and discarded (whitespace).
const Skip TokenType = -1

// Token is a single lexical unit. Tokens are produced lazily, one at a time,
// and are immutable once created.
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// String returns a readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case Skip:
		return "SKIP"
	case TEXT:
		return "TEXT"
	case TAG:
		return "TAG"
	case IMPORT:
		return "IMPORT"
	case IF:
		return "IF"
	case ELSEIF:
		return "ELSEIF"
	case ELSE:
		return "ELSE"
	case IF_END:
		return "IF_END"
	case FOR:
		return "FOR"
	case FOR_END:
		return "FOR_END"
	case WITH:
		return "WITH"
	case IN:
		return "IN"
	case TRUE:
		return "TRUE"
	case FALSE:
		return "FALSE"
	case NULL:
		return "NULL"
	case IDENT:
		return "IDENT"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case OR_OR:
		return "OR_OR"
	case AND_AND:
		return "AND_AND"
	case EQ_EQ:
		return "EQ_EQ"
	case NOT_EQ:
		return "NOT_EQ"
	case LT_EQ:
		return "LT_EQ"
	case GT_EQ:
		return "GT_EQ"
	case LT:
		return "LT"
	case GT:
		return "GT"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case STAR:
		return "STAR"
	case SLASH:
		return "SLASH"
	case NOT:
		return "NOT"
	case QUESTION:
		return "QUESTION"
	case COLON:
		return "COLON"
	case DOT:
		return "DOT"
	case COMMA:
		return "COMMA"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LSQUARE:
		return "LSQUARE"
	case RSQUARE:
		return "RSQUARE"
	default:
		return "UNKNOWN"
	}
}
