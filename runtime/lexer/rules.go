package lexer

import "regexp"

// Rule pairs an anchored pattern with the token type it produces. Rules are
// tried in declared order and the first match wins; a Skip type means the
// match is consumed without emitting a token.
type Rule struct {
	Pattern *regexp.Regexp
	Type    TokenType
}

// TemplateRules tokenizes full template source. Ordering is the
// disambiguation mechanism: verbatim regions come first so braces inside
// scripts and styles are never read as tags, and the block-opening tags come
// before the catch-all TAG rule or they would never be recognized.
var TemplateRules = []Rule{
	{regexp.MustCompile(`(?s)^<script\b[^>]*>.*?</script>`), TEXT},
	{regexp.MustCompile(`(?s)^<style\b[^>]*>.*?</style>`), TEXT},
	{regexp.MustCompile(`(?s)^<!--.*?-->`), TEXT},
	{regexp.MustCompile(`(?s)^\{[#!]*\s*import\s[^{}]*\}`), IMPORT},
	{regexp.MustCompile(`(?s)^\{[#!]*\s*else\s+if\s[^{}]*\}`), ELSEIF},
	{regexp.MustCompile(`(?s)^\{[#!]*\s*else\s*\}`), ELSE},
	{regexp.MustCompile(`(?s)^\{[#!]*\s*if\s[^{}]*\}`), IF},
	{regexp.MustCompile(`(?s)^\{\s*/if\s*\}`), IF_END},
	{regexp.MustCompile(`(?s)^\{[#!]*\s*for\s[^{}]*\}`), FOR},
	{regexp.MustCompile(`(?s)^\{\s*/for\s*\}`), FOR_END},
	{regexp.MustCompile(`(?s)^\{[#!]*[^{}]*\}`), TAG},
	{regexp.MustCompile(`(?s)^[^{]+`), TEXT},
}

// ExpressionRules tokenizes the content of a single tag or statement.
// Keywords precede IDENT, and two-character operators precede their
// one-character prefixes.
var ExpressionRules = []Rule{
	{regexp.MustCompile(`^\s+`), Skip},
	{regexp.MustCompile(`^import\b`), IMPORT},
	{regexp.MustCompile(`^with\b`), WITH},
	{regexp.MustCompile(`^if\b`), IF},
	{regexp.MustCompile(`^for\b`), FOR},
	{regexp.MustCompile(`^in\b`), IN},
	{regexp.MustCompile(`^true\b`), TRUE},
	{regexp.MustCompile(`^false\b`), FALSE},
	{regexp.MustCompile(`^null\b`), NULL},
	{regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*`), IDENT},
	{regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?`), NUMBER},
	{regexp.MustCompile(`^"(?:\\.|[^"\\])*"`), STRING},
	{regexp.MustCompile(`^'(?:\\.|[^'\\])*'`), STRING},
	{regexp.MustCompile(`^\|\|`), OR_OR},
	{regexp.MustCompile(`^&&`), AND_AND},
	{regexp.MustCompile(`^==`), EQ_EQ},
	{regexp.MustCompile(`^!=`), NOT_EQ},
	{regexp.MustCompile(`^<=`), LT_EQ},
	{regexp.MustCompile(`^>=`), GT_EQ},
	{regexp.MustCompile(`^<`), LT},
	{regexp.MustCompile(`^>`), GT},
	{regexp.MustCompile(`^\+`), PLUS},
	{regexp.MustCompile(`^-`), MINUS},
	{regexp.MustCompile(`^\*`), STAR},
	{regexp.MustCompile(`^/`), SLASH},
	{regexp.MustCompile(`^!`), NOT},
	{regexp.MustCompile(`^\?`), QUESTION},
	{regexp.MustCompile(`^:`), COLON},
	{regexp.MustCompile(`^\.`), DOT},
	{regexp.MustCompile(`^,`), COMMA},
	{regexp.MustCompile(`^\(`), LPAREN},
	{regexp.MustCompile(`^\)`), RPAREN},
	{regexp.MustCompile(`^\[`), LSQUARE},
	{regexp.MustCompile(`^\]`), RSQUARE},
}
