package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brace-lang/brace/runtime/ast"
	"github.com/brace-lang/brace/runtime/lexer"
)

// exprParser consumes a token stream scoped to a single expression string.
// Precedence is encoded by grammar rule nesting: each rule parses the next
// tighter-binding rule as its operand, so the call chain climbs from ternary
// down to primaries.
type exprParser struct {
	tz *lexer.Tokenizer
}

func newExprParser(content string, line int) *exprParser {
	return &exprParser{tz: lexer.NewTokenizer(content, lexer.ExpressionRules, line)}
}

// ParseExpression parses the content of an output tag (flags and braces
// already stripped) into a single expression tree.
func ParseExpression(content string, line int) (ast.Expr, error) {
	p := newExprParser(content, line)
	expr, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseIfStatement parses `if <expr>` and returns the test expression.
func ParseIfStatement(content string, line int) (ast.Expr, error) {
	p := newExprParser(content, line)
	if _, err := p.tz.Expect(lexer.IF); err != nil {
		return nil, err
	}
	test, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return test, nil
}

// ForStatement is the parsed form of `for ident[, ident] in <expr>`.
type ForStatement struct {
	Names []string
	Seq   ast.Expr
}

// ParseForStatement parses a for statement. One loop identifier binds the
// element value; a second binds the index or key. A third is rejected.
func ParseForStatement(content string, line int) (*ForStatement, error) {
	p := newExprParser(content, line)
	if _, err := p.tz.Expect(lexer.FOR); err != nil {
		return nil, err
	}

	names, err := p.identifierList()
	if err != nil {
		return nil, err
	}

	if _, err := p.tz.Expect(lexer.IN); err != nil {
		return nil, err
	}
	seq, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return &ForStatement{Names: names, Seq: seq}, nil
}

// ImportStatement is the parsed form of
// `import <expr> [with (key: expr, ...)]`.
type ImportStatement struct {
	Path ast.Expr
	Args []ast.ImportArg
}

// ParseImportStatement parses an import statement. Argument keys need not be
// unique; order is preserved so later entries override earlier ones.
func ParseImportStatement(content string, line int) (*ImportStatement, error) {
	p := newExprParser(content, line)
	if _, err := p.tz.Expect(lexer.IMPORT); err != nil {
		return nil, err
	}
	path, err := p.conditional()
	if err != nil {
		return nil, err
	}

	st := &ImportStatement{Path: path}

	tok, ok, err := p.tz.Peek()
	if err != nil {
		return nil, err
	}
	if ok && tok.Type == lexer.WITH {
		if _, err := p.tz.Expect(lexer.WITH); err != nil {
			return nil, err
		}
		st.Args, err = p.importArgs()
		if err != nil {
			return nil, err
		}
	}

	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return st, nil
}

// identifierList parses one or two comma-separated loop names.
func (p *exprParser) identifierList() ([]string, error) {
	first, err := p.tz.Expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	names := []string{first.Value}

	if ok, err := p.accept(lexer.COMMA); err != nil {
		return nil, err
	} else if ok {
		second, err := p.tz.Expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, second.Value)
	}

	// A third name is malformed input, not something to ignore.
	tok, ok, err := p.tz.Peek()
	if err != nil {
		return nil, err
	}
	if ok && tok.Type == lexer.COMMA {
		return nil, &Error{
			Kind:    ErrSyntax,
			Message: "for accepts at most two loop identifiers",
			Value:   tok.Value,
			Line:    tok.Line,
		}
	}
	return names, nil
}

// importArgs parses `( key: expr, ... )`.
func (p *exprParser) importArgs() ([]ast.ImportArg, error) {
	if _, err := p.tz.Expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var args []ast.ImportArg
	for {
		key, err := p.importArgKey()
		if err != nil {
			return nil, err
		}
		if _, err := p.tz.Expect(lexer.COLON); err != nil {
			return nil, err
		}
		value, err := p.conditional()
		if err != nil {
			return nil, err
		}
		args = append(args, ast.ImportArg{Key: key, Value: value})

		if ok, err := p.accept(lexer.COMMA); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}

	if _, err := p.tz.Expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// importArgKey accepts a bare identifier or a quoted string as an argument
// name.
func (p *exprParser) importArgKey() (string, error) {
	tok, ok, err := p.tz.Peek()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &lexer.Error{Kind: lexer.ErrUnexpectedEnd, Line: p.tz.Line()}
	}
	switch tok.Type {
	case lexer.IDENT:
		p.tz.Expect(lexer.IDENT)
		return tok.Value, nil
	case lexer.STRING:
		p.tz.Expect(lexer.STRING)
		return unquote(tok.Value), nil
	default:
		return "", &Error{
			Kind:    ErrSyntax,
			Message: fmt.Sprintf("expected argument name, got %q", tok.Value),
			Value:   tok.Value,
			Line:    tok.Line,
		}
	}
}

// conditional := logicalOr ('?' conditional ':' conditional)?
// The ternary is right-associative.
func (p *exprParser) conditional() (ast.Expr, error) {
	test, err := p.logicalOr()
	if err != nil {
		return nil, err
	}

	tok, ok, err := p.tz.Peek()
	if err != nil {
		return nil, err
	}
	if !ok || tok.Type != lexer.QUESTION {
		return test, nil
	}
	p.tz.Expect(lexer.QUESTION)

	consequent, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if _, err := p.tz.Expect(lexer.COLON); err != nil {
		return nil, err
	}
	alternate, err := p.conditional()
	if err != nil {
		return nil, err
	}
	return &ast.ConditionalExpr{Line: tok.Line, Test: test, Consequent: consequent, Alternate: alternate}, nil
}

func (p *exprParser) logicalOr() (ast.Expr, error) {
	return p.binaryChain(p.logicalAnd, true, lexer.OR_OR)
}

func (p *exprParser) logicalAnd() (ast.Expr, error) {
	return p.binaryChain(p.equality, true, lexer.AND_AND)
}

func (p *exprParser) equality() (ast.Expr, error) {
	return p.binaryChain(p.relational, false, lexer.EQ_EQ, lexer.NOT_EQ)
}

func (p *exprParser) relational() (ast.Expr, error) {
	return p.binaryChain(p.additive, false, lexer.LT, lexer.GT, lexer.LT_EQ, lexer.GT_EQ)
}

func (p *exprParser) additive() (ast.Expr, error) {
	return p.binaryChain(p.multiplicative, false, lexer.PLUS, lexer.MINUS)
}

func (p *exprParser) multiplicative() (ast.Expr, error) {
	return p.binaryChain(p.unary, false, lexer.STAR, lexer.SLASH)
}

// binaryChain builds a left-leaning tree: left = left OP right repeated while
// the lookahead matches one of ops. Left association gives left-to-right
// evaluation for same-precedence operators.
func (p *exprParser) binaryChain(operand func() (ast.Expr, error), logical bool, ops ...lexer.TokenType) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok, err := p.tz.Peek()
		if err != nil {
			return nil, err
		}
		if !ok || !tokenTypeIn(tok.Type, ops) {
			return left, nil
		}
		p.tz.Expect(tok.Type)

		right, err := operand()
		if err != nil {
			return nil, err
		}
		if logical {
			left = &ast.LogicalExpr{Line: tok.Line, Op: tok.Value, Left: left, Right: right}
		} else {
			left = &ast.BinaryExpr{Line: tok.Line, Op: tok.Value, Left: left, Right: right}
		}
	}
}

// unary := ('+' | '-' | '!') unary | member
func (p *exprParser) unary() (ast.Expr, error) {
	tok, ok, err := p.tz.Peek()
	if err != nil {
		return nil, err
	}
	if ok && (tok.Type == lexer.PLUS || tok.Type == lexer.MINUS || tok.Type == lexer.NOT) {
		p.tz.Expect(tok.Type)
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Line: tok.Line, Op: tok.Value, Operand: operand}, nil
	}
	return p.member()
}

// member parses a primary followed by any mix of dot access, bracket access
// and call argument lists in a single loop, so chains like a.b()[c].d(e)
// parse correctly. Chained calls f()() fall out of the same loop.
func (p *exprParser) member() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok, err := p.tz.Peek()
		if err != nil {
			return nil, err
		}
		if !ok {
			return expr, nil
		}

		switch tok.Type {
		case lexer.DOT:
			p.tz.Expect(lexer.DOT)
			name, err := p.tz.Expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{
				Line:     tok.Line,
				Object:   expr,
				Property: &ast.StringLiteral{Line: name.Line, Value: name.Value},
			}

		case lexer.LSQUARE:
			p.tz.Expect(lexer.LSQUARE)
			index, err := p.conditional()
			if err != nil {
				return nil, err
			}
			if _, err := p.tz.Expect(lexer.RSQUARE); err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Line: tok.Line, Object: expr, Property: index, Computed: true}

		case lexer.LPAREN:
			args, err := p.callArgs()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Line: tok.Line, Callee: expr, Args: args}

		default:
			return expr, nil
		}
	}
}

// callArgs parses `( expr, ... )`; the list may be empty.
func (p *exprParser) callArgs() ([]ast.Expr, error) {
	if _, err := p.tz.Expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var args []ast.Expr
	tok, ok, err := p.tz.Peek()
	if err != nil {
		return nil, err
	}
	if ok && tok.Type != lexer.RPAREN {
		for {
			arg, err := p.conditional()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if ok, err := p.accept(lexer.COMMA); err != nil {
				return nil, err
			} else if !ok {
				break
			}
		}
	}

	if _, err := p.tz.Expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// primary := '(' conditional ')' | '[' elements ']' | Identifier | Literal
func (p *exprParser) primary() (ast.Expr, error) {
	tok, ok, err := p.tz.Peek()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &lexer.Error{Kind: lexer.ErrUnexpectedEnd, Line: p.tz.Line()}
	}

	switch tok.Type {
	case lexer.LPAREN:
		p.tz.Expect(lexer.LPAREN)
		expr, err := p.conditional()
		if err != nil {
			return nil, err
		}
		if _, err := p.tz.Expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.LSQUARE:
		return p.arrayLiteral()

	case lexer.IDENT:
		p.tz.Expect(lexer.IDENT)
		return &ast.Identifier{Line: tok.Line, Name: tok.Value}, nil

	case lexer.TRUE:
		p.tz.Expect(lexer.TRUE)
		return &ast.BooleanLiteral{Line: tok.Line, Value: true}, nil

	case lexer.FALSE:
		p.tz.Expect(lexer.FALSE)
		return &ast.BooleanLiteral{Line: tok.Line, Value: false}, nil

	case lexer.NULL:
		p.tz.Expect(lexer.NULL)
		return &ast.NullLiteral{Line: tok.Line}, nil

	case lexer.STRING:
		p.tz.Expect(lexer.STRING)
		return &ast.StringLiteral{Line: tok.Line, Value: unquote(tok.Value)}, nil

	case lexer.NUMBER:
		p.tz.Expect(lexer.NUMBER)
		value, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, &Error{
				Kind:    ErrSyntax,
				Message: fmt.Sprintf("invalid number %q", tok.Value),
				Value:   tok.Value,
				Line:    tok.Line,
			}
		}
		return &ast.NumericLiteral{Line: tok.Line, Value: value}, nil

	default:
		return nil, &Error{
			Kind:    ErrSyntax,
			Message: fmt.Sprintf("unexpected token %q", tok.Value),
			Value:   tok.Value,
			Line:    tok.Line,
		}
	}
}

// arrayLiteral parses `[ expr, ... ]`; the list may be empty.
func (p *exprParser) arrayLiteral() (ast.Expr, error) {
	open, err := p.tz.Expect(lexer.LSQUARE)
	if err != nil {
		return nil, err
	}
	node := &ast.ArrayExpr{Line: open.Line}

	tok, ok, err := p.tz.Peek()
	if err != nil {
		return nil, err
	}
	if ok && tok.Type != lexer.RSQUARE {
		for {
			element, err := p.conditional()
			if err != nil {
				return nil, err
			}
			node.Elements = append(node.Elements, element)

			if ok, err := p.accept(lexer.COMMA); err != nil {
				return nil, err
			} else if !ok {
				break
			}
		}
	}

	if _, err := p.tz.Expect(lexer.RSQUARE); err != nil {
		return nil, err
	}
	return node, nil
}

// accept consumes the lookahead when it matches typ.
func (p *exprParser) accept(typ lexer.TokenType) (bool, error) {
	tok, ok, err := p.tz.Peek()
	if err != nil {
		return false, err
	}
	if !ok || tok.Type != typ {
		return false, nil
	}
	p.tz.Expect(typ)
	return true, nil
}

// expectEnd fails when tokens remain after a complete production.
func (p *exprParser) expectEnd() error {
	tok, ok, err := p.tz.Peek()
	if err != nil {
		return err
	}
	if ok {
		return &Error{
			Kind:    ErrSyntax,
			Message: fmt.Sprintf("unexpected token %q", tok.Value),
			Value:   tok.Value,
			Line:    tok.Line,
		}
	}
	return nil
}

func tokenTypeIn(typ lexer.TokenType, set []lexer.TokenType) bool {
	for _, t := range set {
		if t == typ {
			return true
		}
	}
	return false
}

// unquote strips the surrounding quote pair from a STRING token value and
// resolves backslash escapes. `\n`, `\t` and `\r` produce their control
// characters; any other escaped character stands for itself, which covers
// `\"`, `\'` and `\\`.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	inner := s[1 : len(s)-1]
	if !strings.ContainsRune(inner, '\\') {
		return inner
	}

	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				c = '\n'
			case 't':
				c = '\t'
			case 'r':
				c = '\r'
			default:
				c = inner[i]
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
