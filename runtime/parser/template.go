package parser

import (
	"fmt"
	"strings"

	"github.com/brace-lang/brace/runtime/ast"
	"github.com/brace-lang/brace/runtime/lexer"
)

// templateParser consumes the markup-aware token stream and dispatches block
// constructors, delegating tag and statement bodies to the expression parser.
type templateParser struct {
	source string
	tz     *lexer.Tokenizer
}

// Parse parses full template source into a block list.
func Parse(source string) (*ast.BlockList, error) {
	p := &templateParser{
		source: source,
		tz:     lexer.NewTokenizer(source, lexer.TemplateRules, 1),
	}
	return p.blockList()
}

// blockList accumulates blocks until one of the terminating token types (or
// end of input) is reached. Terminators bound if and for bodies and are left
// unconsumed for the caller.
func (p *templateParser) blockList(until ...lexer.TokenType) (*ast.BlockList, error) {
	list := &ast.BlockList{}

	for {
		tok, ok, err := p.tz.Peek()
		if err != nil {
			return nil, err
		}
		if !ok || tokenTypeIn(tok.Type, until) {
			return list, nil
		}

		switch tok.Type {
		case lexer.TEXT:
			p.tz.Expect(lexer.TEXT)
			p.appendText(list, tok)

		case lexer.TAG:
			tag, err := p.tag(tok)
			if err != nil {
				return nil, err
			}
			list.Blocks = append(list.Blocks, tag)

		case lexer.IF:
			node, err := p.ifBlock(false)
			if err != nil {
				return nil, err
			}
			list.Blocks = append(list.Blocks, node)

		case lexer.FOR:
			node, err := p.forBlock(tok)
			if err != nil {
				return nil, err
			}
			list.Blocks = append(list.Blocks, node)

		case lexer.IMPORT:
			node, err := p.importBlock(tok)
			if err != nil {
				return nil, err
			}
			list.Blocks = append(list.Blocks, node)

		default:
			return nil, &Error{
				Kind:    ErrSyntax,
				Message: fmt.Sprintf("unexpected %q", tok.Value),
				Value:   tok.Value,
				Line:    tok.Line,
				Source:  p.source,
			}
		}
	}
}

// appendText merges consecutive raw text tokens into a single node.
func (p *templateParser) appendText(list *ast.BlockList, tok lexer.Token) {
	if n := len(list.Blocks); n > 0 {
		if prev, ok := list.Blocks[n-1].(*ast.Text); ok {
			prev.Value += tok.Value
			return
		}
	}
	list.Blocks = append(list.Blocks, &ast.Text{Line: tok.Line, Value: tok.Value})
}

// tag parses an output tag `{expr}` with optional flag prefix.
func (p *templateParser) tag(tok lexer.Token) (*ast.Tag, error) {
	p.tz.Expect(lexer.TAG)
	flags, content := splitTag(tok.Value)
	expr, err := ParseExpression(content, tok.Line)
	if err != nil {
		return nil, p.withSource(err)
	}
	return &ast.Tag{Line: tok.Line, Flags: flags, Expr: expr}, nil
}

// ifBlock parses an IF or ELSEIF token plus its consequent. The consequent
// stops at the first ELSEIF, ELSE or IF_END; an else branch is attached as
// the alternate rather than absorbed into the consequent. Only the outermost
// call (nested false) consumes the closing IF_END, so an else-if chain of any
// depth is closed by the single closing tag.
func (p *templateParser) ifBlock(nested bool) (ast.Block, error) {
	tok, ok, err := p.tz.Peek()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.missingClosing("{/if}")
	}
	p.tz.Expect(tok.Type) // IF or ELSEIF

	flags, content := splitTag(tok.Value)
	if tok.Type == lexer.ELSEIF {
		content = strings.TrimSpace(strings.TrimPrefix(content, "else"))
	}
	test, err := ParseIfStatement(content, tok.Line)
	if err != nil {
		return nil, p.withSource(err)
	}

	body, err := p.blockList(lexer.ELSEIF, lexer.ELSE, lexer.IF_END)
	if err != nil {
		return nil, err
	}
	stampFlags(body, flags)

	node := &ast.If{Line: tok.Line, Test: test, Consequent: body}

	next, ok, err := p.tz.Peek()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.missingClosing("{/if}")
	}

	switch next.Type {
	case lexer.ELSEIF:
		alt, err := p.ifBlock(true)
		if err != nil {
			return nil, err
		}
		node.Alternate = alt

	case lexer.ELSE:
		p.tz.Expect(lexer.ELSE)
		elseFlags, _ := splitTag(next.Value)
		elseBody, err := p.blockList(lexer.IF_END)
		if err != nil {
			return nil, err
		}
		stampFlags(elseBody, elseFlags)
		node.Alternate = &ast.Else{Line: next.Line, Body: elseBody}
	}

	if !nested {
		if _, err := p.tz.Expect(lexer.IF_END); err != nil {
			return nil, p.closingError(err, "{/if}")
		}
	}
	return node, nil
}

// forBlock parses a for loop and requires its closing tag.
func (p *templateParser) forBlock(tok lexer.Token) (*ast.For, error) {
	p.tz.Expect(lexer.FOR)
	flags, content := splitTag(tok.Value)

	st, err := ParseForStatement(content, tok.Line)
	if err != nil {
		return nil, p.withSource(err)
	}

	body, err := p.blockList(lexer.FOR_END)
	if err != nil {
		return nil, err
	}
	stampFlags(body, flags)

	if _, err := p.tz.Expect(lexer.FOR_END); err != nil {
		return nil, p.closingError(err, "{/for}")
	}
	return &ast.For{Line: tok.Line, Names: st.Names, Seq: st.Seq, Body: body}, nil
}

// importBlock parses an import tag into a leaf node; resolution happens at
// render time.
func (p *templateParser) importBlock(tok lexer.Token) (*ast.Import, error) {
	p.tz.Expect(lexer.IMPORT)
	_, content := splitTag(tok.Value)

	st, err := ParseImportStatement(content, tok.Line)
	if err != nil {
		return nil, p.withSource(err)
	}
	return &ast.Import{Line: tok.Line, Path: st.Path, Args: st.Args}, nil
}

// missingClosing reports an unclosed block at the line where the token
// stream ran out.
func (p *templateParser) missingClosing(closer string) error {
	return &Error{
		Kind:    ErrMissingClosingTag,
		Message: fmt.Sprintf("expected %s", closer),
		Line:    p.tz.Line(),
		Source:  p.source,
	}
}

// closingError converts an exhausted-input failure on a closing tag into a
// MissingClosingTag error; anything else propagates unchanged.
func (p *templateParser) closingError(err error, closer string) error {
	if lerr, ok := err.(*lexer.Error); ok && lerr.Kind == lexer.ErrUnexpectedEnd {
		return p.missingClosing(closer)
	}
	return err
}

// withSource attaches template source to parser errors raised from tag
// content, so snippets render against the full document. Tokenizer failures
// inside tag content are malformed tags from the document's point of view,
// so they convert to syntax errors here.
func (p *templateParser) withSource(err error) error {
	if perr, ok := err.(*Error); ok {
		if perr.Source == "" {
			perr.Source = p.source
		}
		return perr
	}
	if lerr, ok := err.(*lexer.Error); ok {
		msg := "unexpected end of expression"
		if lerr.Kind != lexer.ErrUnexpectedEnd {
			msg = fmt.Sprintf("unexpected %q", lerr.Value)
		}
		return &Error{
			Kind:    ErrSyntax,
			Message: msg,
			Value:   lerr.Value,
			Line:    lerr.Line,
			Source:  p.source,
		}
	}
	return err
}

// stampFlags copies a block's flag prefix onto its immediate text children.
// Flags never propagate into nested blocks.
func stampFlags(list *ast.BlockList, flags string) {
	if flags == "" {
		return
	}
	for _, block := range list.Blocks {
		if text, ok := block.(*ast.Text); ok {
			text.Flags = flags
		}
	}
}

// splitTag strips the delimiting braces from a tag token and extracts the
// flag prefix characters ('#' and '!') that immediately follow the opening
// brace. A '!' in that position is always a trim flag, never unary negation;
// whitespace after the brace ends the prefix, so `{ !x}` negates while `{!x}`
// trims.
func splitTag(value string) (flags, content string) {
	inner := strings.TrimSuffix(strings.TrimPrefix(value, "{"), "}")

	i := 0
	for i < len(inner) && (inner[i] == '#' || inner[i] == '!') {
		i++
	}
	return inner[:i], strings.TrimSpace(inner[i:])
}
