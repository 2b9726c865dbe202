package parser

import (
	"fmt"

	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

// Parser consumes a token stream and produces declarations.
type Parser struct {
	tokens   []token.Token
	it       int
	reporter diag.Reporter
}

// New creates a parser over a token stream; the stream must end with EOF.
func New(tokens []token.Token, reporter diag.Reporter) *Parser {
	return &Parser{tokens: tokens, reporter: reporter}
}

// ParseFile parses every top-level declaration.
func (p *Parser) ParseFile() []*ast.Decl {
	var decls []*ast.Decl
	for !p.eof() {
		decl := p.parseDecl()
		if decl == nil {
			// не смогли распарсить — пропускаем токен, чтобы не зациклиться
			p.advance()
			continue
		}
		decls = append(decls, decl)
	}
	return decls
}

func (p *Parser) eof() bool {
	return p.it >= len(p.tokens) || p.tokens[p.it].Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	if p.it < len(p.tokens) {
		return p.tokens[p.it]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) peekAt(offset int) token.Token {
	if p.it+offset < len(p.tokens) {
		return p.tokens[p.it+offset]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.it < len(p.tokens)-1 {
		p.it++
	}
	return tok
}

func (p *Parser) accept(kind token.Kind) (token.Token, bool) {
	if p.peek().Kind == kind {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(kind token.Kind) token.Token {
	if p.peek().Kind == kind {
		return p.advance()
	}
	p.report(diag.SynUnexpectedToken, p.peek().Span, "expected '%s' but found '%s'", kind, p.peek().Kind)
	return token.Token{}
}

func (p *Parser) report(code diag.Code, sp source.Span, format string, args ...any) {
	if p.reporter == nil {
		return
	}
	p.reporter.Report(code, diag.SevError, sp, fmt.Sprintf(format, args...), nil)
}
