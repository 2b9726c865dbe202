package parser

import (
	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

func (p *Parser) parseBlock() *ast.Stmt {
	lbrace := p.expect(token.LBrace)
	stmt := &ast.Stmt{Kind: ast.StmtBlock, Span: lbrace.Span}
	for p.peek().Kind != token.RBrace && !p.eof() {
		s := p.parseStmt()
		if s == nil {
			p.advance()
			continue
		}
		stmt.Block = append(stmt.Block, s)
	}
	rbrace := p.expect(token.RBrace)
	stmt.Span = stmt.Span.Cover(rbrace.Span)
	return stmt
}

func (p *Parser) parseStmt() *ast.Stmt {
	switch p.peek().Kind {
	case token.KwBreak:
		tok := p.advance()
		p.expect(token.Semicolon)
		return &ast.Stmt{Kind: ast.StmtBreak, Span: tok.Span}
	case token.KwContinue:
		tok := p.advance()
		p.expect(token.Semicolon)
		return &ast.Stmt{Kind: ast.StmtContinue, Span: tok.Span}
	case token.KwDiscard:
		tok := p.advance()
		p.expect(token.Semicolon)
		return &ast.Stmt{Kind: ast.StmtDiscard, Span: tok.Span}
	case token.KwReturn:
		tok := p.advance()
		stmt := &ast.Stmt{Kind: ast.StmtReturn, Span: tok.Span}
		if p.peek().Kind != token.Semicolon {
			stmt.Return = p.parseExpr()
		}
		p.expect(token.Semicolon)
		return stmt
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.LBrace:
		return p.parseBlock()
	case token.KwConst, token.KwVar, token.KwFunc:
		decl := p.parseDeclNoTags()
		if decl == nil {
			return nil
		}
		return &ast.Stmt{Kind: ast.StmtDecl, Span: decl.Span, Decl: decl}
	default:
		return p.parseSimpleStmt(true)
	}
}

func (p *Parser) parseIfStmt() *ast.Stmt {
	kw := p.advance()
	stmt := &ast.Stmt{Kind: ast.StmtIf, Span: kw.Span}
	for {
		stmt.If.Cond = append(stmt.If.Cond, p.parseExprNoComplit())
		stmt.If.Body = append(stmt.If.Body, p.parseBlock())
		if p.peek().Kind == token.KwElse && p.peekAt(1).Kind == token.KwIf {
			p.advance()
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.accept(token.KwElse); ok {
		stmt.If.Else = p.parseBlock()
	}
	return stmt
}

// parseForStmt handles `for { }`, `for cond { }` and
// `for init; cond; post { }`.
func (p *Parser) parseForStmt() *ast.Stmt {
	kw := p.advance()
	stmt := &ast.Stmt{Kind: ast.StmtFor, Span: kw.Span}

	if p.peek().Kind != token.LBrace {
		if p.peek().Kind == token.KwVar || p.peek().Kind == token.KwConst || p.isForHeaderWithInit() {
			if p.peek().Kind != token.Semicolon {
				stmt.For.Init = p.parseForHeaderStmt()
			}
			p.expect(token.Semicolon)
			if p.peek().Kind != token.Semicolon {
				stmt.For.Cond = p.parseExprNoComplit()
			}
			p.expect(token.Semicolon)
			if p.peek().Kind != token.LBrace {
				stmt.For.Post = p.parseForHeaderStmt()
			}
		} else {
			stmt.For.Cond = p.parseExprNoComplit()
		}
	}
	stmt.For.Body = p.parseBlock()
	return stmt
}

// isForHeaderWithInit sniffs ahead for a `;` before the loop body, which
// marks the three-clause form.
func (p *Parser) isForHeaderWithInit() bool {
	depth := 0
	for i := 0; ; i++ {
		tok := p.peekAt(i)
		switch tok.Kind {
		case token.EOF:
			return false
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			depth--
		case token.LBrace:
			if depth == 0 {
				return false
			}
			depth++
		case token.RBrace:
			depth--
		case token.Semicolon:
			if depth == 0 {
				return true
			}
		}
	}
}

// parseForHeaderStmt parses an init/post clause without consuming the
// trailing separator.
func (p *Parser) parseForHeaderStmt() *ast.Stmt {
	if p.peek().Kind == token.KwVar || p.peek().Kind == token.KwConst {
		kind := ast.DeclVar
		if p.peek().Kind == token.KwConst {
			kind = ast.DeclConst
		}
		decl := p.parseForHeaderValueDecl(kind)
		return &ast.Stmt{Kind: ast.StmtDecl, Span: decl.Span, Decl: decl}
	}
	return p.parseSimpleStmt(false)
}

// parseForHeaderValueDecl is parseValueDecl without the trailing semicolon.
func (p *Parser) parseForHeaderValueDecl(kind ast.DeclKind) *ast.Decl {
	kw := p.advance()
	decl := &ast.Decl{Kind: kind, Span: kw.Span}
	var value ast.ValueDecl
	for {
		name := p.expect(token.Ident)
		if !name.IsValid() {
			break
		}
		value.Names = append(value.Names, name)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if len(value.Names) > 0 {
		decl.Name = value.Names[0]
	}
	if _, ok := p.accept(token.Colon); ok {
		value.Sign = p.parseTypeSign()
	}
	if _, ok := p.accept(token.Assign); ok {
		for {
			value.Values = append(value.Values, p.parseExprNoComplit())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	}
	if kind == ast.DeclConst {
		decl.Const = value
	} else {
		decl.Var = value
	}
	return decl
}

// parseSimpleStmt parses an expression or assignment statement. When
// terminated is true a trailing semicolon is required.
func (p *Parser) parseSimpleStmt(terminated bool) *ast.Stmt {
	first := p.parseExprNoComplit()
	stmt := &ast.Stmt{Span: first.Span}

	lhs := []*ast.Expr{first}
	for p.peek().Kind == token.Comma {
		p.advance()
		lhs = append(lhs, p.parseExprNoComplit())
	}

	if p.peek().Kind.IsAssign() {
		op := p.advance()
		stmt.Kind = ast.StmtAssign
		stmt.Assign.LHS = lhs
		stmt.Assign.Op = op
		for {
			stmt.Assign.RHS = append(stmt.Assign.RHS, p.parseExpr())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	} else {
		stmt.Kind = ast.StmtExpr
		stmt.Expr = first
	}
	if terminated {
		p.expect(token.Semicolon)
	}
	return stmt
}
