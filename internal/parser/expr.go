package parser

import (
	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

// Binding powers, tightest last.
var binaryPrecedence = map[token.Kind]int{
	token.OrOr:   1,
	token.AndAnd: 2,
	token.Lt:     3,
	token.LtEq:   3,
	token.Gt:     3,
	token.GtEq:   3,
	token.EqEq:   3,
	token.BangEq: 3,
	token.Plus:   4,
	token.Minus:  4,
	token.Pipe:   4,
	token.Caret:  4,
	token.Star:   5,
	token.Slash:  5,
	token.Percent: 5,
	token.Amp:    5,
	token.Shl:    5,
	token.Shr:    5,
}

func (p *Parser) parseExpr() *ast.Expr {
	return p.parseBinary(0, true)
}

// parseExprNoComplit parses an expression where a bare `ident {` must not
// swallow the following block (if/for conditions).
func (p *Parser) parseExprNoComplit() *ast.Expr {
	return p.parseBinary(0, false)
}

func (p *Parser) parseBinary(minPrec int, allowComplit bool) *ast.Expr {
	lhs := p.parseUnary(allowComplit)
	for {
		prec, ok := binaryPrecedence[p.peek().Kind]
		if !ok || prec <= minPrec {
			return lhs
		}
		op := p.advance()
		rhs := p.parseBinary(prec, allowComplit)
		lhs = &ast.Expr{
			Kind:   ast.ExprBinary,
			Span:   lhs.Span.Cover(rhs.Span),
			Binary: ast.BinaryExpr{Left: lhs, Op: op, Right: rhs},
		}
	}
}

func (p *Parser) parseUnary(allowComplit bool) *ast.Expr {
	switch p.peek().Kind {
	case token.Plus, token.Minus, token.Bang, token.Tilde, token.Inc, token.Dec:
		op := p.advance()
		base := p.parseUnary(allowComplit)
		return &ast.Expr{
			Kind:  ast.ExprUnary,
			Span:  op.Span.Cover(base.Span),
			Unary: ast.UnaryExpr{Op: op, Base: base},
		}
	default:
		return p.parsePostfix(allowComplit)
	}
}

func (p *Parser) parsePostfix(allowComplit bool) *ast.Expr {
	e := p.parsePrimary(allowComplit)
	for {
		switch p.peek().Kind {
		case token.LParen:
			p.advance()
			call := ast.CallExpr{Base: e}
			for p.peek().Kind != token.RParen && !p.eof() {
				call.Args = append(call.Args, p.parseExpr())
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
			}
			rparen := p.expect(token.RParen)
			e = &ast.Expr{Kind: ast.ExprCall, Span: e.Span.Cover(rparen.Span), Call: call}
		case token.LBracket:
			p.advance()
			index := p.parseExpr()
			rbracket := p.expect(token.RBracket)
			e = &ast.Expr{
				Kind:    ast.ExprIndexed,
				Span:    e.Span.Cover(rbracket.Span),
				Indexed: ast.IndexedExpr{Base: e, Index: index},
			}
		case token.Dot:
			p.advance()
			rhs := ast.NewAtom(p.advance())
			e = &ast.Expr{
				Kind: ast.ExprDot,
				Span: e.Span.Cover(rhs.Span),
				Dot:  ast.DotExpr{LHS: e, RHS: rhs},
			}
		case token.Colon:
			p.advance()
			sign := p.parseTypeSign()
			sp := e.Span
			if loc := sign.Location(); !loc.Empty() {
				sp = sp.Cover(loc)
			}
			e = &ast.Expr{Kind: ast.ExprCast, Span: sp, Cast: ast.CastExpr{Base: e, Sign: sign}}
		case token.Inc, token.Dec:
			op := p.advance()
			e = &ast.Expr{
				Kind:  ast.ExprUnary,
				Span:  e.Span.Cover(op.Span),
				Unary: ast.UnaryExpr{Op: op, Base: e},
			}
		default:
			return e
		}
	}
}

// parsePrimary handles atoms, parenthesized expressions, composite literals
// and the lhs-less `.member` form. A composite literal in expression
// position starts with `{`, `[...]type{`, `ident{` or `pkg.ident{`;
// templated signatures appear only in casts and declarations.
func (p *Parser) parsePrimary(allowComplit bool) *ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit, token.FloatLit, token.KwTrue, token.KwFalse:
		return ast.NewAtom(p.advance())
	case token.Ident:
		if allowComplit && p.complitAhead() {
			return p.parseComplit(p.parseTypeSign())
		}
		return ast.NewAtom(p.advance())
	case token.LParen:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RParen)
		return e
	case token.LBracket:
		sign := p.parseTypeSign()
		return p.parseComplit(sign)
	case token.LBrace:
		return p.parseComplit(ast.TypeSign{})
	case token.Dot:
		dot := p.advance()
		rhs := ast.NewAtom(p.advance())
		return &ast.Expr{
			Kind: ast.ExprDot,
			Span: dot.Span.Cover(rhs.Span),
			Dot:  ast.DotExpr{RHS: rhs},
		}
	default:
		p.report(diag.SynExpectExpr, tok.Span, "expected expression but found '%s'", tok.Kind)
		p.advance()
		return ast.NewAtom(token.Token{Kind: token.Invalid, Span: tok.Span})
	}
}

// complitAhead reports whether an identifier begins a composite literal
// type signature (`ident{` or `ident.ident{`).
func (p *Parser) complitAhead() bool {
	if p.peekAt(1).Kind == token.LBrace {
		return true
	}
	return p.peekAt(1).Kind == token.Dot &&
		p.peekAt(2).Kind == token.Ident &&
		p.peekAt(3).Kind == token.LBrace
}

func (p *Parser) parseComplit(sign ast.TypeSign) *ast.Expr {
	lbrace := p.expect(token.LBrace)
	e := &ast.Expr{Kind: ast.ExprComplit, Span: lbrace.Span, Complit: ast.ComplitExpr{Sign: sign}}
	if loc := sign.Location(); !loc.Empty() {
		e.Span = loc.Cover(lbrace.Span)
	}
	for p.peek().Kind != token.RBrace && !p.eof() {
		var field ast.ComplitField
		if p.peek().Kind == token.Dot && p.peekAt(1).Kind == token.Ident && p.peekAt(2).Kind == token.Assign {
			p.advance()
			field.Selector = ast.NewAtom(p.advance())
			p.expect(token.Assign)
		}
		field.Value = p.parseExpr()
		e.Complit.Fields = append(e.Complit.Fields, field)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	rbrace := p.expect(token.RBrace)
	e.Span = e.Span.Cover(rbrace.Span)
	return e
}
