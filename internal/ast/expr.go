package ast

import (
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

// ExprKind enumerates expression node kinds.
type ExprKind uint8

const (
	ExprAtom ExprKind = iota
	ExprBinary
	ExprUnary
	ExprCall
	ExprCast
	ExprDot
	ExprIndexed
	ExprComplit
)

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	Left  *Expr
	Op    token.Token
	Right *Expr
}

// UnaryExpr is `op base`.
type UnaryExpr struct {
	Op   token.Token
	Base *Expr
}

// CallExpr is `base(args...)`.
type CallExpr struct {
	Base *Expr
	Args []*Expr
}

// CastExpr is `base : sign`.
type CastExpr struct {
	Base *Expr
	Sign TypeSign
}

// DotExpr is `lhs.rhs`; LHS may be nil for the shorthand `.member` form
// whose type is taken from context.
type DotExpr struct {
	LHS *Expr
	RHS *Expr
}

// IndexedExpr is `base[index]`.
type IndexedExpr struct {
	Base  *Expr
	Index *Expr
}

// ComplitField is one field of a composite literal, either positional or
// keyed by a `.name` selector. SelectorIndex is filled by the typer.
type ComplitField struct {
	Selector      *Expr // nil for positional fields
	SelectorIndex int
	Value         *Expr
}

// ComplitExpr is `sign{fields...}`; Sign may be empty when the literal type
// comes from context.
type ComplitExpr struct {
	Sign   TypeSign
	Fields []ComplitField
}

// Expr is a single expression node. Kind selects which payload is active.
type Expr struct {
	Kind ExprKind
	Span source.Span

	Atom    token.Token
	Binary  BinaryExpr
	Unary   UnaryExpr
	Call    CallExpr
	Cast    CastExpr
	Dot     DotExpr
	Indexed IndexedExpr
	Complit ComplitExpr
}

// NewAtom builds an atom expression from a token.
func NewAtom(tkn token.Token) *Expr {
	return &Expr{Kind: ExprAtom, Span: tkn.Span, Atom: tkn}
}
