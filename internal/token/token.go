package token

import (
	"github.com/WaleedSymbyo/sabre/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsValid reports whether the token carries a real kind.
func (t Token) IsValid() bool { return t.Kind != Invalid }

// IsLiteral reports whether the token is a numeric, boolean or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, KwTrue, KwFalse, StringLit:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
