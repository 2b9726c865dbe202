package ast

import (
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

// TypeSignAtomKind enumerates the building blocks of a type signature.
type TypeSignAtomKind uint8

const (
	AtomNamed TypeSignAtomKind = iota
	AtomArray
	AtomTemplated
)

// TypeSignAtom is one element of a type signature. Signatures are stored
// outside-in: `[3]vec2` is an array atom followed by a named atom, and
// resolution walks them back to front.
type TypeSignAtom struct {
	Kind TypeSignAtomKind

	// AtomNamed / AtomTemplated
	PackageName token.Token // optional qualifier, e.g. `math.vec2`
	TypeName    token.Token

	// AtomArray; nil StaticSize means an unbounded array
	StaticSize *Expr

	// AtomTemplated
	TemplateArgs []TypeSign
}

// TypeSign is a full type signature as written in source.
type TypeSign struct {
	Atoms []TypeSignAtom
}

// IsEmpty reports whether the signature was omitted in source.
func (s TypeSign) IsEmpty() bool { return len(s.Atoms) == 0 }

// Location returns the span of the innermost named atom, for diagnostics.
func (s TypeSign) Location() source.Span {
	for i := len(s.Atoms) - 1; i >= 0; i-- {
		if s.Atoms[i].TypeName.IsValid() {
			return s.Atoms[i].TypeName.Span
		}
	}
	return source.Span{}
}
