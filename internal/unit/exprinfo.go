package unit

import (
	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/types"
)

// AddressMode classifies an expression's usability as lvalue, constant or
// rvalue.
type AddressMode uint8

const (
	AddressNone AddressMode = iota
	AddressConst
	AddressVariable
	AddressComputed
)

func (m AddressMode) String() string {
	switch m {
	case AddressConst:
		return "const"
	case AddressVariable:
		return "variable"
	case AddressComputed:
		return "computed value"
	}
	return "none"
}

// ExprInfo carries the typer's verdict for one expression node. It lives in
// a unit-level side table keyed by node identity, so cloned subtrees get
// fresh entries.
type ExprInfo struct {
	Type  *types.Type
	Mode  AddressMode
	Value types.Value
	Sym   *symbols.Symbol
	// Func is the selected callee declaration for call expressions.
	Func *ast.Decl
}
