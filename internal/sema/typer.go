package sema

import (
	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/types"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

// Typer checks one package. Sibling packages get their own Typer over the
// same unit; the unit carries everything shared (interner, symbol arena,
// error bag, binding maps).
type Typer struct {
	u   *unit.Unit
	pkg *unit.Package

	globalScope *symbols.Scope
	scopeStack  []*symbols.Scope
	funcStack   []*ast.Decl

	// expectedExprType drives inference for composite literals, enum
	// shorthand and return statements. Entries may be nil.
	expectedExprType []*types.Type

	textureBindingGenerator int
	samplerBindingGenerator int
	uniformBindingGenerator int

	// ambiguityReported distinguishes "ambiguous call already diagnosed"
	// from "no candidate matched" after overload scoring.
	ambiguityReported bool
}

// NewTyper creates a typer for a package.
func NewTyper(u *unit.Unit, pkg *unit.Package) *Typer {
	tc := &Typer{
		u:           u,
		pkg:         pkg,
		globalScope: pkg.GlobalScope,
	}
	tc.scopeStack = append(tc.scopeStack, pkg.GlobalScope)
	return tc
}

func (tc *Typer) errf(code diag.Code, span source.Span, format string, args ...any) {
	tc.u.Errf(code, span, format, args...)
}

func (tc *Typer) currentScope() *symbols.Scope {
	return tc.scopeStack[len(tc.scopeStack)-1]
}

func (tc *Typer) enterScope(scope *symbols.Scope) {
	tc.scopeStack = append(tc.scopeStack, scope)
}

func (tc *Typer) leaveScope() {
	tc.scopeStack = tc.scopeStack[:len(tc.scopeStack)-1]
}

func (tc *Typer) enterFunc(d *ast.Decl) {
	tc.funcStack = append(tc.funcStack, d)
}

func (tc *Typer) leaveFunc() {
	tc.funcStack = tc.funcStack[:len(tc.funcStack)-1]
}

func (tc *Typer) enterSymbol(sym *symbols.Symbol) {
	tc.u.SymbolStack = append(tc.u.SymbolStack, sym)
}

func (tc *Typer) leaveSymbol() {
	tc.u.SymbolStack = tc.u.SymbolStack[:len(tc.u.SymbolStack)-1]
}

// addDependency records an edge from the symbol currently being resolved.
func (tc *Typer) addDependency(sym *symbols.Symbol) {
	if n := len(tc.u.SymbolStack); n > 0 {
		tc.u.SymbolStack[n-1].AddDep(sym)
	}
}

func (tc *Typer) pushExpectedType(t *types.Type) {
	tc.expectedExprType = append(tc.expectedExprType, t)
}

func (tc *Typer) popExpectedType() {
	tc.expectedExprType = tc.expectedExprType[:len(tc.expectedExprType)-1]
}

func (tc *Typer) expectedType() *types.Type {
	if n := len(tc.expectedExprType); n > 0 {
		return tc.expectedExprType[n-1]
	}
	return nil
}

// expectedReturnType walks the scope chain for the innermost return context.
func (tc *Typer) expectedReturnType() *types.Type {
	for it := tc.currentScope(); it != nil; it = it.Parent {
		if it.ExpectedType != nil {
			return it.ExpectedType
		}
	}
	return nil
}

// addSymbol registers a symbol in the current scope, diagnosing
// redefinitions. The previously registered symbol wins on conflict.
func (tc *Typer) addSymbol(sym *symbols.Symbol) *symbols.Symbol {
	scope := tc.currentScope()
	if old := scope.ShallowFind(sym.Name.Text); old != nil && old != sym {
		what := "symbol"
		if sym.Kind == symbols.SymbolPackage {
			what = "package"
		}
		oldLoc := old.Location()
		if !oldLoc.Empty() {
			_, lc := tc.u.FileSet.Position(oldLoc)
			tc.errf(diag.SemaRedefinition, sym.Location(),
				"'%s' %s redefinition, first declared in %d:%d", sym.Name.Text, what, lc.Line, lc.Col)
		} else {
			tc.errf(diag.SemaRedefinition, sym.Location(), "'%s' %s redefinition", sym.Name.Text, what)
		}
		sym.Pkg = old.Pkg
		sym.Scope = old.Scope
		return old
	}
	scope.Add(sym)
	sym.Pkg = tc.pkg.ID
	sym.Scope = scope
	return sym
}

func (tc *Typer) findSymbol(name string) *symbols.Symbol {
	return tc.currentScope().Find(name)
}

func (tc *Typer) fileOf(span source.Span) *unit.File {
	return tc.u.FileByID(span.File)
}

// typeCoercEqual is the checking-time equality: pointer identity plus the
// untyped literal coercions (a literal operand matches any numeric scalar).
func typeCoercEqual(a, b *types.Type) bool {
	if a == b {
		return true
	}
	if types.IsLit(a) && types.IsNumericScalar(b) {
		return true
	}
	if types.IsLit(b) && types.IsNumericScalar(a) {
		return true
	}
	return false
}

// canAssign implements the assignability table, refining literal
// assignments by the folded value when one is known.
func (tc *Typer) canAssign(lhs *types.Type, rhs *ast.Expr) bool {
	rhsInfo := tc.u.Info(rhs)
	rhsType := rhsInfo.Type
	if rhsType == nil {
		return false
	}

	// special case sampler + sampler state
	if types.IsSampler(lhs) {
		if types.IsSampler(rhsType) || types.IsSamplerState(rhsType) {
			return true
		}
	}

	if !typeCoercEqual(lhs, rhsType) {
		return false
	}

	switch rhsType {
	case types.LitInt:
		switch lhs {
		case types.Int, types.LitInt, types.Float, types.LitFloat, types.Double:
			return true
		case types.Uint:
			if rhsInfo.Mode != unit.AddressConst || !rhsInfo.Value.IsValid() {
				return false
			}
			return !rhsInfo.Value.IsNegative()
		default:
			return false
		}
	case types.LitFloat:
		switch lhs {
		case types.Float, types.LitFloat, types.Double:
			return true
		case types.Int, types.LitInt:
			if rhsInfo.Mode != unit.AddressConst || !rhsInfo.Value.IsValid() {
				return false
			}
			return !rhsInfo.Value.HasFraction()
		case types.Uint:
			if rhsInfo.Mode != unit.AddressConst || !rhsInfo.Value.IsValid() {
				return false
			}
			return !rhsInfo.Value.IsNegative() && !rhsInfo.Value.HasFraction()
		default:
			return false
		}
	default:
		return true
	}
}
