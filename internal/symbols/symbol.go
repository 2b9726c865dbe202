package symbols

import (
	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/token"
	"github.com/WaleedSymbyo/sabre/internal/types"
)

// Kind classifies the semantic meaning of a symbol.
type Kind uint8

const (
	SymbolInvalid Kind = iota
	SymbolConst
	SymbolVar
	SymbolFunc
	SymbolFuncOverloadSet
	SymbolStruct
	SymbolEnum
	SymbolPackage
	SymbolTypename
	SymbolFuncInstantiation
	SymbolStructInstantiation
)

func (k Kind) String() string {
	switch k {
	case SymbolConst:
		return "const"
	case SymbolVar:
		return "var"
	case SymbolFunc:
		return "func"
	case SymbolFuncOverloadSet:
		return "overload set"
	case SymbolStruct:
		return "struct"
	case SymbolEnum:
		return "enum"
	case SymbolPackage:
		return "package"
	case SymbolTypename:
		return "typename"
	case SymbolFuncInstantiation:
		return "func instantiation"
	case SymbolStructInstantiation:
		return "struct instantiation"
	default:
		return "invalid"
	}
}

// State tracks lazy resolution. A symbol in StateResolving found during a
// lookup is a cyclic dependency.
type State uint8

const (
	StateUnresolved State = iota
	StateResolving
	StateResolved
)

// Symbol describes a named entity. Kind selects which payload fields are
// meaningful.
type Symbol struct {
	ID    types.SymbolID
	Kind  Kind
	Name  token.Token
	Pkg   types.PackageID // owning package
	Scope *Scope
	State State
	Type  *types.Type

	IsTopLevel bool
	// PackageName is the generated mangled name used by code generation.
	PackageName string

	// Ordered dependency edges, deduplicated via depSet. The order is the
	// order edges were first recorded, which keeps the reachability walk
	// deterministic.
	Deps   []*Symbol
	depSet map[*Symbol]struct{}

	// Declaration origin; nil for synthesized symbols (typenames, args).
	Decl *ast.Decl

	// SymbolConst / SymbolVar
	Sign  ast.TypeSign
	Value *ast.Expr

	// SymbolVar uniform bookkeeping.
	IsUniform        bool
	UniformBinding   int
	BindingProcessed bool

	// SymbolFuncOverloadSet: ordered decl list plus per-decl types. The
	// list is iterated by snapshot where resolution may append.
	OverloadDecls []*ast.Decl
	OverloadTypes map[*ast.Decl]*types.Type
	UsedDecls     []*ast.Decl
	uniqueUsed    map[*ast.Decl]struct{}

	// SymbolPackage: the imported package.
	ImportedPkg types.PackageID

	// SymbolFuncInstantiation / SymbolStructInstantiation: templated origin.
	BaseSym *Symbol
}

// Location returns the declaration site of the symbol.
func (s *Symbol) Location() source.Span {
	if s.Name.IsValid() {
		return s.Name.Span
	}
	if s.Decl != nil {
		return s.Decl.Span
	}
	return source.Span{}
}

// AddDep records a dependency edge exactly once, preserving first-use order.
func (s *Symbol) AddDep(d *Symbol) {
	if d == nil || d == s {
		return
	}
	if s.depSet == nil {
		s.depSet = make(map[*Symbol]struct{})
	}
	if _, ok := s.depSet[d]; ok {
		return
	}
	s.depSet[d] = struct{}{}
	s.Deps = append(s.Deps, d)
}

// AddUsedDecl records that a call through the overload set selected decl,
// once per decl, in first-use order.
func (s *Symbol) AddUsedDecl(d *ast.Decl) {
	if s.uniqueUsed == nil {
		s.uniqueUsed = make(map[*ast.Decl]struct{})
	}
	if _, ok := s.uniqueUsed[d]; ok {
		return
	}
	s.uniqueUsed[d] = struct{}{}
	s.UsedDecls = append(s.UsedDecls, d)
}

// Table is the unit-wide symbol arena; IDs index into it.
type Table struct {
	syms []*Symbol
}

// NewTable creates an empty symbol arena.
func NewTable() *Table {
	// slot 0 is reserved so NoSymbolID stays invalid
	return &Table{syms: []*Symbol{nil}}
}

func (t *Table) alloc(sym *Symbol) *Symbol {
	sym.ID = types.SymbolID(len(t.syms)) //nolint:gosec // arena sizes fit uint32
	t.syms = append(t.syms, sym)
	return sym
}

// Get returns the symbol with the given ID, or nil.
func (t *Table) Get(id types.SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.syms) {
		return nil
	}
	return t.syms[id]
}

// Len returns the number of allocated symbols.
func (t *Table) Len() int { return len(t.syms) - 1 }

// NewConst allocates a const symbol sharing the declaration's signature and
// the positional initializer.
func (t *Table) NewConst(name token.Token, decl *ast.Decl, sign ast.TypeSign, value *ast.Expr) *Symbol {
	return t.alloc(&Symbol{Kind: SymbolConst, Name: name, Decl: decl, Sign: sign, Value: value})
}

// NewVar allocates a var symbol.
func (t *Table) NewVar(name token.Token, decl *ast.Decl, sign ast.TypeSign, value *ast.Expr) *Symbol {
	return t.alloc(&Symbol{Kind: SymbolVar, Name: name, Decl: decl, Sign: sign, Value: value})
}

// NewFunc allocates a function symbol.
func (t *Table) NewFunc(name token.Token, decl *ast.Decl) *Symbol {
	return t.alloc(&Symbol{Kind: SymbolFunc, Name: name, Decl: decl})
}

// NewOverloadSet converts an existing function symbol into an overload set
// seeded with that function's declaration.
func (t *Table) NewOverloadSet(fn *Symbol) *Symbol {
	sym := t.alloc(&Symbol{
		Kind:          SymbolFuncOverloadSet,
		Name:          fn.Name,
		Pkg:           fn.Pkg,
		Scope:         fn.Scope,
		OverloadTypes: make(map[*ast.Decl]*types.Type),
	})
	sym.OverloadDecls = append(sym.OverloadDecls, fn.Decl)
	sym.OverloadTypes[fn.Decl] = nil
	if fn.Scope != nil {
		fn.Scope.Replace(fn, sym)
	}
	return sym
}

// NewStruct allocates a struct symbol.
func (t *Table) NewStruct(name token.Token, decl *ast.Decl) *Symbol {
	return t.alloc(&Symbol{Kind: SymbolStruct, Name: name, Decl: decl})
}

// NewEnum allocates an enum symbol.
func (t *Table) NewEnum(name token.Token, decl *ast.Decl) *Symbol {
	return t.alloc(&Symbol{Kind: SymbolEnum, Name: name, Decl: decl})
}

// NewPackage allocates an imported-package symbol.
func (t *Table) NewPackage(name token.Token, decl *ast.Decl, pkg types.PackageID) *Symbol {
	return t.alloc(&Symbol{Kind: SymbolPackage, Name: name, Decl: decl, ImportedPkg: pkg})
}

// NewTypename allocates a template-parameter placeholder symbol.
func (t *Table) NewTypename(name token.Token) *Symbol {
	return t.alloc(&Symbol{Kind: SymbolTypename, Name: name})
}

// NewFuncInstantiation allocates the symbol representing a specialized
// function.
func (t *Table) NewFuncInstantiation(base *Symbol, typ *types.Type, decl *ast.Decl) *Symbol {
	sym := t.alloc(&Symbol{
		Kind:    SymbolFuncInstantiation,
		Name:    base.Name,
		Pkg:     base.Pkg,
		Scope:   base.Scope,
		Decl:    decl,
		Type:    typ,
		BaseSym: base,
		State:   StateResolved,
	})
	sym.IsTopLevel = base.IsTopLevel
	return sym
}

// NewStructInstantiation allocates the symbol representing a specialized
// struct.
func (t *Table) NewStructInstantiation(base *Symbol, typ *types.Type) *Symbol {
	sym := t.alloc(&Symbol{
		Kind:    SymbolStructInstantiation,
		Name:    base.Name,
		Pkg:     base.Pkg,
		Scope:   base.Scope,
		Decl:    base.Decl,
		Type:    typ,
		BaseSym: base,
		State:   StateResolved,
	})
	sym.IsTopLevel = base.IsTopLevel
	return sym
}
