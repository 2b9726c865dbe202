package unit

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/types"
)

// Loader resolves a package directory into a parsed Package. The driver
// provides the implementation; the typer only sees this contract.
type Loader interface {
	Load(u *Unit, dir string) (*Package, error)
}

// Unit owns everything shared across the packages of one compilation: the
// type interner, the symbol arena, scope and expression side tables, binding
// maps and the error bag.
type Unit struct {
	FileSet *source.FileSet
	Strings *source.Interner
	Types   *types.Interner
	Syms    *symbols.Table
	Bag     *diag.Bag
	Loader  Loader

	Packages []*Package
	byPath   map[string]*Package
	Root     *Package

	// SymbolStack tracks the symbols currently being resolved; the top
	// entry collects dependency edges.
	SymbolStack []*symbols.Symbol

	// Binding maps keyed by binding index, one per resource kind.
	ReachableTextures map[int]*symbols.Symbol
	ReachableSamplers map[int]*symbols.Symbol
	ReachableUniforms map[int]*symbols.Symbol

	AllUniforms      []*symbols.Symbol
	ReflectedSymbols []*symbols.Symbol

	scopeTable map[any]*symbols.Scope
	exprInfo   map[*ast.Expr]*ExprInfo
	declTypes  map[*ast.Decl]*types.Type
	declSyms   map[*ast.Decl]*symbols.Symbol
	filesByID  map[source.FileID]*File
	pkgOfFile  map[source.FileID]*Package
}

// New creates an empty unit.
func New(maxDiagnostics int) *Unit {
	return &Unit{
		FileSet:           source.NewFileSet(),
		Strings:           source.NewInterner(),
		Types:             types.NewInterner(),
		Syms:              symbols.NewTable(),
		Bag:               diag.NewBag(maxDiagnostics),
		byPath:            make(map[string]*Package),
		ReachableTextures: make(map[int]*symbols.Symbol),
		ReachableSamplers: make(map[int]*symbols.Symbol),
		ReachableUniforms: make(map[int]*symbols.Symbol),
		scopeTable:        make(map[any]*symbols.Scope),
		exprInfo:          make(map[*ast.Expr]*ExprInfo),
		declTypes:         make(map[*ast.Decl]*types.Type),
		declSyms:          make(map[*ast.Decl]*symbols.Symbol),
		filesByID:         make(map[source.FileID]*File),
		pkgOfFile:         make(map[source.FileID]*Package),
	}
}

// NewPackage registers an empty package under the given directory.
func (u *Unit) NewPackage(name, absPath string) *Package {
	pkg := &Package{
		Name:         name,
		AbsolutePath: absPath,
		GlobalScope:  symbols.NewScope(nil, name, nil, symbols.ScopeFlagNone),
	}
	u.Packages = append(u.Packages, pkg)
	pkg.ID = types.PackageID(len(u.Packages)) //nolint:gosec // package counts fit uint32
	if absPath != "" {
		u.byPath[absPath] = pkg
	}
	return pkg
}

// PackageByID returns a registered package.
func (u *Unit) PackageByID(id types.PackageID) *Package {
	if !id.IsValid() || int(id) > len(u.Packages) {
		return nil
	}
	return u.Packages[id-1]
}

// AddFile attaches a parsed file to a package and indexes it.
func (u *Unit) AddFile(pkg *Package, f *File) {
	f.Scope = symbols.NewScope(pkg.GlobalScope, "", nil, symbols.ScopeFlagNone)
	pkg.Files = append(pkg.Files, f)
	u.filesByID[f.ID] = f
	u.pkgOfFile[f.ID] = pkg
}

// FileByID returns the file owning a source file ID, in any package.
func (u *Unit) FileByID(id source.FileID) *File {
	return u.filesByID[id]
}

// PackageOfFile returns the package owning a source file ID.
func (u *Unit) PackageOfFile(id source.FileID) *Package {
	return u.pkgOfFile[id]
}

// ResolvePackage resolves a quoted import path relative to the importing
// file's directory, loading the package on first use.
func (u *Unit) ResolvePackage(from *File, path string) (*Package, error) {
	if u.Loader == nil {
		return nil, fmt.Errorf("no package loader configured")
	}
	path = strings.Trim(path, "\"")
	dir := path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(filepath.Dir(from.Path), path)
	}
	abs, err := source.AbsolutePath(dir)
	if err != nil {
		return nil, err
	}
	if pkg, ok := u.byPath[abs]; ok {
		return pkg, nil
	}
	return u.Loader.Load(u, abs)
}

// ScopeFor returns the scope owned by the given AST node, creating it on
// first use. Every node has at most one owning scope.
func (u *Unit) ScopeFor(node any, parent *symbols.Scope, name string, expected *types.Type, flags symbols.ScopeFlags) *symbols.Scope {
	if scope, ok := u.scopeTable[node]; ok {
		return scope
	}
	scope := symbols.NewScope(parent, name, expected, flags)
	u.scopeTable[node] = scope
	return scope
}

// FindScope returns the scope owned by the node, if any.
func (u *Unit) FindScope(node any) *symbols.Scope {
	return u.scopeTable[node]
}

// Info returns the semantic annotation record for an expression, creating
// it on demand.
func (u *Unit) Info(e *ast.Expr) *ExprInfo {
	if info, ok := u.exprInfo[e]; ok {
		return info
	}
	info := &ExprInfo{}
	u.exprInfo[e] = info
	return info
}

// LookupInfo returns the annotation record only if the expression was
// already typed.
func (u *Unit) LookupInfo(e *ast.Expr) (*ExprInfo, bool) {
	info, ok := u.exprInfo[e]
	return info, ok
}

// SetDeclType memoizes the resolved type of a declaration.
func (u *Unit) SetDeclType(d *ast.Decl, t *types.Type) {
	u.declTypes[d] = t
}

// LookupDeclType returns the memoized type of a declaration.
func (u *Unit) LookupDeclType(d *ast.Decl) (*types.Type, bool) {
	t, ok := u.declTypes[d]
	return t, ok
}

// SetDeclSymbol links an instantiated declaration to its symbol.
func (u *Unit) SetDeclSymbol(d *ast.Decl, sym *symbols.Symbol) {
	u.declSyms[d] = sym
}

// LookupDeclSymbol returns the symbol linked to a declaration, if any.
func (u *Unit) LookupDeclSymbol(d *ast.Decl) *symbols.Symbol {
	return u.declSyms[d]
}

// Errf appends an error diagnostic.
func (u *Unit) Errf(code diag.Code, span source.Span, format string, args ...any) {
	u.Bag.Add(diag.NewError(code, span, fmt.Sprintf(format, args...)))
}

// Notef appends a note diagnostic.
func (u *Unit) Notef(code diag.Code, span source.Span, format string, args ...any) {
	u.Bag.Add(diag.New(diag.SevNote, code, span, fmt.Sprintf(format, args...)))
}

// HasErrors reports whether any error diagnostics accumulated; notes and
// warnings do not count.
func (u *Unit) HasErrors() bool { return u.Bag.HasErrors() }
