package sema

import (
	"strings"

	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/token"
	"github.com/WaleedSymbyo/sabre/internal/types"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

// shallowWalk registers every top-level symbol without resolving anything,
// then runs the deferred compile-time if declarations. Nested compile-time
// ifs re-enter the worklist.
func (tc *Typer) shallowWalk() {
	var compileIfs []*ast.Decl

	for _, file := range tc.pkg.Files {
		for _, decl := range file.Decls {
			if decl.Kind == ast.DeclIf {
				compileIfs = append(compileIfs, decl)
			} else {
				tc.shallowProcessDecl(file, decl)
			}
		}
	}

	for i := 0; i < len(compileIfs); i++ {
		ifDecl := compileIfs[i]
		winner := len(ifDecl.If.Cond)
		for j, cond := range ifDecl.If.Cond {
			condType := tc.resolveExpr(cond)
			if condType != types.Bool {
				tc.errf(diag.SemaNonBoolCondition, cond.Span, "if condition type '%s' is not a boolean", condType)
			}
			info := tc.u.Info(cond)
			if info.Mode != unit.AddressConst {
				tc.errf(diag.SemaNonConstCondition, cond.Span, "compile time if condition is not a constant")
			}
			if info.Value.Type == types.Bool && info.Value.Bool {
				winner = j
				break
			}
		}

		var branch []*ast.Decl
		if winner < len(ifDecl.If.Cond) {
			branch = ifDecl.If.Body[winner]
		} else {
			branch = ifDecl.If.Else
		}
		for _, decl := range branch {
			if decl.Kind == ast.DeclIf {
				compileIfs = append(compileIfs, decl)
			} else {
				tc.shallowProcessDecl(tc.fileOf(decl.Span), decl)
			}
		}
	}
}

func (tc *Typer) shallowProcessDecl(file *unit.File, decl *ast.Decl) {
	switch decl.Kind {
	case ast.DeclConst:
		for i, name := range decl.Const.Names {
			var value *ast.Expr
			if i < len(decl.Const.Values) {
				value = decl.Const.Values[i]
			}
			sym := tc.u.Syms.NewConst(name, decl, decl.Const.Sign, value)
			tc.addSymbol(sym)
			if decl.Tags.Has(token.TagReflect) {
				tc.u.ReflectedSymbols = append(tc.u.ReflectedSymbols, sym)
			}
		}
	case ast.DeclVar:
		for i, name := range decl.Var.Names {
			var value *ast.Expr
			if i < len(decl.Var.Values) {
				value = decl.Var.Values[i]
			}
			sym := tc.u.Syms.NewVar(name, decl, decl.Var.Sign, value)
			tc.addSymbol(sym)
		}
	case ast.DeclFunc:
		tc.addFuncSymbol(decl)
	case ast.DeclStruct:
		tc.addSymbol(tc.u.Syms.NewStruct(decl.Name, decl))
	case ast.DeclEnum:
		tc.addSymbol(tc.u.Syms.NewEnum(decl.Name, decl))
	case ast.DeclImport:
		tc.shallowProcessImport(file, decl)
	default:
	}
}

func (tc *Typer) shallowProcessImport(file *unit.File, decl *ast.Decl) {
	path := strings.Trim(decl.Import.Path.Text, "\"")
	pkg, err := tc.u.ResolvePackage(file, path)
	if err != nil {
		tc.errf(diag.SemaBadImport, decl.Import.Path.Span, "cannot resolve package \"%s\": %v", path, err)
		return
	}

	name := decl.Import.Alias
	if !name.IsValid() {
		name = token.Token{Kind: token.Ident, Span: decl.Import.Path.Span, Text: pkg.Name}
	}
	sym := tc.u.Syms.NewPackage(name, decl, pkg.ID)

	// Import declarations go into the file scope so sibling files of the
	// same package may import the same library under the same name.
	tc.enterScope(file.Scope)
	added := tc.addSymbol(sym)
	tc.leaveScope()

	if added != sym {
		what := "symbol"
		if added.Kind == symbols.SymbolPackage {
			what = "package"
		}
		tc.u.Notef(diag.SemaInfo, added.Location(), "%s '%s' was first imported here", what, added.Name.Text)
		return
	}

	// Add to the package global scope only once so redefinition detection
	// still works between namespaces and other declarations.
	if old := tc.globalScope.ShallowFind(sym.Name.Text); old != nil {
		if old.Kind != symbols.SymbolPackage || old.ImportedPkg != sym.ImportedPkg {
			tc.addSymbol(sym)
		}
	} else {
		tc.addSymbol(sym)
	}
}

// addFuncSymbol adds a function symbol, folding same-named functions into an
// overload set.
func (tc *Typer) addFuncSymbol(decl *ast.Decl) *symbols.Symbol {
	sym := tc.findSymbol(decl.Name.Text)
	if sym == nil || (sym.Kind != symbols.SymbolFunc && sym.Kind != symbols.SymbolFuncOverloadSet) {
		fn := tc.u.Syms.NewFunc(decl.Name, decl)
		return tc.addSymbol(fn)
	}

	if sym.Kind == symbols.SymbolFunc {
		if sym.Decl == decl {
			return sym
		}
		// convert the function symbol to an overload set
		sym = tc.u.Syms.NewOverloadSet(sym)
	}

	var declType *types.Type
	if sym.State == symbols.StateResolved {
		declType = tc.resolveFuncDecl(decl)
	}
	sym.OverloadDecls = append(sym.OverloadDecls, decl)
	sym.OverloadTypes[decl] = declType
	if sym.State == symbols.StateResolved {
		tc.addFuncOverload(sym.Type, decl)
		scope := tc.u.ScopeFor(decl, tc.currentScope(), decl.Name.Text, declType.Func.Return, symbols.ScopeFlagNone)
		tc.resolveFuncBodyInternal(decl, declType, scope)
	}
	return sym
}

// addFuncOverload registers a resolved declaration in the overload-set type,
// diagnosing duplicate signatures.
func (tc *Typer) addFuncOverload(overloadSet *types.Type, decl *ast.Decl) {
	declType := tc.resolveFuncDecl(decl)
	key := types.FuncSignKey(declType.Func.Args)
	if old, ok := overloadSet.Overloads[key]; ok {
		path, lc := tc.u.FileSet.Position(old.Name.Span)
		tc.errf(diag.SemaRedefinition, decl.Name.Span,
			"function overload already defined %s:%d:%d", path, lc.Line, lc.Col)
		return
	}
	overloadSet.Overloads[key] = decl
}
