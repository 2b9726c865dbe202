package sema

import (
	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/types"
)

// resolveTypeSign resolves a written type signature; atoms apply back to
// front so array wrappers see their element type.
func (tc *Typer) resolveTypeSign(sign ast.TypeSign) *types.Type {
	res := types.Void
	for i := len(sign.Atoms) - 1; i >= 0; i-- {
		atom := &sign.Atoms[i]
		switch atom.Kind {
		case ast.AtomNamed:
			if named := tc.resolveNamedTypeAtom(atom); named != nil {
				res = named
			}
		case ast.AtomArray:
			res = tc.resolveArrayAtom(atom, res)
		case ast.AtomTemplated:
			if named := tc.resolveNamedTypeAtom(atom); named != nil {
				args := make([]*types.Type, 0, len(atom.TemplateArgs))
				for _, argSign := range atom.TemplateArgs {
					args = append(args, tc.resolveTypeSign(argSign))
				}
				// geometry streams are a builtin templated form
				if named == streamMarker {
					if len(args) == 1 {
						res = tc.u.Types.Stream(args[0])
					} else {
						tc.errf(diag.SemaArityMismatch, atom.TypeName.Span, "TriangleStream expects exactly one type argument")
					}
					break
				}
				res = tc.templateInstantiate(named, args, atom.TypeName.Span)
			}
		}
	}
	return res
}

// streamMarker stands in for the builtin TriangleStream template head.
var streamMarker = &types.Type{Kind: types.KindStream}

func (tc *Typer) resolveArrayAtom(atom *ast.TypeSignAtom, base *types.Type) *types.Type {
	if atom.StaticSize == nil {
		// dynamically sized array; the count is inferred later
		return tc.u.Types.Array(base, types.UnboundedArrayCount)
	}

	countType := tc.resolveExpr(atom.StaticSize)
	if !types.IsEqual(countType, types.Int) && !types.IsEqual(countType, types.Uint) &&
		countType != types.LitInt {
		tc.errf(diag.SemaTypeMismatch, atom.StaticSize.Span, "array count should be integer but found '%s'", countType)
	}

	info := tc.u.Info(atom.StaticSize)
	if info.Value.Type == types.Int {
		count := info.Value.Int
		if count < 0 {
			tc.errf(diag.SemaOutOfRange, atom.StaticSize.Span, "array count should be >= 0 but found '%d'", count)
		}
		return tc.u.Types.Array(base, count)
	}
	return base
}

func (tc *Typer) resolveNamedTypeAtom(atom *ast.TypeSignAtom) *types.Type {
	if atom.PackageName.IsValid() {
		return tc.resolvePackageTypeAtom(atom)
	}

	if atom.Kind == ast.AtomTemplated && atom.TypeName.Text == "TriangleStream" {
		return streamMarker
	}

	// this may be a basic type
	res := types.FromName(atom.TypeName.Text)
	if types.IsEqual(res, types.Void) && atom.TypeName.Text != "void" {
		if sym := tc.findSymbol(atom.TypeName.Text); sym != nil {
			tc.resolveSymbol(sym)
			res = sym.Type
		} else {
			tc.errf(diag.SemaUndefinedSymbol, atom.TypeName.Span, "'%s' undefined symbol", atom.TypeName.Text)
			return nil
		}
	}
	return res
}

func (tc *Typer) resolvePackageTypeAtom(atom *ast.TypeSignAtom) *types.Type {
	pkgSym := tc.findSymbol(atom.PackageName.Text)
	// imports live in file scopes; search the file the usage came from
	if pkgSym == nil {
		if file := tc.fileOf(atom.PackageName.Span); file != nil {
			pkgSym = file.Scope.Find(atom.PackageName.Text)
		}
	}
	if pkgSym == nil {
		tc.errf(diag.SemaUndefinedSymbol, atom.PackageName.Span, "'%s' undefined symbol", atom.PackageName.Text)
		return nil
	}
	if pkgSym.Kind != symbols.SymbolPackage {
		tc.errf(diag.SemaBadImport, atom.PackageName.Span, "'%s' is not an imported package", atom.PackageName.Text)
		return nil
	}

	tc.resolveSymbol(pkgSym)

	pkg := tc.u.PackageByID(pkgSym.ImportedPkg)
	if pkg == nil {
		return nil
	}
	typeSym := pkg.GlobalScope.ShallowFind(atom.TypeName.Text)
	if typeSym == nil {
		tc.errf(diag.SemaUndefinedSymbol, atom.TypeName.Span, "'%s' undefined symbol", atom.TypeName.Text)
		return nil
	}
	tc.resolveSymbol(typeSym)
	return typeSym.Type
}

// templateInstantiate substitutes args into a templated base type, minting
// instantiation symbols for any concrete struct specializations.
func (tc *Typer) templateInstantiate(base *types.Type, args []*types.Type, loc source.Span) *types.Type {
	if len(base.TemplateArgs) == 0 {
		tc.errf(diag.SemaTypeMismatch, loc, "type '%s' is not a template type", base)
		return base
	}
	if len(args) != len(base.TemplateArgs) {
		tc.errf(diag.SemaArityMismatch, loc,
			"template type expected #%d arguments, but #%d only was provided", len(base.TemplateArgs), len(args))
		return base
	}

	var instantiated []*types.Type
	res := tc.u.Types.TemplateInstantiate(base, args, &instantiated)

	for _, t := range instantiated {
		if types.IsTemplated(t) {
			continue
		}
		if types.IsStruct(t) {
			baseSym := tc.u.Syms.Get(t.Sym)
			if baseSym == nil {
				continue
			}
			instSym := tc.u.Syms.NewStructInstantiation(baseSym, t)
			instSym.PackageName = tc.generatePackageName(instSym, true)
			tc.addDependency(instSym)
			if instSym.IsTopLevel {
				tc.pkg.ReachableSymbols = append(tc.pkg.ReachableSymbols, instSym)
			}
		}
	}
	return res
}
