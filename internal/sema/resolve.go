package sema

import (
	"strings"

	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/token"
	"github.com/WaleedSymbyo/sabre/internal/types"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

// resolveSymbol lazily resolves a symbol, recording dependency edges and
// detecting cycles through the resolving state.
func (tc *Typer) resolveSymbol(sym *symbols.Symbol) {
	switch sym.State {
	case symbols.StateResolved:
		tc.addDependency(sym)
		return
	case symbols.StateResolving:
		tc.errf(diag.SemaCyclicDependency, sym.Location(), "'%s' cyclic dependency", sym.Name.Text)
		return
	}

	// a symbol from another package resolves under that package's typer
	if sym.Pkg != tc.pkg.ID {
		if pkg := tc.u.PackageByID(sym.Pkg); pkg != nil && pkg != tc.pkg {
			sub := NewTyper(tc.u, pkg)
			sub.resolveSymbol(sym)
			return
		}
	}

	sym.State = symbols.StateResolving

	tc.addDependency(sym)
	tc.enterSymbol(sym)
	defer tc.leaveSymbol()

	switch sym.Kind {
	case symbols.SymbolConst:
		sym.Type = tc.resolveConst(sym)
	case symbols.SymbolVar:
		sym.Type = tc.resolveVar(sym)
	case symbols.SymbolFunc:
		sym.Type = tc.resolveFuncDecl(sym.Decl)
	case symbols.SymbolStruct, symbols.SymbolEnum:
		sym.Type = tc.u.Types.Incomplete(sym.ID, sym.Name.Text)
	case symbols.SymbolPackage:
		sym.Type = tc.u.Types.Package(sym.ImportedPkg, tc.packageName(sym))
	case symbols.SymbolFuncOverloadSet:
		sym.Type = tc.resolveOverloadSet(sym)
	case symbols.SymbolTypename:
		// type assigned at creation site
	default:
	}
	sym.State = symbols.StateResolved

	switch sym.Kind {
	case symbols.SymbolFunc:
		tc.resolveFuncBody(sym)
	case symbols.SymbolFuncOverloadSet:
		tc.resolveOverloadSetBodies(sym)
	case symbols.SymbolPackage:
		tc.checkImportedPackage(sym)
	case symbols.SymbolStruct, symbols.SymbolEnum:
		tc.completeType(sym, sym.Location())
	default:
	}

	sym.IsTopLevel = tc.globalScope.IsTopLevel(sym)
	if !sym.IsTopLevel && sym.Decl != nil {
		if file := tc.fileOf(sym.Decl.Span); file != nil {
			sym.IsTopLevel = file.Scope.IsTopLevel(sym)
		}
	}

	// local variables keep their bare name
	prependScope := !(sym.Kind == symbols.SymbolVar && !sym.IsTopLevel)
	sym.PackageName = tc.generatePackageName(sym, prependScope)

	if sym.IsTopLevel ||
		sym.Kind == symbols.SymbolFunc ||
		sym.Kind == symbols.SymbolFuncOverloadSet {
		tc.pkg.ReachableSymbols = append(tc.pkg.ReachableSymbols, sym)
	}
}

func (tc *Typer) packageName(sym *symbols.Symbol) string {
	if pkg := tc.u.PackageByID(sym.ImportedPkg); pkg != nil {
		return pkg.Name
	}
	return sym.Name.Text
}

// checkImportedPackage shallow-walks an imported package on first use so its
// top-level symbols can be looked up; only used symbols resolve fully.
func (tc *Typer) checkImportedPackage(sym *symbols.Symbol) {
	pkg := tc.u.PackageByID(sym.ImportedPkg)
	if pkg == nil || pkg.Stage != unit.StageCheck {
		return
	}
	errsBefore := tc.u.Bag.Len()
	sub := NewTyper(tc.u, pkg)
	sub.shallowWalk()
	if tc.u.Bag.Len() > errsBefore {
		pkg.Stage = unit.StageFailed
	} else {
		pkg.Stage = unit.StageCodegen
	}
}

func (tc *Typer) resolveConst(sym *symbols.Symbol) *types.Type {
	infer := sym.Sign.IsEmpty()

	res := types.Void
	var expected *types.Type
	if !infer {
		res = tc.resolveTypeSign(sym.Sign)
		expected = res
	}

	e := sym.Value
	if infer {
		if e != nil {
			res = tc.resolveExpr(e)
		} else {
			tc.errf(diag.SemaTypeMismatch, sym.Location(), "no expression to infer the type of the constant from")
		}
	} else if e != nil {
		tc.pushExpectedType(expected)
		exprType := tc.resolveExpr(e)
		tc.popExpectedType()

		// complete an unbounded array type from the initializer
		if types.IsUnboundedArray(res) && types.IsBoundedArray(exprType) &&
			types.IsEqual(res.Base, exprType.Base) {
			res = exprType
		}

		if !typeCoercEqual(exprType, res) {
			tc.errf(diag.SemaTypeMismatch, e.Span, "type mismatch expected '%s' but found '%s'", res, exprType)
		}
	}

	if e != nil {
		if info := tc.u.Info(e); !info.Value.IsValid() {
			tc.errf(diag.SemaNotConst, e.Span, "expression cannot be evaluated in compile time")
		}
	}
	return res
}

func (tc *Typer) resolveVar(sym *symbols.Symbol) *types.Type {
	infer := sym.Sign.IsEmpty()

	res := types.Void
	var expected *types.Type
	if !infer {
		res = tc.resolveTypeSign(sym.Sign)
		expected = res
	}

	e := sym.Value
	if infer {
		if e != nil {
			res = tc.resolveExpr(e)
		} else {
			tc.errf(diag.SemaTypeMismatch, sym.Location(), "no expression to infer the type of the variable from")
		}
	} else if e != nil {
		tc.pushExpectedType(expected)
		exprType := tc.resolveExpr(e)
		tc.popExpectedType()

		if types.IsUnboundedArray(res) && types.IsBoundedArray(exprType) &&
			types.IsEqual(res.Base, exprType.Base) {
			res = exprType
		}

		if !tc.canAssign(res, e) {
			tc.errf(diag.SemaTypeMismatch, e.Span, "type mismatch expected '%s' but found '%s'", res, exprType)
		}
	}
	sym.Type = res

	if sym.Decl != nil && sym.Decl.Tags.Has(token.TagUniform) {
		if !tc.checkTypeSuitableForUniform(res, 0) {
			tc.errf(diag.SemaIllegalUniform, sym.Location(),
				"uniform variable type '%s' contains types which cannot be used in a uniform", res)
		} else {
			sym.IsUniform = true
			tc.u.AllUniforms = append(tc.u.AllUniforms, sym)
		}
	}
	return res
}

func (tc *Typer) checkTypeSuitableForUniform(t *types.Type, depth int) bool {
	switch {
	case types.IsSampler(t) || types.IsSamplerState(t) || types.IsTexture(t):
		return depth == 0
	case types.IsStruct(t):
		res := true
		for i := range t.Fields {
			field := &t.Fields[i]
			fieldOK := tc.checkTypeSuitableForUniform(field.Type, depth+1)
			res = res && fieldOK
			if !fieldOK {
				tc.errf(diag.SemaIllegalUniform, field.Name.Span, "field type '%s' cannot be used for uniform", field.Type)
			}
		}
		return res
	case types.IsUnboundedArray(t):
		tc.errf(diag.SemaIllegalUniform, source.Span{}, "'%s' unbounded arrays cannot be used in uniforms", t)
		return false
	case types.IsBoundedArray(t):
		return tc.checkTypeSuitableForUniform(t.Base, depth+1)
	default:
		return types.IsUniformScalar(t)
	}
}

// resolveFuncDecl builds the function type, binding typename symbols and
// argument symbols into the function's scope. The body is checked later so
// recursion works.
func (tc *Typer) resolveFuncDecl(d *ast.Decl) *types.Type {
	if declType, ok := tc.u.LookupDeclType(d); ok {
		return declType
	}

	// the return type is not known yet; the scope's expected type is
	// patched right after the signature resolves
	scope := tc.u.ScopeFor(d, tc.currentScope(), d.Name.Text, nil, symbols.ScopeFlagNone)
	tc.enterScope(scope)
	defer tc.leaveScope()

	var templateArgs []*types.Type
	for _, name := range d.Func.TemplateParams {
		v := tc.u.Syms.NewTypename(name)
		v.Type = tc.u.Types.Typename(v.ID, name.Text)
		v.State = symbols.StateResolved
		tc.addSymbol(v)
		templateArgs = append(templateArgs, v.Type)
	}

	var sign types.FuncSign
	for _, arg := range d.Func.Args {
		argType := tc.resolveTypeSign(arg.Sign)
		n := len(arg.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			sign.Args = append(sign.Args, argType)
		}
	}
	if d.Func.ReturnSign.IsEmpty() {
		sign.Return = types.Void
	} else {
		sign.Return = tc.resolveTypeSign(d.Func.ReturnSign)
	}

	declType := tc.u.Types.Func(sign, templateArgs)
	tc.u.SetDeclType(d, declType)
	scope.ExpectedType = sign.Return

	// push function arguments into scope
	i := 0
	for _, arg := range d.Func.Args {
		for _, name := range arg.Names {
			v := tc.u.Syms.NewVar(name, nil, arg.Sign, nil)
			v.Type = declType.Func.Args[i]
			v.State = symbols.StateResolved
			tc.addSymbol(v)
			i++
		}
	}

	return declType
}

// resolveOverloadSet resolves every declaration of the set in its owning
// file scope so imports stay visible.
func (tc *Typer) resolveOverloadSet(sym *symbols.Symbol) *types.Type {
	setType := tc.u.Types.OverloadSet(sym.ID, sym.Name.Text)
	// iterate a snapshot: resolution may append new overloads
	decls := make([]*ast.Decl, len(sym.OverloadDecls))
	copy(decls, sym.OverloadDecls)
	for _, decl := range decls {
		file := tc.fileOf(decl.Span)
		if file != nil {
			tc.enterScope(file.Scope)
		}
		sym.OverloadTypes[decl] = tc.resolveFuncDecl(decl)
		tc.addFuncOverload(setType, decl)
		if file != nil {
			tc.leaveScope()
		}
	}
	return setType
}

func (tc *Typer) resolveFuncBody(sym *symbols.Symbol) {
	d := sym.Decl
	t := sym.Type
	scope := tc.u.ScopeFor(d, tc.currentScope(), d.Name.Text, t.Func.Return, symbols.ScopeFlagNone)
	tc.resolveFuncBodyInternal(d, t, scope)
}

func (tc *Typer) resolveOverloadSetBodies(sym *symbols.Symbol) {
	decls := make([]*ast.Decl, len(sym.OverloadDecls))
	copy(decls, sym.OverloadDecls)
	for _, decl := range decls {
		declType := sym.OverloadTypes[decl]
		if declType == nil {
			continue
		}
		scope := tc.u.ScopeFor(decl, tc.currentScope(), decl.Name.Text, declType.Func.Return, symbols.ScopeFlagNone)
		tc.resolveFuncBodyInternal(decl, declType, scope)
	}
}

func (tc *Typer) resolveFuncBodyInternal(d *ast.Decl, t *types.Type, scope *symbols.Scope) {
	if types.IsTemplated(t) {
		return
	}

	tc.enterScope(scope)
	tc.enterFunc(d)
	defer func() {
		tc.leaveFunc()
		tc.leaveScope()
	}()

	if d.Func.Body == nil {
		return
	}
	for _, stmt := range d.Func.Body.Block {
		tc.resolveStmt(stmt)
	}

	if !types.IsEqual(t.Func.Return, types.Void) {
		info := tc.stmtWillTerminate(d.Func.Body)
		if !info.willReturn {
			tc.errf(diag.SemaMissingReturn, info.span,
				"missing return at the end of the function because %s", info.msg)
		}
	}
}

// completeType fills in struct/enum placeholder types, detecting recursive
// types through the completing state.
func (tc *Typer) completeType(sym *symbols.Symbol, usedFrom source.Span) {
	t := sym.Type
	if t.Kind == types.KindCompleting {
		tc.errf(diag.SemaRecursiveType, usedFrom, "'%s' is a recursive type", sym.Name.Text)
		return
	}
	if t.Kind != types.KindIncomplete {
		return
	}

	t.Kind = types.KindCompleting
	switch sym.Kind {
	case symbols.SymbolStruct:
		tc.completeStruct(sym, t)
	case symbols.SymbolEnum:
		tc.completeEnum(sym, t)
	}
}

func (tc *Typer) completeStruct(sym *symbols.Symbol, t *types.Type) {
	d := sym.Decl

	scope := tc.u.ScopeFor(d, tc.currentScope(), d.Name.Text, types.Void, symbols.ScopeFlagNone)
	tc.enterScope(scope)
	defer tc.leaveScope()

	var templateArgs []*types.Type
	for _, name := range d.Struct.TemplateParams {
		v := tc.u.Syms.NewTypename(name)
		v.Type = tc.u.Types.Typename(v.ID, name.Text)
		v.State = symbols.StateResolved
		tc.addSymbol(v)
		templateArgs = append(templateArgs, v.Type)
	}

	var fields []types.StructField
	fieldsByName := make(map[string]int)
	for fi := range d.Struct.Fields {
		field := &d.Struct.Fields[fi]
		fieldType := tc.resolveTypeSign(field.Sign)
		if fieldType.Kind == types.KindIncomplete || fieldType.Kind == types.KindCompleting {
			if fieldSym := tc.u.Syms.Get(fieldType.Sym); fieldSym != nil {
				tc.completeType(fieldSym, field.Sign.Location())
			}
		}

		if field.Default != nil {
			tc.pushExpectedType(fieldType)
			defaultType := tc.resolveExpr(field.Default)
			tc.popExpectedType()

			if !typeCoercEqual(defaultType, fieldType) {
				tc.errf(diag.SemaTypeMismatch, field.Default.Span,
					"type mismatch in default value which has type '%s' but field type is '%s'", defaultType, fieldType)
			}
			if tc.u.Info(field.Default).Mode != unit.AddressConst {
				tc.errf(diag.SemaNotConst, field.Default.Span, "default value should be a constant")
			}
		}

		for _, name := range field.Names {
			if oldIdx, ok := fieldsByName[name.Text]; ok {
				_, lc := tc.u.FileSet.Position(fields[oldIdx].Name.Span)
				tc.errf(diag.SemaRedefinition, name.Span,
					"'%s' field redefinition, first declared in %d:%d", name.Text, lc.Line, lc.Col)
				continue
			}
			fields = append(fields, types.StructField{Name: name, Type: fieldType, Default: field.Default})
			fieldsByName[name.Text] = len(fields) - 1
		}
	}
	tc.u.Types.CompleteStruct(t, fields, fieldsByName, templateArgs)
}

func (tc *Typer) completeEnum(sym *symbols.Symbol, t *types.Type) {
	d := sym.Decl

	// first complete the type so member references resolve
	var fields []types.EnumField
	fieldsByName := make(map[string]int)
	for _, field := range d.Enum.Fields {
		if oldIdx, ok := fieldsByName[field.Name.Text]; ok {
			_, lc := tc.u.FileSet.Position(fields[oldIdx].Name.Span)
			tc.errf(diag.SemaRedefinition, field.Name.Span,
				"'%s' field redefinition, first declared in %d:%d", field.Name.Text, lc.Line, lc.Col)
			continue
		}
		fields = append(fields, types.EnumField{Name: field.Name})
		fieldsByName[field.Name.Text] = len(fields) - 1
	}
	tc.u.Types.CompleteEnum(t, fields, fieldsByName)

	// then fill the values: sequential ints, explicit constants override and
	// advance the sequence
	enumValue := types.IntValue(0)
	for i := range d.Enum.Fields {
		declField := &d.Enum.Fields[i]
		if declField.Value != nil {
			tc.pushExpectedType(t)
			valueType := tc.resolveExpr(declField.Value)
			tc.popExpectedType()

			if valueType != t && !types.IsEqual(valueType, types.Int) && valueType != types.LitInt {
				tc.errf(diag.SemaTypeMismatch, declField.Value.Span,
					"enum value should be integer, but instead we found '%s'", valueType)
				continue
			}
			info := tc.u.Info(declField.Value)
			if info.Mode != unit.AddressConst {
				tc.errf(diag.SemaNotConst, declField.Value.Span, "enum values should be constant")
			}
			if info.Value.IsValid() {
				enumValue = info.Value
			}
		}
		if i < len(t.EnumFields) {
			t.EnumFields[i].Value = enumValue
		}
		enumValue.Int++
	}
}

// generatePackageName builds the mangled name used by code generation:
// the scope chain joined by underscores, deduplicated with a numeric suffix
// on collision.
func (tc *Typer) generatePackageName(sym *symbols.Symbol, prependScope bool) string {
	scope := sym.Scope
	if scope == nil {
		scope = tc.currentScope()
	}

	var b strings.Builder
	if prependScope {
		var prefixes []string
		for it := scope; it != nil; it = it.Parent {
			if it.Name == "" {
				continue
			}
			prefixes = append(prefixes, it.Name)
		}
		for i := len(prefixes) - 1; i >= 0; i-- {
			b.WriteString(prefixes[i])
			b.WriteByte('_')
		}
	}
	b.WriteString(sym.Name.Text)
	return scope.GenerateName(b.String())
}
