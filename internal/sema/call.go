package sema

import (
	"strconv"
	"strings"

	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/types"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

// deduceFromArgType structurally unifies a formal parameter type against an
// actual argument type, binding typenames to concrete types. Conflicting
// bindings report an ambiguity.
func (tc *Typer) deduceFromArgType(expected, argType *types.Type, argLoc source.Span, resolved map[*types.Type]*types.Type) bool {
	argType = types.DefaultLitType(argType)
	switch {
	case types.IsTypename(expected):
		if bound, ok := resolved[expected]; ok {
			if bound != argType {
				tc.errf(diag.SemaAmbiguousDeduction, argLoc,
					"type '%s' is ambiguous, we already deduced it to be '%s' but we have another guess which is '%s'",
					expected, bound, argType)
				return false
			}
			return true
		}
		resolved[expected] = argType
		return true
	case types.IsTemplated(expected):
		expectedArgs := expected.TemplateArgs
		actualArgs := argType.TemplateBaseArgs
		minArgs := len(expectedArgs)
		if len(actualArgs) < minArgs {
			minArgs = len(actualArgs)
		}
		res := len(expectedArgs) == len(actualArgs)
		for i := 0; i < minArgs; i++ {
			res = tc.deduceFromArgType(expectedArgs[i], actualArgs[i], argLoc, resolved) && res
		}
		return res
	default:
		return types.IsEqual(expected, argType)
	}
}

// guessTemplateCallTypes deduces template parameters from every call
// argument.
func (tc *Typer) guessTemplateCallTypes(funcType *types.Type, args []*ast.Expr, resolved map[*types.Type]*types.Type) bool {
	res := true
	for i, arg := range args {
		if i >= len(funcType.Func.Args) {
			break
		}
		argType := tc.resolveExpr(arg)
		res = tc.deduceFromArgType(funcType.Func.Args[i], argType, arg.Span, resolved) && res
	}
	return res
}

// typeSimilarityScore ranks how close an argument type is to a templated
// formal: 1 for exact equality, 0 for typename involvement, and a recursive
// sum over template-base chains otherwise.
func typeSimilarityScore(a, b *types.Type) int {
	if types.IsEqual(a, b) {
		return 1
	}
	if types.IsTypename(a) || types.IsTypename(b) {
		return 0
	}
	score := 0
	for it := a.TemplateBaseType; it != nil; it = it.TemplateBaseType {
		for it2 := b; it2 != nil; it2 = it2.TemplateBaseType {
			score += typeSimilarityScore(it, it2)
		}
	}
	return score
}

type overloadCandidate struct {
	originalDecl     *ast.Decl
	instantiatedDecl *ast.Decl
	score            int
}

func (tc *Typer) resolveCallExpr(e *ast.Expr) *types.Type {
	t := tc.resolveExpr(e.Call.Base)

	if !types.IsFunc(t) {
		tc.errf(diag.SemaBadCall, e.Call.Base.Span, "invalid call, expression is not a function")
		return types.Void
	}

	info := tc.u.Info(e)
	info.Mode = unit.AddressComputed

	if t.Kind == types.KindFunc {
		return tc.resolveDirectCall(e, t)
	}
	return tc.resolveOverloadCall(e, t)
}

func (tc *Typer) resolveDirectCall(e *ast.Expr, t *types.Type) *types.Type {
	info := tc.u.Info(e)
	baseInfo := tc.u.Info(e.Call.Base)
	sym := baseInfo.Sym
	if sym != nil {
		info.Func = sym.Decl
	}

	if len(e.Call.Args) != len(t.Func.Args) {
		tc.errf(diag.SemaArityMismatch, e.Span,
			"function expected %d arguments, but %d were provided", len(t.Func.Args), len(e.Call.Args))
		return t.Func.Return
	}

	resolved := make(map[*types.Type]*types.Type)
	if types.IsTemplated(t) && sym != nil {
		if tc.guessTemplateCallTypes(t, e.Call.Args, resolved) {
			argTypes := make([]*types.Type, 0, len(t.TemplateArgs))
			complete := true
			for _, param := range t.TemplateArgs {
				bound, ok := resolved[param]
				if !ok {
					complete = false
					break
				}
				argTypes = append(argTypes, bound)
			}
			if complete {
				instType := tc.templateInstantiate(t, argTypes, e.Span)
				instDecl, instSym := tc.instantiateFuncDecl(sym, sym.Decl, t, argTypes, instType, e.Span, false)
				if instDecl != nil {
					info.Func = instDecl
					baseInfo.Sym = instSym
				}
				t = instType
			}
		}
	}

	for i, arg := range e.Call.Args {
		argType := tc.resolveExpr(arg)
		formal := t.Func.Args[i]
		if !tc.canAssign(formal, arg) {
			if types.IsTemplated(formal) || types.IsTypename(formal) {
				if bound, ok := resolved[formal]; ok {
					tc.errf(diag.SemaTypeMismatch, arg.Span,
						"function argument #%d type mismatch, expected '%s' but found '%s'", i, bound, argType)
				}
			} else {
				tc.errf(diag.SemaTypeMismatch, arg.Span,
					"function argument #%d type mismatch, expected '%s' but found '%s'", i, formal, argType)
			}
		}
	}

	return t.Func.Return
}

// instantiateFuncDecl clones a templated function declaration for the given
// argument types, checks the clone's body and registers the instantiation
// symbol. With rollback set, body errors are dropped and nil is returned so
// overload scoring can discard the candidate silently.
func (tc *Typer) instantiateFuncDecl(sym *symbols.Symbol, templatedDecl *ast.Decl, baseType *types.Type, argTypes []*types.Type, instType *types.Type, callLoc source.Span, rollback bool) (*ast.Decl, *symbols.Symbol) {
	if decl := tc.u.Types.FindFuncInstantiationDecl(baseType, argTypes); decl != nil {
		// already instantiated; reuse the clone and its symbol
		if instSym := tc.u.LookupDeclSymbol(decl); instSym != nil {
			tc.addDependency(instSym)
			return decl, instSym
		}
		return decl, nil
	}

	instDecl := ast.CloneDecl(templatedDecl)
	tc.u.SetDeclType(instDecl, instType)
	tc.u.Types.AddFuncInstantiationDecl(baseType, argTypes, instDecl)

	// candidates under overload scoring get their symbol only if they win;
	// see registerInstantiationSymbol
	var instSym *symbols.Symbol
	if !rollback {
		instSym = tc.registerInstantiationSymbol(sym, instDecl, instType)
	}

	var parent *symbols.Scope
	if templatedScope := tc.u.FindScope(templatedDecl); templatedScope != nil {
		parent = templatedScope.Parent
	} else {
		parent = tc.currentScope()
	}
	instScope := tc.u.ScopeFor(instDecl, parent, instDecl.Name.Text, instType.Func.Return, symbols.ScopeFlagNone)

	tc.enterScope(instScope)
	// push symbols for typenames bound to their deduced types
	i := 0
	for _, name := range instDecl.Func.TemplateParams {
		v := tc.u.Syms.NewTypename(name)
		if i < len(argTypes) {
			v.Type = argTypes[i]
		}
		v.State = symbols.StateResolved
		tc.addSymbol(v)
		i++
	}
	// push arguments into the instantiated scope
	i = 0
	for _, arg := range instDecl.Func.Args {
		for _, name := range arg.Names {
			v := tc.u.Syms.NewVar(name, nil, arg.Sign, nil)
			if i < len(instType.Func.Args) {
				v.Type = instType.Func.Args[i]
			}
			v.State = symbols.StateResolved
			tc.addSymbol(v)
			i++
		}
	}
	tc.leaveScope()

	errCount := tc.u.Bag.Len()
	tc.resolveFuncBodyInternal(instDecl, instType, instScope)
	if tc.u.Bag.Len() > errCount {
		if rollback {
			// discard this candidate without reporting: another overload
			// may still match cleanly
			tc.u.Bag.Truncate(errCount)
			return nil, nil
		}
		var b strings.Builder
		b.WriteString("call to template function '")
		b.WriteString(templatedDecl.Name.Text)
		b.WriteString("' has errors, it was instantiated with the following template arguments:")
		for i, param := range baseType.TemplateArgs {
			bound := param
			if i < len(argTypes) {
				bound = argTypes[i]
			}
			b.WriteString("\n  - ")
			b.WriteString(param.String())
			b.WriteString(" = ")
			b.WriteString(bound.String())
		}
		tc.u.Notef(diag.SemaTemplateNote, callLoc, "%s", b.String())
	}
	return instDecl, instSym
}

func (tc *Typer) resolveOverloadCall(e *ast.Expr, t *types.Type) *types.Type {
	setSym := tc.u.Syms.Get(t.Sym)
	if setSym == nil {
		return types.Void
	}
	info := tc.u.Info(e)
	baseInfo := tc.u.Info(e.Call.Base)

	var templatedCandidates []*ast.Decl
	var exactDecl *ast.Decl

	// iterate a snapshot: body checks may append overloads
	decls := make([]*ast.Decl, len(setSym.OverloadDecls))
	copy(decls, setSym.OverloadDecls)

	// two passes over the plain candidates: exact type matches (with
	// literals defaulted) win over merely-assignable ones, so `f(2.0)`
	// picks the float overload even though 2.0 assigns to int
	for _, exact := range []bool{true, false} {
		for _, overloadDecl := range decls {
			overloadType := setSym.OverloadTypes[overloadDecl]
			if overloadType == nil {
				continue
			}
			if len(e.Call.Args) != len(overloadType.Func.Args) {
				continue
			}
			if types.IsTemplated(overloadType) {
				if exact {
					templatedCandidates = append(templatedCandidates, overloadDecl)
				}
				continue
			}

			argsMatch := true
			for i, arg := range e.Call.Args {
				argType := tc.resolveExpr(arg)
				if exact {
					if !types.IsEqual(types.DefaultLitType(argType), overloadType.Func.Args[i]) {
						argsMatch = false
						break
					}
				} else if !tc.canAssign(overloadType.Func.Args[i], arg) {
					argsMatch = false
					break
				}
			}
			if argsMatch {
				exactDecl = overloadDecl
				if e.Call.Base.Kind == ast.ExprAtom {
					baseInfo.Func = exactDecl
				}
				info.Func = exactDecl
				setSym.AddUsedDecl(overloadDecl)
				break
			}
		}
		if exactDecl != nil {
			break
		}
	}

	if exactDecl == nil && len(templatedCandidates) > 0 {
		exactDecl = tc.scoreTemplatedCandidates(e, setSym, templatedCandidates)
		if exactDecl == nil && tc.ambiguityReported {
			tc.ambiguityReported = false
			return types.Void
		}
	}

	if exactDecl == nil {
		var b strings.Builder
		b.WriteString("cannot find suitable function for 'func(")
		for i, arg := range e.Call.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte(':')
			b.WriteString(tc.resolveExpr(arg).String())
		}
		b.WriteString(")' in the overload set:")
		overloadIndex := 0
		for _, overloadDecl := range setSym.OverloadDecls {
			overloadType := setSym.OverloadTypes[overloadDecl]
			if overloadType == nil {
				continue
			}
			path, lc := tc.u.FileSet.Position(overloadDecl.Name.Span)
			b.WriteString("\n  ")
			b.WriteString(strconv.Itoa(overloadIndex))
			b.WriteString(". ")
			b.WriteString(overloadType.String())
			b.WriteString(" defined in ")
			b.WriteString(path)
			b.WriteString(":")
			b.WriteString(strconv.Itoa(int(lc.Line)))
			b.WriteString(":")
			b.WriteString(strconv.Itoa(int(lc.Col)))
			overloadIndex++
		}
		tc.errf(diag.SemaNoOverload, e.Span, "%s", b.String())
		return types.Void
	}

	declType, ok := tc.u.LookupDeclType(exactDecl)
	if !ok || declType == nil {
		return types.Void
	}
	return declType.Func.Return
}

// scoreTemplatedCandidates instantiates every viable templated overload and
// picks the unique top scorer; ties are ambiguity errors.
func (tc *Typer) scoreTemplatedCandidates(e *ast.Expr, setSym *symbols.Symbol, candidates []*ast.Decl) *ast.Decl {
	info := tc.u.Info(e)
	baseInfo := tc.u.Info(e.Call.Base)

	var scored []overloadCandidate
	for _, candidate := range candidates {
		candidateType := setSym.OverloadTypes[candidate]

		resolved := make(map[*types.Type]*types.Type)
		if !tc.guessTemplateCallTypes(candidateType, e.Call.Args, resolved) {
			continue
		}

		argTypes := make([]*types.Type, 0, len(candidateType.TemplateArgs))
		complete := true
		for _, param := range candidateType.TemplateArgs {
			bound, ok := resolved[param]
			if !ok {
				complete = false
				break
			}
			argTypes = append(argTypes, bound)
		}
		if !complete {
			continue
		}

		instType := tc.templateInstantiate(candidateType, argTypes, e.Span)
		instDecl, _ := tc.instantiateFuncDecl(setSym, candidate, candidateType, argTypes, instType, e.Span, true)

		score := 0
		for i, arg := range e.Call.Args {
			argType := tc.resolveExpr(arg)
			score += typeSimilarityScore(argType, candidateType.Func.Args[i])
		}
		scored = append(scored, overloadCandidate{originalDecl: candidate, instantiatedDecl: instDecl, score: score})
	}

	if len(scored) == 0 {
		return nil
	}

	// stable sort by descending score
	for i := 1; i < len(scored); i++ {
		for j := i; j > 0 && scored[j].score > scored[j-1].score; j-- {
			scored[j], scored[j-1] = scored[j-1], scored[j]
		}
	}

	best := scored[0].score
	sameScore := 1
	for i := 1; i < len(scored); i++ {
		if scored[i].score == best {
			sameScore++
		}
	}

	if sameScore > 1 {
		var b strings.Builder
		b.WriteString("ambiguous function call 'func(")
		for i, arg := range e.Call.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte(':')
			b.WriteString(tc.resolveExpr(arg).String())
		}
		b.WriteString(")' in the overload set:")
		for i := 0; i < sameScore; i++ {
			candidate := scored[i].originalDecl
			candidateType := setSym.OverloadTypes[candidate]
			path, lc := tc.u.FileSet.Position(candidate.Name.Span)
			b.WriteString("\n  ")
			b.WriteString(strconv.Itoa(i))
			b.WriteString(". ")
			b.WriteString(candidateType.String())
			b.WriteString(" defined in ")
			b.WriteString(path)
			b.WriteString(":")
			b.WriteString(strconv.Itoa(int(lc.Line)))
			b.WriteString(":")
			b.WriteString(strconv.Itoa(int(lc.Col)))
		}
		tc.errf(diag.SemaAmbiguousOverload, e.Span, "%s", b.String())
		tc.ambiguityReported = true
		return nil
	}

	winner := scored[0]
	if winner.instantiatedDecl == nil {
		return nil
	}
	instSym := tc.u.LookupDeclSymbol(winner.instantiatedDecl)
	if instSym == nil {
		instType, _ := tc.u.LookupDeclType(winner.instantiatedDecl)
		instSym = tc.registerInstantiationSymbol(setSym, winner.instantiatedDecl, instType)
	} else {
		tc.addDependency(instSym)
	}
	info.Func = winner.instantiatedDecl
	baseInfo.Sym = instSym
	return winner.instantiatedDecl
}

// registerInstantiationSymbol mints the symbol for a specialized function
// and records it as reachable.
func (tc *Typer) registerInstantiationSymbol(base *symbols.Symbol, instDecl *ast.Decl, instType *types.Type) *symbols.Symbol {
	instSym := tc.u.Syms.NewFuncInstantiation(base, instType, instDecl)
	tc.u.SetDeclSymbol(instDecl, instSym)
	instSym.PackageName = tc.generatePackageName(instSym, true)
	tc.addDependency(instSym)
	tc.pkg.ReachableSymbols = append(tc.pkg.ReachableSymbols, instSym)
	return instSym
}
