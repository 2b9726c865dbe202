package sema

import (
	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/token"
	"github.com/WaleedSymbyo/sabre/internal/types"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

func (tc *Typer) resolveStmt(s *ast.Stmt) {
	switch s.Kind {
	case ast.StmtBreak:
		if !tc.currentScope().FindFlag(symbols.ScopeFlagInsideLoop) {
			tc.errf(diag.SemaBadLoopControl, s.Span, "unexpected break statement, they can only appear in for loops")
		}
	case ast.StmtContinue:
		if !tc.currentScope().FindFlag(symbols.ScopeFlagInsideLoop) {
			tc.errf(diag.SemaBadLoopControl, s.Span, "unexpected continue statement, they can only appear in for loops")
		}
	case ast.StmtDiscard:
		// codegen's concern
	case ast.StmtReturn:
		tc.resolveReturnStmt(s)
	case ast.StmtIf:
		tc.resolveIfStmt(s)
	case ast.StmtFor:
		tc.resolveForStmt(s)
	case ast.StmtAssign:
		tc.resolveAssignStmt(s)
	case ast.StmtExpr:
		tc.resolveExpr(s.Expr)
	case ast.StmtDecl:
		tc.resolveDeclStmt(s)
	case ast.StmtBlock:
		scope := tc.u.ScopeFor(s, tc.currentScope(), "", nil, symbols.ScopeFlagNone)
		tc.enterScope(scope)
		for _, stmt := range s.Block {
			tc.resolveStmt(stmt)
		}
		tc.leaveScope()
	}
}

func (tc *Typer) resolveReturnStmt(s *ast.Stmt) {
	expected := tc.expectedReturnType()

	ret := types.Void
	if s.Return != nil {
		tc.pushExpectedType(expected)
		ret = tc.resolveExpr(s.Return)
		tc.popExpectedType()
	}

	if expected == nil {
		tc.errf(diag.SemaTypeMismatch, s.Span, "unexpected return statement")
		return
	}

	if s.Return == nil {
		if !types.IsEqual(expected, types.Void) {
			tc.errf(diag.SemaTypeMismatch, s.Span, "incorrect return type 'void' expected '%s'", expected)
		}
		return
	}
	if !tc.canAssign(expected, s.Return) {
		tc.errf(diag.SemaTypeMismatch, s.Return.Span, "incorrect return type '%s' expected '%s'", ret, expected)
	}
}

func (tc *Typer) resolveIfStmt(s *ast.Stmt) {
	if len(s.If.Cond) != len(s.If.Body) {
		tc.errf(diag.SemaNonBoolCondition, s.Span, "missing if condition")
		return
	}

	for i, cond := range s.If.Cond {
		condType := tc.resolveExpr(cond)
		if !types.IsEqual(condType, types.Bool) {
			tc.errf(diag.SemaNonBoolCondition, cond.Span, "if condition type '%s' is not a boolean", condType)
		}
		tc.resolveStmt(s.If.Body[i])
	}
	if s.If.Else != nil {
		tc.resolveStmt(s.If.Else)
	}
}

func (tc *Typer) resolveForStmt(s *ast.Stmt) {
	scope := tc.u.ScopeFor(s, tc.currentScope(), "for loop", nil, symbols.ScopeFlagInsideLoop)
	tc.enterScope(scope)
	defer tc.leaveScope()

	if s.For.Init != nil {
		tc.resolveStmt(s.For.Init)
	}
	if s.For.Cond != nil {
		condType := tc.resolveExpr(s.For.Cond)
		if !types.IsEqual(condType, types.Bool) {
			tc.errf(diag.SemaNonBoolCondition, s.For.Cond.Span, "for loop condition type '%s' is not a boolean", condType)
		}
	}
	if s.For.Post != nil {
		tc.resolveStmt(s.For.Post)
	}
	if s.For.Body != nil {
		for _, stmt := range s.For.Body.Block {
			tc.resolveStmt(stmt)
		}
	}
}

func (tc *Typer) resolveAssignStmt(s *ast.Stmt) {
	for i := range s.Assign.LHS {
		if i >= len(s.Assign.RHS) {
			break
		}
		lhs := s.Assign.LHS[i]
		rhs := s.Assign.RHS[i]

		lhsType := tc.resolveExpr(lhs)
		if types.IsEqual(lhsType, types.Void) {
			tc.errf(diag.SemaBadAssign, lhs.Span, "cannot assign into a void type")
		}
		rhsType := tc.resolveExpr(rhs)
		if types.IsEqual(rhsType, types.Void) {
			tc.errf(diag.SemaBadAssign, rhs.Span, "cannot assign a void type")
		}

		if s.Assign.Op.Kind == token.StarEq && types.IsVec(lhsType) && types.IsMat(rhsType) {
			if lhsType.Width == rhsType.Width {
				// vec *= mat with a matching width is allowed
				continue
			}
			tc.errf(diag.SemaIllegalOperator, s.Span, "width mismatch in multiply operation '%s' * '%s'", lhsType, rhsType)
		}

		if !tc.canAssign(lhsType, rhs) {
			if s.Assign.Op.Kind == token.ShlEq || s.Assign.Op.Kind == token.ShrEq {
				if !types.HasBitOps(rhsType) {
					tc.errf(diag.SemaIllegalOperator, rhs.Span, "type '%s' cannot be used in a bitwise shift operation", rhsType)
				} else if types.BitWidth(lhsType) != types.BitWidth(rhsType) {
					tc.errf(diag.SemaIllegalOperator, rhs.Span,
						"type '%s' is not compatible with '%s' in a bitwise shift operation", lhsType, rhsType)
				}
			} else {
				tc.errf(diag.SemaTypeMismatch, rhs.Span,
					"type mismatch in assignment statement, expected '%s' but found '%s'", lhsType, rhsType)
			}
		}

		switch tc.u.Info(lhs).Mode {
		case unit.AddressVariable:
			// this is okay
		case unit.AddressConst:
			tc.errf(diag.SemaBadAssign, lhs.Span, "cannot assign into a constant value")
		case unit.AddressComputed:
			tc.errf(diag.SemaBadAssign, lhs.Span, "cannot assign into a computed value")
		default:
			tc.errf(diag.SemaBadAssign, lhs.Span, "you can only assign into variables")
		}
	}
}

// resolveDeclStmt creates local symbols and resolves them immediately;
// shadowing outer names is allowed.
func (tc *Typer) resolveDeclStmt(s *ast.Stmt) {
	d := s.Decl
	switch d.Kind {
	case ast.DeclConst:
		for i, name := range d.Const.Names {
			var value *ast.Expr
			if i < len(d.Const.Values) {
				value = d.Const.Values[i]
			}
			sym := tc.u.Syms.NewConst(name, d, d.Const.Sign, value)
			tc.addSymbol(sym)
			tc.resolveSymbol(sym)
		}
	case ast.DeclVar:
		for i, name := range d.Var.Names {
			var value *ast.Expr
			if i < len(d.Var.Values) {
				value = d.Var.Values[i]
			}
			sym := tc.u.Syms.NewVar(name, d, d.Var.Sign, value)
			tc.addSymbol(sym)
			tc.resolveSymbol(sym)
		}
	case ast.DeclFunc:
		sym := tc.addFuncSymbol(d)
		tc.resolveSymbol(sym)
	default:
	}
}

type terminationInfo struct {
	willReturn bool
	span       source.Span
	msg        string
}

// stmtWillTerminate walks the control flow of a statement checking that
// every exit path ends in a return.
func (tc *Typer) stmtWillTerminate(s *ast.Stmt) terminationInfo {
	switch s.Kind {
	case ast.StmtBlock:
		if len(s.Block) == 0 {
			return terminationInfo{span: s.Span, msg: "empty block does not return"}
		}
		return tc.stmtWillTerminate(s.Block[len(s.Block)-1])
	case ast.StmtReturn:
		return terminationInfo{willReturn: true, span: s.Span}
	case ast.StmtFor:
		if s.For.Cond != nil {
			return terminationInfo{span: s.Span, msg: "for loop with condition may not enter and thus will not return"}
		}
		info := tc.stmtWillTerminate(s.For.Body)
		if info.span.Empty() {
			info.span = s.Span
		}
		return info
	case ast.StmtIf:
		for _, body := range s.If.Body {
			bodyInfo := tc.stmtWillTerminate(body)
			if !bodyInfo.willReturn {
				info := terminationInfo{span: bodyInfo.span, msg: "one of the if branches does not end with return statement"}
				if info.span.Empty() {
					info.span = s.Span
				}
				return info
			}
		}
		if s.If.Else == nil {
			return terminationInfo{span: s.Span, msg: "if statement is missing else branch"}
		}
		bodyInfo := tc.stmtWillTerminate(s.If.Else)
		if !bodyInfo.willReturn {
			info := terminationInfo{span: bodyInfo.span, msg: "one of the if branches does not end with return statement"}
			if info.span.Empty() {
				info.span = s.Span
			}
			return info
		}
		return terminationInfo{willReturn: true, span: s.Span}
	default:
		return terminationInfo{span: s.Span, msg: "statement does not return"}
	}
}
