package sema

import (
	"strconv"

	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/token"
	"github.com/WaleedSymbyo/sabre/internal/types"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

// resolveExpr types an expression, memoizing the result in the unit's side
// table.
func (tc *Typer) resolveExpr(e *ast.Expr) *types.Type {
	info := tc.u.Info(e)
	if info.Type != nil {
		return info.Type
	}

	switch e.Kind {
	case ast.ExprAtom:
		info.Type = tc.resolveAtomExpr(e)
	case ast.ExprBinary:
		info.Type = tc.resolveBinaryExpr(e)
	case ast.ExprUnary:
		info.Type = tc.resolveUnaryExpr(e)
	case ast.ExprCall:
		info.Type = tc.resolveCallExpr(e)
	case ast.ExprCast:
		info.Type = tc.resolveCastExpr(e)
	case ast.ExprDot:
		info.Type = tc.resolveDotExpr(e)
	case ast.ExprIndexed:
		info.Type = tc.resolveIndexedExpr(e)
	case ast.ExprComplit:
		info.Type = tc.resolveComplitExpr(e)
	default:
		info.Type = types.Void
	}
	return info.Type
}

func (tc *Typer) resolveAtomExpr(e *ast.Expr) *types.Type {
	info := tc.u.Info(e)
	switch e.Atom.Kind {
	case token.IntLit:
		v, err := strconv.ParseInt(e.Atom.Text, 10, 64)
		if err != nil {
			tc.errf(diag.SemaOutOfRange, e.Span, "integer literal '%s' out of range", e.Atom.Text)
		}
		info.Mode = unit.AddressConst
		info.Value = types.IntValue(v)
		return types.LitInt
	case token.FloatLit:
		v, err := strconv.ParseFloat(e.Atom.Text, 64)
		if err != nil {
			tc.errf(diag.SemaOutOfRange, e.Span, "float literal '%s' out of range", e.Atom.Text)
		}
		info.Mode = unit.AddressConst
		info.Value = types.DoubleValue(v)
		return types.LitFloat
	case token.KwFalse:
		info.Mode = unit.AddressConst
		info.Value = types.BoolValue(false)
		return types.Bool
	case token.KwTrue:
		info.Mode = unit.AddressConst
		info.Value = types.BoolValue(true)
		return types.Bool
	case token.Ident:
		sym := tc.findSymbol(e.Atom.Text)
		// imports are only visible in file scope; search there as well
		if sym == nil {
			if file := tc.fileOf(e.Span); file != nil {
				sym = file.Scope.Find(e.Atom.Text)
			}
		}
		if sym == nil {
			tc.errf(diag.SemaUndefinedSymbol, e.Span, "'%s' undefined symbol", e.Atom.Text)
			return types.Void
		}

		info.Sym = sym
		tc.resolveSymbol(sym)
		if sym.Kind == symbols.SymbolConst && sym.Value != nil {
			info.Value = tc.u.Info(sym.Value).Value
		}

		switch {
		case sym.Kind == symbols.SymbolConst:
			info.Mode = unit.AddressConst
		case sym.Kind == symbols.SymbolVar:
			info.Mode = unit.AddressVariable
		case sym.Kind == symbols.SymbolFunc && sym.Type != nil &&
			sym.Type.Kind == types.KindFunc && sym.Type.Func.Return != types.Void:
			info.Mode = unit.AddressComputed
		}
		if sym.Type == nil {
			return types.Void
		}
		return sym.Type
	default:
		return types.Void
	}
}

func (tc *Typer) resolveBinaryExpr(e *ast.Expr) *types.Type {
	lhsType := tc.resolveExpr(e.Binary.Left)

	// an enum on the left makes `.MEMBER` work on the right
	if types.IsEnum(lhsType) {
		tc.pushExpectedType(lhsType)
	}
	rhsType := tc.resolveExpr(e.Binary.Right)
	if types.IsEnum(lhsType) {
		tc.popExpectedType()
	}

	info := tc.u.Info(e)
	lhsInfo := tc.u.Info(e.Binary.Left)
	rhsInfo := tc.u.Info(e.Binary.Right)
	op := e.Binary.Op.Kind

	setMode := func() {
		if lhsInfo.Mode == unit.AddressConst && rhsInfo.Mode == unit.AddressConst {
			info.Value = types.BinaryOp(lhsInfo.Value, op, rhsInfo.Value)
			info.Mode = unit.AddressConst
		} else {
			info.Mode = unit.AddressComputed
		}
	}

	failed := false

	// matrix vector multiplication
	if op == token.Star {
		if types.IsMat(lhsType) && types.IsVec(rhsType) {
			if lhsType.Width == rhsType.Width {
				setMode()
				return rhsType
			}
			tc.errf(diag.SemaIllegalOperator, e.Span, "width mismatch in multiply operation '%s' * '%s'", lhsType, rhsType)
			failed = true
		} else if types.IsVec(lhsType) && types.IsMat(rhsType) {
			if lhsType.Width == rhsType.Width {
				setMode()
				return lhsType
			}
			tc.errf(diag.SemaIllegalOperator, e.Span, "width mismatch in multiply operation '%s' * '%s'", lhsType, rhsType)
			failed = true
		}
	}

	isArith := op == token.Plus || op == token.Minus || op == token.Star ||
		op == token.Slash || op == token.Percent

	// vector op scalar
	if isArith {
		if types.IsVec(lhsType) && types.IsNumericScalar(rhsType) {
			if typeCoercEqual(lhsType.Base, rhsType) {
				setMode()
				return lhsType
			}
			tc.errf(diag.SemaIllegalOperator, e.Span,
				"illegal binary operation on vector type, lhs is '%s' and rhs is '%s'", lhsType, rhsType)
			failed = true
		} else if types.IsNumericScalar(lhsType) && types.IsVec(rhsType) {
			if typeCoercEqual(rhsType.Base, lhsType) {
				setMode()
				return rhsType
			}
			tc.errf(diag.SemaIllegalOperator, e.Span,
				"illegal binary operation on vector type, lhs is '%s' and rhs is '%s'", lhsType, rhsType)
			failed = true
		}
	}

	isShift := op == token.Shl || op == token.Shr
	isBitwise := op == token.Pipe || op == token.Amp || op == token.Caret

	if isBitwise || isShift {
		if !types.HasBitOps(lhsType) {
			tc.errf(diag.SemaIllegalOperator, e.Binary.Left.Span, "type '%s' doesn't support bitwise operations", lhsType)
		}
		if !types.HasBitOps(rhsType) {
			tc.errf(diag.SemaIllegalOperator, e.Binary.Right.Span, "type '%s' doesn't support bitwise operations", rhsType)
		}
	} else if isArith {
		if !types.HasArithmetic(lhsType) {
			tc.errf(diag.SemaIllegalOperator, e.Binary.Left.Span, "type '%s' doesn't support arithmetic operations", lhsType)
		}
		if !types.HasArithmetic(rhsType) {
			tc.errf(diag.SemaIllegalOperator, e.Binary.Right.Span, "type '%s' doesn't support arithmetic operations", rhsType)
		}
	}

	if !failed && !typeCoercEqual(lhsType, rhsType) {
		switch {
		case types.IsEnum(lhsType) && (types.IsEqual(rhsType, types.Int) || rhsType == types.LitInt),
			types.IsEnum(rhsType) && (types.IsEqual(lhsType, types.Int) || lhsType == types.LitInt):
			// enum and int types can be used together
		case isShift:
			if !types.HasBitOps(rhsType) {
				tc.errf(diag.SemaIllegalOperator, e.Binary.Right.Span,
					"type '%s' cannot be used in a bitwise shift operation", rhsType)
			} else if types.BitWidth(lhsType) != types.BitWidth(rhsType) {
				tc.errf(diag.SemaIllegalOperator, e.Binary.Right.Span,
					"type '%s' is not compatible with '%s' in a bitwise shift operation", lhsType, rhsType)
			}
		default:
			tc.errf(diag.SemaTypeMismatch, e.Span,
				"type mismatch in binary expression, lhs is '%s' and rhs is '%s'", lhsType, rhsType)
		}
	}

	isLogical := op == token.AndAnd || op == token.OrOr
	if isLogical {
		if !types.IsBoolLike(lhsType) {
			tc.errf(diag.SemaIllegalOperator, e.Binary.Left.Span,
				"logical operators only work on boolean types, but found '%s'", lhsType)
		}
		if !types.IsBoolLike(rhsType) {
			tc.errf(diag.SemaIllegalOperator, e.Binary.Right.Span,
				"logical operators only work on boolean types, but found '%s'", rhsType)
		}
	}
	if (types.IsBoolLike(lhsType) || types.IsBoolLike(rhsType)) && !isLogical && !op.IsCmp() {
		tc.errf(diag.SemaIllegalOperator, e.Binary.Op.Span, "boolean types don't support such operator")
	}

	setMode()

	if op.IsCmp() {
		if types.IsVec(lhsType) {
			return tc.u.Types.Vec(types.Bool, lhsType.Width)
		}
		if types.IsVec(rhsType) {
			return tc.u.Types.Vec(types.Bool, rhsType.Width)
		}
		return types.Bool
	}

	if lhsType == types.LitInt || lhsType == types.LitFloat {
		return rhsType
	}
	return lhsType
}

func (tc *Typer) resolveUnaryExpr(e *ast.Expr) *types.Type {
	t := tc.resolveExpr(e.Unary.Base)
	op := e.Unary.Op.Kind

	switch op {
	case token.Plus, token.Minus:
		if !types.CanNegate(t) {
			tc.errf(diag.SemaIllegalOperator, e.Unary.Base.Span,
				"'%s' is only allowed for numeric types, but expression type is '%s'", e.Unary.Op.Text, t)
		}
	case token.Inc, token.Dec:
		if !types.CanIncrement(t) {
			tc.errf(diag.SemaIllegalOperator, e.Unary.Base.Span,
				"'%s' is only allowed for numeric types, but expression type is '%s'", e.Unary.Op.Text, t)
		}
	case token.Bang:
		if !types.IsEqual(t, types.Bool) {
			tc.errf(diag.SemaIllegalOperator, e.Unary.Base.Span,
				"logical not operator is only allowed for boolean types, but expression type is '%s'", t)
		}
	case token.Tilde:
		if !types.HasBitOps(t) {
			tc.errf(diag.SemaIllegalOperator, e.Unary.Base.Span, "type '%s' cannot be used in a bit not operation", t)
		}
	}

	info := tc.u.Info(e)
	baseInfo := tc.u.Info(e.Unary.Base)

	if baseInfo.Mode == unit.AddressConst && (op == token.Inc || op == token.Dec) {
		tc.errf(diag.SemaNotConst, e.Span, "cannot evaluate expression in compile time")
	}

	if baseInfo.Value.IsValid() {
		info.Value = types.UnaryOp(baseInfo.Value, op)
	}
	if baseInfo.Mode == unit.AddressConst {
		info.Mode = unit.AddressConst
	} else {
		info.Mode = unit.AddressComputed
	}
	return t
}

func (tc *Typer) resolveCastExpr(e *ast.Expr) *types.Type {
	fromType := tc.resolveExpr(e.Cast.Base)
	toType := tc.resolveTypeSign(e.Cast.Sign)

	res := toType
	switch {
	case types.IsNumericScalar(fromType) && types.IsNumericScalar(toType):
	case types.IsVec(fromType) && types.IsVec(toType) &&
		fromType.Width == toType.Width &&
		types.IsNumericScalar(fromType.Base) && types.IsNumericScalar(toType.Base):
	case (types.IsEnum(fromType) && types.IsNumericScalar(toType)) ||
		(types.IsNumericScalar(fromType) && types.IsEnum(toType)):
	default:
		tc.errf(diag.SemaBadCast, e.Span, "cannot cast '%s' to '%s'", fromType, toType)
	}

	info := tc.u.Info(e)
	baseInfo := tc.u.Info(e.Cast.Base)
	if baseInfo.Value.IsValid() {
		info.Value = baseInfo.Value
	}
	if baseInfo.Mode == unit.AddressConst {
		info.Mode = unit.AddressConst
	} else {
		info.Mode = baseInfo.Mode
	}
	return res
}

var swizzleXYZW = [4]byte{'x', 'y', 'z', 'w'}
var swizzleRGBA = [4]byte{'r', 'g', 'b', 'a'}

func swizzleStyleContains(style [4]byte, size int, ch byte) bool {
	for i := 0; i < size; i++ {
		if style[i] == ch {
			return true
		}
	}
	return false
}

func chooseSwizzleStyle(ch byte) ([4]byte, bool) {
	if swizzleStyleContains(swizzleXYZW, 4, ch) {
		return swizzleXYZW, true
	}
	if swizzleStyleContains(swizzleRGBA, 4, ch) {
		return swizzleRGBA, true
	}
	return [4]byte{}, false
}

func (tc *Typer) resolveDotExpr(e *ast.Expr) *types.Type {
	var t *types.Type
	if e.Dot.LHS != nil {
		t = tc.resolveExpr(e.Dot.LHS)
	} else {
		t = tc.expectedType()
	}

	if t == nil {
		if e.Dot.RHS != nil && e.Dot.RHS.Kind == ast.ExprAtom &&
			(e.Dot.RHS.Atom.Kind == token.IntLit || e.Dot.RHS.Atom.Kind == token.FloatLit) {
			tc.errf(diag.SemaTypeMismatch, e.Span,
				"did you mean 0.%s? you cannot omit 0 in floating point numbers", e.Dot.RHS.Atom.Text)
			return types.Void
		}
		tc.errf(diag.SemaTypeMismatch, e.Span,
			"we couldn't deduce lhs type of a dot expression from context, please provide it explicitly")
		return types.Void
	}

	info := tc.u.Info(e)
	switch t.Kind {
	case types.KindVec:
		return tc.resolveSwizzle(e, t)
	case types.KindStruct:
		if e.Dot.RHS.Kind != ast.ExprAtom {
			tc.errf(diag.SemaUndefinedSymbol, e.Dot.RHS.Span, "unknown structure field")
			return types.Void
		}
		idx, ok := t.FieldsByName[e.Dot.RHS.Atom.Text]
		if !ok {
			tc.errf(diag.SemaUndefinedSymbol, e.Dot.RHS.Span, "unknown structure field")
			return types.Void
		}
		if e.Dot.LHS != nil {
			info.Mode = tc.u.Info(e.Dot.LHS).Mode
		}
		info.Sym = tc.u.Syms.Get(t.Sym)
		return t.Fields[idx].Type
	case types.KindPackage:
		return tc.resolvePackageDot(e, t)
	case types.KindEnum:
		if e.Dot.RHS.Kind != ast.ExprAtom {
			tc.errf(diag.SemaUndefinedSymbol, e.Dot.RHS.Span, "unknown enum field")
			return types.Void
		}
		idx, ok := t.EnumFieldsByName[e.Dot.RHS.Atom.Text]
		if !ok {
			tc.errf(diag.SemaUndefinedSymbol, e.Dot.RHS.Span, "unknown enum field")
			return types.Void
		}
		value := t.EnumFields[idx].Value
		if value.IsValid() {
			info.Mode = unit.AddressConst
			info.Value = value
		} else {
			tc.errf(diag.SemaTypeMismatch, e.Span, "enum field has no value yet")
		}
		info.Sym = tc.u.Syms.Get(t.Sym)
		return t
	default:
		tc.errf(diag.SemaUndefinedSymbol, e.Dot.RHS.Span, "unknown structure field")
		return types.Void
	}
}

func (tc *Typer) resolveSwizzle(e *ast.Expr, t *types.Type) *types.Type {
	if e.Dot.RHS.Kind != ast.ExprAtom {
		tc.errf(diag.SemaBadSwizzle, e.Dot.RHS.Span, "unknown structure field")
		return types.Void
	}

	text := e.Dot.RHS.Atom.Text
	if len(text) == 0 {
		tc.errf(diag.SemaBadSwizzle, e.Dot.RHS.Span, "illegal swizzle pattern")
		return types.Void
	}
	style, ok := chooseSwizzleStyle(text[0])
	if !ok {
		tc.errf(diag.SemaBadSwizzle, e.Dot.RHS.Span, "illegal swizzle pattern")
		return types.Void
	}

	outsideRange := false
	illegal := false
	for i := 0; i < len(text); i++ {
		outsideRange = outsideRange || !swizzleStyleContains(style, t.Width, text[i])
		illegal = illegal || !swizzleStyleContains(style, 4, text[i])
	}

	if illegal {
		tc.errf(diag.SemaBadSwizzle, e.Dot.RHS.Span, "illegal vector field")
		return types.Void
	}
	if outsideRange || len(text) > 4 {
		tc.errf(diag.SemaBadSwizzle, e.Dot.RHS.Span, "vector field out of range")
		return types.Void
	}

	info := tc.u.Info(e)
	if e.Dot.LHS != nil {
		info.Mode = tc.u.Info(e.Dot.LHS).Mode
	}
	if len(text) == 1 {
		return t.Base
	}
	return tc.u.Types.Vec(t.Base, len(text))
}

func (tc *Typer) resolvePackageDot(e *ast.Expr, t *types.Type) *types.Type {
	if e.Dot.RHS.Kind != ast.ExprAtom {
		tc.errf(diag.SemaUndefinedSymbol, e.Dot.RHS.Span, "unknown structure field")
		return types.Void
	}

	pkg := tc.u.PackageByID(t.Pkg)
	if pkg == nil {
		return types.Void
	}
	sym := pkg.GlobalScope.ShallowFind(e.Dot.RHS.Atom.Text)
	if sym == nil {
		tc.errf(diag.SemaUndefinedSymbol, e.Dot.RHS.Span, "undefined symbol")
		return types.Void
	}
	if sym.Kind == symbols.SymbolPackage {
		tc.errf(diag.SemaBadImport, e.Dot.RHS.Span, "you can't import a package from inside another package")
	}

	tc.u.Info(e.Dot.RHS).Sym = sym
	tc.resolveSymbol(sym)

	info := tc.u.Info(e)
	info.Sym = sym
	if sym.Kind == symbols.SymbolConst {
		info.Mode = unit.AddressConst
		if sym.Value != nil {
			info.Value = tc.u.Info(sym.Value).Value
		}
	} else if sym.Kind == symbols.SymbolVar {
		info.Mode = unit.AddressVariable
	}
	return sym.Type
}

func (tc *Typer) resolveIndexedExpr(e *ast.Expr) *types.Type {
	baseType := tc.resolveExpr(e.Indexed.Base)
	if !types.IsArray(baseType) {
		tc.errf(diag.SemaTypeMismatch, e.Span, "type '%s' is not array", baseType)
		return baseType
	}

	indexType := tc.resolveExpr(e.Indexed.Index)
	if !types.IsEqual(indexType, types.Int) && !types.IsEqual(indexType, types.Uint) &&
		indexType != types.LitInt {
		tc.errf(diag.SemaTypeMismatch, e.Indexed.Index.Span,
			"array index type should be an int or uint, but we found '%s'", indexType)
		return baseType.Base
	}

	info := tc.u.Info(e)
	baseInfo := tc.u.Info(e.Indexed.Base)
	indexInfo := tc.u.Info(e.Indexed.Index)

	if indexInfo.Mode == unit.AddressConst && indexInfo.Value.Type == types.Int &&
		baseType.Count != types.UnboundedArrayCount && indexInfo.Value.Int >= baseType.Count {
		tc.errf(diag.SemaOutOfRange, e.Indexed.Index.Span,
			"array index out of range, array count is '%d' but index is '%d'", baseType.Count, indexInfo.Value.Int)
	}

	// arrays have variable mode by default, unless they are constants
	info.Mode = unit.AddressVariable
	if baseInfo.Mode == unit.AddressConst && indexInfo.Mode == unit.AddressConst {
		if baseInfo.Value.Type != nil && types.IsArray(baseInfo.Value.Type) &&
			indexInfo.Value.Type == types.Int {
			if indexInfo.Value.Int < baseType.Count {
				info.Mode = unit.AddressConst
				info.Value = types.AggregateGet(baseInfo.Value, indexInfo.Value.Int)
			}
		}
	}
	return baseType.Base
}
