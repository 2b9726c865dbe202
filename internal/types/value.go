package types

import (
	"slices"

	"github.com/WaleedSymbyo/sabre/internal/token"
)

// Value is a folded constant. Type selects which payload is live: Int for
// integer constants, Double for floats, Bool, or Aggregate for vectors,
// arrays and structs. A zero Value means "not a constant".
type Value struct {
	Type      *Type
	Int       int64
	Double    float64
	Bool      bool
	Aggregate []Value
}

// IsValid reports whether the value holds a folded constant.
func (v Value) IsValid() bool { return v.Type != nil }

// IntValue builds an integer constant.
func IntValue(i int64) Value { return Value{Type: Int, Int: i} }

// DoubleValue builds a floating constant.
func DoubleValue(d float64) Value { return Value{Type: Double, Double: d} }

// BoolValue builds a boolean constant.
func BoolValue(b bool) Value { return Value{Type: Bool, Bool: b} }

// AggregateValue builds an empty aggregate constant shaped after t.
func AggregateValue(t *Type) Value {
	var n int
	switch t.Kind {
	case KindVec:
		n = t.Width
	case KindArray:
		if t.Count > 0 {
			n = int(t.Count)
		}
	case KindStruct:
		n = len(t.Fields)
	}
	return Value{Type: t, Aggregate: make([]Value, n)}
}

// AggregateGet returns element i of an aggregate constant.
func AggregateGet(v Value, i int64) Value {
	if i < 0 || int(i) >= len(v.Aggregate) {
		return Value{}
	}
	return v.Aggregate[i]
}

// AggregateSet returns a copy of v with element i replaced.
func AggregateSet(v Value, i int, x Value) Value {
	out := v
	out.Aggregate = slices.Clone(v.Aggregate)
	if i >= 0 && i < len(out.Aggregate) {
		out.Aggregate[i] = x
	}
	return out
}

func (v Value) asDouble() float64 {
	if v.Type == Int {
		return float64(v.Int)
	}
	return v.Double
}

// BinaryOp folds a binary operation over two constants. Mixing integer and
// floating operands promotes to floating. Unsupported combinations fold to
// the zero Value.
func BinaryOp(a Value, op token.Kind, b Value) Value {
	if !a.IsValid() || !b.IsValid() {
		return Value{}
	}

	if a.Type == Bool || b.Type == Bool {
		if a.Type != Bool || b.Type != Bool {
			return Value{}
		}
		switch op {
		case token.AndAnd:
			return BoolValue(a.Bool && b.Bool)
		case token.OrOr:
			return BoolValue(a.Bool || b.Bool)
		case token.EqEq:
			return BoolValue(a.Bool == b.Bool)
		case token.BangEq:
			return BoolValue(a.Bool != b.Bool)
		default:
			return Value{}
		}
	}

	if a.Type == Int && b.Type == Int {
		switch op {
		case token.Plus:
			return IntValue(a.Int + b.Int)
		case token.Minus:
			return IntValue(a.Int - b.Int)
		case token.Star:
			return IntValue(a.Int * b.Int)
		case token.Slash:
			if b.Int == 0 {
				return Value{}
			}
			return IntValue(a.Int / b.Int)
		case token.Percent:
			if b.Int == 0 {
				return Value{}
			}
			return IntValue(a.Int % b.Int)
		case token.Amp:
			return IntValue(a.Int & b.Int)
		case token.Pipe:
			return IntValue(a.Int | b.Int)
		case token.Caret:
			return IntValue(a.Int ^ b.Int)
		case token.Shl:
			if b.Int < 0 || b.Int > 63 {
				return Value{}
			}
			return IntValue(a.Int << uint(b.Int))
		case token.Shr:
			if b.Int < 0 || b.Int > 63 {
				return Value{}
			}
			return IntValue(a.Int >> uint(b.Int))
		case token.Lt:
			return BoolValue(a.Int < b.Int)
		case token.LtEq:
			return BoolValue(a.Int <= b.Int)
		case token.Gt:
			return BoolValue(a.Int > b.Int)
		case token.GtEq:
			return BoolValue(a.Int >= b.Int)
		case token.EqEq:
			return BoolValue(a.Int == b.Int)
		case token.BangEq:
			return BoolValue(a.Int != b.Int)
		default:
			return Value{}
		}
	}

	if (a.Type == Int || a.Type == Double) && (b.Type == Int || b.Type == Double) {
		x, y := a.asDouble(), b.asDouble()
		switch op {
		case token.Plus:
			return DoubleValue(x + y)
		case token.Minus:
			return DoubleValue(x - y)
		case token.Star:
			return DoubleValue(x * y)
		case token.Slash:
			if y == 0 {
				return Value{}
			}
			return DoubleValue(x / y)
		case token.Lt:
			return BoolValue(x < y)
		case token.LtEq:
			return BoolValue(x <= y)
		case token.Gt:
			return BoolValue(x > y)
		case token.GtEq:
			return BoolValue(x >= y)
		case token.EqEq:
			return BoolValue(x == y)
		case token.BangEq:
			return BoolValue(x != y)
		default:
			return Value{}
		}
	}

	return Value{}
}

// UnaryOp folds a unary operation over a constant.
func UnaryOp(v Value, op token.Kind) Value {
	if !v.IsValid() {
		return Value{}
	}
	switch op {
	case token.Plus:
		if v.Type == Int || v.Type == Double {
			return v
		}
	case token.Minus:
		if v.Type == Int {
			return IntValue(-v.Int)
		}
		if v.Type == Double {
			return DoubleValue(-v.Double)
		}
	case token.Bang:
		if v.Type == Bool {
			return BoolValue(!v.Bool)
		}
	case token.Tilde:
		if v.Type == Int {
			return IntValue(^v.Int)
		}
	}
	return Value{}
}

// HasFraction reports whether a floating constant cannot be represented as
// an integer.
func (v Value) HasFraction() bool {
	return v.Type == Double && v.Double != float64(int64(v.Double))
}

// IsNegative reports whether a numeric constant is below zero.
func (v Value) IsNegative() bool {
	switch v.Type {
	case Int:
		return v.Int < 0
	case Double:
		return v.Double < 0
	default:
		return false
	}
}
