package types

import (
	"reflect"
	"testing"

	"github.com/WaleedSymbyo/sabre/internal/token"
)

func TestBinaryOpIntFolding(t *testing.T) {
	cases := []struct {
		a, b int64
		op   token.Kind
		want int64
	}{
		{2, 3, token.Plus, 5},
		{7, 2, token.Minus, 5},
		{4, 3, token.Star, 12},
		{9, 2, token.Slash, 4},
		{9, 2, token.Percent, 1},
		{6, 3, token.Amp, 2},
		{4, 1, token.Pipe, 5},
		{1, 3, token.Shl, 8},
		{8, 2, token.Shr, 2},
	}
	for _, tc := range cases {
		got := BinaryOp(IntValue(tc.a), tc.op, IntValue(tc.b))
		if got.Type != Int || got.Int != tc.want {
			t.Fatalf("%d %s %d = %v, want %d", tc.a, tc.op, tc.b, got, tc.want)
		}
	}
}

func TestBinaryOpPromotesToDouble(t *testing.T) {
	got := BinaryOp(IntValue(1), token.Plus, DoubleValue(0.5))
	if got.Type != Double || got.Double != 1.5 {
		t.Fatalf("1 + 0.5 = %v, want 1.5", got)
	}
}

func TestBinaryOpComparisons(t *testing.T) {
	if got := BinaryOp(IntValue(1), token.Lt, IntValue(2)); got.Type != Bool || !got.Bool {
		t.Fatalf("1 < 2 should fold to true")
	}
	if got := BinaryOp(BoolValue(true), token.AndAnd, BoolValue(false)); got.Bool {
		t.Fatalf("true && false should fold to false")
	}
}

func TestBinaryOpDivisionByZero(t *testing.T) {
	if got := BinaryOp(IntValue(1), token.Slash, IntValue(0)); got.IsValid() {
		t.Fatalf("division by zero must not fold")
	}
}

func TestUnaryOpFolding(t *testing.T) {
	if got := UnaryOp(IntValue(5), token.Minus); got.Int != -5 {
		t.Fatalf("-5 fold failed: %v", got)
	}
	if got := UnaryOp(BoolValue(false), token.Bang); !got.Bool {
		t.Fatalf("!false fold failed")
	}
	if got := UnaryOp(IntValue(0), token.Tilde); got.Int != -1 {
		t.Fatalf("^0 fold failed: %v", got)
	}
}

func TestFoldingIsIdempotent(t *testing.T) {
	v := BinaryOp(IntValue(2), token.Star, IntValue(21))
	again := BinaryOp(IntValue(2), token.Star, IntValue(21))
	if !reflect.DeepEqual(v, again) {
		t.Fatalf("folding the same operation twice must agree")
	}
}

func TestAggregateSetClones(t *testing.T) {
	in := NewInterner()
	arr := in.Array(Int, 3)
	v := AggregateValue(arr)
	v2 := AggregateSet(v, 1, IntValue(42))
	if v.Aggregate[1].IsValid() {
		t.Fatalf("AggregateSet must not mutate the original")
	}
	if v2.Aggregate[1].Int != 42 {
		t.Fatalf("AggregateSet lost the element")
	}
	if AggregateGet(v2, 1).Int != 42 {
		t.Fatalf("AggregateGet mismatch")
	}
}

func TestFractionAndSign(t *testing.T) {
	if !DoubleValue(1.5).HasFraction() {
		t.Fatalf("1.5 has a fraction")
	}
	if DoubleValue(2.0).HasFraction() {
		t.Fatalf("2.0 has no fraction")
	}
	if !IntValue(-1).IsNegative() || IntValue(0).IsNegative() {
		t.Fatalf("sign check failed")
	}
}
