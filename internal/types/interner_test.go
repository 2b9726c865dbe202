package types

import "testing"

func TestArrayInterningIsPointerIdentity(t *testing.T) {
	in := NewInterner()
	a := in.Array(Float, 3)
	b := in.Array(Float, 3)
	if a != b {
		t.Fatalf("structurally equal arrays must be the same pointer")
	}
	c := in.Array(Float, 4)
	if a == c {
		t.Fatalf("different counts must intern differently")
	}
	if in.Array(Float, UnboundedArrayCount) == a {
		t.Fatalf("unbounded array must differ from bounded")
	}
}

func TestVecInterningReusesBuiltins(t *testing.T) {
	in := NewInterner()
	if in.Vec(Float, 4) != Vec4 {
		t.Fatalf("float vec4 should be the builtin singleton")
	}
	b1 := in.Vec(Bool, 3)
	b2 := in.Vec(Bool, 3)
	if b1 != b2 {
		t.Fatalf("bool vectors must dedup")
	}
	if b1 == Vec3 {
		t.Fatalf("bool vec3 must differ from float vec3")
	}
}

func TestFuncInterning(t *testing.T) {
	in := NewInterner()
	f1 := in.Func(FuncSign{Args: []*Type{Int, Float}, Return: Int}, nil)
	f2 := in.Func(FuncSign{Args: []*Type{Int, Float}, Return: Int}, nil)
	if f1 != f2 {
		t.Fatalf("same signature must intern to the same pointer")
	}
	f3 := in.Func(FuncSign{Args: []*Type{Float, Int}, Return: Int}, nil)
	if f1 == f3 {
		t.Fatalf("argument order must matter")
	}
}

func TestIncompleteCompleteStruct(t *testing.T) {
	in := NewInterner()
	placeholder := in.Incomplete(SymbolID(1), "Light")
	if placeholder.Kind != KindIncomplete {
		t.Fatalf("expected incomplete placeholder")
	}
	again := in.Incomplete(SymbolID(1), "Light")
	if placeholder != again {
		t.Fatalf("placeholder must be stable per symbol")
	}

	in.CompleteStruct(placeholder, []StructField{{Type: Float}}, map[string]int{"intensity": 0}, nil)
	if placeholder.Kind != KindStruct {
		t.Fatalf("completion must mutate the placeholder in place")
	}
}

func TestTemplateInstantiateMemoizes(t *testing.T) {
	in := NewInterner()
	tn := in.Typename(SymbolID(7), "T")
	base := in.Func(FuncSign{Args: []*Type{tn}, Return: tn}, []*Type{tn})

	var out1, out2 []*Type
	inst1 := in.TemplateInstantiate(base, []*Type{Int}, &out1)
	inst2 := in.TemplateInstantiate(base, []*Type{Int}, &out2)
	if inst1 != inst2 {
		t.Fatalf("same (base, args) must reuse the instance")
	}
	if inst1.Func.Return != Int {
		t.Fatalf("substitution should map T to int, got %s", inst1.Func.Return)
	}
	if len(out2) != 0 {
		t.Fatalf("memoized instantiation must not mint new types")
	}

	instFloat := in.TemplateInstantiate(base, []*Type{Float}, &out1)
	if instFloat == inst1 {
		t.Fatalf("different args must yield different instances")
	}
}

func TestIsTemplated(t *testing.T) {
	in := NewInterner()
	tn := in.Typename(SymbolID(9), "T")
	if !IsTemplated(tn) {
		t.Fatalf("typename is templated")
	}
	arr := in.Array(tn, 4)
	if !IsTemplated(arr) {
		t.Fatalf("array of typename is templated")
	}
	if IsTemplated(in.Array(Int, 4)) {
		t.Fatalf("array of int is not templated")
	}
}

func TestShaderAPI(t *testing.T) {
	in := NewInterner()
	if !IsShaderAPI(Vec4, ShaderAPIDefault) || !IsShaderAPI(Mat4, ShaderAPIDefault) {
		t.Fatalf("vectors and matrices are shader-api legal")
	}
	if IsShaderAPI(Void, ShaderAPIDefault) {
		t.Fatalf("void is not legal by default")
	}
	if !IsShaderAPI(Void, ShaderAPIAllowVoid) {
		t.Fatalf("void is legal when allowed")
	}
	stream := in.Stream(Vec4)
	if IsShaderAPI(stream, ShaderAPIDefault) {
		t.Fatalf("streams need explicit permission")
	}
	if !IsShaderAPI(stream, ShaderAPIAllowStreams) {
		t.Fatalf("streams are legal for geometry")
	}
}
