package sema_test

import (
	"strings"
	"testing"

	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/lexer"
	"github.com/WaleedSymbyo/sabre/internal/parser"
	"github.com/WaleedSymbyo/sabre/internal/sema"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/types"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

func checkSrc(t *testing.T, src string) (*unit.Unit, *unit.Package) {
	t.Helper()
	u := unit.New(100)
	pkg := u.NewPackage("main", "")
	id := u.FileSet.AddVirtual("main.sabre", []byte(src))
	reporter := diag.BagReporter{Bag: u.Bag}
	tokens := lexer.Tokenize(u.FileSet.Get(id), reporter)
	decls := parser.New(tokens, reporter).ParseFile()
	u.AddFile(pkg, &unit.File{ID: id, Path: "main.sabre", Decls: decls})
	sema.Check(u, pkg)
	return u, pkg
}

func wantClean(t *testing.T, u *unit.Unit) {
	t.Helper()
	if u.HasErrors() {
		for _, d := range u.Bag.Items() {
			t.Logf("diag: %s", d.Message)
		}
		t.Fatalf("expected no errors, got %d diagnostics", u.Bag.Len())
	}
}

func wantError(t *testing.T, u *unit.Unit, fragment string) {
	t.Helper()
	for _, d := range u.Bag.Items() {
		if d.Severity == diag.SevError && strings.Contains(d.Message, fragment) {
			return
		}
	}
	for _, d := range u.Bag.Items() {
		t.Logf("diag: %s", d.Message)
	}
	t.Fatalf("expected an error containing %q", fragment)
}

func symType(t *testing.T, pkg *unit.Package, name string) *types.Type {
	t.Helper()
	sym := pkg.GlobalScope.ShallowFind(name)
	if sym == nil {
		t.Fatalf("symbol %q not found", name)
	}
	return sym.Type
}

func TestCompileTimeIfSelectsBranch(t *testing.T) {
	u, pkg := checkSrc(t, `
const BUILD_DEBUG = true;
if BUILD_DEBUG {
	const X = 1;
} else {
	const X = 2;
}
`)
	wantClean(t, u)
	x := pkg.GlobalScope.ShallowFind("X")
	if x == nil {
		t.Fatalf("X not visible at top level")
	}
	if got := u.Info(x.Value).Value.Int; got != 1 {
		t.Fatalf("X = %d, want 1", got)
	}
}

func TestCompileTimeIfElseBranch(t *testing.T) {
	u, pkg := checkSrc(t, `
const BUILD_DEBUG = false;
if BUILD_DEBUG {
	const X = 1;
} else {
	const X = 2;
}
`)
	wantClean(t, u)
	x := pkg.GlobalScope.ShallowFind("X")
	if got := u.Info(x.Value).Value.Int; got != 2 {
		t.Fatalf("X = %d, want 2", got)
	}
}

func TestCompileTimeIfNonConstCondition(t *testing.T) {
	u, _ := checkSrc(t, `
var flag = true;
if flag {
	const X = 1;
}
`)
	wantError(t, u, "compile time if condition is not a constant")
}

func TestTemplateDeduction(t *testing.T) {
	u, pkg := checkSrc(t, `
func id<T>(x: T): T {
	return x;
}

func main(): int {
	var a: int = id(3);
	var b: float = id(1.0);
	var c: int = id(4);
	return a;
}
`)
	wantClean(t, u)

	count := 0
	seen := make(map[*symbols.Symbol]bool)
	for _, sym := range pkg.ReachableSymbols {
		if seen[sym] {
			t.Fatalf("reachable list contains %q twice", sym.Name.Text)
		}
		seen[sym] = true
		if sym.Kind == symbols.SymbolFuncInstantiation {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 instantiations (int, float), got %d", count)
	}
}

func TestTemplateBodyErrorNote(t *testing.T) {
	u, _ := checkSrc(t, `
func twice<T>(x: T): T {
	return x * true;
}

func main(): int {
	return twice(3);
}
`)
	if !u.HasErrors() {
		t.Fatalf("expected instantiation errors")
	}
	foundNote := false
	for _, d := range u.Bag.Items() {
		if d.Severity == diag.SevNote && strings.Contains(d.Message, "call to template function") {
			foundNote = true
		}
	}
	if !foundNote {
		t.Fatalf("expected a note pointing at the call site")
	}
}

func TestOverloadResolution(t *testing.T) {
	u, _ := checkSrc(t, `
func f(x: int): int { return x; }
func f(x: float): float { return x; }

func main(): int {
	var a: int = f(2);
	var b: float = f(2.0);
	return a;
}
`)
	wantClean(t, u)
}

func TestOverloadNoMatch(t *testing.T) {
	u, _ := checkSrc(t, `
func f(x: int): int { return x; }
func f(x: float): float { return x; }

func main(): int {
	f(true);
	return 0;
}
`)
	wantError(t, u, "cannot find suitable function")
}

func TestOverloadDuplicateSignature(t *testing.T) {
	u, _ := checkSrc(t, `
func f(x: int): int { return x; }
func f(x: int): int { return x + 1; }
`)
	wantError(t, u, "function overload already defined")
}

func TestSwizzleAssignment(t *testing.T) {
	u, _ := checkSrc(t, `
func main(): vec4 {
	var v = vec4{1.0, 2.0, 3.0, 4.0};
	v.xyzw = v.wzyx;
	return v;
}
`)
	wantClean(t, u)
}

func TestSwizzleWidthMismatch(t *testing.T) {
	u, _ := checkSrc(t, `
func main(): vec4 {
	var v = vec4{1.0, 2.0, 3.0, 4.0};
	v.xy = v.xyz;
	return v;
}
`)
	wantError(t, u, "type mismatch")
}

func TestSwizzleMixedStyles(t *testing.T) {
	u, _ := checkSrc(t, `
func main(): float {
	var v = vec4{1.0, 2.0, 3.0, 4.0};
	return v.rx;
}
`)
	wantError(t, u, "illegal vector field")
}

func TestSwizzleRGBAOnVec4(t *testing.T) {
	u, _ := checkSrc(t, `
func main(): vec4 {
	var v = vec4{1.0, 2.0, 3.0, 4.0};
	return v.rgba;
}
`)
	wantClean(t, u)
}

func TestSwizzleOutOfRange(t *testing.T) {
	u, _ := checkSrc(t, `
func main(): float {
	var v = vec2{1.0, 2.0};
	return v.z;
}
`)
	wantError(t, u, "vector field out of range")
}

func TestUniformAutoBindings(t *testing.T) {
	u, pkg := checkSrc(t, `
@uniform var t0: Texture2D;
@uniform var t1: Texture2D;
`)
	wantClean(t, u)
	if got := pkg.GlobalScope.ShallowFind("t0").UniformBinding; got != 0 {
		t.Fatalf("t0 binding = %d, want 0", got)
	}
	if got := pkg.GlobalScope.ShallowFind("t1").UniformBinding; got != 1 {
		t.Fatalf("t1 binding = %d, want 1", got)
	}
}

func TestUniformExplicitBindingAdvancesGenerator(t *testing.T) {
	u, pkg := checkSrc(t, `
@uniform{binding = 3} var a: Texture2D;
@uniform var b: Texture2D;
`)
	wantClean(t, u)
	if got := pkg.GlobalScope.ShallowFind("a").UniformBinding; got != 3 {
		t.Fatalf("a binding = %d, want 3", got)
	}
	if got := pkg.GlobalScope.ShallowFind("b").UniformBinding; got != 4 {
		t.Fatalf("b binding = %d, want 4", got)
	}
}

func TestUniformDuplicateBinding(t *testing.T) {
	u, _ := checkSrc(t, `
@uniform{binding = 1} var a: Texture2D;
@uniform{binding = 1} var b: Texture2D;
`)
	wantError(t, u, "binding point 1 is shared")
}

func TestUniformKindsGetIndependentBindings(t *testing.T) {
	u, pkg := checkSrc(t, `
@uniform var t: Texture2D;
@uniform var s: Sampler;
@uniform var m: mat4;
`)
	wantClean(t, u)
	for _, name := range []string{"t", "s", "m"} {
		if got := pkg.GlobalScope.ShallowFind(name).UniformBinding; got != 0 {
			t.Fatalf("%s binding = %d, want 0 (independent generators)", name, got)
		}
	}
}

func TestUniformIllegalType(t *testing.T) {
	u, _ := checkSrc(t, `
struct Bad {
	t: Texture2D;
}
@uniform var b: Bad;
`)
	wantError(t, u, "cannot be used")
}

func TestTerminationMissingReturn(t *testing.T) {
	u, _ := checkSrc(t, `
func f(x: bool): int {
	if x {
		return 1;
	}
}
`)
	wantError(t, u, "missing return")
}

func TestTerminationElseClears(t *testing.T) {
	u, _ := checkSrc(t, `
func f(x: bool): int {
	if x {
		return 1;
	} else {
		return 0;
	}
}
`)
	wantClean(t, u)
}

func TestTerminationForWithCondition(t *testing.T) {
	u, _ := checkSrc(t, `
func f(x: bool): int {
	for x {
		return 1;
	}
}
`)
	wantError(t, u, "missing return")
}

func TestLitIntToUint(t *testing.T) {
	u, _ := checkSrc(t, `
var a: uint = -1;
`)
	wantError(t, u, "type mismatch")
}

func TestLitIntToInt(t *testing.T) {
	u, _ := checkSrc(t, `
var a: int = -1;
var b: uint = 1;
var c: float = 1;
var d: double = 1;
`)
	wantClean(t, u)
}

func TestLitFloatAssignability(t *testing.T) {
	u, _ := checkSrc(t, `
var a: float = 1.5;
var b: double = 1.5;
var c: uint = 2.0;
`)
	wantClean(t, u)

	u, _ = checkSrc(t, `var a: int = 1.5;`)
	wantError(t, u, "type mismatch")

	u, _ = checkSrc(t, `var a: uint = 1.5;`)
	wantError(t, u, "type mismatch")

	u, _ = checkSrc(t, `var a: uint = -2.0;`)
	wantError(t, u, "type mismatch")
}

func TestArrayIndexBounds(t *testing.T) {
	u, _ := checkSrc(t, `
const arr = [3]int{1, 2, 3};
func main(): int {
	return arr[2];
}
`)
	wantClean(t, u)

	u, _ = checkSrc(t, `
const arr = [3]int{1, 2, 3};
func main(): int {
	return arr[3];
}
`)
	wantError(t, u, "array index out of range")
}

func TestUnboundedArrayInfersCount(t *testing.T) {
	u, pkg := checkSrc(t, `
const arr = []int{1, 2, 3, 4};
`)
	wantClean(t, u)
	arrType := symType(t, pkg, "arr")
	if !types.IsArray(arrType) || arrType.Count != 4 {
		t.Fatalf("arr type = %s, want [4]int", arrType)
	}
}

func TestCyclicStruct(t *testing.T) {
	u, _ := checkSrc(t, `
struct A {
	b: B;
}
struct B {
	a: A;
}
`)
	wantError(t, u, "recursive type")
}

func TestCyclicConst(t *testing.T) {
	u, _ := checkSrc(t, `
const A = B;
const B = A;
`)
	wantError(t, u, "cyclic dependency")
}

func TestEnumValues(t *testing.T) {
	u, pkg := checkSrc(t, `
enum E { A, B, C = 10, D }
const x = E.C;
const y: E = .D;
`)
	wantClean(t, u)
	x := pkg.GlobalScope.ShallowFind("x")
	if got := u.Info(x.Value).Value.Int; got != 10 {
		t.Fatalf("E.C = %d, want 10", got)
	}
	y := pkg.GlobalScope.ShallowFind("y")
	if got := u.Info(y.Value).Value.Int; got != 11 {
		t.Fatalf("E.D = %d, want 11", got)
	}
}

func TestEnumDuplicateField(t *testing.T) {
	u, _ := checkSrc(t, `
enum E { A, A }
`)
	wantError(t, u, "field redefinition")
}

func TestDuplicateComplitField(t *testing.T) {
	u, _ := checkSrc(t, `
const v = vec2{.x = 1.0, .x = 2.0};
`)
	wantError(t, u, "duplicate field name")
}

func TestVecUpcastInComplit(t *testing.T) {
	u, _ := checkSrc(t, `
const v = vec4{vec3{1.0, 2.0, 3.0}, 4.0};
`)
	wantClean(t, u)
}

func TestCastNumeric(t *testing.T) {
	u, pkg := checkSrc(t, `
const a: float = 3 : float;
`)
	wantClean(t, u)
	a := pkg.GlobalScope.ShallowFind("a")
	if got := u.Info(a.Value).Value.Int; got != 3 {
		t.Fatalf("cast did not preserve constant, got %d", got)
	}
}

func TestCastIllegal(t *testing.T) {
	u, _ := checkSrc(t, `
const b = true : int;
`)
	wantError(t, u, "cannot cast")
}

func TestMatVecMultiplication(t *testing.T) {
	u, _ := checkSrc(t, `
func mul(m: mat4, v: vec4): vec4 {
	return m * v;
}
`)
	wantClean(t, u)

	u, _ = checkSrc(t, `
func mul(m: mat3, v: vec4): vec4 {
	return m * v;
}
`)
	wantError(t, u, "width mismatch")
}

func TestVecScalarArithmetic(t *testing.T) {
	u, _ := checkSrc(t, `
func scale(v: vec3, s: float): vec3 {
	return v * s;
}
`)
	wantClean(t, u)
}

func TestBreakOutsideLoop(t *testing.T) {
	u, _ := checkSrc(t, `
func f(): int {
	break;
	return 0;
}
`)
	wantError(t, u, "unexpected break")
}

func TestForLoopChecks(t *testing.T) {
	u, _ := checkSrc(t, `
func sum(n: int): int {
	var total = 0;
	for var i = 0; i < n; i++ {
		total += i;
		if total > 100 {
			break;
		}
	}
	return total;
}
`)
	wantClean(t, u)
}

func TestAssignIntoConst(t *testing.T) {
	u, _ := checkSrc(t, `
const C = 1;
func f(): int {
	C = 2;
	return C;
}
`)
	wantError(t, u, "cannot assign into a constant value")
}

func TestAssignIntoComputed(t *testing.T) {
	u, _ := checkSrc(t, `
func f(): int { return 1; }
func g(): int {
	f() = 2;
	return 0;
}
`)
	wantError(t, u, "cannot assign into a computed value")
}

func TestUndefinedSymbol(t *testing.T) {
	u, _ := checkSrc(t, `
const a = missing;
`)
	wantError(t, u, "undefined symbol")
}

func TestRedefinition(t *testing.T) {
	u, _ := checkSrc(t, `
const a = 1;
const a = 2;
`)
	wantError(t, u, "redefinition")
}

func TestVertexEntryPoint(t *testing.T) {
	u, pkg := checkSrc(t, `
struct VSOut {
	@sv_position pos: vec4;
}

@vertex func main(): VSOut {
	return VSOut{vec4{0.0, 0.0, 0.0, 1.0}};
}
`)
	wantClean(t, u)
	if len(pkg.EntryPoints) != 1 {
		t.Fatalf("expected 1 entry point, got %d", len(pkg.EntryPoints))
	}
	if pkg.EntryPoints[0].Mode != unit.ModeVertex {
		t.Fatalf("entry mode = %s, want vertex", pkg.EntryPoints[0].Mode)
	}
}

func TestSVPositionMustBeVec4(t *testing.T) {
	u, _ := checkSrc(t, `
struct VSOut {
	@sv_position pos: vec3;
}

@vertex func main(): VSOut {
	return VSOut{vec3{0.0, 0.0, 0.0}};
}
`)
	wantError(t, u, "system position")
}

func TestGeometryRequiresMaxVertexCount(t *testing.T) {
	u, _ := checkSrc(t, `
@geometry func gs() {
}
`)
	wantError(t, u, "max vertex count")
}

func TestGeometryStreamParameter(t *testing.T) {
	u, _ := checkSrc(t, `
struct VSOut {
	@sv_position pos: vec4;
}

@geometry{max_vertex_count = 6} func gs(input: [3]VSOut, output: TriangleStream<VSOut>) {
}
`)
	wantClean(t, u)
}

func TestGeometryMustReturnVoid(t *testing.T) {
	u, _ := checkSrc(t, `
@geometry{max_vertex_count = 6} func gs(): vec4 {
	return vec4{0.0, 0.0, 0.0, 0.0};
}
`)
	wantError(t, u, "geometry shader return type should be void")
}

func TestEntryBindingWalk(t *testing.T) {
	u, pkg := checkSrc(t, `
@uniform var albedo: Texture2D;
@uniform var normals: Texture2D;

func sampleWidth(): int {
	var t = albedo;
	return 0;
}

@pixel func main(): vec4 {
	sampleWidth();
	var n = normals;
	return vec4{0.0, 0.0, 0.0, 1.0};
}
`)
	wantClean(t, u)
	entry := pkg.EntryPoints[0]
	if len(entry.Textures) != 2 {
		t.Fatalf("entry textures = %d, want 2", len(entry.Textures))
	}
	if got := pkg.GlobalScope.ShallowFind("albedo").UniformBinding; got != 0 {
		t.Fatalf("albedo binding = %d, want 0", got)
	}
	if got := pkg.GlobalScope.ShallowFind("normals").UniformBinding; got != 1 {
		t.Fatalf("normals binding = %d, want 1", got)
	}
}

func TestReachableListTopoOrder(t *testing.T) {
	_, pkg := checkSrc(t, `
const B = A + 1;
const A = 1;
`)
	posOf := func(name string) int {
		for i, sym := range pkg.ReachableSymbols {
			if sym.Name.Text == name {
				return i
			}
		}
		return -1
	}
	if posOf("A") > posOf("B") {
		t.Fatalf("A should resolve before B, order: A=%d B=%d", posOf("A"), posOf("B"))
	}
}

func TestLeadingDotFloat(t *testing.T) {
	u, _ := checkSrc(t, `
func f(): int {
	var x = .5;
	return 0;
}
`)
	if !u.HasErrors() {
		t.Fatalf("leading-dot float should be diagnosed")
	}
}

func TestStructFieldDefaults(t *testing.T) {
	u, _ := checkSrc(t, `
struct Light {
	intensity: float = 1.0;
	color: vec3 = vec3{1.0, 1.0, 1.0};
}
`)
	wantClean(t, u)

	u, _ = checkSrc(t, `
var brightness = 2.0;
struct Light {
	intensity: float = brightness;
}
`)
	wantError(t, u, "default value should be a constant")
}

func TestMangledNamesAreUnique(t *testing.T) {
	u, pkg := checkSrc(t, `
func f(x: int): int { return x; }
func f(x: float): float { return x; }

func main(): int {
	return f(1);
}
`)
	wantClean(t, u)
	seen := make(map[string]bool)
	for _, sym := range pkg.ReachableSymbols {
		if sym.PackageName == "" {
			continue
		}
		if seen[sym.PackageName] {
			t.Fatalf("mangled name %q is not unique", sym.PackageName)
		}
		seen[sym.PackageName] = true
	}
}

func TestConstFoldKeepsUntypedInt(t *testing.T) {
	u, pkg := checkSrc(t, `
const A = 1 + 2 * 3;
`)
	wantClean(t, u)
	a := pkg.GlobalScope.ShallowFind("A")
	if got := u.Info(a.Value).Value.Int; got != 7 {
		t.Fatalf("A = %d, want 7", got)
	}
	if a.Type != types.LitInt {
		t.Fatalf("A type = %s, want untyped int", a.Type)
	}
}
