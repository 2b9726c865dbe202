package parser

import (
	"testing"

	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/lexer"
	"github.com/WaleedSymbyo/sabre/internal/source"
)

func parseSrc(t *testing.T, src string) ([]*ast.Decl, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sabre", []byte(src))
	bag := diag.NewBag(32)
	reporter := diag.BagReporter{Bag: bag}
	tokens := lexer.Tokenize(fs.Get(id), reporter)
	return New(tokens, reporter).ParseFile(), bag
}

func parseClean(t *testing.T, src string) []*ast.Decl {
	t.Helper()
	decls, bag := parseSrc(t, src)
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("diag: %s", d.Message)
		}
		t.Fatalf("unexpected parse errors")
	}
	return decls
}

func TestParseConstDecl(t *testing.T) {
	decls := parseClean(t, `const a, b: int = 1, 2;`)
	if len(decls) != 1 || decls[0].Kind != ast.DeclConst {
		t.Fatalf("expected one const decl")
	}
	c := decls[0].Const
	if len(c.Names) != 2 || len(c.Values) != 2 || c.Sign.IsEmpty() {
		t.Fatalf("const decl shape wrong: %+v", c)
	}
}

func TestParseFuncDecl(t *testing.T) {
	decls := parseClean(t, `
func lerp<T>(a, b: T, t: float): T {
	return a + (b - a) * t;
}
`)
	fn := decls[0]
	if fn.Kind != ast.DeclFunc || fn.Name.Text != "lerp" {
		t.Fatalf("func decl shape wrong")
	}
	if len(fn.Func.TemplateParams) != 1 || fn.Func.TemplateParams[0].Text != "T" {
		t.Fatalf("template params wrong: %v", fn.Func.TemplateParams)
	}
	if len(fn.Func.Args) != 2 {
		t.Fatalf("expected 2 arg groups, got %d", len(fn.Func.Args))
	}
	if len(fn.Func.Args[0].Names) != 2 {
		t.Fatalf("first group should hold a and b")
	}
	if fn.Func.Body == nil || len(fn.Func.Body.Block) != 1 {
		t.Fatalf("body should hold one return")
	}
}

func TestParseStructWithTags(t *testing.T) {
	decls := parseClean(t, `
struct VSOut {
	@sv_position pos: vec4;
	uv: vec2 = vec2{0.0, 0.0};
}
`)
	st := decls[0]
	if st.Kind != ast.DeclStruct || len(st.Struct.Fields) != 2 {
		t.Fatalf("struct shape wrong")
	}
	if !st.Struct.Fields[0].Tags.Has("sv_position") {
		t.Fatalf("field tag lost")
	}
	if st.Struct.Fields[1].Default == nil {
		t.Fatalf("field default lost")
	}
}

func TestParseTaggedFunc(t *testing.T) {
	decls := parseClean(t, `
@geometry{max_vertex_count = 6} func gs() {
}
`)
	fn := decls[0]
	arg, ok := fn.Tags.Arg("geometry", "max_vertex_count")
	if !ok || arg.Value.Text != "6" {
		t.Fatalf("tag argument lost")
	}
}

func TestParseTypeSigns(t *testing.T) {
	decls := parseClean(t, `var grid: [4][4]float;`)
	sign := decls[0].Var.Sign
	if len(sign.Atoms) != 3 {
		t.Fatalf("expected 3 atoms, got %d", len(sign.Atoms))
	}
	if sign.Atoms[0].Kind != ast.AtomArray || sign.Atoms[2].Kind != ast.AtomNamed {
		t.Fatalf("atom order wrong")
	}

	decls = parseClean(t, `var s: Stack<int>;`)
	sign = decls[0].Var.Sign
	if sign.Atoms[0].Kind != ast.AtomTemplated || len(sign.Atoms[0].TemplateArgs) != 1 {
		t.Fatalf("templated atom wrong")
	}

	decls = parseClean(t, `var v: math.vec2;`)
	sign = decls[0].Var.Sign
	if sign.Atoms[0].PackageName.Text != "math" || sign.Atoms[0].TypeName.Text != "vec2" {
		t.Fatalf("package-qualified atom wrong")
	}
}

func TestParseImport(t *testing.T) {
	decls := parseClean(t, `
import "geometry";
import geo "geometry";
`)
	if decls[0].Import.Alias.IsValid() {
		t.Fatalf("first import has no alias")
	}
	if decls[1].Import.Alias.Text != "geo" {
		t.Fatalf("aliased import lost its alias")
	}
}

func TestParseTopLevelIf(t *testing.T) {
	decls := parseClean(t, `
if DEBUG {
	const X = 1;
} else if VERBOSE {
	const X = 2;
} else {
	const X = 3;
}
`)
	ifDecl := decls[0]
	if ifDecl.Kind != ast.DeclIf {
		t.Fatalf("expected if decl")
	}
	if len(ifDecl.If.Cond) != 2 || len(ifDecl.If.Body) != 2 || len(ifDecl.If.Else) != 1 {
		t.Fatalf("if chain shape wrong: %d conds, %d bodies, %d else",
			len(ifDecl.If.Cond), len(ifDecl.If.Body), len(ifDecl.If.Else))
	}
}

func TestParsePrecedence(t *testing.T) {
	decls := parseClean(t, `const x = 1 + 2 * 3;`)
	e := decls[0].Const.Values[0]
	if e.Kind != ast.ExprBinary || e.Binary.Op.Text != "+" {
		t.Fatalf("+ should be at the root")
	}
	if e.Binary.Right.Kind != ast.ExprBinary || e.Binary.Right.Binary.Op.Text != "*" {
		t.Fatalf("* should bind tighter")
	}
}

func TestParseComplitSelectors(t *testing.T) {
	decls := parseClean(t, `const v = vec2{.x = 1.0, .y = 2.0};`)
	e := decls[0].Const.Values[0]
	if e.Kind != ast.ExprComplit || len(e.Complit.Fields) != 2 {
		t.Fatalf("complit shape wrong")
	}
	if e.Complit.Fields[0].Selector == nil || e.Complit.Fields[0].Selector.Atom.Text != "x" {
		t.Fatalf("selector lost")
	}
}

func TestParseCast(t *testing.T) {
	decls := parseClean(t, `const x = 3 : float;`)
	e := decls[0].Const.Values[0]
	if e.Kind != ast.ExprCast {
		t.Fatalf("expected cast expr, got kind %d", e.Kind)
	}
}

func TestParseForHeaderForms(t *testing.T) {
	parseClean(t, `
func f(n: int): int {
	for { break; }
	for n > 0 { break; }
	for var i = 0; i < n; i++ { continue; }
	return 0;
}
`)
}

func TestParseSwizzleChain(t *testing.T) {
	decls := parseClean(t, `const x = v.xyz.y;`)
	e := decls[0].Const.Values[0]
	if e.Kind != ast.ExprDot || e.Dot.LHS.Kind != ast.ExprDot {
		t.Fatalf("dot chain shape wrong")
	}
}

func TestCloneDeclIsDeep(t *testing.T) {
	decls := parseClean(t, `
func id<T>(x: T): T {
	return x;
}
`)
	original := decls[0]
	clone := ast.CloneDecl(original)
	if clone == original {
		t.Fatalf("clone must be a new node")
	}
	if clone.Func.Body == original.Func.Body {
		t.Fatalf("body must be cloned")
	}
	if clone.Func.Body.Block[0].Return == original.Func.Body.Block[0].Return {
		t.Fatalf("expressions must be cloned")
	}
	if clone.Name.Text != original.Name.Text {
		t.Fatalf("tokens are shared by value")
	}
}
