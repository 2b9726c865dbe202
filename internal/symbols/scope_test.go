package symbols

import (
	"testing"

	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

func named(t *Table, name string) *Symbol {
	return t.NewVar(token.Token{Kind: token.Ident, Text: name}, nil, ast.TypeSign{}, nil)
}

func TestScopeFindWalksParents(t *testing.T) {
	table := NewTable()
	root := NewScope(nil, "pkg", nil, ScopeFlagNone)
	child := NewScope(root, "fn", nil, ScopeFlagNone)

	sym := named(table, "x")
	root.Add(sym)
	sym.Scope = root

	if child.ShallowFind("x") != nil {
		t.Fatalf("shallow find must not walk parents")
	}
	if child.Find("x") != sym {
		t.Fatalf("find must walk parents")
	}
	if !root.IsTopLevel(sym) {
		t.Fatalf("x lives in root")
	}
	if child.IsTopLevel(sym) {
		t.Fatalf("x does not live in child")
	}
}

func TestScopeShadowing(t *testing.T) {
	table := NewTable()
	root := NewScope(nil, "pkg", nil, ScopeFlagNone)
	child := NewScope(root, "fn", nil, ScopeFlagNone)

	outer := named(table, "v")
	inner := named(table, "v")
	root.Add(outer)
	child.Add(inner)

	if child.Find("v") != inner {
		t.Fatalf("inner symbol must shadow outer")
	}
	if root.Find("v") != outer {
		t.Fatalf("root still sees outer")
	}
}

func TestScopeFindFlag(t *testing.T) {
	root := NewScope(nil, "pkg", nil, ScopeFlagNone)
	loop := NewScope(root, "for loop", nil, ScopeFlagInsideLoop)
	block := NewScope(loop, "", nil, ScopeFlagNone)

	if !block.FindFlag(ScopeFlagInsideLoop) {
		t.Fatalf("flag must be visible from nested scopes")
	}
	if root.FindFlag(ScopeFlagInsideLoop) {
		t.Fatalf("flag must not leak to parents")
	}
}

func TestGenerateNameDeduplicates(t *testing.T) {
	root := NewScope(nil, "pkg", nil, ScopeFlagNone)
	if got := root.GenerateName("pkg_main"); got != "pkg_main" {
		t.Fatalf("first use keeps the base name, got %q", got)
	}
	if got := root.GenerateName("pkg_main"); got != "pkg_main_2" {
		t.Fatalf("collision must append a counter, got %q", got)
	}
	if got := root.GenerateName("pkg_main"); got != "pkg_main_3" {
		t.Fatalf("counter must advance, got %q", got)
	}

	child := NewScope(root, "fn", nil, ScopeFlagNone)
	if got := child.GenerateName("pkg_main"); got != "pkg_main_4" {
		t.Fatalf("ancestor collisions count too, got %q", got)
	}
}

func TestOverloadSetReplacesFunc(t *testing.T) {
	table := NewTable()
	root := NewScope(nil, "pkg", nil, ScopeFlagNone)

	fn := table.NewFunc(token.Token{Kind: token.Ident, Text: "f"}, nil)
	root.Add(fn)
	fn.Scope = root

	set := table.NewOverloadSet(fn)
	if root.Find("f") != set {
		t.Fatalf("overload set must replace the function in its scope")
	}
	if len(set.OverloadDecls) != 1 {
		t.Fatalf("set must be seeded with the original decl")
	}
}

func TestDepsAreOrderedAndUnique(t *testing.T) {
	table := NewTable()
	a := named(table, "a")
	b := named(table, "b")
	c := named(table, "c")

	a.AddDep(b)
	a.AddDep(c)
	a.AddDep(b)
	a.AddDep(a)

	if len(a.Deps) != 2 || a.Deps[0] != b || a.Deps[1] != c {
		t.Fatalf("deps must be unique and ordered by first use: %v", a.Deps)
	}
}
