package unit

import (
	"testing"

	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
)

func TestScopeForIsStablePerNode(t *testing.T) {
	u := New(10)
	stmt := &ast.Stmt{Kind: ast.StmtBlock}

	s1 := u.ScopeFor(stmt, nil, "block", nil, symbols.ScopeFlagNone)
	s2 := u.ScopeFor(stmt, nil, "block", nil, symbols.ScopeFlagNone)
	if s1 != s2 {
		t.Fatalf("a node owns at most one scope")
	}
	if u.FindScope(stmt) != s1 {
		t.Fatalf("FindScope must return the owned scope")
	}
	if u.FindScope(&ast.Stmt{}) != nil {
		t.Fatalf("unknown nodes own no scope")
	}
}

func TestInfoIsPerNode(t *testing.T) {
	u := New(10)
	a := &ast.Expr{Kind: ast.ExprAtom}
	b := ast.CloneExpr(a)

	u.Info(a).Mode = AddressConst
	if u.Info(b).Mode == AddressConst {
		t.Fatalf("clones must get fresh annotation records")
	}
	if _, ok := u.LookupInfo(&ast.Expr{}); ok {
		t.Fatalf("untyped expressions have no info")
	}
}

func TestPackageRegistry(t *testing.T) {
	u := New(10)
	pkg := u.NewPackage("main", "/tmp/proj/main")
	if pkg.ID != 1 {
		t.Fatalf("first package gets ID 1")
	}
	if u.PackageByID(pkg.ID) != pkg {
		t.Fatalf("registry lookup failed")
	}
	if u.PackageByID(0) != nil {
		t.Fatalf("NoPackageID is invalid")
	}
}
