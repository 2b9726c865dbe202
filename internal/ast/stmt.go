package ast

import (
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

// StmtKind enumerates statement node kinds.
type StmtKind uint8

const (
	StmtBreak StmtKind = iota
	StmtContinue
	StmtDiscard
	StmtReturn
	StmtIf
	StmtFor
	StmtAssign
	StmtExpr
	StmtDecl
	StmtBlock
)

// IfStmt holds an if/else-if chain; Cond and Body run in parallel, Else is
// the optional trailing else block.
type IfStmt struct {
	Cond []*Expr
	Body []*Stmt
	Else *Stmt
}

// ForStmt is a C-style for loop; any of Init/Cond/Post may be nil.
type ForStmt struct {
	Init *Stmt
	Cond *Expr
	Post *Stmt
	Body *Stmt
}

// AssignStmt is `lhs... op rhs...` with positional pairing.
type AssignStmt struct {
	LHS []*Expr
	Op  token.Token
	RHS []*Expr
}

// Stmt is a single statement node. Kind selects which payload is active.
type Stmt struct {
	Kind StmtKind
	Span source.Span

	Return *Expr
	If     IfStmt
	For    ForStmt
	Assign AssignStmt
	Expr   *Expr
	Decl   *Decl
	Block  []*Stmt
}
