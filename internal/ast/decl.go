package ast

import (
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

// DeclKind enumerates top-level declaration kinds.
type DeclKind uint8

const (
	DeclConst DeclKind = iota
	DeclVar
	DeclFunc
	DeclStruct
	DeclEnum
	DeclImport
	DeclIf
)

// ValueDecl backs const and var declarations: a name list sharing the
// optional signature, with values paired positionally.
type ValueDecl struct {
	Names  []token.Token
	Sign   TypeSign
	Values []*Expr
}

// FuncArg is one argument group `a, b: type`.
type FuncArg struct {
	Names []token.Token
	Sign  TypeSign
}

// FuncDecl is a function declaration, possibly templated.
type FuncDecl struct {
	TemplateParams []token.Token
	Args           []FuncArg
	ReturnSign     TypeSign
	Body           *Stmt // StmtBlock, nil for body-less declarations
}

// StructField is one field group `a, b: type = default`.
type StructField struct {
	Names   []token.Token
	Sign    TypeSign
	Default *Expr
	Tags    TagTable
}

// StructDecl is a struct declaration, possibly templated.
type StructDecl struct {
	TemplateParams []token.Token
	Fields         []StructField
}

// EnumField is one enum member with an optional explicit value.
type EnumField struct {
	Name  token.Token
	Value *Expr
}

// EnumDecl is an enum declaration.
type EnumDecl struct {
	Fields []EnumField
}

// ImportDecl is `import "path"` with an optional alias name.
type ImportDecl struct {
	Path  token.Token
	Alias token.Token
}

// IfDecl is a top-level compile-time conditional; Cond and Body run in
// parallel for the if/else-if chain, Else holds the trailing branch.
type IfDecl struct {
	Cond []*Expr
	Body [][]*Decl
	Else []*Decl
}

// Decl is a top-level declaration. Kind selects which payload is active.
type Decl struct {
	Kind DeclKind
	Span source.Span
	Name token.Token
	Tags TagTable

	Const  ValueDecl
	Var    ValueDecl
	Func   FuncDecl
	Struct StructDecl
	Enum   EnumDecl
	Import ImportDecl
	If     IfDecl
}
