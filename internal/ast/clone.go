package ast

import (
	"github.com/WaleedSymbyo/sabre/internal/token"
)

// CloneDecl deep-copies a declaration so template instantiation can type the
// copy independently of the original. Tokens are value types and are shared;
// every node pointer is fresh.
func CloneDecl(d *Decl) *Decl {
	if d == nil {
		return nil
	}
	out := *d
	out.Const = cloneValueDecl(d.Const)
	out.Var = cloneValueDecl(d.Var)
	out.Func = FuncDecl{
		TemplateParams: cloneTokens(d.Func.TemplateParams),
		ReturnSign:     cloneTypeSign(d.Func.ReturnSign),
		Body:           CloneStmt(d.Func.Body),
	}
	out.Func.Args = make([]FuncArg, len(d.Func.Args))
	for i, arg := range d.Func.Args {
		out.Func.Args[i] = FuncArg{
			Names: cloneTokens(arg.Names),
			Sign:  cloneTypeSign(arg.Sign),
		}
	}
	out.Struct.TemplateParams = cloneTokens(d.Struct.TemplateParams)
	out.Struct.Fields = make([]StructField, len(d.Struct.Fields))
	for i, field := range d.Struct.Fields {
		out.Struct.Fields[i] = StructField{
			Names:   cloneTokens(field.Names),
			Sign:    cloneTypeSign(field.Sign),
			Default: CloneExpr(field.Default),
			Tags:    field.Tags,
		}
	}
	out.Enum.Fields = make([]EnumField, len(d.Enum.Fields))
	for i, field := range d.Enum.Fields {
		out.Enum.Fields[i] = EnumField{Name: field.Name, Value: CloneExpr(field.Value)}
	}
	out.If = IfDecl{Cond: cloneExprs(d.If.Cond)}
	for _, body := range d.If.Body {
		branch := make([]*Decl, len(body))
		for i, decl := range body {
			branch[i] = CloneDecl(decl)
		}
		out.If.Body = append(out.If.Body, branch)
	}
	if d.If.Else != nil {
		out.If.Else = make([]*Decl, len(d.If.Else))
		for i, decl := range d.If.Else {
			out.If.Else[i] = CloneDecl(decl)
		}
	}
	return &out
}

// CloneStmt deep-copies a statement tree.
func CloneStmt(s *Stmt) *Stmt {
	if s == nil {
		return nil
	}
	out := *s
	out.Return = CloneExpr(s.Return)
	out.If = IfStmt{
		Cond: cloneExprs(s.If.Cond),
		Body: cloneStmts(s.If.Body),
		Else: CloneStmt(s.If.Else),
	}
	out.For = ForStmt{
		Init: CloneStmt(s.For.Init),
		Cond: CloneExpr(s.For.Cond),
		Post: CloneStmt(s.For.Post),
		Body: CloneStmt(s.For.Body),
	}
	out.Assign = AssignStmt{
		LHS: cloneExprs(s.Assign.LHS),
		Op:  s.Assign.Op,
		RHS: cloneExprs(s.Assign.RHS),
	}
	out.Expr = CloneExpr(s.Expr)
	out.Decl = CloneDecl(s.Decl)
	out.Block = cloneStmts(s.Block)
	return &out
}

// CloneExpr deep-copies an expression tree. The copy carries no semantic
// annotations: the typer keeps those in side tables keyed by node identity.
func CloneExpr(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	out := *e
	out.Binary = BinaryExpr{Left: CloneExpr(e.Binary.Left), Op: e.Binary.Op, Right: CloneExpr(e.Binary.Right)}
	out.Unary = UnaryExpr{Op: e.Unary.Op, Base: CloneExpr(e.Unary.Base)}
	out.Call = CallExpr{Base: CloneExpr(e.Call.Base), Args: cloneExprs(e.Call.Args)}
	out.Cast = CastExpr{Base: CloneExpr(e.Cast.Base), Sign: cloneTypeSign(e.Cast.Sign)}
	out.Dot = DotExpr{LHS: CloneExpr(e.Dot.LHS), RHS: CloneExpr(e.Dot.RHS)}
	out.Indexed = IndexedExpr{Base: CloneExpr(e.Indexed.Base), Index: CloneExpr(e.Indexed.Index)}
	out.Complit = ComplitExpr{Sign: cloneTypeSign(e.Complit.Sign)}
	out.Complit.Fields = make([]ComplitField, len(e.Complit.Fields))
	for i, field := range e.Complit.Fields {
		out.Complit.Fields[i] = ComplitField{
			Selector:      CloneExpr(field.Selector),
			SelectorIndex: field.SelectorIndex,
			Value:         CloneExpr(field.Value),
		}
	}
	return &out
}

func cloneTokens(tokens []token.Token) []token.Token {
	if tokens == nil {
		return nil
	}
	out := make([]token.Token, len(tokens))
	copy(out, tokens)
	return out
}

func cloneValueDecl(v ValueDecl) ValueDecl {
	return ValueDecl{
		Names:  cloneTokens(v.Names),
		Sign:   cloneTypeSign(v.Sign),
		Values: cloneExprs(v.Values),
	}
}

func cloneTypeSign(sign TypeSign) TypeSign {
	if len(sign.Atoms) == 0 {
		return TypeSign{}
	}
	out := TypeSign{Atoms: make([]TypeSignAtom, len(sign.Atoms))}
	for i, atom := range sign.Atoms {
		cp := atom
		cp.StaticSize = CloneExpr(atom.StaticSize)
		if len(atom.TemplateArgs) > 0 {
			cp.TemplateArgs = make([]TypeSign, len(atom.TemplateArgs))
			for j, arg := range atom.TemplateArgs {
				cp.TemplateArgs[j] = cloneTypeSign(arg)
			}
		}
		out.Atoms[i] = cp
	}
	return out
}

func cloneExprs(exprs []*Expr) []*Expr {
	if exprs == nil {
		return nil
	}
	out := make([]*Expr, len(exprs))
	for i, e := range exprs {
		out[i] = CloneExpr(e)
	}
	return out
}

func cloneStmts(stmts []*Stmt) []*Stmt {
	if stmts == nil {
		return nil
	}
	out := make([]*Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = CloneStmt(s)
	}
	return out
}
