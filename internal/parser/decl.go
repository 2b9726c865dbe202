package parser

import (
	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

// parseTags consumes a run of `@name` / `@name{key = value, ...}`.
func (p *Parser) parseTags() ast.TagTable {
	tags := ast.NewTagTable()
	for p.peek().Kind == token.At {
		p.advance()
		name := p.expect(token.Ident)
		if !name.IsValid() {
			break
		}
		tag := ast.Tag{Name: name, Args: make(map[string]ast.TagArg)}
		if _, ok := p.accept(token.LBrace); ok {
			for p.peek().Kind != token.RBrace && !p.eof() {
				argName := p.expect(token.Ident)
				p.expect(token.Assign)
				value := p.advance()
				if !value.IsLiteral() && !value.IsIdent() {
					p.report(diag.SynBadTag, value.Span, "tag argument must be an identifier or a literal")
				}
				tag.Args[argName.Text] = ast.TagArg{Name: argName, Value: value}
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
			}
			p.expect(token.RBrace)
		}
		tags.Table[name.Text] = tag
	}
	return tags
}

func (p *Parser) parseDecl() *ast.Decl {
	tags := p.parseTags()
	decl := p.parseDeclNoTags()
	if decl != nil {
		decl.Tags = tags
	} else if len(tags.Table) > 0 {
		p.report(diag.SynBadTopLevel, p.peek().Span, "tags must be followed by a declaration")
	}
	return decl
}

func (p *Parser) parseDeclNoTags() *ast.Decl {
	switch p.peek().Kind {
	case token.KwConst:
		return p.parseValueDecl(ast.DeclConst)
	case token.KwVar:
		return p.parseValueDecl(ast.DeclVar)
	case token.KwFunc:
		return p.parseFuncDecl()
	case token.KwStruct:
		return p.parseStructDecl()
	case token.KwEnum:
		return p.parseEnumDecl()
	case token.KwImport:
		return p.parseImportDecl()
	case token.KwIf:
		return p.parseIfDecl()
	default:
		p.report(diag.SynBadTopLevel, p.peek().Span, "unexpected '%s' at top level", p.peek().Kind)
		return nil
	}
}

func (p *Parser) parseValueDecl(kind ast.DeclKind) *ast.Decl {
	kw := p.advance() // const | var
	decl := &ast.Decl{Kind: kind, Span: kw.Span}

	var value ast.ValueDecl
	for {
		name := p.expect(token.Ident)
		if !name.IsValid() {
			break
		}
		value.Names = append(value.Names, name)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if len(value.Names) > 0 {
		decl.Name = value.Names[0]
	}
	if _, ok := p.accept(token.Colon); ok {
		value.Sign = p.parseTypeSign()
	}
	if _, ok := p.accept(token.Assign); ok {
		for {
			value.Values = append(value.Values, p.parseExpr())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	}
	p.expect(token.Semicolon)

	if kind == ast.DeclConst {
		decl.Const = value
	} else {
		decl.Var = value
	}
	return decl
}

func (p *Parser) parseFuncDecl() *ast.Decl {
	kw := p.advance()
	decl := &ast.Decl{Kind: ast.DeclFunc, Span: kw.Span}
	decl.Name = p.expect(token.Ident)

	if _, ok := p.accept(token.Lt); ok {
		for {
			param := p.expect(token.Ident)
			if !param.IsValid() {
				break
			}
			decl.Func.TemplateParams = append(decl.Func.TemplateParams, param)
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.Gt)
	}

	p.expect(token.LParen)
	for p.peek().Kind != token.RParen && !p.eof() {
		var arg ast.FuncArg
		for {
			name := p.expect(token.Ident)
			if !name.IsValid() {
				break
			}
			arg.Names = append(arg.Names, name)
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.Colon)
		arg.Sign = p.parseTypeSign()
		decl.Func.Args = append(decl.Func.Args, arg)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RParen)

	if _, ok := p.accept(token.Colon); ok {
		decl.Func.ReturnSign = p.parseTypeSign()
	}
	if p.peek().Kind == token.LBrace {
		decl.Func.Body = p.parseBlock()
	} else {
		p.expect(token.Semicolon)
	}
	return decl
}

func (p *Parser) parseStructDecl() *ast.Decl {
	kw := p.advance()
	decl := &ast.Decl{Kind: ast.DeclStruct, Span: kw.Span}
	decl.Name = p.expect(token.Ident)

	if _, ok := p.accept(token.Lt); ok {
		for {
			param := p.expect(token.Ident)
			if !param.IsValid() {
				break
			}
			decl.Struct.TemplateParams = append(decl.Struct.TemplateParams, param)
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.Gt)
	}

	p.expect(token.LBrace)
	for p.peek().Kind != token.RBrace && !p.eof() {
		var field ast.StructField
		field.Tags = p.parseTags()
		for {
			name := p.expect(token.Ident)
			if !name.IsValid() {
				break
			}
			field.Names = append(field.Names, name)
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.Colon)
		field.Sign = p.parseTypeSign()
		if _, ok := p.accept(token.Assign); ok {
			field.Default = p.parseExpr()
		}
		p.expect(token.Semicolon)
		decl.Struct.Fields = append(decl.Struct.Fields, field)
	}
	p.expect(token.RBrace)
	return decl
}

func (p *Parser) parseEnumDecl() *ast.Decl {
	kw := p.advance()
	decl := &ast.Decl{Kind: ast.DeclEnum, Span: kw.Span}
	decl.Name = p.expect(token.Ident)
	p.expect(token.LBrace)
	for p.peek().Kind != token.RBrace && !p.eof() {
		var field ast.EnumField
		field.Name = p.expect(token.Ident)
		if !field.Name.IsValid() {
			break
		}
		if _, ok := p.accept(token.Assign); ok {
			field.Value = p.parseExpr()
		}
		decl.Enum.Fields = append(decl.Enum.Fields, field)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBrace)
	return decl
}

// parseImportDecl handles `import "path";` and `import alias "path";`.
func (p *Parser) parseImportDecl() *ast.Decl {
	kw := p.advance()
	decl := &ast.Decl{Kind: ast.DeclImport, Span: kw.Span}
	if alias, ok := p.accept(token.Ident); ok {
		decl.Import.Alias = alias
	}
	decl.Import.Path = p.expect(token.StringLit)
	decl.Name = decl.Import.Path
	p.expect(token.Semicolon)
	return decl
}

func (p *Parser) parseIfDecl() *ast.Decl {
	kw := p.advance()
	decl := &ast.Decl{Kind: ast.DeclIf, Span: kw.Span}

	for {
		cond := p.parseExprNoComplit()
		decl.If.Cond = append(decl.If.Cond, cond)
		decl.If.Body = append(decl.If.Body, p.parseDeclBlock())

		if p.peek().Kind == token.KwElse && p.peekAt(1).Kind == token.KwIf {
			p.advance()
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.accept(token.KwElse); ok {
		decl.If.Else = p.parseDeclBlock()
	}
	return decl
}

func (p *Parser) parseDeclBlock() []*ast.Decl {
	p.expect(token.LBrace)
	var decls []*ast.Decl
	for p.peek().Kind != token.RBrace && !p.eof() {
		decl := p.parseDecl()
		if decl == nil {
			p.advance()
			continue
		}
		decls = append(decls, decl)
	}
	p.expect(token.RBrace)
	return decls
}

// parseTypeSign parses `[n]`/`[]` prefixes followed by a named atom with an
// optional package qualifier and template arguments.
func (p *Parser) parseTypeSign() ast.TypeSign {
	var sign ast.TypeSign
	for p.peek().Kind == token.LBracket {
		p.advance()
		atom := ast.TypeSignAtom{Kind: ast.AtomArray}
		if p.peek().Kind != token.RBracket {
			atom.StaticSize = p.parseExpr()
		}
		p.expect(token.RBracket)
		sign.Atoms = append(sign.Atoms, atom)
	}

	name := p.expect(token.Ident)
	if !name.IsValid() {
		return sign
	}
	atom := ast.TypeSignAtom{Kind: ast.AtomNamed, TypeName: name}
	if _, ok := p.accept(token.Dot); ok {
		atom.PackageName = name
		atom.TypeName = p.expect(token.Ident)
	}
	if p.peek().Kind == token.Lt {
		p.advance()
		atom.Kind = ast.AtomTemplated
		for {
			atom.TemplateArgs = append(atom.TemplateArgs, p.parseTypeSign())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.Gt)
	}
	sign.Atoms = append(sign.Atoms, atom)
	return sign
}
