package lexer

import (
	"fmt"

	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

// Lexer scans one source file into tokens.
type Lexer struct {
	file     *source.File
	pos      uint32
	reporter diag.Reporter
}

// New creates a lexer over a file.
func New(file *source.File, reporter diag.Reporter) *Lexer {
	return &Lexer{file: file, reporter: reporter}
}

// Tokenize scans the whole file, ending with an EOF token.
func Tokenize(file *source.File, reporter diag.Reporter) []token.Token {
	lx := New(file, reporter)
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) eof() bool {
	return lx.pos >= uint32(len(lx.file.Content)) //nolint:gosec // file sizes fit uint32
}

func (lx *Lexer) peek() byte {
	if lx.eof() {
		return 0
	}
	return lx.file.Content[lx.pos]
}

func (lx *Lexer) peekAt(offset uint32) byte {
	if lx.pos+offset >= uint32(len(lx.file.Content)) { //nolint:gosec // file sizes fit uint32
		return 0
	}
	return lx.file.Content[lx.pos+offset]
}

func (lx *Lexer) span(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.pos}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) skipTrivia() {
	for !lx.eof() {
		ch := lx.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			lx.pos++
		case ch == '/' && lx.peekAt(1) == '/':
			for !lx.eof() && lx.peek() != '\n' {
				lx.pos++
			}
		case ch == '/' && lx.peekAt(1) == '*':
			lx.pos += 2
			for !lx.eof() {
				if lx.peek() == '*' && lx.peekAt(1) == '/' {
					lx.pos += 2
					break
				}
				lx.pos++
			}
		default:
			return
		}
	}
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	lx.skipTrivia()

	start := lx.pos
	if lx.eof() {
		return token.Token{Kind: token.EOF, Span: lx.span(start)}
	}

	ch := lx.peek()
	switch {
	case isIdentStart(ch):
		return lx.scanIdentOrKeyword()
	case isDigit(ch):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	default:
		return lx.scanOperator()
	}
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.pos
	for !lx.eof() && isIdentContinue(lx.peek()) {
		lx.pos++
	}
	sp := lx.span(start)
	text := lx.text(sp)
	if kind, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kind, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.pos
	kind := token.IntLit
	for !lx.eof() && isDigit(lx.peek()) {
		lx.pos++
	}
	if lx.peek() == '.' && isDigit(lx.peekAt(1)) {
		kind = token.FloatLit
		lx.pos++
		for !lx.eof() && isDigit(lx.peek()) {
			lx.pos++
		}
	}
	if lx.peek() == 'e' || lx.peek() == 'E' {
		next := lx.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(lx.peekAt(2))) {
			kind = token.FloatLit
			lx.pos += 2
			for !lx.eof() && isDigit(lx.peek()) {
				lx.pos++
			}
		}
	}
	sp := lx.span(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.pos
	lx.pos++ // opening quote
	for !lx.eof() && lx.peek() != '"' && lx.peek() != '\n' {
		lx.pos++
	}
	if lx.peek() == '"' {
		lx.pos++
	} else {
		sp := lx.span(start)
		lx.report(diag.LexUnterminated, sp, "unterminated string literal")
	}
	sp := lx.span(start)
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
}

type opEntry struct {
	text string
	kind token.Kind
}

// Longest match first.
var operators = []opEntry{
	{"<<=", token.ShlEq},
	{">>=", token.ShrEq},
	{"<<", token.Shl},
	{">>", token.Shr},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"+=", token.PlusEq},
	{"-=", token.MinusEq},
	{"*=", token.StarEq},
	{"/=", token.SlashEq},
	{"%=", token.PercentEq},
	{"&=", token.AmpEq},
	{"|=", token.PipeEq},
	{"^=", token.CaretEq},
	{"++", token.Inc},
	{"--", token.Dec},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
	{"&", token.Amp},
	{"|", token.Pipe},
	{"^", token.Caret},
	{"~", token.Tilde},
	{"!", token.Bang},
	{"<", token.Lt},
	{">", token.Gt},
	{"=", token.Assign},
	{":", token.Colon},
	{";", token.Semicolon},
	{",", token.Comma},
	{".", token.Dot},
	{"@", token.At},
	{"(", token.LParen},
	{")", token.RParen},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{"[", token.LBracket},
	{"]", token.RBracket},
}

func (lx *Lexer) scanOperator() token.Token {
	start := lx.pos
	rest := lx.file.Content[lx.pos:]
	for _, op := range operators {
		if len(rest) >= len(op.text) && string(rest[:len(op.text)]) == op.text {
			lx.pos += uint32(len(op.text)) //nolint:gosec // operator lengths are tiny
			sp := lx.span(start)
			return token.Token{Kind: op.kind, Span: sp, Text: op.text}
		}
	}
	lx.pos++
	sp := lx.span(start)
	lx.report(diag.LexUnknownChar, sp, "unknown character %q", lx.text(sp))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) report(code diag.Code, sp source.Span, format string, args ...any) {
	if lx.reporter == nil {
		return
	}
	lx.reporter.Report(code, diag.SevError, sp, fmt.Sprintf(format, args...), nil)
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
