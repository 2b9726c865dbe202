package lexer

import (
	"testing"

	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

func tokenize(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sabre", []byte(src))
	bag := diag.NewBag(16)
	tokens := Tokenize(fs.Get(id), diag.BagReporter{Bag: bag})
	return tokens, bag
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return out
}

func TestKeywordsAndIdents(t *testing.T) {
	tokens, bag := tokenize(t, "const x func discard true")
	if bag.HasErrors() {
		t.Fatalf("unexpected lex errors")
	}
	want := []token.Kind{token.KwConst, token.Ident, token.KwFunc, token.KwDiscard, token.KwTrue, token.EOF}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNumbers(t *testing.T) {
	tokens, _ := tokenize(t, "42 3.25 1e3 2.5e-2")
	want := []token.Kind{token.IntLit, token.FloatLit, token.FloatLit, token.FloatLit, token.EOF}
	got := kinds(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLeadingDotIsNotAFloat(t *testing.T) {
	// `.5` лексируется как точка и целочисленный литерал; диагностируется в тайпере
	tokens, _ := tokenize(t, ".5")
	got := kinds(tokens)
	if got[0] != token.Dot || got[1] != token.IntLit {
		t.Fatalf("got %v, want [. 5]", got)
	}
}

func TestOperatorsLongestMatch(t *testing.T) {
	tokens, _ := tokenize(t, "<<= << <= < ++ += +")
	want := []token.Kind{token.ShlEq, token.Shl, token.LtEq, token.Lt, token.Inc, token.PlusEq, token.Plus, token.EOF}
	got := kinds(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestComments(t *testing.T) {
	tokens, bag := tokenize(t, "a // line comment\n/* block */ b")
	if bag.HasErrors() {
		t.Fatalf("unexpected lex errors")
	}
	got := kinds(tokens)
	want := []token.Kind{token.Ident, token.Ident, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("comments must be trivia: %v", got)
	}
}

func TestTagsAndStrings(t *testing.T) {
	tokens, _ := tokenize(t, `@uniform import "lib";`)
	want := []token.Kind{token.At, token.Ident, token.KwImport, token.StringLit, token.Semicolon, token.EOF}
	got := kinds(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestUnknownChar(t *testing.T) {
	_, bag := tokenize(t, "$")
	if !bag.HasErrors() {
		t.Fatalf("unknown character must be diagnosed")
	}
}

func TestSpansPointIntoSource(t *testing.T) {
	tokens, _ := tokenize(t, "alpha beta")
	if tokens[1].Span.Start != 6 || tokens[1].Span.End != 10 {
		t.Fatalf("beta span = %v", tokens[1].Span)
	}
	if tokens[1].Text != "beta" {
		t.Fatalf("beta text = %q", tokens[1].Text)
	}
}
