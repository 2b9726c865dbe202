package diagfmt

import (
	"strings"
	"testing"

	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/source"
)

func TestPrettyFormatsPosition(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("shader.sabre", []byte("const a = missing;\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SemaUndefinedSymbol, source.Span{File: id, Start: 10, End: 17}, "'missing' undefined symbol"))

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{Color: false, ShowPreview: true})
	out := sb.String()

	if !strings.Contains(out, "shader.sabre:1:11:") {
		t.Fatalf("missing position in output: %q", out)
	}
	if !strings.Contains(out, "'missing' undefined symbol") {
		t.Fatalf("missing message in output: %q", out)
	}
	if !strings.Contains(out, "^^^^^^^") {
		t.Fatalf("missing caret preview: %q", out)
	}
}

func TestPrettyRendersNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("shader.sabre", []byte("func f() {}\n"))

	bag := diag.NewBag(10)
	d := diag.NewError(diag.SemaTypeMismatch, source.Span{File: id, Start: 0, End: 4}, "boom").
		WithNote(source.Span{File: id, Start: 5, End: 6}, "relevant site")
	bag.Add(d)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{})
	if !strings.Contains(sb.String(), "relevant site") {
		t.Fatalf("note lost: %q", sb.String())
	}
}
