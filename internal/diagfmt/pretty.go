package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/source"
)

// PrettyOpts configure the human-readable renderer.
type PrettyOpts struct {
	Color       bool
	ShowPreview bool
}

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	noteColor  = color.New(color.FgCyan)
	codeColor  = color.New(color.Faint)
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой печатает `<path>:<line>:<col>: <sev> <code>: <message>`,
// затем строку-превью с кареткой под спаном.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	color.NoColor = !opts.Color
	for _, d := range bag.Items() {
		writeDiagnostic(w, d, fs, opts)
		for _, note := range d.Notes {
			writeLine(w, fs, note.Span, diag.SevNote, diag.SemaInfo, note.Msg)
		}
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	writeLine(w, fs, d.Primary, d.Severity, d.Code, d.Message)
	if opts.ShowPreview {
		writePreview(w, fs, d.Primary)
	}
}

func writeLine(w io.Writer, fs *source.FileSet, span source.Span, sev diag.Severity, code diag.Code, msg string) {
	path, lc := fs.Position(span)
	sevText := sev.String()
	switch sev {
	case diag.SevError:
		sevText = errorColor.Sprint("error")
	case diag.SevWarning:
		sevText = warnColor.Sprint("warning")
	case diag.SevNote:
		sevText = noteColor.Sprint("note")
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, lc.Line, lc.Col, sevText, codeColor.Sprint(code.String()), msg)
}

// writePreview prints the source line with a caret run under the span.
// Display widths come from go-runewidth so wide runes keep the caret
// aligned.
func writePreview(w io.Writer, fs *source.FileSet, span source.Span) {
	file := fs.Get(span.File)
	start, end := fs.Resolve(span)
	line := file.GetLine(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	prefix := line
	if int(start.Col-1) <= len(line) {
		prefix = line[:start.Col-1]
	}
	pad := runewidth.StringWidth(prefix)

	caretLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		marked := line
		if int(end.Col-1) <= len(line) {
			marked = line[start.Col-1 : end.Col-1]
		}
		caretLen = runewidth.StringWidth(marked)
		if caretLen < 1 {
			caretLen = 1
		}
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), errorColor.Sprint(strings.Repeat("^", caretLen)))
}
