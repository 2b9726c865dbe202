package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/diagfmt"
	"github.com/WaleedSymbyo/sabre/internal/lexer"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file>",
	Short: "Tokenize a sabre source file",
	Args:  cobra.ExactArgs(1),
	RunE:  tokenizeExecution,
}

func tokenizeExecution(cmd *cobra.Command, args []string) error {
	fs := source.NewFileSet()
	fileID, err := fs.Load(args[0])
	if err != nil {
		return err
	}

	bag := diag.NewBag(100)
	tokens := lexer.Tokenize(fs.Get(fileID), diag.BagReporter{Bag: bag})
	for _, tok := range tokens {
		if tok.Kind == token.EOF {
			break
		}
		_, lc := fs.Position(tok.Span)
		fmt.Fprintf(os.Stdout, "%4d:%-3d %-18s %q\n", lc.Line, lc.Col, tok.Kind, tok.Text)
	}

	bag.Sort()
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr)})
	if bag.HasErrors() {
		cmd.SilenceUsage = true
		return fmt.Errorf("tokenize failed")
	}
	return nil
}
