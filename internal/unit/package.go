package unit

import (
	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/types"
)

// Stage tracks where a package sits in the compilation pipeline.
type Stage uint8

const (
	StageCheck Stage = iota
	StageCodegen
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageCheck:
		return "check"
	case StageCodegen:
		return "codegen"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// File is one source file of a package: its declarations plus the file
// scope that holds imports.
type File struct {
	ID    source.FileID
	Path  string
	Scope *symbols.Scope
	Decls []*ast.Decl
}

// Package is a directory of source files checked as one namespace.
type Package struct {
	ID           types.PackageID
	Name         string
	AbsolutePath string
	Files        []*File
	GlobalScope  *symbols.Scope
	Stage        Stage

	// ReachableSymbols is ordered by first resolution; it feeds code
	// generation directly.
	ReachableSymbols []*symbols.Symbol
	EntryPoints      []*EntryPoint
}

// FileOf returns the package file owning the given source file ID.
func (p *Package) FileOf(id source.FileID) *File {
	for _, f := range p.Files {
		if f.ID == id {
			return f
		}
	}
	return nil
}
