package unit

import (
	"github.com/WaleedSymbyo/sabre/internal/symbols"
)

// EntryMode distinguishes the GPU stage an entry point compiles for.
type EntryMode uint8

const (
	ModeVertex EntryMode = iota
	ModePixel
	ModeGeometry
)

func (m EntryMode) String() string {
	switch m {
	case ModeVertex:
		return "vertex"
	case ModePixel:
		return "pixel"
	case ModeGeometry:
		return "geometry"
	}
	return "unknown"
}

// EntryPoint is a function tagged @vertex, @pixel or @geometry together
// with the uniform resources its dependency closure reaches.
type EntryPoint struct {
	Sym  *symbols.Symbol
	Mode EntryMode

	Textures []*symbols.Symbol
	Samplers []*symbols.Symbol
	Uniforms []*symbols.Symbol
}

// NewEntryPoint builds an entry point for a symbol.
func NewEntryPoint(sym *symbols.Symbol, mode EntryMode) *EntryPoint {
	return &EntryPoint{Sym: sym, Mode: mode}
}
