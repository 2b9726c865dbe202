package symbols

import (
	"strconv"

	"github.com/WaleedSymbyo/sabre/internal/types"
)

// ScopeFlags mark properties the statement checker queries up the chain.
type ScopeFlags uint8

const (
	ScopeFlagNone       ScopeFlags = 0
	ScopeFlagInsideLoop ScopeFlags = 1 << 0
)

// Scope models a lexical scope with a parent chain, an ordered symbol list
// and a name index. ExpectedType carries the return-type context for
// function bodies.
type Scope struct {
	Parent       *Scope
	Name         string
	Flags        ScopeFlags
	ExpectedType *types.Type

	Symbols []*Symbol
	byName  map[string]*Symbol

	// generatedNames counts mangled names minted under this scope so
	// collisions get a numeric suffix.
	generatedNames map[string]int
}

// NewScope creates a scope under parent.
func NewScope(parent *Scope, name string, expected *types.Type, flags ScopeFlags) *Scope {
	return &Scope{
		Parent:       parent,
		Name:         name,
		Flags:        flags,
		ExpectedType: expected,
		byName:       make(map[string]*Symbol),
	}
}

// Add appends and indexes the symbol.
func (s *Scope) Add(sym *Symbol) {
	if s.byName == nil {
		s.byName = make(map[string]*Symbol)
	}
	s.Symbols = append(s.Symbols, sym)
	s.byName[sym.Name.Text] = sym
}

// Replace swaps an existing symbol for a new one under the same name,
// keeping the ordered position. Used when a function symbol grows into an
// overload set.
func (s *Scope) Replace(old, sym *Symbol) {
	for i, it := range s.Symbols {
		if it == old {
			s.Symbols[i] = sym
			break
		}
	}
	if s.byName == nil {
		s.byName = make(map[string]*Symbol)
	}
	s.byName[sym.Name.Text] = sym
}

// ShallowFind checks this scope only.
func (s *Scope) ShallowFind(name string) *Symbol {
	if s.byName == nil {
		return nil
	}
	return s.byName[name]
}

// Find walks the parent chain.
func (s *Scope) Find(name string) *Symbol {
	for it := s; it != nil; it = it.Parent {
		if sym := it.ShallowFind(name); sym != nil {
			return sym
		}
	}
	return nil
}

// FindFlag reports whether any scope up the chain carries the flag.
func (s *Scope) FindFlag(flag ScopeFlags) bool {
	for it := s; it != nil; it = it.Parent {
		if it.Flags&flag != 0 {
			return true
		}
	}
	return false
}

// IsTopLevel reports whether the symbol lives directly in this scope.
func (s *Scope) IsTopLevel(sym *Symbol) bool {
	return sym.Scope == s
}

// GenerateName reserves a unique mangled name starting from base. A name
// already reserved in this scope or any ancestor gets `_N` appended with N
// auto-incremented.
func (s *Scope) GenerateName(base string) string {
	for it := s; it != nil; it = it.Parent {
		if it.generatedNames == nil {
			continue
		}
		if n, ok := it.generatedNames[base]; ok {
			it.generatedNames[base] = n + 1
			return base + "_" + strconv.Itoa(n+1)
		}
	}
	if s.generatedNames == nil {
		s.generatedNames = make(map[string]int)
	}
	s.generatedNames[base] = 1
	return base
}
