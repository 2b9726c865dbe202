package ast

import (
	"github.com/WaleedSymbyo/sabre/internal/token"
)

// TagArg is a single `key = value` argument inside a tag.
type TagArg struct {
	Name  token.Token
	Value token.Token
}

// Tag is an `@name` or `@name{key = value, ...}` annotation.
type Tag struct {
	Name token.Token
	Args map[string]TagArg
}

// TagTable collects the tags attached to a declaration or a struct field,
// keyed by tag name.
type TagTable struct {
	Table map[string]Tag
}

// NewTagTable returns an empty tag table.
func NewTagTable() TagTable {
	return TagTable{Table: make(map[string]Tag)}
}

// Lookup returns the tag with the given name, if present.
func (t TagTable) Lookup(name string) (Tag, bool) {
	if t.Table == nil {
		return Tag{}, false
	}
	tag, ok := t.Table[name]
	return tag, ok
}

// Has reports whether a tag with the given name is present.
func (t TagTable) Has(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Arg returns the named argument of the named tag, if both exist.
func (t TagTable) Arg(tagName, argName string) (TagArg, bool) {
	tag, ok := t.Lookup(tagName)
	if !ok {
		return TagArg{}, false
	}
	arg, ok := tag.Args[argName]
	return arg, ok
}
