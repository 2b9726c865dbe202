package types

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/WaleedSymbyo/sabre/internal/ast"
)

// Interner canonicalizes compound type terms so structural equality is
// pointer equality. It lives for the unit's lifetime; builtins are shared
// process-wide singletons.
type Interner struct {
	nextID uint32

	arrays   map[arrayKey]*Type
	vecs     map[vecKey]*Type
	streams  map[uint32]*Type
	funcs    map[string]*Type
	named    map[SymbolID]*Type // struct/enum placeholders keyed by owning symbol
	sets     map[SymbolID]*Type
	packages map[PackageID]*Type
	names    map[SymbolID]*Type // typename placeholders

	instances         map[string]*Type    // (base, args) -> instantiated type
	instantiationDecl map[string]*ast.Decl
}

type arrayKey struct {
	base  uint32
	count int64
}

type vecKey struct {
	base  uint32
	width int
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{
		nextID:            firstInternedID,
		arrays:            make(map[arrayKey]*Type),
		vecs:              make(map[vecKey]*Type),
		streams:           make(map[uint32]*Type),
		funcs:             make(map[string]*Type),
		named:             make(map[SymbolID]*Type),
		sets:              make(map[SymbolID]*Type),
		packages:          make(map[PackageID]*Type),
		names:             make(map[SymbolID]*Type),
		instances:         make(map[string]*Type),
		instantiationDecl: make(map[string]*ast.Decl),
	}
}

func (in *Interner) alloc(t *Type) *Type {
	t.id = in.nextID
	in.nextID++
	return t
}

// Array returns the canonical array type over base with the given count;
// UnboundedArrayCount marks an array of inferred size.
func (in *Interner) Array(base *Type, count int64) *Type {
	key := arrayKey{base: base.id, count: count}
	if t, ok := in.arrays[key]; ok {
		return t
	}
	t := in.alloc(&Type{Kind: KindArray, Base: base, Count: count})
	in.arrays[key] = t
	return t
}

// Vec returns the canonical vector type. Float vectors reuse the builtin
// singletons.
func (in *Interner) Vec(base *Type, width int) *Type {
	if base == Float {
		switch width {
		case 2:
			return Vec2
		case 3:
			return Vec3
		case 4:
			return Vec4
		}
	}
	key := vecKey{base: base.id, width: width}
	if t, ok := in.vecs[key]; ok {
		return t
	}
	t := in.alloc(&Type{Kind: KindVec, Base: base, Width: width})
	in.vecs[key] = t
	return t
}

// Stream returns the canonical geometry stream type over elem.
func (in *Interner) Stream(elem *Type) *Type {
	if t, ok := in.streams[elem.id]; ok {
		return t
	}
	t := in.alloc(&Type{Kind: KindStream, Base: elem})
	in.streams[elem.id] = t
	return t
}

// FuncSignKey renders the structural key of an argument list; overload sets
// use it to detect duplicate signatures.
func FuncSignKey(args []*Type) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(arg.id), 10))
	}
	return b.String()
}

func funcKey(sign FuncSign, templateArgs []*Type) string {
	var b strings.Builder
	b.WriteString(FuncSignKey(sign.Args))
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(uint64(sign.Return.id), 10))
	b.WriteByte('<')
	b.WriteString(FuncSignKey(templateArgs))
	b.WriteByte('>')
	return b.String()
}

// Func returns the canonical function type for the signature and template
// parameter list.
func (in *Interner) Func(sign FuncSign, templateArgs []*Type) *Type {
	key := funcKey(sign, templateArgs)
	if t, ok := in.funcs[key]; ok {
		return t
	}
	t := in.alloc(&Type{Kind: KindFunc, Func: sign, TemplateArgs: templateArgs})
	in.funcs[key] = t
	return t
}

// Incomplete returns the placeholder type bound to a struct/enum symbol,
// creating it on first use. The placeholder is completed in place, so the
// pointer stays stable through the incomplete -> completing -> complete
// transitions.
func (in *Interner) Incomplete(sym SymbolID, name string) *Type {
	if t, ok := in.named[sym]; ok {
		return t
	}
	t := in.alloc(&Type{Kind: KindIncomplete, Sym: sym, SymName: name})
	in.named[sym] = t
	return t
}

// CompleteStruct fills the placeholder with struct fields.
func (in *Interner) CompleteStruct(t *Type, fields []StructField, byName map[string]int, templateArgs []*Type) {
	t.Kind = KindStruct
	t.Fields = fields
	t.FieldsByName = byName
	t.TemplateArgs = templateArgs
}

// CompleteEnum fills the placeholder with enum fields.
func (in *Interner) CompleteEnum(t *Type, fields []EnumField, byName map[string]int) {
	t.Kind = KindEnum
	t.EnumFields = fields
	t.EnumFieldsByName = byName
}

// OverloadSet returns the canonical overload-set type for a symbol.
func (in *Interner) OverloadSet(sym SymbolID, name string) *Type {
	if t, ok := in.sets[sym]; ok {
		return t
	}
	t := in.alloc(&Type{Kind: KindFuncOverloadSet, Sym: sym, SymName: name, Overloads: make(map[string]*ast.Decl)})
	in.sets[sym] = t
	return t
}

// Package returns the canonical package type.
func (in *Interner) Package(pkg PackageID, name string) *Type {
	if t, ok := in.packages[pkg]; ok {
		return t
	}
	t := in.alloc(&Type{Kind: KindPackage, Pkg: pkg, SymName: name})
	in.packages[pkg] = t
	return t
}

// Typename returns the placeholder type for a template parameter symbol.
func (in *Interner) Typename(sym SymbolID, name string) *Type {
	if t, ok := in.names[sym]; ok {
		return t
	}
	t := in.alloc(&Type{Kind: KindTypename, Sym: sym, SymName: name})
	in.names[sym] = t
	return t
}

func instanceKey(base *Type, args []*Type) string {
	return fmt.Sprintf("%d(%s)", base.id, FuncSignKey(args))
}

// TemplateInstantiate substitutes typenames through every type base
// references, recursively. An existing instance for (base, args) is reused;
// newly minted concrete types are appended to instantiatedOut.
func (in *Interner) TemplateInstantiate(base *Type, args []*Type, instantiatedOut *[]*Type) *Type {
	key := instanceKey(base, args)
	if t, ok := in.instances[key]; ok {
		return t
	}

	binding := make(map[*Type]*Type, len(base.TemplateArgs))
	for i, param := range base.TemplateArgs {
		if i < len(args) {
			binding[param] = args[i]
		}
	}

	res := in.substitute(base, binding, instantiatedOut)
	if res != base {
		res.TemplateBaseType = base
		res.TemplateBaseArgs = args
		in.instances[key] = res
	}
	return res
}

func (in *Interner) substitute(t *Type, binding map[*Type]*Type, out *[]*Type) *Type {
	switch t.Kind {
	case KindTypename:
		if concrete, ok := binding[t]; ok {
			return concrete
		}
		return t
	case KindVec:
		return in.Vec(in.substitute(t.Base, binding, out), t.Width)
	case KindArray:
		return in.Array(in.substitute(t.Base, binding, out), t.Count)
	case KindStream:
		return in.Stream(in.substitute(t.Base, binding, out))
	case KindFunc:
		sign := FuncSign{Args: make([]*Type, len(t.Func.Args))}
		for i, arg := range t.Func.Args {
			sign.Args[i] = in.substitute(arg, binding, out)
		}
		sign.Return = in.substitute(t.Func.Return, binding, out)
		return in.Func(sign, nil)
	case KindStruct:
		if !IsTemplated(t) {
			return t
		}
		res := in.alloc(&Type{
			Kind:         KindStruct,
			Sym:          t.Sym,
			SymName:      t.SymName,
			FieldsByName: make(map[string]int, len(t.FieldsByName)),
		})
		res.Fields = make([]StructField, len(t.Fields))
		for i, field := range t.Fields {
			res.Fields[i] = StructField{
				Name:    field.Name,
				Type:    in.substitute(field.Type, binding, out),
				Default: field.Default,
			}
		}
		for name, idx := range t.FieldsByName {
			res.FieldsByName[name] = idx
		}
		*out = append(*out, res)
		return res
	default:
		return t
	}
}

// FindFuncInstantiationDecl returns the memoized AST clone for a function
// instantiation, if one was registered.
func (in *Interner) FindFuncInstantiationDecl(base *Type, args []*Type) *ast.Decl {
	return in.instantiationDecl[instanceKey(base, args)]
}

// AddFuncInstantiationDecl memoizes the AST clone for a function
// instantiation.
func (in *Interner) AddFuncInstantiationDecl(base *Type, args []*Type, decl *ast.Decl) {
	in.instantiationDecl[instanceKey(base, args)] = decl
}

// InternedCount reports how many compound ids were handed out; tests use it
// to observe dedup behavior.
func (in *Interner) InternedCount() int {
	count, err := safecast.Conv[int](in.nextID - firstInternedID)
	if err != nil {
		panic(fmt.Errorf("interned count overflow: %w", err))
	}
	return count
}
