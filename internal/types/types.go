package types

import (
	"fmt"
	"strings"

	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/token"
)

type (
	// SymbolID indexes the unit's symbol arena. Types refer to symbols by ID
	// so the type layer stays free of symbol-table imports.
	SymbolID uint32
	// PackageID indexes the unit's package list.
	PackageID uint32
)

const (
	NoSymbolID  SymbolID  = 0
	NoPackageID PackageID = 0
)

func (id SymbolID) IsValid() bool  { return id != NoSymbolID }
func (id PackageID) IsValid() bool { return id != NoPackageID }

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindDouble
	KindLitInt
	KindLitFloat
	KindVec
	KindMat
	KindArray
	KindStruct
	KindEnum
	KindTexture
	KindSampler
	KindSamplerState
	KindStream
	KindFunc
	KindFuncOverloadSet
	KindPackage
	KindTypename
	KindIncomplete
	KindCompleting
)

// TextureDim enumerates texture dimensionalities.
type TextureDim uint8

const (
	Texture1D TextureDim = iota
	Texture2D
	Texture3D
	TextureCube
)

func (d TextureDim) String() string {
	switch d {
	case Texture1D:
		return "Texture1D"
	case Texture2D:
		return "Texture2D"
	case Texture3D:
		return "Texture3D"
	case TextureCube:
		return "TextureCube"
	default:
		return fmt.Sprintf("TextureDim(%d)", uint8(d))
	}
}

// UnboundedArrayCount marks arrays whose size is inferred from use.
const UnboundedArrayCount = int64(-1)

// StructField is a completed struct member.
type StructField struct {
	Name    token.Token
	Type    *Type
	Default *ast.Expr
}

// EnumField is a completed enum member; Value is filled during completion.
type EnumField struct {
	Name  token.Token
	Value Value
}

// FuncSign is a function signature over interned types.
type FuncSign struct {
	Args   []*Type
	Return *Type
}

// Type is an interned type term. Two structurally equal types are always
// the same pointer; Kind selects which fields are meaningful.
type Type struct {
	Kind Kind
	id   uint32 // assigned by the interner, used in structural keys

	// KindVec / KindMat / KindArray / KindStream: element type.
	Base *Type
	// KindVec / KindMat: component count per axis.
	Width int
	// KindArray: element count, UnboundedArrayCount for `[]T`.
	Count int64
	// KindTexture
	Dim TextureDim

	// KindStruct / KindEnum / KindTypename / KindIncomplete / KindCompleting /
	// KindFuncOverloadSet: owning symbol.
	Sym     SymbolID
	SymName string

	// KindStruct
	Fields       []StructField
	FieldsByName map[string]int

	// KindEnum
	EnumFields       []EnumField
	EnumFieldsByName map[string]int

	// KindFunc
	Func FuncSign

	// KindFuncOverloadSet: arg-signature key -> overload decl.
	Overloads map[string]*ast.Decl

	// KindPackage
	Pkg PackageID

	// Template machinery. TemplateArgs lists the typename placeholders of a
	// templated type; TemplateBaseType/TemplateBaseArgs record what an
	// instantiation was minted from.
	TemplateArgs     []*Type
	TemplateBaseType *Type
	TemplateBaseArgs []*Type
}

// ID returns the interner-assigned identity of the type.
func (t *Type) ID() uint32 { return t.id }

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindLitInt:
		return "untyped int"
	case KindLitFloat:
		return "untyped float"
	case KindVec:
		if t.Base != nil && t.Base.Kind == KindBool {
			return fmt.Sprintf("bvec%d", t.Width)
		}
		if t.Base != nil && t.Base.Kind == KindInt {
			return fmt.Sprintf("ivec%d", t.Width)
		}
		if t.Base != nil && t.Base.Kind == KindUint {
			return fmt.Sprintf("uvec%d", t.Width)
		}
		if t.Base != nil && t.Base.Kind == KindDouble {
			return fmt.Sprintf("dvec%d", t.Width)
		}
		return fmt.Sprintf("vec%d", t.Width)
	case KindMat:
		return fmt.Sprintf("mat%d", t.Width)
	case KindArray:
		if t.Count == UnboundedArrayCount {
			return fmt.Sprintf("[]%s", t.Base)
		}
		return fmt.Sprintf("[%d]%s", t.Count, t.Base)
	case KindStruct, KindEnum, KindIncomplete, KindCompleting, KindTypename:
		name := t.SymName
		if name == "" {
			name = "<anonymous>"
		}
		if len(t.TemplateBaseArgs) > 0 {
			args := make([]string, len(t.TemplateBaseArgs))
			for i, arg := range t.TemplateBaseArgs {
				args[i] = arg.String()
			}
			return fmt.Sprintf("%s<%s>", name, strings.Join(args, ", "))
		}
		return name
	case KindTexture:
		return t.Dim.String()
	case KindSampler:
		return "Sampler"
	case KindSamplerState:
		return "SamplerState"
	case KindStream:
		return fmt.Sprintf("TriangleStream<%s>", t.Base)
	case KindFunc:
		var b strings.Builder
		b.WriteString("func(")
		for i, arg := range t.Func.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.String())
		}
		b.WriteString(")")
		if t.Func.Return != nil && t.Func.Return.Kind != KindVoid {
			b.WriteString(": ")
			b.WriteString(t.Func.Return.String())
		}
		return b.String()
	case KindFuncOverloadSet:
		return fmt.Sprintf("overload set '%s'", t.SymName)
	case KindPackage:
		return fmt.Sprintf("package '%s'", t.SymName)
	default:
		return fmt.Sprintf("Kind(%d)", t.Kind)
	}
}
