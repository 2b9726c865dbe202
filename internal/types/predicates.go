package types

// IsEqual is pointer identity: interning guarantees structurally equal types
// share a pointer.
func IsEqual(a, b *Type) bool { return a == b }

// IsNumericScalar reports int, uint, float, double, and the untyped literal
// types.
func IsNumericScalar(t *Type) bool {
	switch t.Kind {
	case KindInt, KindUint, KindFloat, KindDouble, KindLitInt, KindLitFloat:
		return true
	default:
		return false
	}
}

// IsLit reports an untyped literal type.
func IsLit(t *Type) bool {
	return t.Kind == KindLitInt || t.Kind == KindLitFloat
}

// DefaultLitType materializes untyped literal types to their default
// concrete type; template deduction binds typenames through this so `id(3)`
// specializes over int, not over the literal type.
func DefaultLitType(t *Type) *Type {
	switch t {
	case LitInt:
		return Int
	case LitFloat:
		return Float
	default:
		return t
	}
}

// HasArithmetic reports whether +, -, *, /, % apply.
func HasArithmetic(t *Type) bool {
	switch t.Kind {
	case KindInt, KindUint, KindFloat, KindDouble, KindLitInt, KindLitFloat,
		KindVec, KindMat, KindEnum:
		return true
	default:
		return false
	}
}

// HasBitOps reports whether |, &, ^, ~, shifts apply.
func HasBitOps(t *Type) bool {
	switch t.Kind {
	case KindInt, KindUint, KindLitInt, KindEnum:
		return true
	default:
		return false
	}
}

// CanNegate reports whether unary +/- applies.
func CanNegate(t *Type) bool {
	switch t.Kind {
	case KindInt, KindUint, KindFloat, KindDouble, KindLitInt, KindLitFloat,
		KindVec, KindMat:
		return true
	default:
		return false
	}
}

// CanIncrement reports whether ++/-- applies.
func CanIncrement(t *Type) bool {
	switch t.Kind {
	case KindInt, KindUint, KindFloat, KindDouble, KindLitInt, KindLitFloat, KindVec:
		return true
	default:
		return false
	}
}

// IsBoolLike reports bool and vectors of bool.
func IsBoolLike(t *Type) bool {
	if t.Kind == KindBool {
		return true
	}
	return t.Kind == KindVec && t.Base != nil && t.Base.Kind == KindBool
}

func IsVec(t *Type) bool    { return t.Kind == KindVec }
func IsMat(t *Type) bool    { return t.Kind == KindMat }
func IsEnum(t *Type) bool   { return t.Kind == KindEnum }
func IsStruct(t *Type) bool { return t.Kind == KindStruct }
func IsArray(t *Type) bool  { return t.Kind == KindArray }

func IsUnboundedArray(t *Type) bool {
	return t.Kind == KindArray && t.Count == UnboundedArrayCount
}

func IsBoundedArray(t *Type) bool {
	return t.Kind == KindArray && t.Count != UnboundedArrayCount
}

func IsSampler(t *Type) bool      { return t.Kind == KindSampler }
func IsSamplerState(t *Type) bool { return t.Kind == KindSamplerState }
func IsTexture(t *Type) bool      { return t.Kind == KindTexture }
func IsStream(t *Type) bool       { return t.Kind == KindStream }
func IsTypename(t *Type) bool     { return t.Kind == KindTypename }

func IsFunc(t *Type) bool {
	return t.Kind == KindFunc || t.Kind == KindFuncOverloadSet
}

// BitWidth returns the bit width of scalar types, used by shift
// compatibility checks. Non-scalar types report zero.
func BitWidth(t *Type) int {
	switch t.Kind {
	case KindInt, KindUint, KindLitInt, KindFloat, KindEnum:
		return 32
	case KindDouble:
		return 64
	default:
		return 0
	}
}

// IsUniformScalar reports the types a uniform block may contain directly:
// numeric scalars, bool, vectors and matrices.
func IsUniformScalar(t *Type) bool {
	switch t.Kind {
	case KindBool, KindInt, KindUint, KindFloat, KindDouble, KindVec, KindMat:
		return true
	default:
		return false
	}
}

// IsTemplated reports whether the type still references a typename
// placeholder anywhere inside it.
func IsTemplated(t *Type) bool {
	return isTemplated(t, make(map[*Type]bool))
}

func isTemplated(t *Type, visited map[*Type]bool) bool {
	if t == nil || visited[t] {
		return false
	}
	visited[t] = true
	switch t.Kind {
	case KindTypename:
		return true
	case KindVec, KindMat, KindArray, KindStream:
		return isTemplated(t.Base, visited)
	case KindStruct:
		if len(t.TemplateArgs) > 0 {
			return true
		}
		for i := range t.Fields {
			if isTemplated(t.Fields[i].Type, visited) {
				return true
			}
		}
		return false
	case KindFunc:
		if len(t.TemplateArgs) > 0 {
			return true
		}
		for _, arg := range t.Func.Args {
			if isTemplated(arg, visited) {
				return true
			}
		}
		return isTemplated(t.Func.Return, visited)
	default:
		return false
	}
}

// ShaderAPIConfig controls which extra types entry-point checking accepts.
type ShaderAPIConfig uint8

const (
	ShaderAPIDefault      ShaderAPIConfig = 0
	ShaderAPIAllowVoid    ShaderAPIConfig = 1 << 0
	ShaderAPIAllowStreams ShaderAPIConfig = 1 << 1
)

// IsShaderAPI reports whether a type may cross the shader boundary as input
// or output.
func IsShaderAPI(t *Type, config ShaderAPIConfig) bool {
	switch t.Kind {
	case KindBool, KindInt, KindUint, KindFloat, KindDouble, KindVec, KindMat,
		KindTexture, KindSampler, KindSamplerState:
		return true
	case KindVoid:
		return config&ShaderAPIAllowVoid != 0
	case KindStream:
		return config&ShaderAPIAllowStreams != 0
	case KindStruct:
		for i := range t.Fields {
			if !IsShaderAPI(t.Fields[i].Type, ShaderAPIDefault) {
				return false
			}
		}
		return true
	case KindArray:
		return IsShaderAPI(t.Base, ShaderAPIDefault)
	default:
		return false
	}
}
