package types

// Builtin types are process-wide singletons: they are immutable, so sharing
// them across units keeps pointer identity without per-unit seeding.
var (
	Void     = &Type{Kind: KindVoid, id: 1}
	Bool     = &Type{Kind: KindBool, id: 2}
	Int      = &Type{Kind: KindInt, id: 3}
	Uint     = &Type{Kind: KindUint, id: 4}
	Float    = &Type{Kind: KindFloat, id: 5}
	Double   = &Type{Kind: KindDouble, id: 6}
	LitInt   = &Type{Kind: KindLitInt, id: 7}
	LitFloat = &Type{Kind: KindLitFloat, id: 8}

	Vec2 = &Type{Kind: KindVec, Base: Float, Width: 2, id: 9}
	Vec3 = &Type{Kind: KindVec, Base: Float, Width: 3, id: 10}
	Vec4 = &Type{Kind: KindVec, Base: Float, Width: 4, id: 11}

	Mat2 = &Type{Kind: KindMat, Base: Float, Width: 2, id: 12}
	Mat3 = &Type{Kind: KindMat, Base: Float, Width: 3, id: 13}
	Mat4 = &Type{Kind: KindMat, Base: Float, Width: 4, id: 14}

	Tex1D   = &Type{Kind: KindTexture, Dim: Texture1D, id: 15}
	Tex2D   = &Type{Kind: KindTexture, Dim: Texture2D, id: 16}
	Tex3D   = &Type{Kind: KindTexture, Dim: Texture3D, id: 17}
	TexCube = &Type{Kind: KindTexture, Dim: TextureCube, id: 18}

	Sampler      = &Type{Kind: KindSampler, id: 19}
	SamplerState = &Type{Kind: KindSamplerState, id: 20}
)

// firstInternedID is where interner-minted ids start; everything below is
// reserved for the singletons above.
const firstInternedID uint32 = 64

var builtinsByName = map[string]*Type{
	"void":         Void,
	"bool":         Bool,
	"int":          Int,
	"uint":         Uint,
	"float":        Float,
	"double":       Double,
	"vec2":         Vec2,
	"vec3":         Vec3,
	"vec4":         Vec4,
	"mat2":         Mat2,
	"mat3":         Mat3,
	"mat4":         Mat4,
	"Texture1D":    Tex1D,
	"Texture2D":    Tex2D,
	"Texture3D":    Tex3D,
	"TextureCube":  TexCube,
	"Sampler":      Sampler,
	"SamplerState": SamplerState,
}

// FromName maps a builtin type name to its type; unknown names report Void,
// which callers treat as "not a builtin".
func FromName(name string) *Type {
	if t, ok := builtinsByName[name]; ok {
		return t
	}
	return Void
}
