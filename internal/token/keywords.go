package token

var keywords = map[string]Kind{
	"const":    KwConst,
	"var":      KwVar,
	"func":     KwFunc,
	"struct":   KwStruct,
	"enum":     KwEnum,
	"import":   KwImport,
	"if":       KwIf,
	"else":     KwElse,
	"for":      KwFor,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"discard":  KwDiscard,
	"true":     KwTrue,
	"false":    KwFalse,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Tag keywords the typer consumes. They are plain identifiers after '@';
// keeping the spellings here keeps sema free of string literals.
const (
	TagUniform        = "uniform"
	TagVertex         = "vertex"
	TagPixel          = "pixel"
	TagGeometry       = "geometry"
	TagReflect        = "reflect"
	TagBinding        = "binding"
	TagMaxVertexCount = "max_vertex_count"
	TagSVPosition     = "sv_position"
	TagSVDepth        = "sv_depth"
)
