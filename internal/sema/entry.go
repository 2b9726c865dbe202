package sema

import (
	"strconv"

	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/token"
	"github.com/WaleedSymbyo/sabre/internal/types"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

// collectEntryPoints scans the global scope for tagged shader entry
// functions.
func (tc *Typer) collectEntryPoints() {
	for _, sym := range tc.globalScope.Symbols {
		if sym.Kind != symbols.SymbolFunc || sym.Decl == nil {
			continue
		}
		switch {
		case sym.Decl.Tags.Has(token.TagVertex):
			tc.pkg.EntryPoints = append(tc.pkg.EntryPoints, unit.NewEntryPoint(sym, unit.ModeVertex))
		case sym.Decl.Tags.Has(token.TagPixel):
			tc.pkg.EntryPoints = append(tc.pkg.EntryPoints, unit.NewEntryPoint(sym, unit.ModePixel))
		case sym.Decl.Tags.Has(token.TagGeometry):
			tc.pkg.EntryPoints = append(tc.pkg.EntryPoints, unit.NewEntryPoint(sym, unit.ModeGeometry))
		}
	}
}

// checkEntryInput validates an entry point's argument and return types
// against the shader API surface.
func (tc *Typer) checkEntryInput(entry *unit.EntryPoint) {
	decl := entry.Sym.Decl
	t := entry.Sym.Type
	if decl == nil || t == nil || t.Kind != types.KindFunc {
		return
	}

	if tag, ok := decl.Tags.Lookup(token.TagGeometry); ok {
		if _, ok := tag.Args[token.TagMaxVertexCount]; !ok {
			tc.errf(diag.SemaMissingTagArg, decl.Name.Span,
				"geometry shader should have max vertex count tag argument '@geometry{max_vertex_count = 6, ...}'")
		}
	}

	typeIndex := 0
	for _, arg := range decl.Func.Args {
		names := len(arg.Names)
		if names == 0 {
			names = 1
		}
		if typeIndex >= len(t.Func.Args) {
			break
		}
		argType := t.Func.Args[typeIndex]

		if types.IsStruct(argType) {
			tc.checkEntryStructInput(argType)
			typeIndex += names
			continue
		}
		if types.IsArray(argType) && types.IsStruct(argType.Base) {
			tc.checkEntryStructInput(argType.Base)
			typeIndex += names
			continue
		}

		errLoc := arg.Sign.Location()
		if errLoc.Empty() && len(arg.Names) > 0 {
			errLoc = arg.Names[0].Span
		}

		config := types.ShaderAPIDefault
		if entry.Mode == unit.ModeGeometry {
			config |= types.ShaderAPIAllowStreams
		}
		if !types.IsShaderAPI(argType, config) {
			tc.errf(diag.SemaIllegalShaderIO, errLoc, "type '%s' cannot be used as shader input", argType)
		}
		typeIndex += names
	}

	returnType := t.Func.Return

	// geometry shaders emit through streams, not the return value
	if entry.Mode == unit.ModeGeometry && returnType != types.Void {
		tc.errf(diag.SemaIllegalShaderIO, decl.Name.Span,
			"geometry shader return type should be void, but found '%s'", returnType)
	}

	if types.IsStruct(returnType) {
		tc.checkEntryStructOutput(returnType)
		return
	}

	errLoc := decl.Func.ReturnSign.Location()
	if errLoc.Empty() {
		errLoc = decl.Name.Span
	}
	config := types.ShaderAPIDefault
	if entry.Mode == unit.ModeGeometry {
		config |= types.ShaderAPIAllowVoid
	}
	if !types.IsShaderAPI(returnType, config) {
		tc.errf(diag.SemaIllegalShaderIO, errLoc, "type '%s' cannot be used as shader output", returnType)
	}
}

func (tc *Typer) checkEntryStructInput(t *types.Type) {
	for i := range t.Fields {
		field := &t.Fields[i]
		if !types.IsShaderAPI(field.Type, types.ShaderAPIDefault) {
			tc.errf(diag.SemaIllegalShaderIO, field.Name.Span, "type '%s' cannot be used as shader input", field.Type)
		}
	}
}

// checkEntryStructOutput validates output struct fields, including system
// value tags.
func (tc *Typer) checkEntryStructOutput(t *types.Type) {
	sym := tc.u.Syms.Get(t.Sym)
	var structDecl *ast.Decl
	if sym != nil {
		structDecl = sym.Decl
	}

	typeIndex := 0
	if structDecl != nil {
		for fi := range structDecl.Struct.Fields {
			declField := &structDecl.Struct.Fields[fi]
			if typeIndex >= len(t.Fields) {
				break
			}
			structField := &t.Fields[typeIndex]

			if declField.Tags.Has(token.TagSVPosition) && structField.Type != types.Vec4 {
				tc.errf(diag.SemaIllegalShaderIO, structField.Name.Span,
					"system position type is '%s', but it should be 'vec4'", structField.Type)
			}
			if declField.Tags.Has(token.TagSVDepth) && structField.Type != types.Float {
				tc.errf(diag.SemaIllegalShaderIO, structField.Name.Span,
					"system depth type is '%s', but it should be 'float'", structField.Type)
			}
			if !types.IsShaderAPI(structField.Type, types.ShaderAPIDefault) {
				tc.errf(diag.SemaIllegalShaderIO, structField.Name.Span,
					"type '%s' cannot be used as shader output", structField.Type)
			}
			typeIndex += len(declField.Names)
		}
	}
}

// assignBindings gives a uniform symbol its binding index and records it in
// the unit-wide binding maps, diagnosing duplicate indices per resource
// kind. An already processed symbol is only attached to the entry.
func (tc *Typer) assignBindings(entry *unit.EntryPoint, sym *symbols.Symbol) {
	if sym.BindingProcessed {
		if entry != nil {
			switch {
			case types.IsTexture(sym.Type):
				entry.Textures = append(entry.Textures, sym)
			case types.IsSampler(sym.Type) || types.IsSamplerState(sym.Type):
				entry.Samplers = append(entry.Samplers, sym)
			default:
				entry.Uniforms = append(entry.Uniforms, sym)
			}
		}
		return
	}
	sym.BindingProcessed = true

	switch {
	case types.IsTexture(sym.Type):
		tc.assignBindingIn(sym, &tc.textureBindingGenerator, tc.u.ReachableTextures, "texture", func() {
			if entry != nil {
				entry.Textures = append(entry.Textures, sym)
			}
		})
	case types.IsSampler(sym.Type) || types.IsSamplerState(sym.Type):
		tc.assignBindingIn(sym, &tc.samplerBindingGenerator, tc.u.ReachableSamplers, "sampler", func() {
			if entry != nil {
				entry.Samplers = append(entry.Samplers, sym)
			}
		})
	default:
		tc.assignBindingIn(sym, &tc.uniformBindingGenerator, tc.u.ReachableUniforms, "uniform", func() {
			if entry != nil {
				entry.Uniforms = append(entry.Uniforms, sym)
			}
		})
	}
}

func (tc *Typer) assignBindingIn(sym *symbols.Symbol, generator *int, reachable map[int]*symbols.Symbol, kind string, attach func()) {
	binding := -1
	if sym.Decl != nil {
		if arg, ok := sym.Decl.Tags.Arg(token.TagUniform, token.TagBinding); ok {
			if arg.Value.Kind == token.IntLit {
				if v, err := strconv.Atoi(arg.Value.Text); err == nil {
					binding = v
					// a fixed binding advances the generator past it
					if binding >= *generator {
						*generator = binding + 1
					}
				}
			}
		}
	}
	if binding < 0 {
		binding = *generator
		*generator++
	}
	sym.UniformBinding = binding

	if old, ok := reachable[binding]; ok && old != sym {
		path, lc := tc.u.FileSet.Position(old.Location())
		tc.errf(diag.SemaDuplicateBinding, sym.Location(),
			"%s binding point %d is shared with other %s defined in %s:%d", kind, binding, kind, path, lc.Line)
		return
	}
	reachable[binding] = sym
	attach()
}

// walkEntryBindings walks the transitive dependency closure of every entry
// point, assigning bindings to reachable uniforms.
func (tc *Typer) walkEntryBindings() {
	for _, entry := range tc.pkg.EntryPoints {
		visited := map[*symbols.Symbol]struct{}{entry.Sym: {}}
		stack := []*symbols.Symbol{entry.Sym}
		for len(stack) > 0 {
			sym := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if sym.Kind == symbols.SymbolVar && sym.IsUniform {
				tc.assignBindings(entry, sym)
			}

			// push in reverse so the pop order follows first-use order
			for i := len(sym.Deps) - 1; i >= 0; i-- {
				dep := sym.Deps[i]
				if _, ok := visited[dep]; !ok {
					visited[dep] = struct{}{}
					stack = append(stack, dep)
				}
			}
		}
	}

	// uniforms never reached from an entry still get stable bindings
	for _, sym := range tc.u.AllUniforms {
		tc.assignBindings(nil, sym)
	}
}
