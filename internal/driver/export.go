package driver

import (
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/WaleedSymbyo/sabre/internal/symbols"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

// Current schema version - increment when the payload format changes
const exportSchemaVersion uint16 = 1

// ExportSymbol is one reachable symbol in resolution order.
type ExportSymbol struct {
	Name        string
	MangledName string
	Kind        string
	Type        string
}

// ExportResource is a bound texture/sampler/uniform.
type ExportResource struct {
	Name        string
	MangledName string
	Type        string
	Binding     int
}

// ExportEntryPoint carries an entry point's mode and its binding tables.
type ExportEntryPoint struct {
	Name     string
	Mode     string
	Textures []ExportResource
	Samplers []ExportResource
	Uniforms []ExportResource
}

// ExportPayload is the typer output surface the code generator consumes.
type ExportPayload struct {
	Schema uint16

	Package     string
	Reachable   []ExportSymbol
	EntryPoints []ExportEntryPoint
	Reflected   []ExportSymbol
}

func exportSymbol(sym *symbols.Symbol) ExportSymbol {
	typeName := ""
	if sym.Type != nil {
		typeName = sym.Type.String()
	}
	return ExportSymbol{
		Name:        sym.Name.Text,
		MangledName: sym.PackageName,
		Kind:        sym.Kind.String(),
		Type:        typeName,
	}
}

func exportResources(syms []*symbols.Symbol) []ExportResource {
	out := make([]ExportResource, 0, len(syms))
	for _, sym := range syms {
		typeName := ""
		if sym.Type != nil {
			typeName = sym.Type.String()
		}
		out = append(out, ExportResource{
			Name:        sym.Name.Text,
			MangledName: sym.PackageName,
			Type:        typeName,
			Binding:     sym.UniformBinding,
		})
	}
	return out
}

// BuildPayload assembles the codegen payload for a checked package.
func BuildPayload(u *unit.Unit, pkg *unit.Package) *ExportPayload {
	payload := &ExportPayload{
		Schema:  exportSchemaVersion,
		Package: pkg.Name,
	}
	for _, sym := range pkg.ReachableSymbols {
		payload.Reachable = append(payload.Reachable, exportSymbol(sym))
	}
	for _, entry := range pkg.EntryPoints {
		payload.EntryPoints = append(payload.EntryPoints, ExportEntryPoint{
			Name:     entry.Sym.Name.Text,
			Mode:     entry.Mode.String(),
			Textures: exportResources(entry.Textures),
			Samplers: exportResources(entry.Samplers),
			Uniforms: exportResources(entry.Uniforms),
		})
	}
	for _, sym := range u.ReflectedSymbols {
		payload.Reflected = append(payload.Reflected, exportSymbol(sym))
	}
	return payload
}

// WritePayload serializes the payload to path, writing through a temp file
// so a failed run never leaves a torn artifact.
func WritePayload(payload *ExportPayload, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// ReadPayload loads a payload written by WritePayload.
func ReadPayload(path string) (*ExportPayload, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload ExportPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
