package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/WaleedSymbyo/sabre/internal/unit"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCheckDirSinglePackage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.sabre"), `
@vertex func main(): vec4 {
	return vec4{0.0, 0.0, 0.0, 1.0};
}
`)
	u, pkg, err := CheckDir(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if u.HasErrors() {
		for _, d := range u.Bag.Items() {
			t.Logf("diag: %s", d.Message)
		}
		t.Fatalf("expected a clean check")
	}
	if pkg.Stage != unit.StageCodegen {
		t.Fatalf("stage = %s, want codegen", pkg.Stage)
	}
	if len(pkg.EntryPoints) != 1 {
		t.Fatalf("entry points = %d, want 1", len(pkg.EntryPoints))
	}
}

func TestCheckDirMultiFilePackage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.sabre"), `const SIZE = 4;`)
	writeFile(t, filepath.Join(dir, "b.sabre"), `const DOUBLED = SIZE * 2;`)

	u, pkg, err := CheckDir(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if u.HasErrors() {
		t.Fatalf("cross-file lookup failed: %v", u.Bag.Items())
	}
	doubled := pkg.GlobalScope.ShallowFind("DOUBLED")
	if doubled == nil {
		t.Fatalf("DOUBLED not registered")
	}
	if got := u.Info(doubled.Value).Value.Int; got != 8 {
		t.Fatalf("DOUBLED = %d, want 8", got)
	}
}

func TestCheckDirWithImport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib", "lib.sabre"), `
const ANSWER = 42;
struct Light {
	intensity: float;
}
`)
	writeFile(t, filepath.Join(root, "app", "main.sabre"), `
import "../lib";

var light: lib.Light;

func main(): int {
	return lib.ANSWER;
}
`)
	u, pkg, err := CheckDir(filepath.Join(root, "app"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if u.HasErrors() {
		for _, d := range u.Bag.Items() {
			t.Logf("diag: %s", d.Message)
		}
		t.Fatalf("import check failed")
	}
	if pkg.Stage != unit.StageCodegen {
		t.Fatalf("stage = %s", pkg.Stage)
	}
	lib := u.PackageByID(2)
	if lib == nil || lib.Name != "lib" {
		t.Fatalf("lib package not loaded")
	}
}

func TestCheckDirFailedStage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.sabre"), `const a = missing;`)

	u, pkg, err := CheckDir(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !u.HasErrors() {
		t.Fatalf("expected errors")
	}
	if pkg.Stage != unit.StageFailed {
		t.Fatalf("stage = %s, want failed", pkg.Stage)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.sabre"), `
@uniform var albedo: Texture2D;

@pixel func main(): vec4 {
	var t = albedo;
	return vec4{0.0, 0.0, 0.0, 1.0};
}
`)
	u, pkg, err := CheckDir(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if u.HasErrors() {
		t.Fatalf("unexpected errors: %v", u.Bag.Items())
	}

	payload := BuildPayload(u, pkg)
	if len(payload.EntryPoints) != 1 {
		t.Fatalf("payload entry points = %d", len(payload.EntryPoints))
	}
	if len(payload.EntryPoints[0].Textures) != 1 {
		t.Fatalf("payload textures = %d", len(payload.EntryPoints[0].Textures))
	}
	if payload.EntryPoints[0].Textures[0].Binding != 0 {
		t.Fatalf("texture binding = %d", payload.EntryPoints[0].Textures[0].Binding)
	}

	path := filepath.Join(t.TempDir(), "out", "payload.mp")
	if err := WritePayload(payload, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := ReadPayload(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(payload, loaded); diff != "" {
		t.Fatalf("payload round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkDirForPackages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "x.sabre"), `const A = 1;`)
	writeFile(t, filepath.Join(root, "b", "y.sabre"), `const B = 2;`)
	writeFile(t, filepath.Join(root, "noise.txt"), `ignored`)

	dirs, err := WalkDirForPackages(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) != 2 {
		t.Fatalf("found %d package dirs, want 2", len(dirs))
	}
}
