package driver

import (
	"github.com/WaleedSymbyo/sabre/internal/sema"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

// Options configure a check run.
type Options struct {
	MaxDiagnostics int
	Jobs           int
}

// CheckDir loads the package rooted at dir and runs the typer over it.
// Imported packages load lazily through the same loader.
func CheckDir(dir string, opts Options) (*unit.Unit, *unit.Package, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}

	abs, err := source.AbsolutePath(dir)
	if err != nil {
		return nil, nil, err
	}

	u := unit.New(opts.MaxDiagnostics)
	loader := &DirLoader{Jobs: opts.Jobs}
	u.Loader = loader

	pkg, err := loader.Load(u, abs)
	if err != nil {
		return nil, nil, err
	}
	u.Root = pkg

	sema.Check(u, pkg)
	u.Bag.Sort()
	return u, pkg, nil
}
