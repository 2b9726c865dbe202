package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/lexer"
	"github.com/WaleedSymbyo/sabre/internal/parser"
	"github.com/WaleedSymbyo/sabre/internal/source"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

// listSabreFiles возвращает отсортированный список всех *.sabre файлов в
// директории (без рекурсии: пакет — это одна директория).
func listSabreFiles(dir string) ([]string, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.sabre"))
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	return entries, nil
}

// DirLoader loads a package directory: every .sabre file is lexed and
// parsed; files fan out over an errgroup while the merge stays in
// deterministic file order.
type DirLoader struct {
	Jobs int
	mu   sync.Mutex
}

type parsedFile struct {
	path   string
	fileID source.FileID
	decls  []*ast.Decl
	bag    *diag.Bag
}

// Load implements unit.Loader.
func (l *DirLoader) Load(u *unit.Unit, dir string) (*unit.Package, error) {
	files, err := listSabreFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .sabre files in %s", dir)
	}

	pkg := u.NewPackage(filepath.Base(dir), dir)

	// I/O and file registration stay sequential so FileIDs are stable
	loaded := make([]parsedFile, len(files))
	for i, path := range files {
		id, err := u.FileSet.Load(path)
		if err != nil {
			return nil, err
		}
		loaded[i] = parsedFile{path: path, fileID: id}
	}

	jobs := l.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(jobs)
	for i := range loaded {
		i := i
		g.Go(func() error {
			pf := &loaded[i]
			pf.bag = diag.NewBag(64)
			reporter := diag.BagReporter{Bag: pf.bag}
			tokens := lexer.Tokenize(u.FileSet.Get(pf.fileID), reporter)
			pf.decls = parser.New(tokens, reporter).ParseFile()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range loaded {
		pf := &loaded[i]
		u.Bag.Merge(pf.bag)
		u.AddFile(pkg, &unit.File{
			ID:    pf.fileID,
			Path:  pf.path,
			Decls: pf.decls,
		})
	}
	return pkg, nil
}

// WalkDirForPackages находит все директории с .sabre файлами под корнем.
func WalkDirForPackages(root string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sabre") {
			dir := filepath.Dir(path)
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}
