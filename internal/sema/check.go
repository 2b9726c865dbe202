package sema

import (
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

// Check runs the full semantic pass over a package: shallow registration,
// compile-time if, entry-point collection, lazy resolution of every global,
// binding assignment over the reachability closure and entry-point I/O
// validation. Errors accumulate in the unit's bag; the package stage
// transitions to codegen or failed.
func Check(u *unit.Unit, pkg *unit.Package) {
	tc := NewTyper(u, pkg)
	tc.shallowWalk()

	tc.collectEntryPoints()

	// check all symbols; the list grows while we resolve, so index
	for i := 0; i < len(tc.globalScope.Symbols); i++ {
		tc.resolveSymbol(tc.globalScope.Symbols[i])
	}

	tc.walkEntryBindings()

	for _, entry := range pkg.EntryPoints {
		tc.checkEntryInput(entry)
	}

	if u.HasErrors() {
		pkg.Stage = unit.StageFailed
	} else {
		pkg.Stage = unit.StageCodegen
	}
}
