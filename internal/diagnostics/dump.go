package diagnostics

import "github.com/davecgh/go-spew/spew"

// Dump pretty-prints an arbitrary internal value (a scope tree, a symbol
// table, a type map) for --dump-symbols style debug output. Kept isolated in
// its own file since it's a debug-only path, not part of the diagnostic
// contract itself.
func Dump(v any) string {
	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisableMethods:          true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	return cfg.Sdump(v)
}
