// Command astracheck is the CLI entry point: it wires configuration
// loading, the analysis driver, and colorized diagnostic rendering into a
// small cobra command tree, the way the teacher's cmd/funxy wires its
// pipeline and cmd/lsp wires its language server — generalized here from
// "run a script" to "check a project".
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Best-effort .env loading for interpreter-path/venv overrides (spec.md
	// §6 ExecutionEnvironment.InterpreterPath/Venv); a missing .env is not an
	// error, mirroring godotenv.Load's own convention of silently no-opping
	// when the file doesn't exist in the teacher's other CLI consumers.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}
