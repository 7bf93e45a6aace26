package driver

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/astra-lang/astracheck/internal/ast"
	"github.com/astra-lang/astracheck/internal/config"
	"github.com/astra-lang/astracheck/internal/diagnostics"
	"github.com/astra-lang/astracheck/internal/evaluator"
	"github.com/astra-lang/astracheck/internal/pathfs"
	"github.com/astra-lang/astracheck/internal/resolver"
	"github.com/astra-lang/astracheck/internal/symbols"
	"github.com/astra-lang/astracheck/internal/token"
)

// MaxImportDepth bounds import-chain recursion, per spec.md §4.H "if
// import-chain depth exceeds a threshold, a single error is surfaced."
const MaxImportDepth = 40

// Session orchestrates analysis across every file reachable from one or
// more entry points, resolving imports between SourceFiles and detecting
// dependency cycles (spec.md §4.H, scenario S6). RunID stamps the session
// so CircularDependency traces from one `Check` call can be correlated in
// CLI JSON output, mirroring the teacher's request-scoped correlation ids.
type Session struct {
	RunID uuid.UUID

	fs       pathfs.FS
	cfg      *config.Configuration
	resolver *resolver.Resolver
	ids      *symbols.SourceIDAllocator
	builtins *symbols.Scope
	files    map[string]*SourceFile
}

// NewSession constructs a session rooted at cfg.Env over fs.
func NewSession(fs pathfs.FS, cfg *config.Configuration) *Session {
	ids := symbols.NewSourceIDAllocator()
	return &Session{
		RunID:    uuid.New(),
		fs:       fs,
		cfg:      cfg,
		resolver: resolver.New(fs, &cfg.Env),
		ids:      ids,
		builtins: evaluator.NewBuiltinScope(ids),
		files:    make(map[string]*SourceFile),
	}
}

// fileFor returns the session's SourceFile for path, creating it in the
// New phase on first reference (a file may be first seen either as a
// direct Check target or as some other file's import).
func (s *Session) fileFor(path string) *SourceFile {
	f, ok := s.files[path]
	if !ok {
		f = NewSourceFile(path, s.cfg, s.ids, s.builtins)
		s.files[path] = f
	}
	return f
}

// Check loads and analyzes path plus every file it transitively imports,
// driving each to a fixed point, and returns path's own published
// diagnostics.
func (s *Session) Check(path string) ([]*diagnostics.Diagnostic, error) {
	if err := s.load(path, nil); err != nil {
		return nil, err
	}
	for _, f := range s.files {
		f.RunTypeAnalysisToFixedPoint()
	}
	return s.fileFor(path).GetDiagnostics(), nil
}

// File exposes a loaded SourceFile for callers that want its scope tree or
// intermediate diagnostics directly (e.g. a language-server hover request,
// out of this core's scope but a natural consumer of this accessor).
func (s *Session) File(path string) (*SourceFile, bool) {
	f, ok := s.files[path]
	return f, ok
}

// load parses path (if not already parsed) and recursively loads every
// module it imports, walking stack to detect a cycle back to an
// already-in-progress file and recording it on every file in the cycle
// (bounded by MaxRetainedCycles), or a chain exceeding MaxImportDepth.
func (s *Session) load(path string, stack []string) error {
	for i, p := range stack {
		if p != path {
			continue
		}
		cycle := append(append([]string(nil), stack[i:]...), path)
		for _, cp := range stack[i:] {
			s.fileFor(cp).AddCycle(cycle)
		}
		return nil
	}
	if len(stack) >= MaxImportDepth {
		s.fileFor(path).MarkDepthExceeded()
		return nil
	}

	f := s.fileFor(path)
	if f.Phase() == PhaseNew {
		contents, err := s.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("driver: reading %s: %w", path, err)
		}
		f.Parse(contents)
	}
	if f.Module() == nil {
		return nil
	}

	nextStack := append(append([]string(nil), stack...), path)
	for _, imp := range collectImports(f.Module().Body) {
		res := s.resolver.Resolve(imp.name, imp.leadingDots, pathfs.Dir(path))
		if !res.IsImportFound {
			f.recordImportDiagnostic(config.ReportMissingImports, imp.rng,
				"Import %q could not be resolved", imp.name)
			continue
		}
		if res.IsNamespacePackage {
			continue
		}
		if !res.IsStubFile && s.cfg.Env.Root != "" && !strings.HasPrefix(res.ResolvedPath, s.cfg.Env.Root) {
			f.recordMissingStubDiagnostic(imp.name, imp.rng)
		}
		if err := s.load(res.ResolvedPath, nextStack); err != nil {
			return err
		}
	}
	return nil
}

// importRef is one resolvable import reference found in a file, flattened
// out of either an ImportStmt alias or an ImportFromStmt's module path.
type importRef struct {
	name        string
	leadingDots int
	rng         token.Range
}

func collectImports(stmts []ast.Statement) []importRef {
	var out []importRef
	for _, s := range stmts {
		out = append(out, importsInStmt(s)...)
	}
	return out
}

func importsInStmt(s ast.Statement) []importRef {
	switch n := s.(type) {
	case *ast.ImportStmt:
		var out []importRef
		for _, alias := range n.Modules {
			out = append(out, importRef{name: alias.Name, rng: n.Range()})
		}
		return out
	case *ast.ImportFromStmt:
		if n.Module == "" && n.LeadingDots == 0 {
			return nil
		}
		return []importRef{{name: n.Module, leadingDots: n.LeadingDots, rng: n.Range()}}
	case *ast.IfStmt:
		out := collectImports(n.Body.Stmts)
		if n.Orelse != nil {
			out = append(out, collectImports(n.Orelse.Stmts)...)
		}
		return out
	case *ast.WhileStmt:
		out := collectImports(n.Body.Stmts)
		if n.Orelse != nil {
			out = append(out, collectImports(n.Orelse.Stmts)...)
		}
		return out
	case *ast.ForStmt:
		out := collectImports(n.Body.Stmts)
		if n.Orelse != nil {
			out = append(out, collectImports(n.Orelse.Stmts)...)
		}
		return out
	case *ast.WithStmt:
		return collectImports(n.Body.Stmts)
	case *ast.TryStmt:
		out := collectImports(n.Body.Stmts)
		for _, h := range n.Handlers {
			out = append(out, collectImports(h.Body.Stmts)...)
		}
		if n.Orelse != nil {
			out = append(out, collectImports(n.Orelse.Stmts)...)
		}
		if n.Final != nil {
			out = append(out, collectImports(n.Final.Stmts)...)
		}
		return out
	case *ast.FunctionDef:
		return collectImports(n.Body.Stmts)
	case *ast.ClassDef:
		return collectImports(n.Body.Stmts)
	default:
		return nil
	}
}
