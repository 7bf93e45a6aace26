// Package resolver turns a dotted import name into a concrete source file
// (or package directory), the way pyright's import resolution algorithm
// does. Grounded on the teacher's internal/modules/loader.go: a Loader
// holding LoadedModules/ModulesByName caches and a Processing set for cycle
// detection; this resolver keeps only the cache (keyed by the probe's
// inputs) and does no cycle detection of its own, and the probe
// steps themselves implement the specification's source-file search order
// instead of the teacher's single-extension module lookup.
package resolver

import (
	"strings"

	"github.com/astra-lang/astracheck/internal/config"
	"github.com/astra-lang/astracheck/internal/pathfs"
)

// Result is the outcome of resolving one import statement.
type Result struct {
	IsImportFound      bool
	ResolvedPath       string   // file resolved to, if IsImportFound and not a namespace package
	IsNamespacePackage bool     // true if the import resolved to a directory with no __init__
	IsStubFile         bool     // true if ResolvedPath is a .pyi stub rather than a .py module
	SearchedPaths      []string // every candidate path probed, for "reportMissingImports" diagnostics
	ImplicitSubmodules []string // submodule names visible via `from pkg import *` after this resolves
}

// cacheKey pairs the environment root with the import name, per spec.md
// §4.B: "the resolver caches results keyed by (environment root, import
// name)" so that two files in the same environment importing the same
// module don't re-walk the search path twice.
type cacheKey struct {
	root string
	name string
}

// Resolver resolves dotted import names against a single execution
// environment's search path.
type Resolver struct {
	fs    pathfs.FS
	env   *config.ExecutionEnvironment
	cache map[cacheKey]*Result
}

func New(fs pathfs.FS, env *config.ExecutionEnvironment) *Resolver {
	return &Resolver{fs: fs, env: env, cache: make(map[cacheKey]*Result)}
}

// Resolve resolves a dotted import name, e.g. "pkg.sub.mod", optionally
// relative to fromDir when leadingDots > 0 (a `from . import x` /
// `from ..pkg import x` form).
func (r *Resolver) Resolve(importName string, leadingDots int, fromDir string) *Result {
	key := cacheKey{root: r.env.Root, name: fromRelativeKey(leadingDots, fromDir, importName)}
	if cached, ok := r.cache[key]; ok {
		return cached
	}
	res := r.resolveUncached(importName, leadingDots, fromDir)
	r.cache[key] = res
	return res
}

func fromRelativeKey(leadingDots int, fromDir, importName string) string {
	if leadingDots == 0 {
		return importName
	}
	return strings.Repeat(".", leadingDots) + "@" + fromDir + ":" + importName
}

// searchRoots returns the ordered list of directories probed for a
// non-relative import, mirroring pyright's resolution order: the execution
// environment's extra paths first (highest priority, e.g. a configured
// src/ layout), then the environment root itself, then bundled type stubs
// (typingsPath, for third-party packages with no inline types), then the
// typeshed-style standard-library stub directory.
func (r *Resolver) searchRoots() []string {
	var roots []string
	roots = append(roots, r.env.ExtraPaths...)
	roots = append(roots, r.env.Root)
	if r.env.TypingsPath != "" {
		roots = append(roots, r.env.TypingsPath)
	}
	if r.env.TypeshedPath != "" {
		roots = append(roots, r.env.TypeshedPath)
	}
	return roots
}

func (r *Resolver) resolveUncached(importName string, leadingDots int, fromDir string) *Result {
	res := &Result{}

	if leadingDots > 0 {
		base := fromDir
		for i := 1; i < leadingDots; i++ {
			base = pathfs.Dir(base)
		}
		if !r.isContainedInRoot(base) {
			res.SearchedPaths = append(res.SearchedPaths, base)
			return res
		}
		return r.probePackagePath(base, splitDotted(importName), res)
	}

	parts := splitDotted(importName)
	for _, root := range r.searchRoots() {
		if found := r.probePackagePath(root, parts, res); found.IsImportFound {
			return found
		}
	}
	return res
}

// isContainedInRoot enforces spec.md §4.B's relative-import containment
// check: a relative import may never walk `base` outside the execution
// environment's root.
func (r *Resolver) isContainedInRoot(base string) bool {
	return strings.HasPrefix(base, r.env.Root)
}

// probePackagePath walks parts of a dotted import under root, trying at
// each step (in priority order):
//  1. a stub file `<name>.pyi` (step 1: stub packages always win)
//  2. a package directory `<name>/__init__.pyi` or `__init__.py`
//  3. a plain module file `<name>.py`
//  4. a namespace package: a directory with matching source files but no
//     __init__, which PEP 420 allows to exist across multiple roots
//  5. (native extension stubs and compiled-module probing are Non-goals:
//     this core never executes or introspects a C extension)
func (r *Resolver) probePackagePath(root string, parts []string, res *Result) *Result {
	dir := root
	for i, part := range parts {
		last := i == len(parts)-1

		stubFile := pathfs.Join(dir, part+".pyi")
		res.SearchedPaths = append(res.SearchedPaths, stubFile)
		if r.fs.IsFile(stubFile) {
			if last {
				res.IsImportFound = true
				res.ResolvedPath = stubFile
				res.IsStubFile = true
				return res
			}
			dir = pathfs.Join(dir, part)
			continue
		}

		pkgDir := pathfs.Join(dir, part)
		if r.fs.IsDir(pkgDir) {
			initPyi := pathfs.Join(pkgDir, "__init__.pyi")
			initPy := pathfs.Join(pkgDir, "__init__.py")
			res.SearchedPaths = append(res.SearchedPaths, initPyi, initPy)
			switch {
			case r.fs.IsFile(initPyi):
				if last {
					res.IsImportFound = true
					res.ResolvedPath = initPyi
					res.IsStubFile = true
					res.ImplicitSubmodules = r.listSubmodules(pkgDir)
					return res
				}
			case r.fs.IsFile(initPy):
				if last {
					res.IsImportFound = true
					res.ResolvedPath = initPy
					res.ImplicitSubmodules = r.listSubmodules(pkgDir)
					return res
				}
			default:
				if last {
					res.IsImportFound = true
					res.IsNamespacePackage = true
					res.ImplicitSubmodules = r.listSubmodules(pkgDir)
					return res
				}
			}
			dir = pkgDir
			continue
		}

		moduleFile := pathfs.Join(dir, part+".py")
		res.SearchedPaths = append(res.SearchedPaths, moduleFile)
		if last && r.fs.IsFile(moduleFile) {
			res.IsImportFound = true
			res.ResolvedPath = moduleFile
			return res
		}

		return res
	}
	return res
}

// listSubmodules scans a resolved package directory for the submodule
// names an implicit `from pkg import *` or `pkg.<name>` access would need
// (spec.md §3 AliasDeclaration.ImplicitSubmodules). Filtering this listing
// against a package's strict[]/ignore[] glob patterns is internal/config's
// job (config.Configuration.IsStrict/IsIgnored), not the resolver's.
func (r *Resolver) listSubmodules(pkgDir string) []string {
	entries, err := r.fs.ReadDir(pkgDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		switch {
		case e.IsDir:
			if r.fs.IsFile(pathfs.Join(pkgDir, e.Name, "__init__.py")) || r.fs.IsFile(pathfs.Join(pkgDir, e.Name, "__init__.pyi")) {
				names = append(names, e.Name)
			}
		case strings.HasSuffix(e.Name, ".py") && e.Name != "__init__.py":
			names = append(names, strings.TrimSuffix(e.Name, ".py"))
		case strings.HasSuffix(e.Name, ".pyi") && e.Name != "__init__.pyi":
			names = append(names, strings.TrimSuffix(e.Name, ".pyi"))
		}
	}
	return names
}

func splitDotted(name string) []string {
	if name == "" {
		return nil
	}
	return strings.Split(name, ".")
}
