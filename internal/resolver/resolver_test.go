package resolver_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/astra-lang/astracheck/internal/config"
	"github.com/astra-lang/astracheck/internal/pathfs"
	"github.com/astra-lang/astracheck/internal/resolver"
)

// diffResults renders a unified diff between two *resolver.Result dumps for
// a readable assertion failure, the way go-difflib is used elsewhere in the
// pack for idempotence-test mismatches.
func diffResults(t *testing.T, a, b *resolver.Result) string {
	t.Helper()
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(fmt.Sprintf("%#v\n", a)),
		B:        difflib.SplitLines(fmt.Sprintf("%#v\n", b)),
		FromFile: "first",
		ToFile:   "second",
		Context:  2,
	})
	if err != nil {
		t.Fatalf("computing diff: %v", err)
	}
	return diff
}

func newEnv(root string) *config.ExecutionEnvironment {
	return &config.ExecutionEnvironment{Root: root}
}

func TestResolvePlainModule(t *testing.T) {
	fs := pathfs.NewMemFS()
	fs.WriteFile("/proj/foo.py", "x = 1\n")
	r := resolver.New(fs, newEnv("/proj"))
	res := r.Resolve("foo", 0, "")
	if !res.IsImportFound || res.ResolvedPath != "/proj/foo.py" {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestResolvePackageInit(t *testing.T) {
	fs := pathfs.NewMemFS()
	fs.WriteFile("/proj/pkg/__init__.py", "")
	fs.WriteFile("/proj/pkg/sub.py", "")
	r := resolver.New(fs, newEnv("/proj"))
	res := r.Resolve("pkg", 0, "")
	if !res.IsImportFound || res.ResolvedPath != "/proj/pkg/__init__.py" {
		t.Fatalf("unexpected result: %#v", res)
	}
	for _, n := range res.ImplicitSubmodules {
		if n == "sub" {
			return
		}
	}
	t.Fatalf("expected sub in implicit submodules, got %v", res.ImplicitSubmodules)
}

func TestResolveDottedSubmodule(t *testing.T) {
	fs := pathfs.NewMemFS()
	fs.WriteFile("/proj/pkg/__init__.py", "")
	fs.WriteFile("/proj/pkg/sub.py", "")
	r := resolver.New(fs, newEnv("/proj"))
	res := r.Resolve("pkg.sub", 0, "")
	if !res.IsImportFound || res.ResolvedPath != "/proj/pkg/sub.py" {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestResolveNamespacePackage(t *testing.T) {
	fs := pathfs.NewMemFS()
	fs.WriteFile("/proj/ns/mod.py", "")
	r := resolver.New(fs, newEnv("/proj"))
	res := r.Resolve("ns", 0, "")
	if !res.IsImportFound || !res.IsNamespacePackage {
		t.Fatalf("expected namespace package, got %#v", res)
	}
}

func TestResolveMissingModuleRecordsSearchedPaths(t *testing.T) {
	fs := pathfs.NewMemFS()
	r := resolver.New(fs, newEnv("/proj"))
	res := r.Resolve("nope", 0, "")
	if res.IsImportFound {
		t.Fatalf("expected import not found")
	}
	if len(res.SearchedPaths) == 0 {
		t.Fatalf("expected SearchedPaths to be populated for a reportMissingImports diagnostic")
	}
}

func TestResolveStubFileTakesPriorityOverModule(t *testing.T) {
	fs := pathfs.NewMemFS()
	fs.WriteFile("/proj/foo.py", "x = 1\n")
	fs.WriteFile("/proj/foo.pyi", "x: int\n")
	r := resolver.New(fs, newEnv("/proj"))
	res := r.Resolve("foo", 0, "")
	if !res.IsStubFile || res.ResolvedPath != "/proj/foo.pyi" {
		t.Fatalf("expected stub file to win, got %#v", res)
	}
}

func TestResolveRelativeImportContainment(t *testing.T) {
	fs := pathfs.NewMemFS()
	fs.WriteFile("/proj/sibling.py", "")
	r := resolver.New(fs, newEnv("/proj"))
	res := r.Resolve("sibling", 1, "/proj")
	if !res.IsImportFound {
		t.Fatalf("expected same-directory relative import to resolve: %#v", res)
	}

	outside := r.Resolve("etc", 3, "/proj")
	if outside.IsImportFound {
		t.Fatalf("expected an escaping relative import to fail containment")
	}
}

// TestResolveIsValueStableAcrossResolvers exercises spec.md §3's idempotence
// invariant "second call returns an object equal (by value, including
// implicitImports ordering) to the first" across two independent Resolvers
// over the same filesystem, rather than relying on the single-instance
// cache to make the comparison trivial.
func TestResolveIsValueStableAcrossResolvers(t *testing.T) {
	fs := pathfs.NewMemFS()
	fs.WriteFile("/proj/pkg/__init__.py", "")
	fs.WriteFile("/proj/pkg/a.py", "")
	fs.WriteFile("/proj/pkg/b.py", "")

	first := resolver.New(fs, newEnv("/proj")).Resolve("pkg", 0, "")
	second := resolver.New(fs, newEnv("/proj")).Resolve("pkg", 0, "")

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("expected value-stable resolution across resolvers, diff (-first +second):\n%s\nfull dump diff:\n%s",
			diff, diffResults(t, first, second))
	}
}

func TestResolveCaches(t *testing.T) {
	fs := pathfs.NewMemFS()
	fs.WriteFile("/proj/foo.py", "")
	r := resolver.New(fs, newEnv("/proj"))
	first := r.Resolve("foo", 0, "")
	second := r.Resolve("foo", 0, "")
	if first != second {
		t.Fatalf("expected cached *Result to be reused across calls")
	}
}
