package driver_test

import (
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/astra-lang/astracheck/internal/config"
	"github.com/astra-lang/astracheck/internal/diagnostics"
	"github.com/astra-lang/astracheck/internal/driver"
	"github.com/astra-lang/astracheck/internal/pathfs"
)

// memFSFromArchive loads a txtar multi-file fixture into an in-memory
// filesystem, the way the teacher's own table-driven fixtures keep each
// scenario's inputs inline in the test file rather than on disk.
func memFSFromArchive(t *testing.T, data string) *pathfs.MemFS {
	t.Helper()
	fs := pathfs.NewMemFS()
	arc := txtar.Parse([]byte(data))
	for _, f := range arc.Files {
		fs.WriteFile(f.Name, string(f.Data))
	}
	return fs
}

// S6-style: three files each importing the next in a cycle; every file
// must carry at least one cycle diagnostic, and no more than
// driver.MaxRetainedCycles.
func TestImportCycleDetectedAcrossThreeFiles(t *testing.T) {
	fs := memFSFromArchive(t, `
-- a.py --
import b
-- b.py --
import c
-- c.py --
import a
`)
	sess := driver.NewSession(fs, config.NewDefault(""))
	diags, err := sess.Check("a.py")
	if err != nil {
		t.Fatalf("Check returned an error: %v", err)
	}

	foundOnEntry := false
	for _, d := range diags {
		if d.Code == "CircularDependency" {
			foundOnEntry = true
		}
	}
	if !foundOnEntry {
		t.Fatalf("expected a CircularDependency diagnostic on the entry file, got %v", diags)
	}

	for _, path := range []string{"a.py", "b.py", "c.py"} {
		f, ok := sess.File(path)
		if !ok {
			t.Fatalf("expected %s to have been loaded", path)
		}
		count := 0
		for _, d := range f.GetDiagnostics() {
			if d.Code == "CircularDependency" {
				count++
			}
		}
		if count == 0 {
			t.Fatalf("expected %s to carry at least one cycle diagnostic", path)
		}
		if count > driver.MaxRetainedCycles {
			t.Fatalf("expected %s to retain at most %d cycle diagnostics, got %d", path, driver.MaxRetainedCycles, count)
		}
	}
}

func TestMissingImportReportsConfiguredSeverity(t *testing.T) {
	fs := memFSFromArchive(t, `
-- main.py --
import nonexistent_module
`)
	sess := driver.NewSession(fs, config.NewDefault(""))
	diags, err := sess.Check("main.py")
	if err != nil {
		t.Fatalf("Check returned an error: %v", err)
	}

	found := false
	for _, d := range diags {
		if d.Code == "reportMissingImports" {
			found = true
			if d.Category != "Error" {
				t.Fatalf("expected reportMissingImports' default severity to be Error, got %s", d.Category)
			}
		}
	}
	if !found {
		t.Fatalf("expected a reportMissingImports diagnostic, got %v", diags)
	}
}

func TestNoImportsNoCycleDiagnostics(t *testing.T) {
	fs := memFSFromArchive(t, `
-- solo.py --
x = 1
`)
	sess := driver.NewSession(fs, config.NewDefault(""))
	diags, err := sess.Check("solo.py")
	if err != nil {
		t.Fatalf("Check returned an error: %v", err)
	}
	for _, d := range diags {
		if d.Code == "CircularDependency" {
			t.Fatalf("a single file with no imports cannot cycle, got %v", diags)
		}
	}
}

func TestMissingStubReportedForExternalImportOnly(t *testing.T) {
	fs := memFSFromArchive(t, `
-- proj/main.py --
import helper
import thirdparty
-- proj/helper.py --
x = 1
-- site-packages/thirdparty.py --
y = 1
`)
	cfg := config.NewDefault("proj")
	cfg.Env.ExtraPaths = []string{"site-packages"}
	sess := driver.NewSession(fs, cfg)
	diags, err := sess.Check("proj/main.py")
	if err != nil {
		t.Fatalf("Check returned an error: %v", err)
	}

	var stubDiag *diagnostics.Diagnostic
	for _, d := range diags {
		if d.Code == diagnostics.Code(config.ReportMissingTypeStubs) {
			stubDiag = d
		}
	}
	if stubDiag == nil {
		t.Fatalf("expected a reportMissingTypeStubs diagnostic for the external import, got %v", diags)
	}
	if len(stubDiag.Actions) != 1 || stubDiag.Actions[0].ModuleName != "thirdparty" {
		t.Fatalf("expected a createtypestub action naming thirdparty, got %v", stubDiag.Actions)
	}
}

func TestIgnoreGlobSuppressesEverything(t *testing.T) {
	fs := memFSFromArchive(t, `
-- vendor/thirdparty.py --
import nonexistent_module
`)
	cfg := config.NewDefault("")
	cfg.Ignore = []string{"vendor/**"}
	sess := driver.NewSession(fs, cfg)
	diags, err := sess.Check("vendor/thirdparty.py")
	if err != nil {
		t.Fatalf("Check returned an error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("expected an ignore-glob match to suppress every diagnostic, got %v", diags)
	}
}

func TestStrictGlobEscalatesWarningRulesToError(t *testing.T) {
	fs := memFSFromArchive(t, `
-- pkg/mod.py --
x = 1
`)
	cfg := config.NewDefault("")
	cfg.Strict = []string{"pkg/**"}
	sess := driver.NewSession(fs, cfg)
	if _, err := sess.Check("pkg/mod.py"); err != nil {
		t.Fatalf("Check returned an error: %v", err)
	}
	f, ok := sess.File("pkg/mod.py")
	if !ok {
		t.Fatalf("expected pkg/mod.py to have been loaded")
	}
	got := f.EffectiveConfig().RuleLevel(config.ReportOptionalMemberAccess)
	if got != config.LevelError {
		t.Fatalf("expected a pkg/** strict match to escalate reportOptionalMemberAccess (warning by default) to error, got %s", got)
	}
}

func TestNonStrictGlobLeavesWarningRulesAlone(t *testing.T) {
	fs := memFSFromArchive(t, `
-- other/mod.py --
x = 1
`)
	cfg := config.NewDefault("")
	cfg.Strict = []string{"pkg/**"}
	sess := driver.NewSession(fs, cfg)
	if _, err := sess.Check("other/mod.py"); err != nil {
		t.Fatalf("Check returned an error: %v", err)
	}
	f, _ := sess.File("other/mod.py")
	got := f.EffectiveConfig().RuleLevel(config.ReportOptionalMemberAccess)
	if got != config.LevelWarning {
		t.Fatalf("expected a non-matching file to keep the default warning level, got %s", got)
	}
}

func TestWholeFileTypeIgnoreSuppressesEverything(t *testing.T) {
	fs := memFSFromArchive(t, `
-- main.py --
# type: ignore
import nonexistent_module
`)
	sess := driver.NewSession(fs, config.NewDefault(""))
	diags, err := sess.Check("main.py")
	if err != nil {
		t.Fatalf("Check returned an error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("expected a leading type:ignore to suppress every diagnostic, got %v", diags)
	}
}
