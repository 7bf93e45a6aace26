package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/astra-lang/astracheck/internal/config"
)

func TestLoadFileAppliesRulesAndGlobs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "astracheck.yaml")
	contents := `
pythonVersion: "3.11"
pythonPlatform: Linux
strict: ["src/**"]
ignore: ["vendor/**"]
rules:
  reportMissingTypeStubs: error
  reportCallIssue: none
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := config.LoadFile(path, dir)
	if err != nil {
		t.Fatalf("LoadFile returned an error: %v", err)
	}
	if major, minor := cfg.Env.VersionMajorMinor(); major != 3 || minor != 11 {
		t.Fatalf("expected pythonVersion 3.11, got %d.%d", major, minor)
	}
	if cfg.Env.PythonPlatform != config.PlatformLinux {
		t.Fatalf("expected Linux platform, got %q", cfg.Env.PythonPlatform)
	}
	if !cfg.IsStrict("src/mod.py") {
		t.Fatalf("expected src/** to be strict")
	}
	if !cfg.IsIgnored("vendor/pkg.py") {
		t.Fatalf("expected vendor/** to be ignored")
	}
	if got := cfg.RuleLevel(config.ReportMissingTypeStubs); got != config.LevelError {
		t.Fatalf("expected reportMissingTypeStubs overridden to error, got %s", got)
	}
	if got := cfg.RuleLevel(config.ReportCallIssue); got != config.LevelNone {
		t.Fatalf("expected reportCallIssue overridden to none, got %s", got)
	}
}

func TestLoadFileRejectsUnknownRuleLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "astracheck.yaml")
	contents := "rules:\n  reportCallIssue: bogus\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := config.LoadFile(path, dir); err == nil {
		t.Fatalf("expected an error for an unrecognized rule level")
	}
}

func TestLoadFileMissingFile(t *testing.T) {
	if _, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}
