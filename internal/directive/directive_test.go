package directive_test

import (
	"testing"

	"github.com/astra-lang/astracheck/internal/config"
	"github.com/astra-lang/astracheck/internal/directive"
)

func TestParseLineIgnore(t *testing.T) {
	fd := directive.Parse("x = 1\ny = undefined  # type: ignore\n")
	if !fd.LineIgnores[1] {
		t.Fatalf("expected line 1 to carry a type:ignore, got %#v", fd.LineIgnores)
	}
	if fd.WholeFileIgnore {
		t.Fatalf("a non-leading type:ignore must not suppress the whole file")
	}
}

func TestParseWholeFileIgnore(t *testing.T) {
	fd := directive.Parse("# type: ignore\nx = undefined\n")
	if !fd.WholeFileIgnore {
		t.Fatalf("expected a leading type:ignore to suppress the whole file")
	}
}

func TestParsePyrightSettings(t *testing.T) {
	fd := directive.Parse("# pyright: reportMissingImports=warning, reportCallIssue=false\n")
	if len(fd.Settings) != 2 {
		t.Fatalf("expected 2 settings, got %#v", fd.Settings)
	}
	if fd.Settings[0].Name != "reportMissingImports" || fd.Settings[0].Value != "warning" {
		t.Fatalf("unexpected first setting: %#v", fd.Settings[0])
	}
}

func TestApplyStrictSetsEveryRuleToError(t *testing.T) {
	base := config.NewDefault("/")
	fd := directive.Parse("# pyright: strict\n")
	cfg := directive.Apply(base, fd)
	if cfg.RuleLevel(config.ReportOptionalMemberAccess) != config.LevelError {
		t.Fatalf("expected strict to escalate reportOptionalMemberAccess to error, got %s", cfg.RuleLevel(config.ReportOptionalMemberAccess))
	}
	if base.RuleLevel(config.ReportOptionalMemberAccess) == config.LevelError {
		t.Fatalf("Apply must not mutate the base configuration")
	}
}

func TestApplyUnknownSettingIgnored(t *testing.T) {
	base := config.NewDefault("/")
	fd := directive.Parse("# pyright: notARealSetting=error\n")
	cfg := directive.Apply(base, fd)
	if len(cfg.DiagnosticSettings) != len(base.DiagnosticSettings) {
		t.Fatalf("unknown setting must not add a new rule entry")
	}
}

func TestLineIsIgnoredRespectsConfiguration(t *testing.T) {
	fd := directive.Parse("x = undefined  # type: ignore\n")
	cfg := config.NewDefault("/")
	if !fd.LineIsIgnored(cfg, 0) {
		t.Fatalf("expected line 0 to be ignored")
	}
	cfg.EnableTypeIgnoreComments = false
	if fd.LineIsIgnored(cfg, 0) {
		t.Fatalf("disabling enableTypeIgnoreComments must suppress all type:ignore honoring")
	}
}
