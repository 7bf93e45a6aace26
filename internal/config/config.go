// Package config carries the recognized configuration options (spec.md §6)
// and a couple of process-wide mode flags, following the teacher's
// convention (internal/config/constants.go) of small package-level state and
// free functions rather than a heavyweight options object passed everywhere.
package config

import "github.com/bmatcuk/doublestar/v4"

// Version is the current astracheck release, set at build time via
// -ldflags the way the teacher's own config.Version is set by its release
// script.
var Version = "0.1.0"

// IsTestMode indicates the process is running under `go test`. No code in
// this module reads it; evaluator output is the same whether or not it is
// set.
var IsTestMode = false

// Platform is the subset of pythonPlatform values that drive static
// expression evaluation (spec.md §4.G "Special static predicates").
type Platform string

const (
	PlatformUnknown Platform = ""
	PlatformDarwin  Platform = "Darwin"
	PlatformWindows Platform = "Windows"
	PlatformLinux   Platform = "Linux"
)

// DiagnosticLevel is a per-category severity: none suppresses the
// diagnostic entirely, warning and error both surface it with the given
// severity.
type DiagnosticLevel string

const (
	LevelNone    DiagnosticLevel = "none"
	LevelWarning DiagnosticLevel = "warning"
	LevelError   DiagnosticLevel = "error"
)

// ParseDiagnosticLevel implements the in-comment directive value grammar
// from spec.md §6: "false|none -> none", "warning -> warning",
// "true|error -> error".
func ParseDiagnosticLevel(value string) (DiagnosticLevel, bool) {
	switch value {
	case "false", "none":
		return LevelNone, true
	case "warning":
		return LevelWarning, true
	case "true", "error":
		return LevelError, true
	default:
		return "", false
	}
}

// DiagnosticRule names one `report*` diagnostic category.
type DiagnosticRule string

const (
	ReportMissingImports      DiagnosticRule = "reportMissingImports"
	ReportMissingTypeStubs    DiagnosticRule = "reportMissingTypeStubs"
	ReportUndefinedVariable   DiagnosticRule = "reportUndefinedVariable"
	ReportGeneralTypeIssues   DiagnosticRule = "reportGeneralTypeIssues"
	ReportSelfClsParameterName DiagnosticRule = "reportSelfClsParameterName"
	ReportInvalidTypeForm     DiagnosticRule = "reportInvalidTypeForm"
	ReportOptionalMemberAccess DiagnosticRule = "reportOptionalMemberAccess"
	ReportCallIssue           DiagnosticRule = "reportCallIssue"
)

// defaultRuleLevels mirrors pyright's "basic" rule set: the handful of
// categories a fresh Configuration ships with before strict[]/ignore[] or
// in-comment directives adjust them.
var defaultRuleLevels = map[DiagnosticRule]DiagnosticLevel{
	ReportMissingImports:       LevelError,
	ReportMissingTypeStubs:     LevelWarning,
	ReportUndefinedVariable:    LevelError,
	ReportGeneralTypeIssues:    LevelError,
	ReportSelfClsParameterName: LevelWarning,
	ReportInvalidTypeForm:      LevelError,
	ReportOptionalMemberAccess: LevelWarning,
	ReportCallIssue:            LevelError,
}

// ExecutionEnvironment fixes language version, platform, workspace root, and
// search paths for a set of files being checked (spec.md GLOSSARY).
type ExecutionEnvironment struct {
	Root            string   // workspace root; relative imports may not climb above it
	PythonVersion   int      // major*256 + minor, e.g. 0x0308 for 3.8
	PythonPlatform  Platform
	ExtraPaths      []string
	VenvPath        string
	DefaultVenv     string
	Venv            string // per-environment venv override
	TypeshedPath    string // override for the bundled stub directory
	TypingsPath     string // user-configured typings directory
	InterpreterPath string // empty string selects the default interpreter
}

// VersionMajorMinor splits PythonVersion back into its components.
func (e ExecutionEnvironment) VersionMajorMinor() (major, minor int) {
	return e.PythonVersion >> 8, e.PythonVersion & 0xFF
}

// Configuration is the full recognized option set of spec.md §6.
type Configuration struct {
	Env ExecutionEnvironment

	DiagnosticSettings           map[DiagnosticRule]DiagnosticLevel
	EnableTypeIgnoreComments     bool
	Strict                       []string // glob patterns
	Ignore                       []string // glob patterns
	InternalTestMode             bool
}

// NewDefault returns a Configuration with pyright's "basic" rule defaults
// and type:ignore comments honored.
func NewDefault(root string) *Configuration {
	levels := make(map[DiagnosticRule]DiagnosticLevel, len(defaultRuleLevels))
	for k, v := range defaultRuleLevels {
		levels[k] = v
	}
	return &Configuration{
		Env:                      ExecutionEnvironment{Root: root, PythonVersion: 0x0309},
		DiagnosticSettings:       levels,
		EnableTypeIgnoreComments: true,
	}
}

// RuleLevel returns the configured level for rule, defaulting to error if
// the rule was never registered (e.g. a future rule loaded from an older
// config file).
func (c *Configuration) RuleLevel(rule DiagnosticRule) DiagnosticLevel {
	if lvl, ok := c.DiagnosticSettings[rule]; ok {
		return lvl
	}
	return LevelError
}

// SetRuleLevel overrides one rule's severity, e.g. from an in-comment
// directive or a `strict` file match.
func (c *Configuration) SetRuleLevel(rule DiagnosticRule, level DiagnosticLevel) {
	if c.DiagnosticSettings == nil {
		c.DiagnosticSettings = make(map[DiagnosticRule]DiagnosticLevel)
	}
	c.DiagnosticSettings[rule] = level
}

// EscalateToStrict sets every currently-registered diagnostic rule to
// error, the effect of a bare `# pyright: strict` directive or a
// Strict[]-glob match (spec.md §6).
func (c *Configuration) EscalateToStrict() {
	for rule := range c.DiagnosticSettings {
		c.DiagnosticSettings[rule] = LevelError
	}
}

// matchesAny reports whether relPath matches any of patterns, using
// doublestar so a pattern like "tests/**/*.py" behaves the way pyright's
// strict[]/ignore[] glob matching does (plain filepath.Match has no "**").
func matchesAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// IsStrict reports whether relPath (workspace-root-relative, forward
// slashes) matches one of c.Strict's glob patterns (spec.md §6 "File-glob
// filters for strict/ignored files").
func (c *Configuration) IsStrict(relPath string) bool {
	return matchesAny(c.Strict, relPath)
}

// IsIgnored reports whether relPath matches one of c.Ignore's glob
// patterns; an ignored file's diagnostics are cleared entirely at read-out
// (spec.md §4.H "clears everything for files matching an ignore glob").
func (c *Configuration) IsIgnored(relPath string) bool {
	return matchesAny(c.Ignore, relPath)
}

// Clone returns a deep-enough copy of c so that per-file directive overrides
// (see internal/directive) do not mutate the shared project configuration.
func (c *Configuration) Clone() *Configuration {
	clone := *c
	clone.DiagnosticSettings = make(map[DiagnosticRule]DiagnosticLevel, len(c.DiagnosticSettings))
	for k, v := range c.DiagnosticSettings {
		clone.DiagnosticSettings[k] = v
	}
	return &clone
}
