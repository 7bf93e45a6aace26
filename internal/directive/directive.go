// Package directive implements the in-comment directive parser of spec.md
// §4.I/§6: a raw-line scanner (the lexer never emits COMMENT tokens — see
// internal/lexer's skipSpacesAndComments — so directives are read straight
// off the source text rather than off the token stream) that recognizes
// `# pyright: name=value, ...` settings comments and `# type: ignore`
// suppression comments, following the teacher's internal/config convention
// of a small free-function parser feeding a Configuration rather than a
// dedicated directive AST.
package directive

import (
	"strings"

	"github.com/astra-lang/astracheck/internal/config"
)

// Setting is one `name=value` (or bare `strict`) entry of a `# pyright:`
// comment, in source order.
type Setting struct {
	Name  string
	Value string // empty for the bare "strict" operand
}

// FileDirectives is every directive scanned from one file's raw source.
type FileDirectives struct {
	Settings       []Setting
	LineIgnores    map[int]bool // 0-based line numbers carrying a `type: ignore`
	WholeFileIgnore bool        // `type: ignore` as the first non-shebang line
}

// ruleByCommentName maps a `# pyright: reportX=...` setting name to its
// config.DiagnosticRule; names outside this table are ignored per spec.md
// §6 ("Unknown settings are ignored").
var ruleByCommentName = map[string]config.DiagnosticRule{
	"reportMissingImports":      config.ReportMissingImports,
	"reportMissingTypeStubs":    config.ReportMissingTypeStubs,
	"reportUndefinedVariable":   config.ReportUndefinedVariable,
	"reportGeneralTypeIssues":   config.ReportGeneralTypeIssues,
	"reportSelfClsParameterName": config.ReportSelfClsParameterName,
	"reportInvalidTypeForm":     config.ReportInvalidTypeForm,
	"reportOptionalMemberAccess": config.ReportOptionalMemberAccess,
	"reportCallIssue":           config.ReportCallIssue,
}

// Parse scans src line by line for `# pyright:` and `# type: ignore`
// comments. It does not tokenize the line first (the lexer throws comments
// away before the parser ever sees them), so a `#` occurring inside a
// string literal is indistinguishable from a real comment marker; this
// mirrors the spec's own scope (directives are a post-hoc textual
// annotation, not a semantic construct) and is an accepted imprecision
// rather than an oversight.
func Parse(src string) *FileDirectives {
	fd := &FileDirectives{LineIgnores: make(map[int]bool)}
	lines := strings.Split(src, "\n")

	firstContentLine := -1
	for i, line := range lines {
		comment, ok := commentText(line)
		if !ok {
			if firstContentLine == -1 && strings.TrimSpace(line) != "" && !strings.HasPrefix(strings.TrimSpace(line), "#!") {
				firstContentLine = i
			}
			continue
		}

		trimmed := strings.TrimSpace(comment)
		switch {
		case trimmed == "type: ignore" || strings.HasPrefix(trimmed, "type: ignore["):
			fd.LineIgnores[i] = true
			if firstContentLine == -1 || firstContentLine == i {
				fd.WholeFileIgnore = true
			}
		case strings.HasPrefix(trimmed, "pyright:"):
			fd.Settings = append(fd.Settings, parseSettings(strings.TrimPrefix(trimmed, "pyright:"))...)
		}

		if firstContentLine == -1 && !strings.HasPrefix(strings.TrimSpace(line), "#!") {
			firstContentLine = i
		}
	}
	return fd
}

// commentText returns the text following the first '#' on line, if any.
func commentText(line string) (string, bool) {
	idx := strings.IndexByte(line, '#')
	if idx == -1 {
		return "", false
	}
	return line[idx+1:], true
}

// parseSettings splits a `# pyright: ...` comment's operand list on commas,
// producing one Setting per `name=value` pair or bare operand (spec.md §6:
// "a comma-separated list of name=value pairs, or the bare operand
// 'strict'").
func parseSettings(operands string) []Setting {
	var out []Setting
	for _, part := range strings.Split(operands, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, hasEq := strings.Cut(part, "=")
		if !hasEq {
			out = append(out, Setting{Name: strings.TrimSpace(name)})
			continue
		}
		out = append(out, Setting{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}
	return out
}

// Apply folds parsed settings onto a clone of base, following spec.md §6's
// value grammar, and returns the clone; base itself is left untouched so a
// per-file override never leaks into the shared project configuration.
func Apply(base *config.Configuration, fd *FileDirectives) *config.Configuration {
	cfg := base.Clone()
	for _, s := range fd.Settings {
		if s.Name == "strict" && s.Value == "" {
			cfg.EscalateToStrict()
			continue
		}
		rule, ok := ruleByCommentName[s.Name]
		if !ok {
			if s.Name == "enableTypeIgnoreComments" {
				cfg.EnableTypeIgnoreComments = s.Value != "false"
			}
			continue
		}
		level, ok := config.ParseDiagnosticLevel(s.Value)
		if !ok {
			continue
		}
		cfg.SetRuleLevel(rule, level)
	}
	return cfg
}

// LineIsIgnored reports whether a diagnostic range touching 0-based line
// should be suppressed. Nothing is suppressed unless the configuration honors
// type:ignore comments at all (spec.md §6 `enableTypeIgnoreComments`); when
// it does, either the whole file carries `type: ignore` or that specific line
// does.
func (fd *FileDirectives) LineIsIgnored(cfg *config.Configuration, line int) bool {
	if !cfg.EnableTypeIgnoreComments {
		return false
	}
	if fd.WholeFileIgnore {
		return true
	}
	return fd.LineIgnores[line]
}
