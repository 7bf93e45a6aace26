// Package diagnostics implements the per-file diagnostic sink (spec.md §6/§7).
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/astra-lang/astracheck/internal/config"
	"github.com/astra-lang/astracheck/internal/token"
)

// Category is the severity/kind of a diagnostic, per spec.md §6.
type Category string

const (
	Error       Category = "Error"
	Warning     Category = "Warning"
	Information Category = "Information"
	UnusedCode  Category = "UnusedCode"
)

func categoryFor(level config.DiagnosticLevel) Category {
	if level == config.LevelWarning {
		return Warning
	}
	return Error
}

// Action is a structured follow-up action attached to a diagnostic, e.g.
// {action: "createtypestub", moduleName: "requests"}.
type Action struct {
	Action     string
	ModuleName string
}

// Code identifies the diagnostic's rule, for deduplication and for mapping
// to a config.DiagnosticRule when severity is configurable.
type Code string

// Diagnostic is one reported finding.
type Diagnostic struct {
	Category Category
	Code     Code
	Message  string
	Range    token.Range
	File     string
	Actions  []Action
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%s: %s: %s", d.File, d.Range.Start, d.Category, d.Message)
}

// Sink accumulates diagnostics for a single file, deduplicating by
// (line, column, code) the way the teacher's walker.addError/getErrors pair
// does in internal/analyzer/analyzer.go.
type Sink struct {
	byKey map[string]*Diagnostic
}

func NewSink() *Sink {
	return &Sink{byKey: make(map[string]*Diagnostic)}
}

func (s *Sink) Add(d *Diagnostic) {
	key := fmt.Sprintf("%d:%d:%s", d.Range.Start.Line, d.Range.Start.Column, d.Code)
	s.byKey[key] = d
}

func (s *Sink) AddAll(ds []*Diagnostic) {
	for _, d := range ds {
		s.Add(d)
	}
}

// Report is a convenience constructor-and-add in one call, mirroring the
// common case of reporting a single-rule error at a node's range.
func (s *Sink) Report(cat Category, code Code, file string, rng token.Range, format string, args ...any) {
	s.Add(&Diagnostic{
		Category: cat,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Range:    rng,
		File:     file,
	})
}

// ReportRule reports a diagnostic whose severity is governed by a
// config.DiagnosticRule; if the rule is configured to "none" the
// diagnostic is suppressed entirely.
func (s *Sink) ReportRule(cfg *config.Configuration, rule config.DiagnosticRule, file string, rng token.Range, format string, args ...any) {
	level := cfg.RuleLevel(rule)
	if level == config.LevelNone {
		return
	}
	s.Add(&Diagnostic{
		Category: categoryFor(level),
		Code:     Code(rule),
		Message:  fmt.Sprintf(format, args...),
		Range:    rng,
		File:     file,
	})
}

// All returns every diagnostic, sorted by position for deterministic output
// (spec.md §7 "the diagnostic stream is deterministic").
func (s *Sink) All() []*Diagnostic {
	result := make([]*Diagnostic, 0, len(s.byKey))
	for _, d := range s.byKey {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Range.Start.Line != result[j].Range.Start.Line {
			return result[i].Range.Start.Line < result[j].Range.Start.Line
		}
		if result[i].Range.Start.Column != result[j].Range.Start.Column {
			return result[i].Range.Start.Column < result[j].Range.Start.Column
		}
		return result[i].Code < result[j].Code
	})
	return result
}

func (s *Sink) Len() int { return len(s.byKey) }

// Merge copies every diagnostic of other into s.
func (s *Sink) Merge(other *Sink) {
	for k, v := range other.byKey {
		s.byKey[k] = v
	}
}
