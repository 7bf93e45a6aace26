package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/astra-lang/astracheck/internal/diagnostics"
)

// reporter renders a run's diagnostics either as colorized text (the
// default, following the teacher's termBuffer/color conventions for
// terminal output) or as JSON for tool integration (SPEC_FULL.md §3's
// "diagnosticVersion-addressed diagnostics API with JSON output").
type reporter struct {
	out      io.Writer
	jsonMode bool
	colorize bool
}

func newReporter(out io.Writer, flags *rootFlags) *reporter {
	colorize := !flags.noColor
	if f, ok := out.(*os.File); ok {
		colorize = colorize && isatty.IsTerminal(f.Fd())
	}
	return &reporter{out: out, jsonMode: flags.json, colorize: colorize}
}

// jsonDiagnostic is the wire shape for --json output: the file path,
// category, code, message and start line/column, flattened out of
// diagnostics.Diagnostic. The range end and any actions are not emitted.
type jsonDiagnostic struct {
	File     string               `json:"file"`
	Category diagnostics.Category `json:"category"`
	Code     diagnostics.Code     `json:"code"`
	Message  string               `json:"message"`
	Line     int                  `json:"line"`
	Column   int                  `json:"column"`
}

type jsonReport struct {
	RunID       string           `json:"runId"`
	FileCount   int              `json:"fileCount"`
	ErrorCount  int              `json:"errorCount"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

func (r *reporter) render(runID string, fileCount int, byFile map[string][]*diagnostics.Diagnostic) int {
	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	errorCount := 0
	if r.jsonMode {
		report := jsonReport{RunID: runID, FileCount: fileCount}
		for _, path := range paths {
			for _, d := range byFile[path] {
				if d.Category == diagnostics.Error {
					errorCount++
				}
				report.Diagnostics = append(report.Diagnostics, jsonDiagnostic{
					File:     path,
					Category: d.Category,
					Code:     d.Code,
					Message:  d.Message,
					Line:     d.Range.Start.Line,
					Column:   d.Range.Start.Column,
				})
			}
		}
		report.ErrorCount = errorCount
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
		return errorCount
	}

	for _, path := range paths {
		for _, d := range byFile[path] {
			if d.Category == diagnostics.Error {
				errorCount++
			}
			fmt.Fprintf(r.out, "%s:%s %s (%s)\n", path, d.Range.Start, r.renderCategory(d.Category, d.Message), d.Code)
			for _, a := range d.Actions {
				fmt.Fprintf(r.out, "  -> %s %s\n", a.Action, a.ModuleName)
			}
		}
	}
	return errorCount
}

func (r *reporter) renderCategory(cat diagnostics.Category, message string) string {
	if !r.colorize {
		return fmt.Sprintf("%s: %s", cat, message)
	}
	var c *color.Color
	switch cat {
	case diagnostics.Error:
		c = color.New(color.FgRed, color.Bold)
	case diagnostics.Warning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgCyan)
	}
	return fmt.Sprintf("%s: %s", c.Sprint(cat), message)
}
