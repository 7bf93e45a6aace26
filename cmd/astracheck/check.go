package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/astra-lang/astracheck/internal/diagnostics"
	"github.com/astra-lang/astracheck/internal/driver"
	"github.com/astra-lang/astracheck/internal/pathfs"
)

func newCheckCmd(flags *rootFlags) *cobra.Command {
	var dumpSymbols bool

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Type-check one or more files or directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags, dumpSymbols)
		},
	}
	cmd.Flags().BoolVar(&dumpSymbols, "dump-symbols", false, "dump each checked file's bound scope tree to stderr")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *rootFlags, dumpSymbols bool) error {
	files, err := discoverSourceFiles(args)
	if err != nil {
		return fmt.Errorf("discovering source files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .py source files found under %v", args)
	}

	cfg, err := loadConfig(flags, sourceRoot(args))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	sess := driver.NewSession(pathfs.OSFS{}, cfg)
	byFile := make(map[string][]*diagnostics.Diagnostic, len(files))
	for _, path := range files {
		diags, err := sess.Check(path)
		if err != nil {
			return fmt.Errorf("checking %s: %w", path, err)
		}
		byFile[path] = diags
	}

	if dumpSymbols {
		for _, path := range files {
			f, ok := sess.File(path)
			if !ok {
				continue
			}
			fmt.Fprintf(os.Stderr, "=== %s ===\n%s", path, diagnostics.Dump(f.BindResult()))
		}
	}

	rep := newReporter(cmd.OutOrStdout(), flags)
	errorCount := rep.render(sess.RunID.String(), len(files), byFile)
	if !flags.json {
		fmt.Fprintf(cmd.OutOrStdout(), "checked %s file%s, %s error%s\n",
			humanize.Comma(int64(len(files))), plural(len(files)),
			humanize.Comma(int64(errorCount)), plural(errorCount))
	}
	if errorCount > 0 {
		return errExit{}
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// errExit signals a non-zero exit with no additional message: runCheck
// already rendered the diagnostics that explain the failure.
type errExit struct{}

func (errExit) Error() string { return "" }
