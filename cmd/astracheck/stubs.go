package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astra-lang/astracheck/internal/config"
	"github.com/astra-lang/astracheck/internal/driver"
	"github.com/astra-lang/astracheck/internal/pathfs"
)

// newStubsCmd lists every "createtypestub" action surfaced by a check run:
// the third-party imports an external stub package would need to cover
// (spec.md §6's structured diagnostic actions, via
// internal/driver's reportMissingTypeStubs wiring).
func newStubsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stubs [paths...]",
		Short: "List modules missing type stubs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := discoverSourceFiles(args)
			if err != nil {
				return fmt.Errorf("discovering source files: %w", err)
			}

			cfg, err := loadConfig(flags, sourceRoot(args))
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			cfg.SetRuleLevel(config.ReportMissingTypeStubs, config.LevelWarning)

			sess := driver.NewSession(pathfs.OSFS{}, cfg)
			seen := make(map[string]bool)
			var modules []string
			for _, path := range files {
				diags, err := sess.Check(path)
				if err != nil {
					return fmt.Errorf("checking %s: %w", path, err)
				}
				for _, d := range diags {
					for _, a := range d.Actions {
						if a.Action != "createtypestub" || seen[a.ModuleName] {
							continue
						}
						seen[a.ModuleName] = true
						modules = append(modules, a.ModuleName)
					}
				}
			}

			if len(modules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No modules need type stubs.")
				return nil
			}
			for _, m := range modules {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}
