package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/astra-lang/astracheck/internal/config"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	noColor    bool
	json       bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "astracheck",
		Short:         "Static type checker for Astra source trees",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to an astracheck.yaml project config")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colorized diagnostic output")
	root.PersistentFlags().BoolVar(&flags.json, "json", false, "emit diagnostics as JSON instead of text")

	root.AddCommand(newCheckCmd(flags))
	root.AddCommand(newStubsCmd(flags))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig resolves the effective base Configuration for a CLI
// invocation: the project's astracheck.yaml if --config (or a discovered
// astracheck.yaml under root) names one, otherwise pyright's "basic"
// defaults (spec.md §6).
func loadConfig(flags *rootFlags, root string) (*config.Configuration, error) {
	if flags.configPath != "" {
		return config.LoadFile(flags.configPath, root)
	}
	candidate := filepath.Join(root, "astracheck.yaml")
	if _, err := os.Stat(candidate); err == nil {
		return config.LoadFile(candidate, root)
	}
	return config.NewDefault(root), nil
}
