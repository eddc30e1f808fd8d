// Package cli provides the Cobra command structure for nodemutation.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/nodemutation/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root nodemutation command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "nodemutation",
		Short: "Rewrite source files through their syntax trees",
		Long: `nodemutation rewrites Go, JavaScript, TypeScript and Markdown files by
replaying a plan of node mutations against each file's syntax tree.

Edits are anchored to nodes, conflicting edits are detected and resolved,
and surviving edits are spliced into the original text so that formatting
outside the edited spans is preserved byte for byte.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel(logging.LevelDebug)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(ExitInvalidUsage, err)
	})

	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newTestCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
