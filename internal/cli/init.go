package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/nodemutation/internal/logging"
	"github.com/yaklabco/nodemutation/pkg/config"
	"github.com/yaklabco/nodemutation/pkg/fsutil"
)

const configHeader = `# nodemutation configuration.
# Settings here are overridden by NODEMUTATION_* environment variables
# and command-line flags.`

type initFlags struct {
	force  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .nodemutation.yml with the default settings",
		Long: `Create a new .nodemutation.yml configuration file in the current directory
holding the default settings.

Examples:
  nodemutation init                      Create .nodemutation.yml
  nodemutation init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", ".nodemutation.yml", "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), logging.LevelInfo)

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return withCode(ExitIOError, fmt.Errorf("resolve path: %w", err))
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return withCode(ExitInvalidUsage, fmt.Errorf("file %q already exists; use --force to overwrite", flags.output))
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	content, err := config.NewConfig().ToYAMLWithHeader(configHeader)
	if err != nil {
		return withCode(ExitInternalError, fmt.Errorf("render config: %w", err))
	}

	if err := fsutil.WriteAtomic(cmd.Context(), absPath, content, fsutil.DefaultFileMode); err != nil {
		return withCode(ExitIOError, fmt.Errorf("write file: %w", err))
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	return nil
}
