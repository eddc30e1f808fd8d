package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/nodemutation/pkg/config"
	"github.com/yaklabco/nodemutation/pkg/runner"
)

func newApplyCommand() *cobra.Command {
	var cfg config.Config
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "apply [paths...]",
		Short: "Replay a mutation plan and rewrite the sources",
		Long:  applyLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, args, &cfg, flags, runner.ModeApply)
		},
	}

	addRunFlags(cmd, &cfg, flags)
	cmd.Flags().BoolVarP(&cfg.Write, "write", "w", false, "write rewritten files in place")
	cmd.Flags().BoolVar(&cfg.Backups.Enabled, "backup", false, "keep a <file>.nodemutation.bak copy before writing")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "never take backups, even when configured")

	return cmd
}

const applyLongDescription = `Replay a mutation plan against every supported file under the given
paths and rewrite them.

Without --write nothing is changed on disk: a single file prints its
rewritten source, several files print a report. Use "-" to read one
source from stdin.

Examples:
  nodemutation apply -p rename.yml main.go             # Print rewritten main.go
  nodemutation apply -p rename.yml --format diff ./... # Preview as a diff
  nodemutation apply -p rename.yml --write --backup .  # Rewrite in place
  cat app.js | nodemutation apply -p plan.yml --stdin-filename app.js -`
