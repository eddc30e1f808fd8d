package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/nodemutation/pkg/config"
	"github.com/yaklabco/nodemutation/pkg/runner"
)

func newTestCommand() *cobra.Command {
	var cfg config.Config
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "test [paths...]",
		Short: "Show the actions a mutation plan would perform",
		Long: `Replay a mutation plan and list the actions that survive conflict
resolution, without rewriting anything.

Examples:
  nodemutation test -p plan.yml src/                 # Action tree per file
  nodemutation test -p plan.yml --format table src/  # Tables of actions
  nodemutation test -p plan.yml --format json .      # Machine readable`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, args, &cfg, flags, runner.ModeTest)
		},
	}

	addRunFlags(cmd, &cfg, flags)

	return cmd
}
