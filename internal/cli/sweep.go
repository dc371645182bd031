package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewSweepCommand creates the sweep command: a single scheduler pass.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Apply all due transitions once and exit",
		Long: `Run one scheduler pass against the configured database.

Useful for cron-style deployments and for advancing a test database
without a long-running serve process.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts, cmd, false)
			if err != nil {
				return err
			}
			defer e.close()

			stats, err := e.newSweeper().Sweep(cmd.Context(), time.Now())
			if err != nil {
				return WrapExitError(ExitCommandError, "sweep failed", err)
			}

			if rootOpts.Format == "json" {
				return e.out.Success(stats)
			}
			fmt.Fprintf(e.out.Writer,
				"applied %d transitions (%d spawns, %d withered, %d metamorphoses, %d matured, %d suns expired, %d failures)\n",
				stats.Total(), stats.BouquetSpawns, stats.BouquetsWithered,
				stats.Metamorphoses, stats.FlowersMatured, stats.SunsExpired, stats.Failures)
			return nil
		},
	}
	return cmd
}
