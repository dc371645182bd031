package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verdantloop/garden/internal/scheduler"
)

// NewServeCommand creates the serve command: the long-running spawn
// scheduler process.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the spawn scheduler",
		Long: `Run the periodic spawn scheduler against the configured database.

Every tick, entities whose deadline has passed are transitioned: bouquets
fire spawn slots or wither, field butterflies turn into caterpillars,
flowers mature, and uncollected suns expire.

Example:
  garden serve --db ./garden.db
  garden serve --db ./garden.db --balance ./tuning -v`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, cmd)
		},
	}
	return cmd
}

func runServe(opts *RootOptions, cmd *cobra.Command) error {
	e, err := newEnv(opts, cmd, false)
	if err != nil {
		return err
	}
	defer e.close()

	runner, err := scheduler.NewRunner(e.newSweeper(), e.cfg.SweepInterval)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build scheduler", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	slog.Info("scheduler starting",
		"db", e.cfg.Database, "interval", e.cfg.SweepInterval)
	fmt.Fprintln(cmd.OutOrStdout(), "Scheduler started. Press Ctrl-C to stop.")

	runner.Start()
	<-ctx.Done()
	<-runner.Stop().Done()

	slog.Info("scheduler stopped gracefully")
	return nil
}
