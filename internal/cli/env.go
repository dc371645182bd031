package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/verdantloop/garden/internal/balance"
	"github.com/verdantloop/garden/internal/game"
	"github.com/verdantloop/garden/internal/scheduler"
	"github.com/verdantloop/garden/internal/store"
)

// env is the wired-up world a command runs in: effective config, open
// store, tuning values, and the game service.
type env struct {
	cfg     Config
	tuning  balance.Config
	store   *store.Store
	svc     *game.Service
	catalog game.Catalog
	out     *OutputFormatter
}

// newEnv resolves configuration, opens the database, and builds the game
// service. When needUser is set, a missing --user (or GARDEN_USER) is a
// usage error; commands acting for a user also get their starting fields
// bootstrapped.
func newEnv(opts *RootOptions, cmd *cobra.Command, needUser bool) (*env, error) {
	setupLogging(opts.Verbose)

	cfg, err := opts.loadEffectiveConfig()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if needUser && cfg.User == "" {
		return nil, NewExitError(ExitCommandError, "no user set: pass --user or set GARDEN_USER")
	}

	tuning, err := balance.Load(cfg.BalanceDir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load balance config", err)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	catalog := game.DefaultCatalog()
	svc := game.NewService(st, catalog, game.WithConfig(tuning))

	if needUser {
		if err := st.EnsureFields(cmd.Context(), cfg.User, game.DefaultFieldLayout()); err != nil {
			_ = st.Close()
			return nil, WrapExitError(ExitCommandError, "failed to bootstrap fields", err)
		}
	}

	return &env{
		cfg:     cfg,
		tuning:  tuning,
		store:   st,
		svc:     svc,
		catalog: catalog,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}, nil
}

// close releases the store, logging rather than failing on error.
func (e *env) close() {
	if err := e.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// newSweeper builds a sweeper sharing the env's store and tuning.
func (e *env) newSweeper() *scheduler.Sweeper {
	return scheduler.NewSweeper(e.store, e.catalog, scheduler.WithConfig(e.tuning))
}

// commandError renders a game-rule rejection and converts it to an exit
// code: rejected commands exit 1, everything else exits 2.
func (e *env) commandError(err error) error {
	code := game.CodeOf(err)
	if code == "" {
		return WrapExitError(ExitCommandError, "command failed", err)
	}
	if ferr := e.out.Error(string(code), err.Error(), nil); ferr != nil {
		return WrapExitError(ExitCommandError, "failed to write output", ferr)
	}
	return NewExitError(ExitFailure, err.Error())
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// requireFieldIndex parses the positional field-index argument.
func requireFieldIndex(arg string) (int, error) {
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid field index %q", arg))
	}
	return idx, nil
}
