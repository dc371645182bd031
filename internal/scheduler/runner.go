package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultInterval is the sweep tick used in production.
const DefaultInterval = 2 * time.Second

// Runner drives a Sweeper on a fixed tick. A tick that is still running
// when the next one fires is skipped rather than stacked, so a slow sweep
// never piles up concurrent passes from the same runner.
type Runner struct {
	cron    *cron.Cron
	sweeper *Sweeper
	now     func() time.Time
	logger  *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerClock overrides the wall clock the runner stamps sweeps with.
func WithRunnerClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// WithRunnerLogger overrides the structured logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner schedules sweeps every interval.
func NewRunner(sweeper *Sweeper, interval time.Duration, opts ...RunnerOption) (*Runner, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler: non-positive interval %s", interval)
	}

	r := &Runner{
		sweeper: sweeper,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", interval), r.tick); err != nil {
		return nil, fmt.Errorf("scheduler: add sweep job: %w", err)
	}

	return r, nil
}

// Start begins ticking in a background goroutine.
func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts the tick loop. The returned context is done once any
// in-flight sweep finishes.
func (r *Runner) Stop() context.Context {
	return r.cron.Stop()
}

func (r *Runner) tick() {
	now := r.now()
	stats, err := r.sweeper.Sweep(context.Background(), now)
	if err != nil {
		r.logger.Error("sweep aborted", "error", err)
		return
	}
	if stats.Total() > 0 || stats.Failures > 0 {
		r.logger.Info("sweep applied transitions",
			"spawns", stats.BouquetSpawns,
			"withered", stats.BouquetsWithered,
			"metamorphoses", stats.Metamorphoses,
			"matured", stats.FlowersMatured,
			"suns_expired", stats.SunsExpired,
			"failures", stats.Failures,
		)
	}
}
