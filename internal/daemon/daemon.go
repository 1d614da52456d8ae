// Package daemon runs the pipeline periodically and again whenever the
// configuration file changes.
package daemon

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/logfields"
)

const jobName = "docpress-run"

// RunFunc executes one pipeline run for cfg.
type RunFunc func(ctx context.Context, cfg *config.Config) error

// LoadFunc reads the configuration file.
type LoadFunc func(path string) (*config.Config, error)

// Option configures a Daemon.
type Option func(*Daemon)

// WithLoader replaces config.Load for reloads.
func WithLoader(load LoadFunc) Option {
	return func(d *Daemon) { d.load = load }
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(debounce time.Duration) Option {
	return func(d *Daemon) { d.debounce = debounce }
}

// Daemon owns the schedule and the current configuration.
type Daemon struct {
	configPath string
	run        RunFunc
	load       LoadFunc
	debounce   time.Duration

	mu    sync.Mutex
	cfg   *config.Config
	jobID uuid.UUID

	runs atomic.Int64
}

// New creates a Daemon. An empty configPath disables config watching.
func New(configPath string, cfg *config.Config, run RunFunc, opts ...Option) *Daemon {
	d := &Daemon{
		configPath: configPath,
		run:        run,
		load:       config.Load,
		debounce:   DefaultDebounce,
		cfg:        cfg,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Runs returns the number of completed pipeline runs.
func (d *Daemon) Runs() int64 { return d.runs.Load() }

// Config returns the configuration used by the next run.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Run blocks until ctx is done. The first pipeline run starts immediately.
func (d *Daemon) Run(ctx context.Context) error {
	sched, err := NewScheduler()
	if err != nil {
		return err
	}
	task := func() { d.runOnce(ctx) }

	interval := d.Config().DaemonInterval()
	id, err := sched.ScheduleEvery(jobName, interval, task)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.jobID = id
	d.mu.Unlock()

	sched.Start()
	slog.Info("Daemon started", slog.Duration("interval", interval))

	if d.configPath != "" {
		watcher, err := NewConfigWatcher(d.configPath, d.debounce, func() { d.reload(sched, task) })
		if err != nil {
			_ = sched.Stop()
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			_ = sched.Stop()
			return err
		}
		defer watcher.Stop()
	}

	<-ctx.Done()
	slog.Info("Daemon stopping")
	if err := sched.Stop(); err != nil {
		slog.Warn("Scheduler shutdown failed", logfields.Error(err))
	}
	return nil
}

func (d *Daemon) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := d.run(ctx, d.Config()); err != nil {
		slog.Error("Scheduled run failed", logfields.Error(err), logfields.Since(start))
	} else {
		slog.Info("Scheduled run finished", logfields.Since(start))
	}
	d.runs.Add(1)
}

// jobScheduler is the part of Scheduler that reload needs.
type jobScheduler interface {
	Reschedule(id uuid.UUID, name string, interval time.Duration, task func()) error
	RunNow(id uuid.UUID) error
}

// reload swaps in the new configuration and triggers a run. An invalid file
// keeps the previous configuration, and so does a failed reschedule, so the
// active configuration always matches the job's interval.
func (d *Daemon) reload(sched jobScheduler, task func()) {
	cfg, err := d.load(d.configPath)
	if err != nil {
		slog.Error("Config reload failed; keeping previous configuration", logfields.Path(d.configPath), logfields.Error(err))
		return
	}

	d.mu.Lock()
	previous := d.cfg.DaemonInterval()
	id := d.jobID
	d.mu.Unlock()

	interval := cfg.DaemonInterval()
	if interval != previous {
		if err := sched.Reschedule(id, jobName, interval, task); err != nil {
			slog.Error("Failed to reschedule run; keeping previous configuration",
				slog.Duration("interval", previous),
				logfields.Error(err))
			return
		}
	}

	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()

	slog.Info("Configuration reloaded; triggering run", logfields.Path(d.configPath), slog.Duration("interval", interval))
	if err := sched.RunNow(id); err != nil {
		slog.Error("Failed to trigger run", logfields.Error(err))
	}
}
