package pipeline

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docpress/internal/enhance"
	"git.home.luguber.info/inful/docpress/internal/fetch"
	"git.home.luguber.info/inful/docpress/internal/metrics"
)

// Option configures a Runner.
type Option func(*Runner)

// WithProber replaces the HTTP documentation prober.
func WithProber(p enhance.DocProber) Option {
	return func(r *Runner) { r.prober = p }
}

// WithCheckouter replaces the git client used for sparse checkouts.
func WithCheckouter(c fetch.Checkouter) Option {
	return func(r *Runner) { r.checkouter = c }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) { r.recorder = metrics.OrNoop(rec) }
}

// WithGatherer sets the registry written to metrics.textfile after each run.
func WithGatherer(g prom.Gatherer) Option {
	return func(r *Runner) { r.gatherer = g }
}

// WithClock overrides the time source used for the site config.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}
