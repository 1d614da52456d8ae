// Package fetch performs the sparse checkouts of every eligible repository.
package fetch

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docpress/internal/filter"
	"git.home.luguber.info/inful/docpress/internal/forge"
	"git.home.luguber.info/inful/docpress/internal/git"
	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/metrics"
)

// DefaultConcurrency bounds parallel checkouts.
const DefaultConcurrency = 8

// Checkouter performs one sparse checkout.
type Checkouter interface {
	SparseCheckout(ctx context.Context, req git.CheckoutRequest) (git.CheckoutResult, error)
}

// Summary lists repository names by outcome.
type Summary struct {
	Requested []string
	Skipped   []string
	Succeeded []string
	Failed    []string
	// Results holds the checkout result of every succeeded repository.
	Results map[string]git.CheckoutResult
}

// Fetcher runs checkouts for enhanced repositories.
type Fetcher struct {
	checkouter  Checkouter
	concurrency int
	recorder    metrics.Recorder
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithConcurrency overrides DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(f *Fetcher) { f.recorder = metrics.OrNoop(r) }
}

// New creates a Fetcher.
func New(c Checkouter, opts ...Option) *Fetcher {
	f := &Fetcher{checkouter: c, concurrency: DefaultConcurrency, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// GetDoc re-evaluates the filter on every enhanced record and checks out the
// survivors concurrently with their precomputed branch and includes. A failed
// checkout is logged and counted; it never fails the batch. An empty list is
// a warning, not an error.
func (f *Fetcher) GetDoc(ctx context.Context, repos []*forge.EnhancedRepository, tokens filter.Tokens) (Summary, error) {
	var summary Summary
	if len(repos) == 0 {
		slog.WarnContext(ctx, "No repositories to fetch documentation from")
		return summary, nil
	}

	var eligible []*forge.EnhancedRepository
	for _, r := range repos {
		if r.Docpress == nil {
			summary.Skipped = append(summary.Skipped, r.Name)
			slog.WarnContext(ctx, "Skipping repository without docpress block", logfields.Repository(r.Name))
			continue
		}
		if d := filter.Evaluate(r, tokens); d.Filtered {
			summary.Skipped = append(summary.Skipped, r.Name)
			slog.DebugContext(ctx, "Skipping filtered repository", logfields.Repository(r.Name), logfields.Reason(string(d.Reason)))
			continue
		}
		eligible = append(eligible, r)
		summary.Requested = append(summary.Requested, r.Name)
	}
	if len(eligible) == 0 {
		slog.WarnContext(ctx, "No eligible repositories to fetch", logfields.Count(len(repos)))
		return summary, nil
	}

	start := time.Now()
	f.recorder.SetCheckoutConcurrency(f.concurrency)

	var mu sync.Mutex
	summary.Results = make(map[string]git.CheckoutResult, len(eligible))
	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for _, r := range eligible {
		g.Go(func() error {
			res, err := f.checkouter.SparseCheckout(ctx, git.CheckoutRequest{
				Name:     r.Name,
				CloneURL: r.CloneURL,
				DestDir:  r.Docpress.ProjectPath,
				Branch:   r.Docpress.Branch,
				Includes: r.Docpress.Includes,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.ErrorContext(ctx, "Checkout failed", logfields.Repository(r.Name), logfields.Branch(r.Docpress.Branch), logfields.Error(err))
				summary.Failed = append(summary.Failed, r.Name)
				return nil
			}
			summary.Succeeded = append(summary.Succeeded, r.Name)
			summary.Results[r.Name] = res
			return nil
		})
	}
	_ = g.Wait()
	slices.Sort(summary.Succeeded)
	slices.Sort(summary.Failed)

	slog.InfoContext(ctx, "Fetched documentation",
		slog.Int("requested", len(summary.Requested)),
		slog.Int("succeeded", len(summary.Succeeded)),
		slog.Int("failed", len(summary.Failed)),
		slog.Int("skipped", len(summary.Skipped)),
		logfields.Since(start))
	return summary, ctx.Err()
}
