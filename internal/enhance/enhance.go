// Package enhance attaches the docpress block to listed repositories.
package enhance

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docpress/internal/filter"
	"git.home.luguber.info/inful/docpress/internal/forge"
	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/metrics"
	"git.home.luguber.info/inful/docpress/internal/probe"
	"git.home.luguber.info/inful/docpress/internal/sparse"
)

// FallbackBranch is used when neither an explicit nor a default branch is known.
const FallbackBranch = "main"

// DefaultConcurrency bounds parallel repository enhancements.
const DefaultConcurrency = 16

// DocProber classifies the documentation locations of one repository.
type DocProber interface {
	CheckDocumentationStatus(ctx context.Context, owner, repo, branch string) probe.DocStatus
}

// Options configures an Enhancer.
type Options struct {
	OutputDir   string // projectPath root; checkouts live under <OutputDir>/repos
	WebURL      string // e.g. https://github.com
	RawURL      string // e.g. https://raw.githubusercontent.com
	Concurrency int
	Recorder    metrics.Recorder
}

// Enhancer runs probing, inclusion policy and filtering over a listing.
type Enhancer struct {
	prober DocProber
	opts   Options
}

// New creates an Enhancer.
func New(prober DocProber, opts Options) *Enhancer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	opts.WebURL = strings.TrimRight(opts.WebURL, "/")
	opts.RawURL = strings.TrimRight(opts.RawURL, "/")
	opts.Recorder = metrics.OrNoop(opts.Recorder)
	return &Enhancer{prober: prober, opts: opts}
}

// EnhanceRepositories returns one enhanced record per input repository, in
// input order. A repository is probed only when it is neither a fork, private
// nor filtered; every other repository gets an empty inclusion set. Probe
// failures degrade to per-repository statuses and never affect siblings.
func (e *Enhancer) EnhanceRepositories(ctx context.Context, repos []*forge.Repository, branch string, tokens filter.Tokens) []*forge.EnhancedRepository {
	start := time.Now()
	out := make([]*forge.EnhancedRepository, len(repos))

	var g errgroup.Group
	g.SetLimit(e.opts.Concurrency)
	for i, repo := range repos {
		g.Go(func() error {
			out[i] = e.enhance(ctx, repo, branch, tokens)
			return nil
		})
	}
	_ = g.Wait()

	filtered, withDocs := 0, 0
	for _, r := range out {
		if r.Docpress.Filtered {
			filtered++
		}
		if len(r.Docpress.Includes) > 0 {
			withDocs++
		}
	}
	slog.InfoContext(ctx, "Enhanced repositories",
		logfields.Count(len(out)),
		slog.Int("filtered", filtered),
		slog.Int("with_docs", withDocs),
		logfields.Since(start))
	return out
}

func (e *Enhancer) enhance(ctx context.Context, repo *forge.Repository, branch string, tokens filter.Tokens) *forge.EnhancedRepository {
	effective := EffectiveBranch(branch, repo.DefaultBranch)
	decision := filter.EvaluateRepository(repo, tokens)
	e.opts.Recorder.IncRepositoryDecision(string(decision.Reason))

	includes := []string{}
	if !repo.Fork && !repo.Private && !decision.Filtered {
		status := e.prober.CheckDocumentationStatus(ctx, repo.Owner.Login, repo.Name, effective)
		includes = sparse.ComputeIncludes(status, repo.Size)
	}

	if decision.Filtered {
		slog.DebugContext(ctx, "Repository filtered",
			logfields.Repository(repo.Name),
			logfields.Branch(effective),
			logfields.Reason(string(decision.Reason)),
			slog.String("token", decision.Token))
	} else {
		slog.DebugContext(ctx, "Repository enhanced",
			logfields.Repository(repo.Name),
			logfields.Branch(effective),
			logfields.Includes(includes))
	}

	return &forge.EnhancedRepository{
		Repository: *repo,
		Docpress: &forge.Docpress{
			Branch:      effective,
			Filtered:    decision.Filtered,
			Includes:    includes,
			ProjectPath: e.ProjectPath(repo.Name),
			RawURL:      strings.Join([]string{e.opts.RawURL, repo.Owner.Login, repo.Name, effective}, "/"),
			ReplaceURL:  strings.Join([]string{e.opts.WebURL, repo.Owner.Login, repo.Name, "blob", effective}, "/"),
		},
	}
}

// ProjectPath is the checkout directory of a repository.
func (e *Enhancer) ProjectPath(name string) string {
	return filepath.Join(e.opts.OutputDir, "repos", Slug(name))
}

// EffectiveBranch picks the explicit branch, else the default branch, else FallbackBranch.
func EffectiveBranch(explicit, defaultBranch string) string {
	if b := strings.TrimSpace(explicit); b != "" {
		return b
	}
	if defaultBranch != "" {
		return defaultBranch
	}
	return FallbackBranch
}
