// Package pipeline runs docpress end to end: discover, enhance, persist,
// fetch, normalize content and emit the site config.
package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/content"
	"git.home.luguber.info/inful/docpress/internal/enhance"
	"git.home.luguber.info/inful/docpress/internal/fetch"
	"git.home.luguber.info/inful/docpress/internal/filter"
	"git.home.luguber.info/inful/docpress/internal/forge"
	"git.home.luguber.info/inful/docpress/internal/git"
	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/metrics"
	"git.home.luguber.info/inful/docpress/internal/observability"
	"git.home.luguber.info/inful/docpress/internal/probe"
	"git.home.luguber.info/inful/docpress/internal/retry"
	"git.home.luguber.info/inful/docpress/internal/site"
	"git.home.luguber.info/inful/docpress/internal/state"
	"git.home.luguber.info/inful/docpress/internal/workspace"
)

// Stage names used in logs and metrics.
const (
	StagePrepare  = "prepare"
	StageDiscover = "discover"
	StageEnhance  = "enhance"
	StagePersist  = "persist"
	StageLoad     = "load"
	StageFetch    = "fetch"
	StageContent  = "content"
	StageSite     = "site"
)

// Report summarizes one run.
type Report struct {
	RunID      string
	User       *forge.UserInfo
	Listed     int
	Enhanced   []*forge.EnhancedRepository
	Fetch      fetch.Summary
	Content    []content.Result
	SiteFile   string
	Stages     map[string]time.Duration
	Duration   time.Duration
	Outcome    metrics.ResultLabel
	StateFiles []string
}

// Runner executes the pipeline stages for one configuration.
type Runner struct {
	cfg        *config.Config
	provider   forge.Provider
	prober     enhance.DocProber
	checkouter fetch.Checkouter
	recorder   metrics.Recorder
	gatherer   prom.Gatherer
	now        func() time.Time
	workspace  *workspace.Manager
	store      *state.Store
}

// New creates a Runner. Without options it probes over HTTP and checks out
// with the go-git client.
func New(cfg *config.Config, provider forge.Provider, opts ...Option) *Runner {
	r := &Runner{
		cfg:       cfg,
		provider:  provider,
		recorder:  metrics.NoopRecorder{},
		now:       time.Now,
		workspace: workspace.NewManager(cfg.Output.Directory, cfg.Output.Clean),
		store:     state.NewStore(cfg.Output.Directory),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.prober == nil {
		checker := probe.NewHTTPProber(&http.Client{}, cfg.ProbeTimeout())
		r.prober = probe.NewProber(checker, cfg.GitHub.WebURL, probe.WithRecorder(r.recorder))
	}
	if r.checkouter == nil {
		r.checkouter = git.NewClient(git.Options{
			Token:    cfg.GitHub.Token,
			Depth:    cfg.Fetch.Depth,
			Retry:    retry.FromConfig(cfg),
			Recorder: r.recorder,
		})
	}
	return r
}

// FromConfig wires a Runner on the GitHub REST API.
func FromConfig(cfg *config.Config, opts ...Option) (*Runner, error) {
	provider, err := forge.NewGitHubClient(forge.GitHubOptions{
		Token:  cfg.GitHub.Token,
		APIURL: cfg.GitHub.APIURL,
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, provider, opts...), nil
}

// Run executes every stage.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	return r.execute(ctx, "build", true, func(ctx context.Context, rep *Report) error {
		if err := r.discover(ctx, rep); err != nil {
			return err
		}
		return r.publish(ctx, rep)
	})
}

// Discover lists, enhances and persists repositories without fetching. The
// output directory is left as is apart from the state files.
func (r *Runner) Discover(ctx context.Context) (*Report, error) {
	return r.execute(ctx, "discover", false, r.discover)
}

// FetchFromState fetches documentation for the repositories persisted by a
// previous discover run.
func (r *Runner) FetchFromState(ctx context.Context) (*Report, error) {
	return r.execute(ctx, "fetch", true, func(ctx context.Context, rep *Report) error {
		err := r.stage(ctx, rep, StageLoad, func(context.Context) error {
			repos, err := r.store.LoadRepositories(r.cfg.GitHub.Username)
			if err != nil {
				return err
			}
			rep.Enhanced = repos
			rep.Listed = len(repos)
			return nil
		})
		if err != nil {
			return err
		}
		return r.publish(ctx, rep)
	})
}

// execute wraps body with the run id, outcome metrics and the textfile.
// prepare lays out (and in clean mode clears) the output directory first.
func (r *Runner) execute(ctx context.Context, mode string, prepare bool, body func(context.Context, *Report) error) (*Report, error) {
	start := time.Now()
	rep := &Report{RunID: uuid.NewString(), Stages: map[string]time.Duration{}}
	ctx = observability.WithUser(observability.WithRunID(ctx, rep.RunID), r.cfg.GitHub.Username)
	slog.InfoContext(ctx, "Run started", slog.String("mode", mode), logfields.Path(r.workspace.Root()))

	var err error
	if prepare {
		err = r.stage(ctx, rep, StagePrepare, r.workspace.Prepare)
	}
	if err == nil {
		err = body(ctx, rep)
	}

	rep.Duration = time.Since(start)
	rep.Outcome = outcome(ctx, err)
	r.recorder.ObserveRunDuration(rep.Duration)
	r.recorder.IncRunOutcome(rep.Outcome)
	r.writeTextfile(ctx)

	if err != nil {
		slog.ErrorContext(ctx, "Run failed", slog.String("outcome", string(rep.Outcome)), logfields.Error(err))
		return rep, err
	}
	slog.InfoContext(ctx, "Run finished",
		slog.String("outcome", string(rep.Outcome)),
		logfields.DurationMS(float64(rep.Duration.Microseconds())/1000))
	return rep, nil
}

func (r *Runner) discover(ctx context.Context, rep *Report) error {
	username := r.cfg.GitHub.Username
	var repos []*forge.Repository

	err := r.stage(ctx, rep, StageDiscover, func(ctx context.Context) error {
		user, err := r.provider.GetUserInfo(ctx, username)
		if err != nil {
			return err
		}
		rep.User = user
		repos, err = r.provider.ListRepositories(ctx, username)
		if err != nil {
			return err
		}
		rep.Listed = len(repos)
		return nil
	})
	if err != nil {
		return err
	}

	err = r.stage(ctx, rep, StageEnhance, func(ctx context.Context) error {
		enhancer := enhance.New(r.prober, enhance.Options{
			OutputDir:   r.workspace.Root(),
			WebURL:      r.cfg.GitHub.WebURL,
			RawURL:      r.cfg.GitHub.RawURL,
			Concurrency: r.cfg.Enhance.Concurrency,
			Recorder:    r.recorder,
		})
		rep.Enhanced = enhancer.EnhanceRepositories(ctx, repos, r.cfg.Branch, r.tokens())
		return ctx.Err()
	})
	if err != nil {
		return err
	}

	// Both records are keyed by the login GitHub returns, not the
	// configured spelling.
	return r.stage(ctx, rep, StagePersist, func(ctx context.Context) error {
		login := rep.User.Login
		if err := r.store.SaveUser(ctx, rep.User); err != nil {
			return err
		}
		if err := r.store.SaveRepositories(ctx, login, rep.Enhanced); err != nil {
			return err
		}
		rep.StateFiles = []string{r.store.UserPath(login), r.store.RepositoriesPath(login)}
		return nil
	})
}

func (r *Runner) publish(ctx context.Context, rep *Report) error {
	err := r.stage(ctx, rep, StageFetch, func(ctx context.Context) error {
		fetcher := fetch.New(r.checkouter,
			fetch.WithConcurrency(r.cfg.Fetch.Concurrency),
			fetch.WithRecorder(r.recorder))
		summary, err := fetcher.GetDoc(ctx, rep.Enhanced, r.tokens())
		rep.Fetch = summary
		return err
	})
	if err != nil {
		return err
	}

	err = r.stage(ctx, rep, StageContent, func(ctx context.Context) error {
		results, err := content.New(r.workspace.Root()).Normalize(ctx, rep.Enhanced, rep.Fetch.Succeeded)
		rep.Content = results
		return err
	})
	if err != nil {
		return err
	}

	return r.stage(ctx, rep, StageSite, func(context.Context) error {
		cfg := site.Build(rep.Enhanced, rep.Fetch.Succeeded, site.Options{
			Title:       r.cfg.Site.Title,
			Description: r.cfg.Site.Description,
			BaseURL:     r.cfg.Site.BaseURL,
			Now:         r.now,
		})
		path, err := site.Write(r.workspace.Root(), cfg)
		rep.SiteFile = path
		return err
	})
}

// stage times fn and records its result under name.
func (r *Runner) stage(ctx context.Context, rep *Report, name string, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, name)
	start := time.Now()
	slog.DebugContext(ctx, "Stage started")

	err := fn(ctx)
	d := time.Since(start)
	rep.Stages[name] = d
	r.recorder.ObserveStageDuration(name, d)
	r.recorder.IncStageResult(name, outcome(ctx, err))

	if err != nil {
		slog.ErrorContext(ctx, "Stage failed", logfields.Error(err), logfields.Since(start))
		return err
	}
	slog.InfoContext(ctx, "Stage finished", logfields.Since(start))
	return nil
}

func (r *Runner) tokens() filter.Tokens {
	return filter.ParseTokens(r.cfg.Filter)
}

func (r *Runner) writeTextfile(ctx context.Context) {
	path := r.cfg.Metrics.Textfile
	if path == "" || r.gatherer == nil {
		return
	}
	if err := metrics.WriteTextfile(path, r.gatherer); err != nil {
		slog.WarnContext(ctx, "Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}

func outcome(ctx context.Context, err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case ctx.Err() != nil:
		return metrics.ResultCanceled
	default:
		return metrics.ResultFatal
	}
}
