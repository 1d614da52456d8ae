// Package probe checks where a repository keeps its documentation by issuing
// existence requests against the hosting provider's web UI.
package probe

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/metrics"
)

// StatusNoResponse is reported when a probe received no response at all.
// It counts as present: only a confirmed 404 means absent.
const StatusNoResponse = http.StatusInternalServerError

// DefaultTimeout bounds a single probe request.
const DefaultTimeout = 10 * time.Second

// Probe locations, used as metric and log labels.
const (
	LocationRootReadme = "root_readme"
	LocationDocsFolder = "docs_folder"
	LocationDocsReadme = "docs_readme"
)

// DocStatus holds the probe result of the three documentation locations.
type DocStatus struct {
	RootReadmeStatus int
	DocsFolderStatus int
	DocsReadmeStatus int
}

// Present reports whether a probe status means the location exists.
func Present(status int) bool { return status != http.StatusNotFound }

func (s DocStatus) RootReadmePresent() bool { return Present(s.RootReadmeStatus) }
func (s DocStatus) DocsFolderPresent() bool { return Present(s.DocsFolderStatus) }
func (s DocStatus) DocsReadmePresent() bool { return Present(s.DocsReadmeStatus) }

// AllAbsent reports whether every location was confirmed missing.
func (s DocStatus) AllAbsent() bool {
	return !s.RootReadmePresent() && !s.DocsFolderPresent() && !s.DocsReadmePresent()
}

// Checker performs a single existence check and returns a status code.
// Implementations never fail: a missing response maps to StatusNoResponse.
type Checker interface {
	Probe(ctx context.Context, rawURL string) int
}

// HTTPProber is a Checker issuing HEAD requests.
type HTTPProber struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPProber returns a prober using client (http.DefaultClient when nil)
// and a per-request timeout (DefaultTimeout when not positive).
func NewHTTPProber(client *http.Client, timeout time.Duration) *HTTPProber {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProber{client: client, timeout: timeout}
}

// Probe issues a HEAD request and returns the response status. Transport
// errors, timeouts and canceled contexts yield StatusNoResponse. Redirects
// are followed by the underlying client.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) int {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		slog.DebugContext(ctx, "Probe request could not be built", logfields.URL(rawURL), logfields.Error(err))
		return StatusNoResponse
	}
	resp, err := p.client.Do(req)
	if err != nil {
		slog.DebugContext(ctx, "Probe received no response", logfields.URL(rawURL), logfields.Error(err))
		return StatusNoResponse
	}
	_ = resp.Body.Close()
	return resp.StatusCode
}

// Prober classifies the documentation locations of repositories.
type Prober struct {
	checker  Checker
	webURL   string
	recorder metrics.Recorder
}

// Option configures a Prober.
type Option func(*Prober)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Prober) { p.recorder = metrics.OrNoop(r) }
}

// NewProber creates a Prober resolving locations against webURL,
// e.g. https://github.com.
func NewProber(checker Checker, webURL string, opts ...Option) *Prober {
	p := &Prober{checker: checker, webURL: webURL, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckDocumentationStatus probes the root README, the docs folder and the
// docs README of one repository concurrently. It never fails.
func (p *Prober) CheckDocumentationStatus(ctx context.Context, owner, repo, branch string) DocStatus {
	var status DocStatus
	targets := []struct {
		location string
		elems    []string
		dst      *int
	}{
		{LocationRootReadme, []string{owner, repo, "blob", branch, "README.md"}, &status.RootReadmeStatus},
		{LocationDocsFolder, []string{owner, repo, "tree", branch, "docs"}, &status.DocsFolderStatus},
		{LocationDocsReadme, []string{owner, repo, "blob", branch, "docs", "README.md"}, &status.DocsReadmeStatus},
	}

	var g errgroup.Group
	for _, t := range targets {
		g.Go(func() error {
			*t.dst = p.probe(ctx, t.location, t.elems)
			return nil
		})
	}
	_ = g.Wait()
	return status
}

func (p *Prober) probe(ctx context.Context, location string, elems []string) int {
	target, err := url.JoinPath(p.webURL, elems...)
	if err != nil {
		slog.WarnContext(ctx, "Invalid probe URL", slog.String("location", location), logfields.URL(p.webURL), logfields.Error(err))
		return StatusNoResponse
	}
	code := p.checker.Probe(ctx, target)
	slog.DebugContext(ctx, "Probed documentation location",
		slog.String("location", location),
		logfields.URL(target),
		logfields.Status(code))
	p.recorder.IncProbe(location, code)
	return code
}
