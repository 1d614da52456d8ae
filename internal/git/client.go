package git

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/metrics"
	"git.home.luguber.info/inful/docpress/internal/retry"
	"git.home.luguber.info/inful/docpress/internal/sparse"
)

// CheckoutRequest describes one sparse checkout.
type CheckoutRequest struct {
	Name     string
	CloneURL string
	DestDir  string
	Branch   string // empty checks out the remote HEAD
	Includes []string
}

// CheckoutResult reports what a checkout materialized.
type CheckoutResult struct {
	Commit string
	Files  []string // repository relative, slash separated
}

// Options configures a Client.
type Options struct {
	Token    string // used as x-access-token for http(s) remotes
	Depth    int    // 0 clones the full history
	Retry    retry.Policy
	Recorder metrics.Recorder
}

// Client performs sparse checkouts.
type Client struct {
	auth     transport.AuthMethod
	depth    int
	policy   retry.Policy
	recorder metrics.Recorder
	sleep    func(context.Context, time.Duration) error
}

// NewClient creates a Client. A zero retry policy disables retries.
func NewClient(opts Options) *Client {
	c := &Client{
		depth:    opts.Depth,
		policy:   opts.Retry,
		recorder: metrics.OrNoop(opts.Recorder),
		sleep:    retry.SleepContext,
	}
	if opts.Token != "" {
		c.auth = &githttp.BasicAuth{Username: "x-access-token", Password: opts.Token}
	}
	return c
}

// SparseCheckout clones req.CloneURL and writes the files selected by
// req.Includes under req.DestDir, which is emptied first.
func (c *Client) SparseCheckout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	start := time.Now()
	result, err := c.withRetry(ctx, "sparse_checkout", req.Name, func() (CheckoutResult, error) {
		return c.checkoutOnce(ctx, req)
	})
	c.recorder.ObserveCheckoutDuration(req.Name, time.Since(start), err == nil)
	c.recorder.IncCheckoutResult(err == nil)
	return result, err
}

func (c *Client) checkoutOnce(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	opts := &gogit.CloneOptions{
		URL:   req.CloneURL,
		Depth: c.depth,
		Tags:  gogit.NoTags,
	}
	if req.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(req.Branch)
		opts.SingleBranch = true
	}
	if c.auth != nil && isHTTPRemote(req.CloneURL) {
		opts.Auth = c.auth
	}

	slog.DebugContext(ctx, "Cloning repository",
		logfields.Repository(req.Name),
		logfields.URL(req.CloneURL),
		logfields.Branch(req.Branch),
		logfields.Includes(req.Includes))
	repo, err := gogit.CloneContext(ctx, memory.NewStorage(), nil, opts)
	if err != nil {
		return CheckoutResult{}, ClassifyGitError(err, "clone", req.CloneURL)
	}

	result, err := Materialize(repo, req.DestDir, req.Includes)
	if err != nil {
		return CheckoutResult{}, ClassifyGitError(err, "materialize", req.CloneURL)
	}
	slog.InfoContext(ctx, "Sparse checkout complete",
		logfields.Repository(req.Name),
		slog.String("commit", shortHash(result.Commit)),
		logfields.Count(len(result.Files)),
		logfields.Path(req.DestDir))
	return result, nil
}

// Materialize writes the files of repo's HEAD tree selected by includes
// under destDir. destDir is removed first. Only regular and executable files
// are written; symlinks and submodules are skipped.
func Materialize(repo *gogit.Repository, destDir string, includes []string) (CheckoutResult, error) {
	ref, err := repo.Head()
	if err != nil {
		return CheckoutResult{}, err
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return CheckoutResult{}, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return CheckoutResult{}, err
	}

	if err := os.RemoveAll(destDir); err != nil {
		return CheckoutResult{}, fsError("failed to clear checkout directory", destDir, err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return CheckoutResult{}, fsError("failed to create checkout directory", destDir, err)
	}

	matcher := sparse.NewMatcher(includes)
	result := CheckoutResult{Commit: commit.Hash.String(), Files: []string{}}
	err = tree.Files().ForEach(func(f *object.File) error {
		if f.Mode != filemode.Regular && f.Mode != filemode.Executable {
			return nil
		}
		if !matcher.Match(f.Name) {
			return nil
		}
		target, err := safeJoin(destDir, f.Name)
		if err != nil {
			return err
		}
		if err := writeBlob(f, target); err != nil {
			return err
		}
		result.Files = append(result.Files, f.Name)
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}
	return result, nil
}

func writeBlob(f *object.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fsError("failed to create directory", filepath.Dir(target), err)
	}
	mode := os.FileMode(0o644)
	if f.Mode == filemode.Executable {
		mode = 0o755
	}
	r, err := f.Reader()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fsError("failed to create file", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return fsError("failed to write file", target, err)
	}
	if err := out.Close(); err != nil {
		return fsError("failed to close file", target, err)
	}
	return nil
}

// safeJoin resolves a slash separated repository path under root.
func safeJoin(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", ErrPathEscape.WithContext("path", name)
	}
	return target, nil
}

func fsError(msg, path string, err error) error {
	return errors.FileSystemError(msg).WithCause(err).WithContext("path", path).Build()
}

func isHTTPRemote(url string) bool {
	return strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://")
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
