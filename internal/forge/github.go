package forge

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	gh "github.com/google/go-github/v66/github"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/logfields"
)

const (
	listPageSize       = 100
	defaultMaxAttempts = 4
)

// GitHubOptions configures a GitHubClient.
type GitHubOptions struct {
	Token      string
	APIURL     string // GitHub Enterprise API base; empty for github.com
	HTTPClient *http.Client
	// MaxAttempts bounds API calls per operation, including the first one.
	MaxAttempts int
	// InitialBackoff overrides the first retry delay; zero keeps the backoff default.
	InitialBackoff time.Duration
}

// GitHubClient implements Provider on the GitHub REST API.
type GitHubClient struct {
	client      *gh.Client
	maxAttempts int
	initial     time.Duration
}

// NewGitHubClient creates a new GitHub client.
func NewGitHubClient(opts GitHubOptions) (*GitHubClient, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	client := gh.NewClient(httpClient)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	if opts.APIURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(opts.APIURL, opts.APIURL)
		if err != nil {
			return nil, errors.ConfigError("invalid GitHub API URL").
				WithCause(err).
				WithContext("api_url", opts.APIURL).
				Build()
		}
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	return &GitHubClient{client: client, maxAttempts: attempts, initial: opts.InitialBackoff}, nil
}

// ListRepositories returns every repository owned by username, following pagination.
func (c *GitHubClient) ListRepositories(ctx context.Context, username string) ([]*Repository, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}

	opts := &gh.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: gh.ListOptions{PerPage: listPageSize},
	}
	var repos []*Repository
	for {
		var page []*gh.Repository
		var resp *gh.Response
		err := c.withRetry(ctx, "list_repositories", username, func() error {
			var err error
			page, resp, err = c.client.Repositories.ListByUser(ctx, username, opts)
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, r := range page {
			repos = append(repos, fromGitHubRepository(r))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	slog.InfoContext(ctx, "Listed repositories", logfields.Owner(username), logfields.Count(len(repos)))
	return repos, nil
}

// GetUserInfo returns the public profile of username.
func (c *GitHubClient) GetUserInfo(ctx context.Context, username string) (*UserInfo, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}

	var user *gh.User
	err := c.withRetry(ctx, "get_user", username, func() error {
		var err error
		user, _, err = c.client.Users.Get(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &UserInfo{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		AvatarURL:   user.GetAvatarURL(),
		HTMLURL:     user.GetHTMLURL(),
		Bio:         user.GetBio(),
		Blog:        user.GetBlog(),
		PublicRepos: user.GetPublicRepos(),
	}, nil
}

// withRetry runs call with exponential backoff. Classified errors that are
// not retryable stop the loop immediately.
func (c *GitHubClient) withRetry(ctx context.Context, op, username string, call func() error) error {
	policy := backoff.NewExponentialBackOff()
	if c.initial > 0 {
		policy.InitialInterval = c.initial
	}
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxAttempts-1)), ctx)

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		if err := call(); err != nil {
			classified := classifyAPIError(err, op, username)
			if ce, ok := errors.AsClassified(classified); ok && !ce.CanRetry() {
				return backoff.Permanent(classified)
			}
			return classified
		}
		return nil
	}, b, func(err error, wait time.Duration) {
		slog.WarnContext(ctx, "GitHub API call failed, retrying",
			slog.String("operation", op),
			slog.Int("attempt", attempt),
			logfields.DurationMS(float64(wait.Milliseconds())),
			logfields.Error(err))
	})
	if err != nil && ctx.Err() != nil {
		return errors.RuntimeError("GitHub API call canceled").
			WithCause(ctx.Err()).
			WithContext("operation", op).
			Build()
	}
	return err
}

func fromGitHubRepository(r *gh.Repository) *Repository {
	return &Repository{
		Name:          r.GetName(),
		Owner:         Owner{Login: r.GetOwner().GetLogin()},
		Private:       r.GetPrivate(),
		Fork:          r.GetFork(),
		DefaultBranch: r.GetDefaultBranch(),
		Size:          r.GetSize(),
		CloneURL:      r.GetCloneURL(),
		Description:   r.GetDescription(),
		HTMLURL:       r.GetHTMLURL(),
	}
}
