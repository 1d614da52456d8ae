package fetch

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpress/internal/filter"
	"git.home.luguber.info/inful/docpress/internal/forge"
	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/git"
)

type fakeCheckouter struct {
	mu       sync.Mutex
	requests map[string]git.CheckoutRequest
	fail     map[string]bool
}

func (f *fakeCheckouter) SparseCheckout(_ context.Context, req git.CheckoutRequest) (git.CheckoutResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.requests == nil {
		f.requests = map[string]git.CheckoutRequest{}
	}
	f.requests[req.Name] = req
	if f.fail[req.Name] {
		return git.CheckoutResult{}, errors.GitError("clone failed").Build()
	}
	return git.CheckoutResult{Commit: "abc123", Files: []string{"docs/index.md"}}, nil
}

func enhancedRepo(name string, includes []string) *forge.EnhancedRepository {
	return &forge.EnhancedRepository{
		Repository: forge.Repository{
			Name:     name,
			Owner:    forge.Owner{Login: "octocat"},
			CloneURL: fmt.Sprintf("https://github.com/octocat/%s.git", name),
			Size:     1,
		},
		Docpress: &forge.Docpress{
			Branch:      "main",
			Includes:    includes,
			ProjectPath: "/out/repos/" + name,
		},
	}
}

func TestGetDoc_EmptyIsNoop(t *testing.T) {
	checkouter := &fakeCheckouter{}
	summary, err := New(checkouter).GetDoc(t.Context(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, Summary{}, summary)
	require.Empty(t, checkouter.requests)
}

func TestGetDoc_ChecksOutEligible(t *testing.T) {
	fork := enhancedRepo("forked", []string{"docs/*"})
	fork.Fork = true
	filtered := enhancedRepo("legacy", []string{"docs/*"})
	filtered.Docpress.Filtered = true
	unenhanced := &forge.EnhancedRepository{Repository: forge.Repository{Name: "raw", CloneURL: "x"}}

	repos := []*forge.EnhancedRepository{
		enhancedRepo("site", []string{"docs/*"}),
		enhancedRepo("empty", []string{}),
		fork,
		filtered,
		unenhanced,
		enhancedRepo("api", []string{"README.md", "!*/**/README.md"}),
	}
	checkouter := &fakeCheckouter{}
	summary, err := New(checkouter, WithConcurrency(2)).GetDoc(t.Context(), repos, filter.ParseTokens([]string{"!legacy"}))
	require.NoError(t, err)

	require.Equal(t, []string{"site", "api"}, summary.Requested)
	require.Equal(t, []string{"api", "site"}, summary.Succeeded)
	require.Empty(t, summary.Failed)
	require.ElementsMatch(t, []string{"empty", "forked", "legacy", "raw"}, summary.Skipped)
	require.Equal(t, "abc123", summary.Results["site"].Commit)

	require.Equal(t, git.CheckoutRequest{
		Name:     "api",
		CloneURL: "https://github.com/octocat/api.git",
		DestDir:  "/out/repos/api",
		Branch:   "main",
		Includes: []string{"README.md", "!*/**/README.md"},
	}, checkouter.requests["api"])
}

func TestGetDoc_FailureDoesNotAbortSiblings(t *testing.T) {
	repos := []*forge.EnhancedRepository{
		enhancedRepo("one", []string{"docs/*"}),
		enhancedRepo("two", []string{"docs/*"}),
		enhancedRepo("three", []string{"docs/*"}),
	}
	checkouter := &fakeCheckouter{fail: map[string]bool{"two": true}}

	summary, err := New(checkouter).GetDoc(t.Context(), repos, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"one", "three"}, summary.Succeeded)
	require.Equal(t, []string{"two"}, summary.Failed)
	require.Len(t, checkouter.requests, 3)
}

func TestGetDoc_NothingEligible(t *testing.T) {
	summary, err := New(&fakeCheckouter{}).GetDoc(t.Context(), []*forge.EnhancedRepository{enhancedRepo("empty", []string{})}, nil)
	require.NoError(t, err)
	require.Empty(t, summary.Requested)
	require.Equal(t, []string{"empty"}, summary.Skipped)
}
