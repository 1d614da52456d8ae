package forge

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *GitHubClient {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewGitHubClient(GitHubOptions{
		Token:          "test-token",
		APIURL:         srv.URL,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	})
	require.NoError(t, err)
	return client
}

func TestGitHubClient_ListRepositoriesPaginates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "100", r.URL.Query().Get("per_page"))
		require.Equal(t, "owner", r.URL.Query().Get("type"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"name":"forked","owner":{"login":"octocat"},"fork":true,"size":3,"clone_url":"https://github.com/octocat/forked.git"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<http://%s/api/v3/users/octocat/repos?page=2&per_page=100&type=owner>; rel="next"`, r.Host))
		fmt.Fprint(w, `[{"name":"site","owner":{"login":"octocat"},"private":false,"default_branch":"trunk","size":42,`+
			`"clone_url":"https://github.com/octocat/site.git","description":"Site","html_url":"https://github.com/octocat/site"}]`)
	})

	repos, err := newTestClient(t, mux).ListRepositories(t.Context(), "octocat")
	require.NoError(t, err)
	require.Len(t, repos, 2)

	require.Equal(t, &Repository{
		Name:          "site",
		Owner:         Owner{Login: "octocat"},
		DefaultBranch: "trunk",
		Size:          42,
		CloneURL:      "https://github.com/octocat/site.git",
		Description:   "Site",
		HTMLURL:       "https://github.com/octocat/site",
	}, repos[0])
	require.True(t, repos[1].Fork)
	require.Equal(t, "forked", repos[1].Name)
}

func TestGitHubClient_GetUserInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"login":"octocat","name":"The Octocat","avatar_url":"https://a/1","html_url":"https://github.com/octocat","bio":"cat","blog":"https://blog","public_repos":8}`)
	})

	user, err := newTestClient(t, mux).GetUserInfo(t.Context(), "octocat")
	require.NoError(t, err)
	require.Equal(t, &UserInfo{
		Login:       "octocat",
		Name:        "The Octocat",
		AvatarURL:   "https://a/1",
		HTMLURL:     "https://github.com/octocat",
		Bio:         "cat",
		Blog:        "https://blog",
		PublicRepos: 8,
	}, user)
}

func TestGitHubClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, `{"message":"boom"}`, http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"login":"octocat"}`)
	})

	user, err := newTestClient(t, mux).GetUserInfo(t.Context(), "octocat")
	require.NoError(t, err)
	require.Equal(t, "octocat", user.Login)
	require.Equal(t, int32(3), calls.Load())
}

func TestGitHubClient_ClassifiesPermanentErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		category errors.ErrorCategory
	}{
		{"unauthorized", http.StatusUnauthorized, errors.CategoryAuth},
		{"not found", http.StatusNotFound, errors.CategoryNotFound},
		{"unprocessable", http.StatusUnprocessableEntity, errors.CategoryForge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			mux := http.NewServeMux()
			mux.HandleFunc("/api/v3/users/ghost/repos", func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message":"nope"}`)
			})

			_, err := newTestClient(t, mux).ListRepositories(t.Context(), "ghost")
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, tt.category), "got %v", err)
			require.Equal(t, int32(1), calls.Load(), "permanent errors must not be retried")
		})
	}
}

func TestGitHubClient_RequiresUsername(t *testing.T) {
	client, err := NewGitHubClient(GitHubOptions{})
	require.NoError(t, err)

	_, err = client.ListRepositories(t.Context(), "")
	require.ErrorIs(t, err, ErrUsernameRequired)
	_, err = client.GetUserInfo(t.Context(), "")
	require.ErrorIs(t, err, ErrUsernameRequired)
}
