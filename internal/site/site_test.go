package site

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docpress/internal/forge"
)

func repo(name, branch string) *forge.EnhancedRepository {
	return &forge.EnhancedRepository{
		Repository: forge.Repository{
			Name:        name,
			Description: name + " docs",
			HTMLURL:     "https://github.com/octocat/" + name,
		},
		Docpress: &forge.Docpress{Branch: branch},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	repos := []*forge.EnhancedRepository{
		repo("zeta", "main"),
		repo("Alpha Repo", "develop"),
		repo("skipped", "main"),
		{Repository: forge.Repository{Name: "bare"}},
	}

	cfg := Build(repos, []string{"zeta", "Alpha Repo", "bare"}, Options{
		Title:   "Docs",
		BaseURL: "https://docs.example.com",
		Now:     func() time.Time { return fixed },
	})

	require.Equal(t, "Docs", cfg.Title)
	require.Equal(t, fixed.UTC(), cfg.GeneratedAt)
	require.Len(t, cfg.Projects, 2)
	require.Equal(t, Project{
		Name:        "Alpha Repo",
		Description: "Alpha Repo docs",
		HTMLURL:     "https://github.com/octocat/Alpha Repo",
		Path:        "content/alpha-repo",
		Branch:      "develop",
	}, cfg.Projects[0])
	require.Equal(t, "zeta", cfg.Projects[1].Name)
}

func TestBuild_NoProjects(t *testing.T) {
	t.Parallel()

	cfg := Build(nil, nil, Options{Title: "Docs"})
	require.NotNil(t, cfg.Projects)
	require.Empty(t, cfg.Projects)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	cfg := Build([]*forge.EnhancedRepository{repo("a", "main")}, []string{"a"}, Options{Title: "Docs"})

	path, err := Write(dir, cfg)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	require.Equal(t, "Docs", raw["title"])
	require.Contains(t, raw, "generated_at")
	projects, ok := raw["projects"].([]any)
	require.True(t, ok)
	require.Len(t, projects, 1)
	first, ok := projects[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "content/a", first["path"])
	require.Equal(t, "main", first["branch"])
	require.NotContains(t, raw, "base_url")
}
