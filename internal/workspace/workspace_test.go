package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, root string) {
	t.Helper()
	for _, name := range []string{"repos/a/docs/x.md", "content/a/x.md", "site.yaml", "user-octocat.json"} {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}
}

func TestManager_PrepareClean(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	seed(t, root)

	mgr := NewManager(root, true)
	require.NoError(t, mgr.Prepare(t.Context()))

	require.DirExists(t, mgr.ReposDir())
	require.DirExists(t, mgr.ContentDir())
	require.NoFileExists(t, filepath.Join(root, "repos", "a", "docs", "x.md"))
	require.NoFileExists(t, filepath.Join(root, "content", "a", "x.md"))
	require.NoFileExists(t, filepath.Join(root, "site.yaml"))
	require.FileExists(t, filepath.Join(root, "user-octocat.json"))
}

func TestManager_PrepareKeep(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	seed(t, root)

	mgr := NewManager(root, false)
	require.NoError(t, mgr.Prepare(t.Context()))
	require.FileExists(t, filepath.Join(root, "repos", "a", "docs", "x.md"))
	require.FileExists(t, filepath.Join(root, "site.yaml"))
}

func TestManager_CreatesMissingRoot(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "nested", "out")
	mgr := NewManager(root, true)
	require.NoError(t, mgr.Prepare(t.Context()))
	require.DirExists(t, root)
	require.Equal(t, filepath.Join(root, "repos"), mgr.ReposDir())
	require.Equal(t, filepath.Join(root, "content"), mgr.ContentDir())
}

func TestNewManager_DefaultRoot(t *testing.T) {
	t.Parallel()

	require.Equal(t, ".docpress", NewManager("", false).Root())
}
