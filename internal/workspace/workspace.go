package workspace

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/logfields"
)

const (
	reposDir   = "repos"
	contentDir = "content"
	siteFile   = "site.yaml"
)

// Manager owns the output directory.
type Manager struct {
	root  string
	clean bool
}

// NewManager creates a manager for root. An empty root uses ".docpress"
// below the current directory.
func NewManager(root string, clean bool) *Manager {
	if root == "" {
		root = ".docpress"
	}
	return &Manager{root: root, clean: clean}
}

// Root returns the output directory.
func (m *Manager) Root() string { return m.root }

// ReposDir returns the checkout directory.
func (m *Manager) ReposDir() string { return filepath.Join(m.root, reposDir) }

// ContentDir returns the content directory.
func (m *Manager) ContentDir() string { return filepath.Join(m.root, contentDir) }

// Prepare creates the layout, removing generated trees first in clean mode.
func (m *Manager) Prepare(ctx context.Context) error {
	if m.clean {
		if err := m.Clean(ctx); err != nil {
			return err
		}
	}
	for _, dir := range []string{m.root, m.ReposDir(), m.ContentDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.FileSystemError("failed to create output directory").
				WithCause(err).
				WithContext("path", dir).
				Build()
		}
	}
	slog.DebugContext(ctx, "Prepared output directory", logfields.Path(m.root), slog.Bool("clean", m.clean))
	return nil
}

// Clean removes checkouts, content and the site file. Persisted records stay.
func (m *Manager) Clean(ctx context.Context) error {
	for _, p := range []string{m.ReposDir(), m.ContentDir(), filepath.Join(m.root, siteFile)} {
		if err := os.RemoveAll(p); err != nil {
			return errors.FileSystemError("failed to clean output directory").
				WithCause(err).
				WithContext("path", p).
				Build()
		}
	}
	slog.InfoContext(ctx, "Cleaned output directory", logfields.Path(m.root))
	return nil
}
