package state

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docpress/internal/forge"
	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/logfields"
)

// Store writes and reads run records under a base directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the base directory.
func (s *Store) Dir() string { return s.dir }

// UserPath returns the user record location for login.
func (s *Store) UserPath(login string) string {
	return filepath.Join(s.dir, "user-"+login+".json")
}

// RepositoriesPath returns the repository list location for login.
func (s *Store) RepositoriesPath(login string) string {
	return filepath.Join(s.dir, "repos-"+login+".json")
}

// SaveUser writes the user record.
func (s *Store) SaveUser(ctx context.Context, user *forge.UserInfo) error {
	if user == nil || user.Login == "" {
		return errors.ValidationError("user record without login").Build()
	}
	return s.writeJSON(ctx, s.UserPath(user.Login), user)
}

// SaveRepositories writes the enhanced repository list of login. A nil list
// is written as an empty array.
func (s *Store) SaveRepositories(ctx context.Context, login string, repos []*forge.EnhancedRepository) error {
	if login == "" {
		return errors.ValidationError("repository list without login").Build()
	}
	if repos == nil {
		repos = []*forge.EnhancedRepository{}
	}
	return s.writeJSON(ctx, s.RepositoriesPath(login), repos)
}

// LoadRepositories reads the enhanced repository list of login. GitHub
// logins are case-insensitive, so a file saved under the canonical login is
// found from any spelling of it.
func (s *Store) LoadRepositories(login string) ([]*forge.EnhancedRepository, error) {
	path := s.resolveRepositoriesPath(login)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("no saved repositories; run discover first").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		return nil, errors.FileSystemError("failed to read repositories").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	var repos []*forge.EnhancedRepository
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, errors.ContentError("invalid repositories file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return repos, nil
}

func (s *Store) resolveRepositoriesPath(login string) string {
	path := s.RepositoriesPath(login)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return path
	}
	want := filepath.Base(path)
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), want) {
			return filepath.Join(s.dir, e.Name())
		}
	}
	return path
}

// writeJSON writes v as indented JSON through a temporary file and a rename.
func (s *Store) writeJSON(ctx context.Context, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.InternalError("failed to marshal record").WithCause(err).Build()
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.FileSystemError("failed to create state directory").
			WithCause(err).
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.FileSystemError("failed to write temporary state file").
			WithCause(err).
			WithContext("path", tmp).
			Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.FileSystemError("failed to replace state file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	slog.DebugContext(ctx, "Saved state file", logfields.Path(path), slog.Int("bytes", len(data)))
	return nil
}
