// Package site emits the site configuration describing fetched projects.
package site

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docpress/internal/enhance"
	"git.home.luguber.info/inful/docpress/internal/forge"
	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// FileName is the site configuration file written to the output directory.
const FileName = "site.yaml"

// Config is the document written to site.yaml.
type Config struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description,omitempty"`
	BaseURL     string    `yaml:"base_url,omitempty"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Projects    []Project `yaml:"projects"`
}

// Project is one fetched repository.
type Project struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	HTMLURL     string `yaml:"html_url,omitempty"`
	Path        string `yaml:"path"`
	Branch      string `yaml:"branch"`
}

// Options carries the site level fields.
type Options struct {
	Title       string
	Description string
	BaseURL     string
	Now         func() time.Time
}

// Build assembles the configuration for the repositories listed in names,
// sorted by name. Path is relative to the output directory.
func Build(repos []*forge.EnhancedRepository, names []string, opts Options) Config {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	cfg := Config{
		Title:       opts.Title,
		Description: opts.Description,
		BaseURL:     opts.BaseURL,
		GeneratedAt: now().UTC(),
		Projects:    []Project{},
	}
	for _, r := range repos {
		if r.Docpress == nil || !slices.Contains(names, r.Name) {
			continue
		}
		cfg.Projects = append(cfg.Projects, Project{
			Name:        r.Name,
			Description: r.Description,
			HTMLURL:     r.HTMLURL,
			Path:        "content/" + enhance.Slug(r.Name),
			Branch:      r.Docpress.Branch,
		})
	}
	slices.SortFunc(cfg.Projects, func(a, b Project) int { return strings.Compare(a.Name, b.Name) })
	return cfg
}

// Write stores cfg as <dir>/site.yaml and returns the file path.
func Write(dir string, cfg Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", errors.InternalError("failed to encode site config").WithCause(err).Build()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.FileSystemError("failed to create output directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.FileSystemError("failed to write site config").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return path, nil
}
