// Package content turns fetched documentation into the site content tree.
package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/docpress/internal/enhance"
	"git.home.luguber.info/inful/docpress/internal/forge"
	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/logfields"
)

const (
	docsDir    = "docs"
	rootReadme = "README.md"
	indexPage  = "index.md"
)

// Result describes the content written for one repository.
type Result struct {
	Repository string
	Dir        string
	Pages      int
	Assets     int
}

// Normalizer writes content under <output>/content.
type Normalizer struct {
	dir string
}

// New creates a Normalizer for the output directory.
func New(outputDir string) *Normalizer {
	return &Normalizer{dir: filepath.Join(outputDir, "content")}
}

// Dir returns the content root.
func (n *Normalizer) Dir() string { return n.dir }

// Normalize processes every repository listed in names, in input order.
// Records without a docpress block are ignored.
func (n *Normalizer) Normalize(ctx context.Context, repos []*forge.EnhancedRepository, names []string) ([]Result, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	start := time.Now()
	var results []Result
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if !wanted[repo.Name] || repo.Docpress == nil {
			continue
		}
		res, err := n.NormalizeRepository(ctx, repo)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	slog.InfoContext(ctx, "Normalized content", logfields.Count(len(results)), logfields.Path(n.dir), logfields.Since(start))
	return results, nil
}

// NormalizeRepository replaces <content>/<slug> with the repository's docs
// folder. A README.md becomes the index.md of its directory unless that
// directory has one. The root README is the index only when docs/ provides
// none.
func (n *Normalizer) NormalizeRepository(ctx context.Context, repo *forge.EnhancedRepository) (Result, error) {
	if repo == nil || repo.Docpress == nil {
		return Result{}, errors.ValidationError("repository has no docpress block").Build()
	}
	src := repo.Docpress.ProjectPath
	dest := filepath.Join(n.dir, enhance.Slug(repo.Name))
	res := Result{Repository: repo.Name, Dir: dest}

	if err := os.RemoveAll(dest); err != nil {
		return res, fsError("failed to clear content directory", dest, err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return res, fsError("failed to create content directory", dest, err)
	}

	docsRoot := filepath.Join(src, docsDir)
	hasIndex := false
	err := filepath.WalkDir(docsRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == docsRoot && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(docsRoot, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if !isMarkdown(rel) {
			res.Assets++
			return copyFile(p, target)
		}
		if promoteReadme(p) {
			target = filepath.Join(filepath.Dir(target), indexPage)
		}
		if target == filepath.Join(dest, indexPage) {
			hasIndex = true
		}
		res.Pages++
		return writePage(repo, p, target, path.Join(docsDir, filepath.ToSlash(rel)))
	})
	if err != nil {
		return res, fsError("failed to normalize docs folder", docsRoot, err)
	}

	readme := filepath.Join(src, rootReadme)
	if !hasIndex {
		if _, statErr := os.Stat(readme); statErr == nil {
			if err := writePage(repo, readme, filepath.Join(dest, indexPage), rootReadme); err != nil {
				return res, fsError("failed to normalize root readme", readme, err)
			}
			res.Pages++
		}
	}

	slog.DebugContext(ctx, "Normalized repository content",
		logfields.Repository(repo.Name),
		logfields.Path(dest),
		slog.Int("pages", res.Pages),
		slog.Int("assets", res.Assets))
	return res, nil
}

// promoteReadme reports whether the README at p stands in for a missing
// index.md next to it.
func promoteReadme(p string) bool {
	if !strings.EqualFold(filepath.Base(p), rootReadme) {
		return false
	}
	_, err := os.Stat(filepath.Join(filepath.Dir(p), indexPage))
	return os.IsNotExist(err)
}

func writePage(repo *forge.EnhancedRepository, src, dest, sourcePath string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if !hasFrontMatter(data) {
		title := firstHeading(data)
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
		}
		fields := map[string]any{
			"title":      title,
			"repository": repo.Name,
		}
		if repo.Docpress.ReplaceURL != "" {
			fields["edit_url"] = repo.Docpress.ReplaceURL + "/" + sourcePath
		}
		data, err = withFrontMatter(fields, data)
		if err != nil {
			return errors.ContentError("failed to render front matter").
				WithCause(err).
				WithContext("path", sourcePath).
				Build()
		}
	}
	return writeFile(dest, data)
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return writeFile(dest, data)
}

func writeFile(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func fsError(msg, p string, err error) error {
	if _, ok := errors.AsClassified(err); ok {
		return err
	}
	return errors.FileSystemError(msg).WithCause(err).WithContext("path", p).Build()
}
