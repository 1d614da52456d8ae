// Package sparse decides which paths a partial checkout materializes.
package sparse

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"git.home.luguber.info/inful/docpress/internal/probe"
)

// Inclusion patterns.
const (
	PatternDocs         = "docs/*"
	PatternRootReadme   = "README.md"
	PatternNestedReadme = "!*/**/README.md"
)

// ComputeIncludes returns the ordered inclusion set for a repository. The
// result is never nil; an empty set means nothing is checked out.
func ComputeIncludes(status probe.DocStatus, size int) []string {
	includes := []string{}
	if status.AllAbsent() || size == 0 {
		return includes
	}
	if status.DocsFolderPresent() {
		includes = append(includes, PatternDocs)
	}
	if !status.DocsFolderPresent() || !status.DocsReadmePresent() {
		includes = append(includes, PatternRootReadme, PatternNestedReadme)
	}
	return includes
}

// Matcher selects repository paths with sparse-checkout semantics: patterns
// apply in order, the last match wins, and "!" negates.
type Matcher struct {
	m gitignore.Matcher
}

// NewMatcher compiles an inclusion set.
func NewMatcher(includes []string) *Matcher {
	patterns := make([]gitignore.Pattern, 0, len(includes))
	for _, inc := range includes {
		if strings.TrimSpace(inc) == "" {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(inc, nil))
	}
	return &Matcher{m: gitignore.NewMatcher(patterns)}
}

// Match reports whether the slash separated repository path is selected.
func (m *Matcher) Match(path string) bool {
	return m.m.Match(strings.Split(strings.Trim(path, "/"), "/"), false)
}
