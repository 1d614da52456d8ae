package sparse

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpress/internal/probe"
)

const (
	present = http.StatusOK
	absent  = http.StatusNotFound
)

func status(root, folder, readme int) probe.DocStatus {
	return probe.DocStatus{RootReadmeStatus: root, DocsFolderStatus: folder, DocsReadmeStatus: readme}
}

func TestComputeIncludes(t *testing.T) {
	tests := []struct {
		name   string
		status probe.DocStatus
		size   int
		want   []string
	}{
		{"all absent", status(absent, absent, absent), 10, []string{}},
		{"all absent zero size", status(absent, absent, absent), 0, []string{}},
		{"zero size with docs", status(present, present, present), 0, []string{}},
		{"docs folder with readme", status(absent, present, present), 1, []string{PatternDocs}},
		{"docs folder without readme", status(present, present, absent), 1, []string{PatternDocs, PatternRootReadme, PatternNestedReadme}},
		{"root readme only", status(present, absent, absent), 1, []string{PatternRootReadme, PatternNestedReadme}},
		{"no response counts as present", status(absent, probe.StatusNoResponse, present), 1, []string{PatternDocs}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeIncludes(tt.status, tt.size)
			require.NotNil(t, got)
			require.Equal(t, tt.want, got)
		})
	}
}

// Every all-404 status yields the empty set whatever the size.
func TestComputeIncludes_AllAbsentAnySize(t *testing.T) {
	for _, size := range []int{0, 1, 42, 1 << 20} {
		require.Empty(t, ComputeIncludes(status(absent, absent, absent), size))
	}
	for _, s := range []probe.DocStatus{status(present, present, present), status(present, absent, absent), status(absent, present, absent)} {
		require.Empty(t, ComputeIncludes(s, 0))
	}
}

func TestMatcher(t *testing.T) {
	m := NewMatcher([]string{PatternDocs, PatternRootReadme, PatternNestedReadme})
	tests := map[string]bool{
		"docs/guide.md":     true,
		"docs/a/b.md":       true,
		"docs/img/logo.png": true,
		"README.md":         true,
		"src/README.md":     false,
		"docs/README.md":    false,
		"src/main.go":       false,
		"go.mod":            false,
	}
	for path, want := range tests {
		require.Equal(t, want, m.Match(path), path)
	}
}

func TestMatcher_Empty(t *testing.T) {
	m := NewMatcher([]string{})
	require.False(t, m.Match("README.md"))
	require.False(t, m.Match("docs/index.md"))

	docsOnly := NewMatcher([]string{PatternDocs})
	require.True(t, docsOnly.Match("docs/README.md"))
	require.False(t, docsOnly.Match("README.md"))
}
