package enhance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"docpress":      "docpress",
		"My.Project_v2": "my.project_v2",
		"Café Crème":    "cafe-creme",
		"a/b":           "a-b",
		".github":       ".github",
		"..":            "_..",
		"":              "_",
	}
	for in, want := range tests {
		require.Equal(t, want, Slug(in), in)
	}
}

func TestEffectiveBranch(t *testing.T) {
	require.Equal(t, "dev", EffectiveBranch(" dev ", "main"))
	require.Equal(t, "trunk", EffectiveBranch("", "trunk"))
	require.Equal(t, FallbackBranch, EffectiveBranch("", ""))
}
