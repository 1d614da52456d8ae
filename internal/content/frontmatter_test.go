package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasFrontMatter(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		in   string
		want bool
	}{
		"none":          {in: "# Title\n", want: false},
		"closed":        {in: "---\ntitle: x\n---\nbody\n", want: true},
		"empty block":   {in: "---\n---\nbody\n", want: true},
		"crlf":          {in: "---\r\ntitle: x\r\n---\r\nbody\r\n", want: true},
		"thematic only": {in: "---\nnot closed\n", want: false},
		"empty":         {in: "", want: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, hasFrontMatter([]byte(tc.in)))
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	fields := map[string]any{"title": "A", "repository": "r"}
	body := []byte("# A\n")

	first, err := fingerprint(fields, body)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	fields["fingerprint"] = "ignored"
	again, err := fingerprint(fields, body)
	require.NoError(t, err)
	require.Equal(t, first, again)

	changed, err := fingerprint(fields, []byte("# B\n"))
	require.NoError(t, err)
	require.NotEqual(t, first, changed)
}

func TestFirstHeading(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		in   string
		want string
	}{
		"atx":         {in: "# Hello\n", want: "Hello"},
		"setext":      {in: "Hello\n=====\n", want: "Hello"},
		"inline code": {in: "# Use `go test`\n", want: "Use go test"},
		"emphasis":    {in: "# A *bold* move\n", want: "A bold move"},
		"second only": {in: "## Sub\n\n# Main\n", want: "Main"},
		"no h1":       {in: "## Sub\n", want: ""},
		"code fence":  {in: "```\n# not a heading\n```\n", want: ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, firstHeading([]byte(tc.in)))
		})
	}
}
