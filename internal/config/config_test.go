package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("github:\n  username: octocat\n"))
	require.NoError(t, err)

	require.Equal(t, "octocat", cfg.GitHub.Username)
	require.Equal(t, DefaultWebURL, cfg.GitHub.WebURL)
	require.Equal(t, DefaultRawURL, cfg.GitHub.RawURL)
	require.Equal(t, DefaultOutputDirectory, cfg.Output.Directory)
	require.Equal(t, DefaultEnhanceConcurrency, cfg.Enhance.Concurrency)
	require.Equal(t, DefaultFetchConcurrency, cfg.Fetch.Concurrency)
	require.Equal(t, DefaultFetchDepth, cfg.Fetch.Depth)
	require.Equal(t, RetryBackoffExponential, cfg.Fetch.Retry.Backoff)
	require.Equal(t, DefaultProbeTimeout, cfg.ProbeTimeout())
	require.Equal(t, DefaultDaemonInterval, cfg.DaemonInterval())
	require.Equal(t, DefaultSiteTitle, cfg.Site.Title)

	initial, maxDelay := cfg.RetryDelays()
	require.Equal(t, DefaultRetryInitialDelay, initial)
	require.Equal(t, DefaultRetryMaxDelay, maxDelay)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCPRESS_TEST_TOKEN", "secret-token")

	cfg, err := Parse([]byte(`
github:
  username: octocat
  token: ${DOCPRESS_TEST_TOKEN}
  web_url: https://ghe.example.com/
filter: ["!legacy", "site"]
probe:
  timeout: 3s
fetch:
  retry:
    backoff: LINEAR
`))
	require.NoError(t, err)
	require.Equal(t, "secret-token", cfg.GitHub.Token)
	require.Equal(t, "https://ghe.example.com", cfg.GitHub.WebURL)
	require.Equal(t, []string{"!legacy", "site"}, cfg.Filter)
	require.Equal(t, 3*time.Second, cfg.ProbeTimeout())
	require.Equal(t, RetryBackoffLinear, cfg.Fetch.Retry.Backoff)
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"missing username":  "output:\n  directory: out\n",
		"bad url":           "github:\n  username: a\n  web_url: not-a-url\n",
		"empty deny token":  "github:\n  username: a\nfilter: ['!']\n",
		"bad duration":      "github:\n  username: a\nprobe:\n  timeout: soon\n",
		"negative retries":  "github:\n  username: a\nfetch:\n  retry:\n    max_retries: -1\n",
		"unknown backoff":   "github:\n  username: a\nfetch:\n  retry:\n    backoff: random\n",
		"malformed yaml":    "github: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			require.Error(t, err)
			require.True(t, errors.IsClassified(err))
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg, err := Parse([]byte("github:\n  username: octocat\nfilter: [a]\n"))
	require.NoError(t, err)

	require.NoError(t, cfg.ApplyOverrides(Overrides{
		Username: "hubot",
		Token:    "tkn",
		Filter:   []string{"!b"},
		Branch:   " develop ",
		Output:   "out",
	}))
	require.Equal(t, "hubot", cfg.GitHub.Username)
	require.Equal(t, "tkn", cfg.GitHub.Token)
	require.Equal(t, []string{"!b"}, cfg.Filter)
	require.Equal(t, "develop", cfg.Branch)
	require.Equal(t, "out", cfg.Output.Directory)

	require.NoError(t, cfg.ApplyOverrides(Overrides{}))
	require.Equal(t, "hubot", cfg.GitHub.Username)
}

func TestLoadAndInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docpress.yaml")

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false), "second init without force must fail")
	require.NoError(t, Init(path, true))

	t.Setenv("GITHUB_TOKEN", "from-env")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "octocat", cfg.GitHub.Username)
	require.Equal(t, "from-env", cfg.GitHub.Token)
	require.Equal(t, []string{"!legacy-project"}, cfg.Filter)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNormalizeRetryBackoff(t *testing.T) {
	require.Equal(t, RetryBackoffFixed, NormalizeRetryBackoff(" Fixed "))
	require.Equal(t, RetryBackoffExponential, NormalizeRetryBackoff("exponential"))
	require.Equal(t, RetryBackoffMode(""), NormalizeRetryBackoff("random"))
}

func TestLoad_ReadsEnvFileNextToConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docpress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("github:\n  username: ${DOCPRESS_ENV_USER}\n  token: ${DOCPRESS_ENV_TOKEN}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCPRESS_ENV_USER=from-file\nDOCPRESS_ENV_TOKEN=file-token\n"), 0o600))

	t.Setenv("DOCPRESS_ENV_TOKEN", "shell-token")
	require.NoError(t, os.Unsetenv("DOCPRESS_ENV_USER"))
	t.Cleanup(func() { _ = os.Unsetenv("DOCPRESS_ENV_USER") })

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.GitHub.Username)
	require.Equal(t, "shell-token", cfg.GitHub.Token)
}

func TestLoad_BrokenEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docpress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("github:\n  username: a\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TOKEN=\"unterminated\n"), 0o600))

	_, err := Load(path)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
