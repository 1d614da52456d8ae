package config

import (
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	GitHub  GitHubConfig  `yaml:"github"`
	Filter  []string      `yaml:"filter,omitempty"` // "name" allows, "!name" denies
	Branch  string        `yaml:"branch,omitempty"` // overrides every repository's default branch
	Output  OutputConfig  `yaml:"output"`
	Probe   ProbeConfig   `yaml:"probe"`
	Enhance EnhanceConfig `yaml:"enhance"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Site    SiteConfig    `yaml:"site"`
	Metrics MetricsConfig `yaml:"metrics"`
	Daemon  DaemonConfig  `yaml:"daemon"`
}

// GitHubConfig describes the account whose repositories are collected.
type GitHubConfig struct {
	Username string `yaml:"username"`
	Token    string `yaml:"token,omitempty"`
	APIURL   string `yaml:"api_url,omitempty"` // GitHub Enterprise API base; empty for github.com
	WebURL   string `yaml:"web_url,omitempty"`
	RawURL   string `yaml:"raw_url,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // remove previous checkouts and content before a run
}

// ProbeConfig controls documentation existence probes.
type ProbeConfig struct {
	Timeout string `yaml:"timeout,omitempty"`
}

// EnhanceConfig controls the repository enhancement fan-out.
type EnhanceConfig struct {
	Concurrency int `yaml:"concurrency,omitempty"`
}

// FetchConfig controls sparse checkouts.
type FetchConfig struct {
	Concurrency int         `yaml:"concurrency,omitempty"`
	Depth       int         `yaml:"depth,omitempty"`
	Retry       RetryConfig `yaml:"retry"`
}

// RetryConfig configures retries of transient checkout failures.
type RetryConfig struct {
	MaxRetries   int              `yaml:"max_retries"`
	Backoff      RetryBackoffMode `yaml:"backoff,omitempty"`
	InitialDelay string           `yaml:"initial_delay,omitempty"`
	MaxDelay     string           `yaml:"max_delay,omitempty"`
}

// SiteConfig holds the values emitted into the generated site configuration.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
}

// MetricsConfig configures the Prometheus text file written after each run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// DaemonConfig configures periodic runs.
type DaemonConfig struct {
	Interval string `yaml:"interval,omitempty"`
}

// Overrides carries command line values that take precedence over the file.
type Overrides struct {
	Username string
	Token    string
	Filter   []string
	Branch   string
	Output   string
}

// Load loads configuration from the specified file, applies defaults and validates it.
func Load(configPath string) (*Config, error) {
	loaded, err := loadEnvFiles(configPath)
	if err != nil {
		return nil, errors.ConfigError("failed to load env file").WithCause(err).Build()
	}
	if len(loaded) > 0 {
		slog.Debug("Loaded environment files", slog.Any("files", loaded))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.ConfigError("failed to read config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML configuration with environment expansion, then applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.ConfigError("failed to unmarshal config").WithCause(err).Build()
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyOverrides merges non-empty command line values into the configuration.
func (c *Config) ApplyOverrides(o Overrides) error {
	if o.Username != "" {
		c.GitHub.Username = o.Username
	}
	if o.Token != "" {
		c.GitHub.Token = o.Token
	}
	if len(o.Filter) > 0 {
		c.Filter = append([]string(nil), o.Filter...)
	}
	if o.Branch != "" {
		c.Branch = strings.TrimSpace(o.Branch)
	}
	if o.Output != "" {
		c.Output.Directory = o.Output
	}
	return Validate(c)
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		GitHub: GitHubConfig{
			Username: "octocat",
			Token:    "${GITHUB_TOKEN}",
		},
		Filter: []string{"!legacy-project"},
		Output: OutputConfig{Directory: DefaultOutputDirectory, Clean: true},
		Site: SiteConfig{
			Title:       "My Documentation Portal",
			Description: "Documentation collected from my repositories",
		},
		Daemon: DaemonConfig{Interval: DefaultDaemonInterval.String()},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.InternalError("failed to marshal config").WithCause(err).Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.FileSystemError("failed to write config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}
