package config

import (
	"strings"
	"time"
)

const (
	DefaultOutputDirectory    = ".docpress"
	DefaultWebURL             = "https://github.com"
	DefaultRawURL             = "https://raw.githubusercontent.com"
	DefaultProbeTimeout       = 10 * time.Second
	DefaultEnhanceConcurrency = 16
	DefaultFetchConcurrency   = 8
	DefaultFetchDepth         = 1
	DefaultRetryInitialDelay  = 500 * time.Millisecond
	DefaultRetryMaxDelay      = 10 * time.Second
	DefaultSiteTitle          = "Documentation"
	DefaultDaemonInterval     = time.Hour
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

type githubDefaults struct{}

func (githubDefaults) Domain() string { return "github" }

func (githubDefaults) ApplyDefaults(cfg *Config) error {
	cfg.GitHub.Username = strings.TrimSpace(cfg.GitHub.Username)
	if cfg.GitHub.WebURL == "" {
		cfg.GitHub.WebURL = DefaultWebURL
	}
	if cfg.GitHub.RawURL == "" {
		cfg.GitHub.RawURL = DefaultRawURL
	}
	cfg.GitHub.WebURL = strings.TrimRight(cfg.GitHub.WebURL, "/")
	cfg.GitHub.RawURL = strings.TrimRight(cfg.GitHub.RawURL, "/")
	return nil
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDirectory
	}
	return nil
}

type pipelineDefaults struct{}

func (pipelineDefaults) Domain() string { return "pipeline" }

func (pipelineDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Probe.Timeout == "" {
		cfg.Probe.Timeout = DefaultProbeTimeout.String()
	}
	if cfg.Enhance.Concurrency <= 0 {
		cfg.Enhance.Concurrency = DefaultEnhanceConcurrency
	}
	if cfg.Fetch.Concurrency <= 0 {
		cfg.Fetch.Concurrency = DefaultFetchConcurrency
	}
	if cfg.Fetch.Depth < 0 {
		cfg.Fetch.Depth = 0
	}
	if cfg.Fetch.Depth == 0 {
		cfg.Fetch.Depth = DefaultFetchDepth
	}
	r := &cfg.Fetch.Retry
	if r.Backoff == "" {
		r.Backoff = RetryBackoffExponential
	} else if m := NormalizeRetryBackoff(string(r.Backoff)); m != "" {
		r.Backoff = m
	}
	if r.InitialDelay == "" {
		r.InitialDelay = DefaultRetryInitialDelay.String()
	}
	if r.MaxDelay == "" {
		r.MaxDelay = DefaultRetryMaxDelay.String()
	}
	return nil
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultSiteTitle
	}
	if cfg.Daemon.Interval == "" {
		cfg.Daemon.Interval = DefaultDaemonInterval.String()
	}
	return nil
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{githubDefaults{}, outputDefaults{}, pipelineDefaults{}, siteDefaults{}}
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers() {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

// ProbeTimeout returns the parsed probe timeout.
func (c *Config) ProbeTimeout() time.Duration {
	return parseDurationOr(c.Probe.Timeout, DefaultProbeTimeout)
}

// RetryDelays returns the parsed initial and maximum retry delays.
func (c *Config) RetryDelays() (initial, maxDelay time.Duration) {
	return parseDurationOr(c.Fetch.Retry.InitialDelay, DefaultRetryInitialDelay),
		parseDurationOr(c.Fetch.Retry.MaxDelay, DefaultRetryMaxDelay)
}

// DaemonInterval returns the parsed interval between daemon runs.
func (c *Config) DaemonInterval() time.Duration {
	return parseDurationOr(c.Daemon.Interval, DefaultDaemonInterval)
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
