package config

import (
	"net/url"
	"strings"
	"time"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// Validate checks the configuration for values the pipeline cannot work with.
func Validate(cfg *Config) error {
	if cfg.GitHub.Username == "" {
		return errors.ValidationError("github.username is required").Build()
	}
	for _, raw := range []struct{ key, value string }{
		{"github.web_url", cfg.GitHub.WebURL},
		{"github.raw_url", cfg.GitHub.RawURL},
		{"github.api_url", cfg.GitHub.APIURL},
	} {
		if raw.value == "" {
			continue
		}
		u, err := url.Parse(raw.value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.ValidationError("invalid URL").
				WithContext("key", raw.key).
				WithContext("value", raw.value).
				Build()
		}
	}
	for _, token := range cfg.Filter {
		if t := strings.TrimSpace(token); t == "!" {
			return errors.ValidationError("filter token has no repository name").
				WithContext("token", token).
				Build()
		}
	}
	if strings.TrimSpace(cfg.Output.Directory) == "" {
		return errors.ValidationError("output.directory is required").Build()
	}
	for _, d := range []struct{ key, value string }{
		{"probe.timeout", cfg.Probe.Timeout},
		{"fetch.retry.initial_delay", cfg.Fetch.Retry.InitialDelay},
		{"fetch.retry.max_delay", cfg.Fetch.Retry.MaxDelay},
		{"daemon.interval", cfg.Daemon.Interval},
	} {
		if d.value == "" {
			continue
		}
		if parsed, err := time.ParseDuration(d.value); err != nil || parsed <= 0 {
			return errors.ValidationError("invalid duration").
				WithContext("key", d.key).
				WithContext("value", d.value).
				Build()
		}
	}
	if cfg.Fetch.Retry.MaxRetries < 0 {
		return errors.ValidationError("fetch.retry.max_retries cannot be negative").Build()
	}
	if cfg.Fetch.Retry.Backoff != "" {
		if _, err := retryBackoffModes.Parse(string(cfg.Fetch.Retry.Backoff)); err != nil {
			return err
		}
	}
	return nil
}
