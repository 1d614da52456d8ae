// Package retry computes backoff delays and drives retry loops for
// transient checkout failures.
package retry

import (
	"time"

	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// Policy describes how often and how long to wait between attempts.
type Policy struct {
	Mode       config.RetryBackoffMode
	Initial    time.Duration
	Max        time.Duration
	MaxRetries int // retries after the first attempt; 0 disables retrying
}

// DefaultPolicy matches the fetch.retry defaults.
func DefaultPolicy() Policy {
	return Policy{
		Mode:       config.RetryBackoffExponential,
		Initial:    config.DefaultRetryInitialDelay,
		Max:        config.DefaultRetryMaxDelay,
		MaxRetries: 2,
	}
}

// NewPolicy fills zero or unknown values from DefaultPolicy and clamps
// Initial to Max.
func NewPolicy(mode config.RetryBackoffMode, initial, maxDelay time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDelay > 0 {
		p.Max = maxDelay
	}
	switch mode {
	case config.RetryBackoffFixed, config.RetryBackoffLinear, config.RetryBackoffExponential:
		p.Mode = mode
	}
	p.Initial = min(p.Initial, p.Max)
	return p
}

// FromConfig builds the checkout policy from the fetch.retry section.
func FromConfig(cfg *config.Config) Policy {
	initial, maxDelay := cfg.RetryDelays()
	return NewPolicy(cfg.Fetch.Retry.Backoff, initial, maxDelay, cfg.Fetch.Retry.MaxRetries)
}

// Delay returns the wait before retry n (the first retry is 1).
func (p Policy) Delay(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case config.RetryBackoffFixed:
		d = p.Initial
	case config.RetryBackoffExponential:
		// Cap the shift so large retry counts cannot overflow.
		d = p.Initial << min(n-1, 30)
		if d <= 0 {
			d = p.Max
		}
	default:
		d = time.Duration(n) * p.Initial
	}
	return min(d, p.Max)
}

// Validate rejects policies that cannot be applied.
func (p Policy) Validate() error {
	switch {
	case p.Initial <= 0:
		return errors.ValidationError("retry initial delay must be positive").Build()
	case p.Max <= 0:
		return errors.ValidationError("retry max delay must be positive").Build()
	case p.MaxRetries < 0:
		return errors.ValidationError("retry count cannot be negative").
			WithContext("max_retries", p.MaxRetries).
			Build()
	}
	return nil
}
