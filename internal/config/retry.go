package config

import "git.home.luguber.info/inful/docpress/internal/foundation"

// RetryBackoffMode selects how the delay grows between checkout retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffModes = foundation.NewEnum("fetch.retry.backoff",
	RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential)

// NormalizeRetryBackoff maps user input onto a mode. Unknown input yields "".
func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	m, _ := retryBackoffModes.Lookup(raw)
	return m
}
