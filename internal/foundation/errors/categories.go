package errors

// ErrorCategory groups failures by where they come from. The CLI derives its
// exit code from it.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"
	CategoryNotFound   ErrorCategory = "not_found"

	// Remote systems: the GitHub API, git remotes and plain HTTP probes.
	CategoryNetwork ErrorCategory = "network"
	CategoryGit     ErrorCategory = "git"
	CategoryForge   ErrorCategory = "forge"

	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryContent    ErrorCategory = "content"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryNotFound:   4,
	CategoryAuth:       5,
	CategoryConfig:     7,
	CategoryNetwork:    8,
	CategoryGit:        8,
	CategoryForge:      8,
	CategoryInternal:   10,
	CategoryFileSystem: 11,
	CategoryContent:    11,
	CategoryRuntime:    12,
}

// ExitCode is the process exit status for a failure of this category.
// Unknown categories exit with 1.
func (c ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// RetryStrategy tells retry loops what to do with a failed attempt.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryBackoff    RetryStrategy = "backoff"
	RetryRateLimit  RetryStrategy = "rate_limit"
	RetryUserAction RetryStrategy = "user"
)

// Allowed is false for strategies that need a different input before a
// repeat attempt can succeed.
func (s RetryStrategy) Allowed() bool {
	return s == RetryBackoff || s == RetryRateLimit
}
