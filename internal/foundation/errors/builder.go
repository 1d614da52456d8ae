package errors

import "maps"

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

func newBuilder(category ErrorCategory, retry RetryStrategy, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{category: category, retry: retry, message: message}}
}

// WithCause sets the wrapped error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

// WithCategory reclassifies the error, e.g. when a git failure turns out to
// be an auth problem.
func (b *ErrorBuilder) WithCategory(category ErrorCategory) *ErrorBuilder {
	b.err.category = category
	return b
}

func (b *ErrorBuilder) WithRetry(strategy RetryStrategy) *ErrorBuilder {
	b.err.retry = strategy
	return b
}

// WithContext attaches a structured field.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	if b.err.fields == nil {
		b.err.fields = map[string]any{}
	}
	b.err.fields[key] = value
	return b
}

func (b *ErrorBuilder) Retryable() *ErrorBuilder  { return b.WithRetry(RetryBackoff) }
func (b *ErrorBuilder) RateLimit() *ErrorBuilder  { return b.WithRetry(RetryRateLimit) }
func (b *ErrorBuilder) UserAction() *ErrorBuilder { return b.WithRetry(RetryUserAction) }

// Build returns the error. The builder may be reused; later changes do not
// affect errors already built.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	out.fields = maps.Clone(b.err.fields)
	return &out
}

func ConfigError(message string) *ErrorBuilder {
	return newBuilder(CategoryConfig, RetryUserAction, message)
}

func ValidationError(message string) *ErrorBuilder {
	return newBuilder(CategoryValidation, RetryUserAction, message)
}

func AuthError(message string) *ErrorBuilder {
	return newBuilder(CategoryAuth, RetryUserAction, message)
}

func NotFoundError(message string) *ErrorBuilder {
	return newBuilder(CategoryNotFound, RetryNever, message)
}

// NetworkError, GitError and ForgeError are retried with backoff unless the
// caller says otherwise.
func NetworkError(message string) *ErrorBuilder {
	return newBuilder(CategoryNetwork, RetryBackoff, message)
}

func GitError(message string) *ErrorBuilder {
	return newBuilder(CategoryGit, RetryBackoff, message)
}

func ForgeError(message string) *ErrorBuilder {
	return newBuilder(CategoryForge, RetryBackoff, message)
}

// FileSystemError covers local disk failures. They are not retried.
func FileSystemError(message string) *ErrorBuilder {
	return newBuilder(CategoryFileSystem, RetryNever, message)
}

func ContentError(message string) *ErrorBuilder {
	return newBuilder(CategoryContent, RetryNever, message)
}

func RuntimeError(message string) *ErrorBuilder {
	return newBuilder(CategoryRuntime, RetryNever, message)
}

func InternalError(message string) *ErrorBuilder {
	return newBuilder(CategoryInternal, RetryNever, message)
}
