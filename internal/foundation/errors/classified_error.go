package errors

import (
	stderrors "errors"
	"maps"
	"slices"
	"strings"
)

// ClassifiedError is an error with a category, a retry strategy and a set of
// structured fields for logging.
type ClassifiedError struct {
	category ErrorCategory
	retry    RetryStrategy
	message  string
	cause    error
	fields   map[string]any
}

// Error renders "category: message: cause".
func (e *ClassifiedError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.category))
	b.WriteString(": ")
	b.WriteString(e.message)
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory      { return e.category }
func (e *ClassifiedError) RetryStrategy() RetryStrategy { return e.retry }
func (e *ClassifiedError) Message() string              { return e.message }
func (e *ClassifiedError) Cause() error                 { return e.cause }

// Field returns a structured field attached with WithContext.
func (e *ClassifiedError) Field(key string) (any, bool) {
	v, ok := e.fields[key]
	return v, ok
}

// FieldNames lists the attached field keys in sorted order.
func (e *ClassifiedError) FieldNames() []string {
	return slices.Sorted(maps.Keys(e.fields))
}

// WithContext returns a copy carrying one more field. The receiver is not modified.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	clone := *e
	clone.fields = maps.Clone(e.fields)
	if clone.fields == nil {
		clone.fields = map[string]any{}
	}
	clone.fields[key] = value
	return &clone
}

// Is matches another ClassifiedError with the same category and message.
func (e *ClassifiedError) Is(target error) bool {
	other, ok := target.(*ClassifiedError)
	return ok && e.category == other.category && e.message == other.message
}

// CanRetry reports whether a repeat attempt may succeed.
func (e *ClassifiedError) CanRetry() bool { return e.retry.Allowed() }

// AsClassified returns the outermost ClassifiedError in the chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// IsClassified reports whether err wraps a ClassifiedError.
func IsClassified(err error) bool {
	_, ok := AsClassified(err)
	return ok
}

// HasCategory reports whether the outermost ClassifiedError has category c.
func HasCategory(err error, c ErrorCategory) bool {
	classified, ok := AsClassified(err)
	return ok && classified.category == c
}

// CategoryOf returns the category of err, or CategoryInternal when err is
// unclassified.
func CategoryOf(err error) ErrorCategory {
	if classified, ok := AsClassified(err); ok {
		return classified.category
	}
	return CategoryInternal
}

// GetRetryStrategy returns the retry strategy of err. Unclassified errors
// are never retried.
func GetRetryStrategy(err error) RetryStrategy {
	if classified, ok := AsClassified(err); ok {
		return classified.retry
	}
	return RetryNever
}

// CanRetry reports whether err is classified with a strategy that allows
// another attempt.
func CanRetry(err error) bool {
	return GetRetryStrategy(err).Allowed()
}
