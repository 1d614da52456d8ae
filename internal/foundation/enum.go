// Package foundation holds small generic helpers shared by the config and
// pipeline packages.
package foundation

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// Enum is a closed set of string values accepted from configuration.
// Matching ignores case and surrounding whitespace.
type Enum[T ~string] struct {
	name   string
	values []T
}

// NewEnum declares the accepted values of the setting called name.
func NewEnum[T ~string](name string, values ...T) Enum[T] {
	return Enum[T]{name: name, values: values}
}

// Lookup returns the canonical value matching raw.
func (e Enum[T]) Lookup(raw string) (T, bool) {
	key := strings.TrimSpace(raw)
	for _, v := range e.values {
		if strings.EqualFold(string(v), key) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Parse is Lookup with a validation error naming the accepted values.
func (e Enum[T]) Parse(raw string) (T, error) {
	if v, ok := e.Lookup(raw); ok {
		return v, nil
	}
	var zero T
	return zero, errors.ValidationError("invalid "+e.name).
		WithContext("value", raw).
		WithContext("allowed", e.Values()).
		Build()
}

// Values lists the accepted values in sorted order.
func (e Enum[T]) Values() []string {
	out := make([]string, len(e.values))
	for i, v := range e.values {
		out[i] = string(v)
	}
	slices.Sort(out)
	return out
}
