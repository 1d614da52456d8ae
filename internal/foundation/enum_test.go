package foundation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

type color string

func TestEnum(t *testing.T) {
	e := NewEnum[color]("color", "red", "blue")

	tests := []struct {
		raw  string
		want color
		ok   bool
	}{
		{" RED ", "red", true},
		{"blue", "blue", true},
		{"Blue", "blue", true},
		{"green", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := e.Lookup(tt.raw)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
	require.Equal(t, []string{"blue", "red"}, e.Values())
}

func TestEnumParse(t *testing.T) {
	e := NewEnum[color]("color", "red", "blue")

	_, err := e.Parse("green")
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.Contains(t, err.Error(), "invalid color")

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	allowed, _ := ce.Field("allowed")
	require.Equal(t, []string{"blue", "red"}, allowed)

	v, err := e.Parse("Red")
	require.NoError(t, err)
	require.Equal(t, color("red"), v)
}
