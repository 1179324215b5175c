package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScope(t *testing.T) {
	cases := map[string]Scope{
		"SCOPE_1":  Scope1,
		"scope1":   Scope1,
		" Scope 2": Scope2,
		"3":        Scope3,
		"scope-3":  Scope3,
	}
	for raw, want := range cases {
		got, err := ParseScope(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "4", "SCOPE", "scope_12"} {
		_, err := ParseScope(raw)
		assert.ErrorIs(t, err, ErrInvalidScope, raw)
	}
}
