package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	got, err := ParseType("")
	require.NoError(t, err)
	assert.Equal(t, TypeCarbonBalance, got)

	got, err = ParseType(" csrd ")
	require.NoError(t, err)
	assert.Equal(t, TypeCSRD, got)
	assert.Equal(t, "Rapport CSRD", got.Label())

	_, err = ParseType("GRI")
	assert.ErrorIs(t, err, ErrInvalidType)
}
