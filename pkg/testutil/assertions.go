package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}

// AssertDecimalEqual compares a decimal against its string form by value, so
// "100" and "100.00" are equal.
func AssertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal) bool {
	t.Helper()
	want := decimal.RequireFromString(expected)
	return assert.Truef(t, want.Equal(actual), "expected %s, got %s", want, actual)
}
