package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "0123456789", NormalizeDigits("٠١٢٣٤٥٦٧٨٩"))
	assert.Equal(t, "75", NormalizeDigits("٧٥"))
	assert.Equal(t, "75", NormalizeDigits("75"))
	assert.Equal(t, "", NormalizeDigits(""))
}

func TestNormalizeDigitsLeavesOtherRunes(t *testing.T) {
	assert.Equal(t, "معدل 75%", NormalizeDigits("معدل ٧٥%"))
	// Extended (Persian) digits are a different block and stay as they are
	assert.Equal(t, "۷۵", NormalizeDigits("۷۵"))
}

func TestNormalizeIdentifier(t *testing.T) {
	cases := map[string]string{
		"123":                 "123",
		" 123 ":               "123",
		"123.0":               "123",
		"0123":                "123",
		"1.23E+02":            "123",
		"2345678901":          "2345678901",
		"2,345,678,901":       "2345678901",
		"٢٣٤٥٦٧٨٩٠١":          "2345678901",
		"0":                   "0",
		"12345678901234567890": "12345678901234567890",
	}
	for raw, want := range cases {
		got, ok := NormalizeIdentifier(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestNormalizeIdentifierRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "12a", "123.5", "-5", "NaN", "Inf", "nan"} {
		_, ok := NormalizeIdentifier(raw)
		assert.False(t, ok, raw)
	}
}

func TestCanonicalNumericID(t *testing.T) {
	got, ok := CanonicalNumericID("2.345678901E+09")
	assert.True(t, ok)
	assert.Equal(t, "2345678901", got)

	// Text-only forms are left to NormalizeIdentifier
	for _, raw := range []string{"٢٣٤", "2,345", ""} {
		_, ok := CanonicalNumericID(raw)
		assert.False(t, ok, raw)
	}
}
