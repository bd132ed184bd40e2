package utils

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// easternDigits maps the Arabic-Indic digits ٠..٩ onto 0..9.
var easternDigits = runes.Map(func(r rune) rune {
	if IsEasternDigit(r) {
		return '0' + (r - '٠')
	}
	return r
})

// NormalizeDigits replaces every Eastern Arabic-Indic digit in s with its Western
// equivalent. All other runes pass through unchanged.
func NormalizeDigits(s string) string {
	out, _, err := transform.String(easternDigits, s)
	if err != nil {
		// runes.Map never fails on valid input; keep the original on the odd invalid byte.
		return s
	}
	return out
}

// IsEasternDigit reports whether r is one of ٠..٩ (U+0660..U+0669).
func IsEasternDigit(r rune) bool {
	return r >= '٠' && r <= '٩'
}

// IsWesternDigit reports whether r is one of 0..9.
func IsWesternDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
