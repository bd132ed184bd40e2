package utils

import (
	"math"
	"strconv"
	"strings"
)

// maxExactFloat is the largest integer a float64 holds without rounding (2^53).
const maxExactFloat = 1 << 53

// NormalizeIdentifier converts a raw identifier cell (iqama or national ID) into its
// canonical comparable form. "123", "0123", "123.0", "1.23E+02" and "١٢٣" all become
// "123". The second return value is false when the value is not an identifier.
func NormalizeIdentifier(raw string) (string, bool) {
	s := strings.TrimSpace(NormalizeDigits(raw))
	if s == "" {
		return "", false
	}

	// Thousands separators from formatted numeric cells
	s = strings.NewReplacer(",", "", "٬", "", " ", "").Replace(s)
	return CanonicalNumericID(s)
}

// CanonicalNumericID canonicalizes an identifier already in ASCII numeric form,
// such as the raw value of a number cell.
func CanonicalNumericID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if isAllDigits(s) {
		s = strings.TrimLeft(s, "0")
		if s == "" {
			s = "0"
		}
		return s, true
	}

	// Numeric cells exported as floats: 2345678901.0, 2.345678901E+09
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	if f < 0 || f != math.Trunc(f) || f > maxExactFloat {
		return "", false
	}
	return strconv.FormatUint(uint64(f), 10), true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsWesternDigit(r) {
			return false
		}
	}
	return true
}
