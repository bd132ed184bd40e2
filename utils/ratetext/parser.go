package ratetext

import (
	"strconv"
	"strings"

	"github.com/Aashish23092/workforce-metrics/dto"
	"github.com/Aashish23092/workforce-metrics/utils"
)

// DefaultWindow is how many characters after the start of an anchor phrase are searched.
const DefaultWindow = 80

// CollapseWhitespace turns every whitespace run (newlines and NBSP included) into a
// single space so phrases broken across lines still match.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// FindRate locates the first occurrence of anchor in text and returns the first
// percentage inside the window that starts at the anchor. text is expected to be
// whitespace-collapsed already.
func FindRate(text, anchor string, window int) dto.ExtractedRate {
	if anchor == "" || window <= 0 {
		return dto.NotFound
	}
	idx := strings.Index(text, anchor)
	if idx < 0 {
		return dto.NotFound
	}

	win := []rune(text[idx:])
	if len(win) > window {
		win = win[:window]
	}
	return scanPercent(win)
}

// scanPercent returns the first digit run followed by a percent sign. A run never
// mixes numeral systems: "1٢%" splits into "1" and "٢", and only "٢" qualifies.
// Ex: "معدل التوطين ٧٥ ٪" -> 75%
func scanPercent(win []rune) dto.ExtractedRate {
	for i := 0; i < len(win); {
		if !isDigit(win[i]) {
			i++
			continue
		}
		start := i
		eastern := utils.IsEasternDigit(win[i])
		for i < len(win) && isDigit(win[i]) && utils.IsEasternDigit(win[i]) == eastern {
			i++
		}
		run := win[start:i]

		// Fraction part of a decimal already handled with its integer part
		if start >= 2 && isDecimalSeparator(win[start-1]) && isDigit(win[start-2]) {
			continue
		}

		j := i
		if j+1 < len(win) && isDecimalSeparator(win[j]) && isDigit(win[j+1]) {
			j++
			for j < len(win) && isDigit(win[j]) {
				j++
			}
		}
		if j < len(win) && win[j] == ' ' {
			j++
		}
		if j >= len(win) || !isPercentSign(win[j]) {
			continue
		}

		if value, ok := percentValue(run); ok {
			return dto.Found(FormatPercent(value))
		}
	}
	return dto.NotFound
}

// ParseRate canonicalizes an operator-typed rate such as "75", "75 %" or "٧٥٪".
// It returns false when s is not a whole percentage between 0 and 100.
func ParseRate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimRight(s, "%٪"))
	run := []rune(s)
	if len(run) == 0 {
		return "", false
	}
	for _, r := range run {
		if !isDigit(r) {
			return "", false
		}
	}
	value, ok := percentValue(run)
	if !ok {
		return "", false
	}
	return FormatPercent(value), true
}

// FormatPercent renders a whole percentage the way reports are returned: "75%".
func FormatPercent(value int) string {
	return strconv.Itoa(value) + "%"
}

// percentValue converts a digit run to 0..100. Runs mixing Western and
// Eastern digits are rejected.
func percentValue(run []rune) (int, bool) {
	western, eastern := false, false
	for _, r := range run {
		if utils.IsEasternDigit(r) {
			eastern = true
		} else {
			western = true
		}
	}
	if western && eastern {
		return 0, false
	}

	n, err := strconv.Atoi(utils.NormalizeDigits(string(run)))
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}

func isDigit(r rune) bool {
	return utils.IsWesternDigit(r) || utils.IsEasternDigit(r)
}

func isDecimalSeparator(r rune) bool {
	return r == '.' || r == '٫'
}

func isPercentSign(r rune) bool {
	return r == '%' || r == '٪'
}
