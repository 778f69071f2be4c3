package helpers

import "unicode/utf8"

// Truncate cuts s to at most max bytes without splitting a rune: when the
// byte budget lands inside a multibyte sequence the cut backs off to the
// previous rune boundary, so the result is always valid UTF-8 for valid
// input.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
