package textutil

import "unicode/utf8"

// Truncate returns s unchanged if it holds at most maxChars characters
// (Unicode code points). Otherwise it keeps the first maxChars characters
// and appends suffix.
func Truncate(s string, maxChars int, suffix string) string {
	if maxChars < 0 {
		maxChars = 0
	}
	if len(s) <= maxChars {
		return s
	}
	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i] + suffix
		}
		n++
	}
	return s
}

// Overflow returns how many characters Truncate would drop from s.
func Overflow(s string, maxChars int) int {
	if n := utf8.RuneCountInString(s); n > maxChars {
		return n - maxChars
	}
	return 0
}
