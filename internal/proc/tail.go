package proc

import "unicode/utf8"

// Tail returns at most the last n bytes of s without splitting a UTF-8
// sequence. Build failures print the tail because Gradle puts the error
// summary at the end.
func Tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
