package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes cuts s down to at most n runes. The cut is rune-safe but
// otherwise blunt: it may land mid-sentence.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	rs := []rune(s)
	return string(rs[:n])
}

// ContainsAnyFold reports whether s contains any of subs, case-insensitively.
func ContainsAnyFold(s string, subs []string) bool {
	ls := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(ls, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
