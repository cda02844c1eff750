package utils

import (
	"strings"
	"unicode"
)

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// HasLetter reports whether s contains at least one letter.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsCheckable reports whether a token of user input should be spell checked.
// Numbers, bare punctuation and URLs are skipped.
func IsCheckable(s string) bool {
	if len(s) == 0 || IsOnlyNumbers(s) || !HasLetter(s) {
		return false
	}
	return !strings.Contains(s, "://")
}

// DedupeSuggestions drops the input itself and case-insensitive repeats from
// words, keeping at most limit entries in their original order.
func DedupeSuggestions(input string, words []string, limit int) []string {
	seen := map[string]bool{strings.ToLower(input): true}
	out := make([]string, 0, min(len(words), limit))
	for _, w := range words {
		if len(out) == limit {
			break
		}
		lw := strings.ToLower(w)
		if seen[lw] {
			continue
		}
		seen[lw] = true
		out = append(out, w)
	}
	return out
}
