package strfn

import (
	"strings"
	"unicode/utf8"
)

// Search returns the case-insensitive position of needle in haystack,
// counted in characters, or -1 when either is empty or needle is absent.
func Search(haystack, needle string) int {
	if haystack == "" || needle == "" {
		return -1
	}

	h := strings.ToLower(haystack)

	i := strings.Index(h, strings.ToLower(needle))
	if i < 0 {
		return -1
	}

	return utf8.RuneCountInString(h[:i])
}

// Starts reports whether haystack begins with needle, ignoring case.
func Starts(haystack, needle string) bool {
	return Search(haystack, needle) == 0
}

// Ends reports whether haystack ends with needle, ignoring case. An empty
// needle never matches.
func Ends(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}

	return strings.HasSuffix(strings.ToLower(haystack), strings.ToLower(needle))
}

// SplitSpace breaks text around runs of whitespace. Leading or trailing
// whitespace produces an empty first or last field.
func SplitSpace(text string) []string {
	return whitespace.Split(text, -1)
}
