package strfn

import "regexp"

// Replace substitutes every literal occurrence of needle in haystack with
// replacement, repeating the full pass until either a pass changes nothing
// or iterations passes have run. With fewer than one iteration haystack is
// returned unchanged.
//
// The replacement is inserted verbatim; it is never expanded as a template.
func Replace(haystack, needle, replacement string, iterations int) string {
	re := regexp.MustCompile(regexp.QuoteMeta(needle))
	ret := haystack

	for range iterations {
		next := re.ReplaceAllLiteralString(ret, replacement)
		if next == ret {
			break
		}

		ret = next
	}

	return ret
}
