package strfn

import "strings"

// Between returns the part of haystack that lies strictly between the
// delimiters from and to.
//
// By default from is located with its first occurrence and to with its last,
// so the widest enclosed span is returned. When tight is set the search
// directions flip: from is the last occurrence and to is the first.
//
// An empty from means the start of haystack and an empty to means its end.
// A non-empty delimiter that cannot be found yields "", as does a to that
// ends before from.
func Between(haystack, from, to string, tight bool) string {
	i1 := -1

	if from != "" {
		if tight {
			i1 = strings.LastIndex(haystack, from)
		} else {
			i1 = strings.Index(haystack, from)
		}

		if i1 < 0 {
			return ""
		}
	}

	var i2 int
	if tight {
		i2 = strings.Index(haystack, to)
	} else {
		i2 = strings.LastIndex(haystack, to)
	}

	if i2 < 0 {
		return ""
	}

	start := 0
	if i1 >= 0 {
		start = i1 + len(from)
	}

	end := len(haystack)
	if to != "" {
		end = i2
	}

	if end < start {
		return ""
	}

	return haystack[start:end]
}

// From returns everything after the first occurrence of needle.
func From(haystack, needle string) string {
	return Between(haystack, needle, "", false)
}

// FromLast returns everything after the last occurrence of needle.
func FromLast(haystack, needle string) string {
	return Between(haystack, needle, "", true)
}

// To returns everything before the last occurrence of needle.
func To(haystack, needle string) string {
	return Between(haystack, "", needle, false)
}

// ToFirst returns everything before the first occurrence of needle.
func ToFirst(haystack, needle string) string {
	return Between(haystack, "", needle, true)
}
