package strfn

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlug    = regexp.MustCompile(`[^\w\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// combining reports whether r is in the Combining Diacritical Marks block,
// which is what decomposed accents land in.
func combining(r rune) bool { return r >= 0x0300 && r <= 0x036f }

// Idify converts text into a lowercase slug safe for URLs and element IDs.
//
// Accented letters are decomposed and stripped to their base letter, all
// characters other than ASCII word characters, whitespace and hyphens are
// removed, and runs of whitespace collapse to a single hyphen.
func Idify(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(combining)), norm.NFC)

	s, _, err := transform.String(t, text)
	if err != nil {
		s = text
	}

	s = nonSlug.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), "-")

	return strings.ToLower(s)
}

// Readable converts an identifier into a human-readable label.
//
// A space is inserted at every lowercase-to-uppercase boundary, and the
// uppercase letter is lowered when it starts a new lowercase word. Hyphens,
// underscores and slashes between letters or digits become spaces. The
// first letter is capitalized.
//
//	Readable("fooBar")     // "Foo bar"
//	Readable("myXMLFile")  // "My XMLFile"
//	Readable("first_name") // "First name"
func Readable(identifier string) string {
	rs := []rune(identifier)
	out := make([]rune, 0, len(rs)+4)

	alnum := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

	for i, r := range rs {
		switch {
		case i > 0 && unicode.IsLower(rs[i-1]) && unicode.IsUpper(r):
			if i+1 < len(rs) && unicode.IsLower(rs[i+1]) {
				r = unicode.ToLower(r)
			}

			out = append(out, ' ', r)

		case (r == '-' || r == '_' || r == '/') &&
			i > 0 && i+1 < len(rs) && alnum(rs[i-1]) && alnum(rs[i+1]):
			out = append(out, ' ')

		default:
			out = append(out, r)
		}
	}

	if len(out) > 0 && unicode.IsLower(out[0]) {
		out[0] = unicode.ToUpper(out[0])
	}

	return string(out)
}
