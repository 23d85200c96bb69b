package strfn

import (
	"net/url"
	"regexp"
	"strings"
)

var nonParam = regexp.MustCompile(`[^\w:-]`)

// URLParam extracts the value of parameter id from href.
//
// The query string is searched first for id=value (or a bare id, which
// yields ""). Failing that, the path is searched for a /id/value segment
// pair. The value is percent-decoded. The second result reports whether id
// was found at all.
func URLParam(href, id string) (string, bool) {
	id = nonParam.ReplaceAllString(id, "")
	if id == "" {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	if u.RawQuery != "" || u.ForceQuery {
		for part := range strings.SplitSeq(u.RawQuery, "&") {
			key, val, _ := strings.Cut(part, "=")
			if key == id {
				return unescape(val), true
			}
		}
	}

	segs := strings.Split(u.EscapedPath(), "/")
	for i := 0; i+1 < len(segs); i++ {
		if segs[i] == id {
			return unescape(segs[i+1]), true
		}
	}

	return "", false
}

func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}

	return s
}

// Filename returns the last path segment of href, or "" when the path ends
// in a slash.
func Filename(href string) string {
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.EscapedPath()
	}

	return p[strings.LastIndex(p, "/")+1:]
}
