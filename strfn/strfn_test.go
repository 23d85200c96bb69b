package strfn

import (
	"math"
	"slices"
	"testing"
)

func TestReplace(t *testing.T) {
	tests := []struct {
		name        string
		haystack    string
		needle      string
		replacement string
		iterations  int
		want        string
	}{
		{"single_pass", "aaaa", "a", "b", 1, "bbbb"},
		{"two_passes", "aaaa", "a", "b", 2, "bbbb"},
		{"hundred_passes", "aaaa", "a", "b", 100, "bbbb"},
		{"literal_needle", "a.b.c", ".", "-", 1, "a-b-c"},
		{"regex_meta", "1+1=2", "+", " plus ", 1, "1 plus 1=2"},
		{"literal_replacement", "x", "x", "$0", 1, "$0"},
		{"collapse_once", "a    b", "  ", " ", 1, "a  b"},
		{"collapse_bounded", "a    b", "  ", " ", 2, "a b"},
		{"collapse_until_stable", "a        b", "  ", " ", 100, "a b"},
		{"zero_iterations", "aa", "a", "b", 0, "aa"},
		{"negative_iterations", "aa", "a", "b", -3, "aa"},
		{"absent", "abc", "z", "y", 5, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Replace(tt.haystack, tt.needle, tt.replacement, tt.iterations)
			if got != tt.want {
				t.Errorf("Replace() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBetween(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		from, to string
		tight    bool
		want     string
	}{
		{"basic", "a[b]c", "[", "]", false, "b"},
		{"basic_tight", "a[b]c", "[", "]", true, "b"},
		{"absent", "x", "[", "]", false, ""},
		{"widest", "[[a]]", "[", "]", false, "[a]"},
		{"tightest", "[[a]]", "[", "]", true, "a"},
		{"tight_crossed", "[a][b]", "[", "]", true, ""},
		{"multi_char_delims", "<<x>>", "<<", ">>", false, "x"},
		{"from_only", "key=value", "=", "", false, "value"},
		{"to_only", "key=value", "", "=", false, "key"},
		{"to_missing", "key=value", "=", ";", false, ""},
		{"reversed", "]a[", "[", "]", false, ""},
		{"neither", "abc", "", "", false, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Between(tt.haystack, tt.from, tt.to, tt.tight); got != tt.want {
				t.Errorf("Between() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromTo(t *testing.T) {
	const path = "a/b/c"

	tests := []struct {
		name string
		fn   func(string, string) string
		want string
	}{
		{"from", From, "b/c"},
		{"fromlast", FromLast, "c"},
		{"to", To, "a/b"},
		{"tofirst", ToFirst, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(path, "/"); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, path, got, tt.want)
			}
		})
	}
}

func TestIdify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Café Déjà-Vu!", "cafe-deja-vu"},
		{"  Hello   World  ", "hello-world"},
		{"snake_case stays", "snake_case-stays"},
		{"Ünïcödé", "unicode"},
		{"日本", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Idify(tt.in); got != tt.want {
				t.Errorf("Idify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReadable(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"myXMLFile", "My XMLFile"},
		{"fooBar", "Foo bar"},
		{"fooBarBaz", "Foo bar baz"},
		{"first_name", "First name"},
		{"kebab-case-id", "Kebab case id"},
		{"a/b", "A b"},
		{"-leading", "-leading"},
		{"Already", "Already"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Readable(tt.in); got != tt.want {
				t.Errorf("Readable(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDigits(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		decimals int
		num      float64
		want     string
	}{
		{"truncate_fraction", 3, 2, 5.9999, "005.99"},
		{"truncate_integer", 2, -1, 1234.5, "34.5"},
		{"pad_fraction", 2, 2, 5.9, "05.90"},
		{"no_fraction", 4, -1, 42, "0042"},
		{"zero_decimals", 3, 0, 7.89, "007"},
		{"all_zero", 3, -1, 1000, "000"},
		{"negative", 3, 1, -5.55, "-005.5"},
		{"negative_zero", 2, -1, -100, "00"},
		{"nan", 2, 2, math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Digits(tt.width, tt.decimals, tt.num); got != tt.want {
				t.Errorf("Digits(%d, %d, %v) = %q, want %q", tt.width, tt.decimals, tt.num, got, tt.want)
			}
		})
	}
}

func TestOrdinal(t *testing.T) {
	tests := map[float64]string{
		1: "st", 2: "nd", 3: "rd", 4: "th", 10: "th",
		11: "th", 12: "th", 13: "th", 20: "th",
		21: "st", 22: "nd", 23: "rd", 101: "st",
		111: "th", 112: "th", 0: "th", 1.5: "th", -2: "nd",
	}

	for n, want := range tests {
		if got := Ordinal(n); got != want {
			t.Errorf("Ordinal(%v) = %q, want %q", n, got, want)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		num      float64
		decimals int
		want     float64
	}{
		{2.5, 0, 3},
		{-2.5, 0, -2},
		{1.005, 2, 1.01},
		{-1.005, 2, -1.01},
		{9.995, 2, 10},
		{1.23, 5, 1.23},
		{math.Inf(1), 2, math.Inf(1)},
	}

	for _, tt := range tests {
		if got := Round(tt.num, tt.decimals); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.num, tt.decimals, got, tt.want)
		}
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		haystack, needle string
		want             int
		starts, ends     bool
	}{
		{"Hello World", "world", 6, false, true},
		{"Hello World", "HELLO", 0, true, false},
		{"héllo", "LLO", 2, false, true},
		{"abc", "", -1, false, false},
		{"", "a", -1, false, false},
		{"abc", "z", -1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.haystack+"/"+tt.needle, func(t *testing.T) {
			if got := Search(tt.haystack, tt.needle); got != tt.want {
				t.Errorf("Search() = %d, want %d", got, tt.want)
			}

			if got := Starts(tt.haystack, tt.needle); got != tt.starts {
				t.Errorf("Starts() = %v, want %v", got, tt.starts)
			}

			if got := Ends(tt.haystack, tt.needle); got != tt.ends {
				t.Errorf("Ends() = %v, want %v", got, tt.ends)
			}
		})
	}
}

func TestSplitSpace(t *testing.T) {
	if got, want := SplitSpace("a  b\tc"), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("SplitSpace() = %q, want %q", got, want)
	}
}

func TestURLParam(t *testing.T) {
	const href = "https://example.com/people/ada%20l/edit?tab=info&flag&q=a%26b"

	tests := []struct {
		id     string
		want   string
		wantOK bool
	}{
		{"tab", "info", true},
		{"flag", "", true},
		{"q", "a&b", true},
		{"people", "ada l", true},
		{"edit", "", false},
		{"missing", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := URLParam(href, tt.id)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("URLParam(%q) = %q, %v; want %q, %v", tt.id, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	tests := map[string]string{
		"https://example.com/a/b/report.pdf?x=1": "report.pdf",
		"https://example.com/a/b/":               "",
		"images/cat.png":                         "cat.png",
	}

	for in, want := range tests {
		if got := Filename(in); got != want {
			t.Errorf("Filename(%q) = %q, want %q", in, got, want)
		}
	}
}
