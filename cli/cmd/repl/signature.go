package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// signatures lists the parameters of every callable with a known shape.
// Optional parameters are bracketed and variadic ones carry a "..." prefix.
var signatures = map[string][]string{
	// built-ins
	"get":        {"obj", "property"},
	"call":       {"fn", "args", "[this]"},
	"url":        {"[id]", "[url]"},
	"first":      {"list"},
	"last":       {"list"},
	"unique":     {"list"},
	"intersects": {"a", "b"},
	"sum":        {"...values"},
	"average":    {"...values"},
	"min":        {"...values"},
	"max":        {"...values"},
	"count":      {"list"},
	"reverse":    {"list"},
	"round":      {"num", "[decimals]"},
	"ordinal":    {"num"},
	"digits":     {"digits", "[decimals]", "num"},
	"iff":        {"condition", "[iftrue]", "[iffalse]"},
	"group":      {"...pairs"},
	"list":       {"...items"},
	"random":     {"[min]", "[max]", "[step]"},
	"shuffle":    {"list"},
	"replace":    {"haystack", "needle", "[replacement]", "[iterations]"},
	"len":        {"text"},
	"search":     {"haystack", "needle"},
	"starts":     {"haystack", "needle"},
	"ends":       {"haystack", "needle"},
	"join":       {"list", "[glue]"},
	"idify":      {"text"},
	"readable":   {"text"},
	"uppercase":  {"text"},
	"lowercase":  {"text"},
	"from":       {"haystack", "needle"},
	"fromlast":   {"haystack", "needle"},
	"to":         {"haystack", "needle"},
	"tofirst":    {"haystack", "needle"},
	"between":    {"haystack", "from", "to", "[tight]"},
	"filename":   {"url"},
	"json":       {"value"},
	"split":      {"text", "[separator]"},
	"log":        {"...values"},

	// actions
	"set":    {"obj", "property", "value"},
	"add":    {"list", "...items"},
	"delete": {"...refs"},
	"clear":  {"...targets"},

	// math
	"atan2": {"y", "x"},
	"pow":   {"base", "exponent"},
	"hypot": {"...values"},
	"abs":   {"x"},
	"ceil":  {"x"},
	"floor": {"x"},
	"sqrt":  {"x"},
	"trunc": {"x"},
	"sign":  {"x"},

	// expr predicates
	"all":       {"list", "predicate"},
	"any":       {"list", "predicate"},
	"one":       {"list", "predicate"},
	"none":      {"list", "predicate"},
	"map":       {"list", "mapper"},
	"filter":    {"list", "predicate"},
	"find":      {"list", "predicate"},
	"findIndex": {"list", "predicate"},
	"findLast":  {"list", "predicate"},
	"groupBy":   {"list", "mapper"},
	"sortBy":    {"list", "mapper"},
	"reduce":    {"list", "reducer", "[initial]"},
}

// Signature hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// signature is a callable name and its parameters.
type signature struct {
	name   string
	params []string
}

func (s signature) String() string {
	return s.name + "(" + strings.Join(s.params, ", ") + ")"
}

// lookupSignature finds the signature of name, ignoring case the way calls
// do.
func lookupSignature(name string) (signature, bool) {
	if params, ok := signatures[name]; ok {
		return signature{name: name, params: params}, true
	}

	for n, params := range signatures {
		if strings.EqualFold(n, name) {
			return signature{name: n, params: params}, true
		}
	}

	return signature{}, false
}

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // callee name, the last segment of a member chain
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// detectFunctionCall reports the innermost call whose parameter list
// contains the cursor, with the index of the argument being typed.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	// Find the unmatched opening paren before the cursor.
	open, depth := -1, 0

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')', ']':
			depth++

		case '(', '[':
			if depth > 0 {
				depth--
			} else if r == '(' {
				open = i
			} else {
				return functionCall{}
			}
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" {
		return functionCall{}
	}

	argIndex := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[', '{':
			depth++

		case ')', ']', '}':
			depth--

		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// renderSignatureHint renders sig with the parameter at argIndex
// highlighted. A variadic parameter stays highlighted for every argument
// past it.
func renderSignatureHint(sig signature, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(sig.name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range sig.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		current := argIndex == i || (strings.HasPrefix(param, "...") && argIndex >= i)
		if current {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
