package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	exprbuiltin "github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tmplfn/dispatch"
	"github.com/ardnew/tmplfn/resolve"
	"github.com/ardnew/tmplfn/value"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "data", "funcs", "action", "edit", "clear", "quit"}

// isWordBoundary reports whether r delimits a completion word: whitespace,
// the member-access dot, or an operator or punctuation character.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%', '^',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';',
		'"', '\'':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. The word is empty when the cursor sits on a
// boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word that
// starts at wordStart. For input "x + items.tags.le" with the word "le",
// the parent path is "items.tags". Top-level words have no parent.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// topLevelNames returns the names valid at the start of an expression: the
// data document's keys, the reserved data name, every callable name, and
// the expr predicates that no callable shadows.
func topLevelNames(data value.Value, names []string) []string {
	var out []string

	if m := value.Current(data).Map(); m != nil {
		out = append(out, m.Keys()...)
	}

	out = append(out, dispatch.DefaultReserved)
	out = append(out, names...)

	for _, fn := range exprbuiltin.Builtins {
		if !fn.Predicate {
			continue
		}

		if !slices.ContainsFunc(names, func(n string) bool { return strings.EqualFold(n, fn.Name) }) {
			out = append(out, fn.Name)
		}
	}

	return dedupe(out)
}

// childCandidates returns the property names of the value reached by
// parent, a dotted path resolved the way expressions resolve it.
func childCandidates(data value.Value, parent string) []string {
	cur := data

	for i, seg := range strings.Split(parent, ".") {
		if i == 0 && strings.EqualFold(seg, dispatch.DefaultReserved) {
			continue
		}

		cur = resolve.Get(cur, value.String(seg), nil)
	}

	return propertyNames(value.Current(cur))
}

// propertyNames lists what can follow a dot after v. A list offers its
// length and the keys of its mapping elements, which resolve across the
// whole list.
func propertyNames(v value.Value) []string {
	switch {
	case v.Map() != nil:
		return v.Map().Keys()

	case v.List() != nil:
		names := []string{"length"}

		for _, item := range v.List().Items {
			if m := value.Current(item).Map(); m != nil {
				names = append(names, m.Keys()...)
			}
		}

		return dedupe(names)

	case v.Kind() == value.KindString:
		return []string{"length"}
	}

	return nil
}

// dedupe drops repeated names, keeping the first occurrence.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]

	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}

		seen[n] = struct{}{}
		out = append(out, n)
	}

	return out
}

// allMatches wraps candidates as unfiltered matches.
func allMatches(candidates []string) fuzzy.Matches {
	matches := make(fuzzy.Matches, len(candidates))
	for i, c := range candidates {
		matches[i] = fuzzy.Match{Str: c, Index: i}
	}

	return matches
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best first. An empty word offers nothing at the top level
// so the hint stays visible, and every member after a dot.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	parent := ""

	switch m.mode {
	case modeCtrl:
		candidates = ctrlCommands

	default:
		parent = parentPath(input, wordStart)
		if parent == "" {
			candidates = topLevelNames(m.data, m.engine.Names())
		} else {
			candidates = childCandidates(m.data, parent)
		}
	}

	if len(candidates) == 0 || (word == "" && parent == "") {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		return allMatches(candidates), candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing)
// uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1
		if i > 0 && !last && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Callables carry a "()" suffix that is never inserted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if _, ok := lookupSignature(match.Str); ok {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}
