// Package names locates surnames in BibTeX name lists (author, editor) and
// wraps them in an upper-casing marker.
package names

import (
	"strings"
)

// Marker is the LaTeX command placed around a protected surname.
const Marker = `\MakeUppercase`

// Name is one person of a name list, located by byte offsets in the list.
type Name struct {
	Text  string
	Start int
	End   int
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

// SplitList splits a name list on the word "and", in any case, and on
// semicolons found outside braces, so "{Barnes and Noble}" stays one name.
// Empty names are dropped.
func SplitList(list string) []Name {
	var out []Name
	add := func(start, end int) {
		for start < end && isSpace(list[start]) {
			start++
		}
		for end > start && isSpace(list[end-1]) {
			end--
		}
		if end > start {
			out = append(out, Name{Text: list[start:end], Start: start, End: end})
		}
	}
	depth := 0
	start := 0
	for i := 0; i < len(list); i++ {
		c := list[i]
		switch {
		case c == '\\':
			i++
		case c == '{':
			depth++
		case c == '}':
			depth--
		case depth != 0:
		case c == ';':
			add(start, i)
			start = i + 1
		case isSpace(c):
			j := i
			for j < len(list) && isSpace(list[j]) {
				j++
			}
			if j+3 < len(list) && strings.EqualFold(list[j:j+3], "and") && isSpace(list[j+3]) {
				add(start, i)
				start = j + 3
				i = j + 2
				continue
			}
			i = j - 1
		}
	}
	add(start, len(list))
	return out
}

// SurnameSpan returns the offsets of the surname inside a single name.
// "Family, Given" yields the part before the first top-level comma,
// "Given Family" the last top-level word. ok is false for "others", for
// names without a surname and for surnames already carrying Marker.
func SurnameSpan(name string) (start, end int, ok bool) {
	if strings.TrimSpace(name) == "others" {
		return 0, 0, false
	}
	depth := 0
	wordStart := -1
	lastStart, lastEnd := -1, -1
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '\\':
			if wordStart < 0 {
				wordStart = i
			}
			i++
			continue
		case c == '{':
			depth++
		case c == '}':
			depth--
		case depth == 0 && c == ',':
			start, end = 0, i
			for end > start && isSpace(name[end-1]) {
				end--
			}
			return start, end, end > start && !strings.HasPrefix(name[start:end], Marker)
		case depth == 0 && isSpace(c):
			if wordStart >= 0 {
				lastStart, lastEnd = wordStart, i
				wordStart = -1
			}
			continue
		}
		if wordStart < 0 {
			wordStart = i
		}
	}
	if wordStart >= 0 {
		lastStart, lastEnd = wordStart, len(name)
	}
	if lastStart < 0 || strings.HasPrefix(name[lastStart:lastEnd], Marker) {
		return 0, 0, false
	}
	return lastStart, lastEnd, true
}

// wrap puts Marker around a surname; a surname that is already a brace
// group only gains the command in front of it.
func wrap(surname string) string {
	if strings.HasPrefix(surname, "{") && strings.HasSuffix(surname, "}") && groupCloses(surname) {
		return Marker + surname
	}
	return Marker + "{" + surname + "}"
}

// groupCloses reports whether the brace opening s closes at its last byte.
func groupCloses(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

// ProtectSurnames wraps every surname of a braced or quoted name-list
// value and returns the new value with the number of names changed. Bare
// (macro) values and lists without parseable names come back unchanged
// with a count of zero.
func ProtectSurnames(raw string) (string, int) {
	if len(raw) < 2 {
		return raw, 0
	}
	open, last := raw[0], raw[len(raw)-1]
	if !(open == '{' && last == '}') && !(open == '"' && last == '"') {
		return raw, 0
	}
	inner := raw[1 : len(raw)-1]

	var b strings.Builder
	b.Grow(len(raw) + 16)
	b.WriteByte(open)
	pos, n := 0, 0
	for _, nm := range SplitList(inner) {
		s, e, ok := SurnameSpan(nm.Text)
		if !ok {
			continue
		}
		s += nm.Start
		e += nm.Start
		b.WriteString(inner[pos:s])
		b.WriteString(wrap(inner[s:e]))
		pos = e
		n++
	}
	if n == 0 {
		return raw, 0
	}
	b.WriteString(inner[pos:])
	b.WriteByte(last)
	return b.String(), n
}
