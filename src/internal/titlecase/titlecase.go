// Package titlecase applies headline-style capitalization to journal names
// and entry titles and wraps the result in BibTeX case protection.
package titlecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minorWords stay lower case unless they open or close the phrase.
var minorWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"and": {}, "or": {}, "but": {}, "nor": {},
	"as": {}, "at": {}, "by": {}, "for": {}, "from": {}, "in": {}, "into": {},
	"of": {}, "on": {}, "to": {}, "via": {}, "with": {},
}

// knownAcronyms are upper-cased even when written in lower case.
var knownAcronyms = map[string]string{
	"usa":  "USA",
	"uk":   "UK",
	"eu":   "EU",
	"nber": "NBER",
	"oecd": "OECD",
	"gdp":  "GDP",
	"ceo":  "CEO",
	"r&d":  "R&D",
	"imf":  "IMF",
	"ecb":  "ECB",
}

// IsMinor reports whether word is on the minor-word list.
func IsMinor(word string) bool {
	_, ok := minorWords[strings.ToLower(word)]
	return ok
}

// MinorWords returns a copy of the minor-word list.
func MinorWords() []string {
	out := make([]string, 0, len(minorWords))
	for w := range minorWords {
		out = append(out, w)
	}
	return out
}

type casers struct {
	title cases.Caser
	lower cases.Caser
}

func newCasers() casers {
	return casers{
		title: cases.Title(language.English),
		lower: cases.Lower(language.English),
	}
}

// Case returns phrase in headline style. Whitespace runs collapse to a
// single space. Case(Case(s)) == Case(s).
func Case(phrase string) string {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return ""
	}
	c := newCasers()
	out := make([]string, len(words))
	for i, w := range words {
		force := i == 0 || i == len(words)-1 || opensClause(words[i-1])
		out[i] = c.word(w, force)
	}
	return strings.Join(out, " ")
}

// opensClause reports whether the word before a token ends a title and
// starts a subtitle.
func opensClause(prev string) bool {
	return strings.HasSuffix(prev, ":") ||
		strings.HasSuffix(prev, "—") ||
		strings.HasSuffix(prev, "–") ||
		strings.Trim(prev, "-") == ""
}

func (c casers) word(w string, force bool) string {
	if strings.ContainsRune(w, '\\') {
		return w
	}
	lead, core, trail := splitCore(w)
	if acr, ok := knownAcronyms[strings.ToLower(core)]; ok {
		return lead + acr + trail
	}
	if isAcronym(w) {
		return w
	}
	segs := strings.Split(w, "-")
	if len(segs) == 1 {
		return c.segment(w, !force)
	}
	for j, seg := range segs {
		// The first and last parts of a compound are always capitalized.
		minorOK := j > 0 && j < len(segs)-1
		segs[j] = c.segment(seg, minorOK)
	}
	return strings.Join(segs, "-")
}

func (c casers) segment(seg string, minorOK bool) string {
	if seg == "" || isAcronym(seg) || hasInnerUpper(seg) || strings.IndexFunc(seg, unicode.IsDigit) >= 0 {
		return seg
	}
	_, core, _ := splitCore(seg)
	if minorOK && IsMinor(core) {
		return c.lower.String(seg)
	}
	return c.title.String(seg)
}

// splitCore separates leading and trailing punctuation from a token.
func splitCore(w string) (lead, core, trail string) {
	isWord := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
	start := strings.IndexFunc(w, isWord)
	if start < 0 {
		return w, "", ""
	}
	end := strings.LastIndexFunc(w, isWord)
	// include the full final rune
	for end+1 < len(w) && !isRuneStart(w[end+1]) {
		end++
	}
	return w[:start], w[start : end+1], w[end+1:]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// isAcronym reports whether s has at least two letters and all of them are
// upper case.
func isAcronym(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}

// hasInnerUpper reports whether an upper-case letter follows the first
// letter of s, as in "McDonald" or "iPhone".
func hasInnerUpper(s string) bool {
	first := true
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if first {
			first = false
			continue
		}
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
