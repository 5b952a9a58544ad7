// Package bibtex scans BibTeX documents into entries and fields that keep
// their exact byte offsets, so callers can splice edits back over the
// original text without re-rendering untouched content.
package bibtex

import (
	"iter"
	"slices"
	"strings"
)

// Span is a half-open byte range [Start, End) into the scanned text.
type Span struct {
	Start int
	End   int
}

// Valid reports whether the span refers to a real range.
func (s Span) Valid() bool { return s.Start >= 0 && s.End >= s.Start }

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	if !s.Valid() {
		return 0
	}
	return s.End - s.Start
}

// NoSpan marks an absent optional span (e.g. a field without a trailing comma).
var NoSpan = Span{Start: -1, End: -1}

// ValueKind describes how a field value was delimited.
type ValueKind int

const (
	// Braced values look like {...}.
	Braced ValueKind = iota
	// Quoted values look like "...".
	Quoted
	// Bare values are numbers or @string macro names.
	Bare
	// Concat values join several parts with '#'.
	Concat
)

// Field is a single `name = value` assignment inside an entry.
type Field struct {
	Name      string // as written
	Value     string // raw value including its delimiters
	Kind      ValueKind
	Span      Span // name start through value end
	NameSpan  Span
	ValueSpan Span
	Sep       Span // trailing comma, NoSpan when the field is last without one
}

// Key returns the case-insensitive field key.
func (f Field) Key() string { return strings.ToLower(f.Name) }

// Entry is one @type{key, ...} record.
type Entry struct {
	Type   string // lower-cased
	Key    string
	Span   Span
	Fields []Field
	// Opaque entries (@comment, @preamble, @string) are scanned for their
	// extent only and carry no fields.
	Opaque bool
	// Malformed entries could not be scanned completely. Their span covers
	// everything up to the next line that starts with '@' and they carry no
	// fields.
	Malformed bool
}

// Document is a scanned text plus its entries in source order.
type Document struct {
	Text    string
	Entries []Entry
}

// Segment is either a gap (Entry == nil) or an entry, in document order.
type Segment struct {
	Span  Span
	Entry *Entry
}

// Parse scans text completely.
func Parse(text string) *Document {
	return &Document{Text: text, Entries: slices.Collect(Scan(text))}
}

// Segments tiles the document: concatenating the text of every segment
// span in order reproduces Text byte for byte.
func (d *Document) Segments() []Segment {
	out := make([]Segment, 0, 2*len(d.Entries)+1)
	pos := 0
	for i := range d.Entries {
		e := &d.Entries[i]
		if e.Span.Start > pos {
			out = append(out, Segment{Span: Span{pos, e.Span.Start}})
		}
		out = append(out, Segment{Span: e.Span, Entry: e})
		pos = e.Span.End
	}
	if pos < len(d.Text) {
		out = append(out, Segment{Span: Span{pos, len(d.Text)}})
	}
	return out
}

// LineOf returns the 1-based line number of offset in text.
func LineOf(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n") + 1
}

// Scan lazily yields the entries of text in order. It never fails: input
// it cannot make sense of is reported as a Malformed entry and scanning
// resumes at the next line beginning with '@'.
func Scan(text string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		sc := &scanner{s: text}
		for {
			start := sc.nextEntry(sc.i)
			if start >= len(sc.s) {
				return
			}
			if !yield(sc.entry(start)) {
				return
			}
		}
	}
}

type scanner struct {
	s string
	i int
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// isNameByte covers entry types, field names and bare macro/number values.
func isNameByte(c byte) bool {
	return isLetter(c) || isDigit(c) || strings.IndexByte("_-:.+/", c) >= 0
}

func (sc *scanner) skipSpace() {
	for sc.i < len(sc.s) && isSpace(sc.s[sc.i]) {
		sc.i++
	}
}

func (sc *scanner) name() string {
	start := sc.i
	for sc.i < len(sc.s) && isNameByte(sc.s[sc.i]) {
		sc.i++
	}
	return sc.s[start:sc.i]
}

// nextEntry returns the offset of the next '@' that opens an entry at or
// after from, or len(s). Text outside entries is free-form; '%' starts a
// comment that runs to the end of the line.
func (sc *scanner) nextEntry(from int) int {
	s := sc.s
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '%':
			nl := strings.IndexByte(s[i:], '\n')
			if nl < 0 {
				return len(s)
			}
			i += nl
		case '@':
			if opensEntry(s, i) {
				return i
			}
		}
	}
	return len(s)
}

// opensEntry reports whether the '@' at i is followed by a type token and
// an opening delimiter.
func opensEntry(s string, i int) bool {
	j := i + 1
	for j < len(s) && isSpace(s[j]) {
		j++
	}
	k := j
	for k < len(s) && isNameByte(s[k]) {
		k++
	}
	if k == j || !isLetter(s[j]) {
		return false
	}
	for k < len(s) && isSpace(s[k]) {
		k++
	}
	return k < len(s) && (s[k] == '{' || s[k] == '(')
}

func closerFor(open byte) byte {
	if open == '(' {
		return ')'
	}
	return '}'
}

func isOpaqueType(t string) bool {
	switch t {
	case "comment", "preamble", "string":
		return true
	}
	return false
}

func (sc *scanner) entry(start int) Entry {
	e := Entry{Span: Span{Start: start, End: -1}}
	sc.i = start + 1
	sc.skipSpace()
	e.Type = strings.ToLower(sc.name())
	sc.skipSpace()
	closer := closerFor(sc.s[sc.i])
	sc.i++

	ok := false
	if isOpaqueType(e.Type) {
		e.Opaque = true
		ok = sc.skipBody(closer)
	} else {
		ok = sc.body(&e, closer)
	}
	if ok {
		e.Span.End = sc.i
		// A stray closing brace before the next entry means this one was
		// closed early by an unbalanced value.
		if strayBrace(sc.s[sc.i:sc.nextEntry(sc.i)]) {
			e.Fields = nil
			e.Malformed = true
		}
		return e
	}
	e.Fields = nil
	e.Malformed = true
	e.Span.End = recoverEnd(sc.s, start)
	sc.i = e.Span.End
	return e
}

// body scans the citation key and the field list up to the entry's closer.
func (sc *scanner) body(e *Entry, closer byte) bool {
	s := sc.s
	sc.skipSpace()
	kstart := sc.i
	for sc.i < len(s) && s[sc.i] != ',' && s[sc.i] != closer {
		if s[sc.i] == '{' || s[sc.i] == '=' || s[sc.i] == '"' {
			return false
		}
		sc.i++
	}
	if sc.i >= len(s) {
		return false
	}
	e.Key = strings.TrimSpace(s[kstart:sc.i])
	if s[sc.i] == closer {
		sc.i++
		return true
	}
	sc.i++ // comma after key

	for {
		sc.skipSpace()
		if sc.i >= len(s) {
			return false
		}
		switch s[sc.i] {
		case closer:
			sc.i++
			return true
		case ',':
			sc.i++
			continue
		}
		f, ok := sc.field(closer)
		if !ok {
			return false
		}
		e.Fields = append(e.Fields, f)
	}
}

func (sc *scanner) field(closer byte) (Field, bool) {
	s := sc.s
	f := Field{Sep: NoSpan}
	nstart := sc.i
	f.Name = sc.name()
	if f.Name == "" {
		return f, false
	}
	f.NameSpan = Span{nstart, sc.i}
	sc.skipSpace()
	if sc.i >= len(s) || s[sc.i] != '=' {
		return f, false
	}
	sc.i++
	sc.skipSpace()
	vstart := sc.i
	kind, ok := sc.value()
	if !ok {
		return f, false
	}
	f.Kind = kind
	f.ValueSpan = Span{vstart, sc.i}
	f.Value = s[vstart:sc.i]
	f.Span = Span{nstart, sc.i}
	sc.skipSpace()
	if sc.i >= len(s) {
		return f, false
	}
	switch s[sc.i] {
	case ',':
		f.Sep = Span{sc.i, sc.i + 1}
		sc.i++
	case closer:
	default:
		return f, false
	}
	return f, true
}

// value scans one value, possibly several parts joined with '#'.
func (sc *scanner) value() (ValueKind, bool) {
	s := sc.s
	parts := 0
	kind := Bare
	for {
		if sc.i >= len(s) {
			return kind, false
		}
		switch s[sc.i] {
		case '{':
			if !sc.braced() {
				return kind, false
			}
			kind = Braced
		case '"':
			if !sc.quoted() {
				return kind, false
			}
			kind = Quoted
		default:
			if sc.name() == "" {
				return kind, false
			}
			kind = Bare
		}
		parts++
		end := sc.i
		sc.skipSpace()
		if sc.i < len(s) && s[sc.i] == '#' {
			sc.i++
			sc.skipSpace()
			continue
		}
		sc.i = end
		break
	}
	if parts > 1 {
		kind = Concat
	}
	return kind, true
}

// braced consumes a {...} group, counting nested braces. As in BibTeX a
// backslash does not escape a brace: `{C:\dir\}` closes at its last byte.
func (sc *scanner) braced() bool {
	s := sc.s
	depth := 0
	for sc.i < len(s) {
		switch s[sc.i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				sc.i++
				return true
			}
		}
		sc.i++
	}
	return false
}

// quoted consumes a "..." value; a quote inside braces does not end it,
// so accented letters are written {\"u}.
func (sc *scanner) quoted() bool {
	s := sc.s
	depth := 0
	sc.i++
	for sc.i < len(s) {
		switch s[sc.i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		case '"':
			if depth == 0 {
				sc.i++
				return true
			}
		}
		sc.i++
	}
	return false
}

// skipBody consumes an opaque entry body through its closer.
func (sc *scanner) skipBody(closer byte) bool {
	s := sc.s
	depth := 0
	for sc.i < len(s) {
		c := s[sc.i]
		switch {
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == closer && depth == 0:
			sc.i++
			return true
		case c == '}':
			return false
		}
		sc.i++
	}
	return false
}

// strayBrace reports whether inter-entry text looks like the remainder of
// an entry that was closed early: a line opening with '}' or a `name =`
// assignment carrying a '}'. Free-form notes such as "see {this}" do not
// count.
func strayBrace(gap string) bool {
	for line := range strings.Lines(gap) {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "%") || !strings.ContainsRune(t, '}') {
			continue
		}
		if t[0] == '}' || assignment(strings.TrimLeft(t, ", \t")) {
			return true
		}
	}
	return false
}

// assignment reports whether t starts with a field name followed by '='.
func assignment(t string) bool {
	i := 0
	for i < len(t) && isNameByte(t[i]) {
		i++
	}
	if i == 0 {
		return false
	}
	for i < len(t) && isSpace(t[i]) {
		i++
	}
	return i < len(t) && t[i] == '='
}

// recoverEnd finds where a malformed entry starting at start ends: the
// beginning of the next line whose first non-blank byte is '@', or EOF.
func recoverEnd(s string, start int) int {
	i := start
	for {
		nl := strings.IndexByte(s[i:], '\n')
		if nl < 0 {
			return len(s)
		}
		ls := i + nl + 1
		j := ls
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		if j < len(s) && s[j] == '@' {
			return ls
		}
		i = ls
	}
}
