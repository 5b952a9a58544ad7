package bibtex

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// EditKind distinguishes value rewrites from deletions.
type EditKind int

const (
	// Replace substitutes Text for the span.
	Replace EditKind = iota
	// Delete removes the span. When that leaves its line blank the whole
	// line goes, together with blank lines directly around it that lie
	// inside Bounds.
	Delete
)

// Edit is one change against the original text.
type Edit struct {
	Kind   EditKind
	Span   Span
	Text   string
	Bounds Span // enclosing entry; only consulted for Delete
}

// ErrOverlap is returned by Apply when two edits claim the same bytes.
var ErrOverlap = errors.New("overlapping edits")

// Apply produces the edited text. Edits are ordered by descending start
// offset, so each splice leaves the offsets of the ones still pending
// valid; the output is assembled in a single pass over that order.
// Touching or overlapping deletions are merged before a line is judged
// blank, so several removals on one line clear it together. Any other
// overlap is an error.
func Apply(text string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}
	es := make([]Edit, 0, len(edits))
	for _, e := range edits {
		if !e.Span.Valid() || e.Span.End > len(text) {
			return "", fmt.Errorf("edit span %d:%d outside text of %d bytes", e.Span.Start, e.Span.End, len(text))
		}
		if e.Kind == Delete {
			e.Span.End = skipBlanks(text, e.Span.End)
		}
		es = append(es, e)
	}
	merged, err := merge(es)
	if err != nil {
		return "", err
	}
	for i := range merged {
		if merged[i].Kind == Delete {
			merged[i].Span = expandDelete(text, merged[i].Span, merged[i].Bounds)
		}
	}
	// line expansion can make neighbouring deletions meet
	if merged, err = merge(merged); err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for i := len(merged) - 1; i >= 0; i-- {
		e := merged[i]
		b.WriteString(text[pos:e.Span.Start])
		if e.Kind == Replace {
			b.WriteString(e.Text)
		}
		pos = e.Span.End
	}
	b.WriteString(text[pos:])
	return b.String(), nil
}

// merge sorts edits by descending start and joins deletions that touch or
// overlap. The result is ordered by descending start.
func merge(es []Edit) ([]Edit, error) {
	slices.SortStableFunc(es, func(a, b Edit) int {
		if c := cmp.Compare(b.Span.Start, a.Span.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.Span.End, a.Span.End)
	})
	merged := []Edit{es[0]}
	for _, e := range es[1:] {
		last := &merged[len(merged)-1]
		bothDelete := e.Kind == Delete && last.Kind == Delete
		switch {
		case bothDelete && e.Span.End >= last.Span.Start:
			last.Span = Span{e.Span.Start, max(e.Span.End, last.Span.End)}
		case e.Span.End <= last.Span.Start:
			merged = append(merged, e)
		default:
			return nil, fmt.Errorf("%w: %d:%d and %d:%d", ErrOverlap, e.Span.Start, e.Span.End, last.Span.Start, last.Span.End)
		}
	}
	return merged, nil
}

func isBlank(s string) bool { return strings.TrimLeft(s, " \t\r") == "" }

// skipBlanks returns the offset of the first byte at or after i that is not
// a space or tab.
func skipBlanks(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return i
}

// expandDelete widens a deletion that ends its line. If nothing else is
// left on the line, the whole line goes together with the blank lines
// adjacent to it within bounds; otherwise the spaces before the deletion go,
// so no trailing whitespace is left behind.
func expandDelete(text string, sp, bounds Span) Span {
	start, end := sp.Start, sp.End
	le := end
	if le < len(text) && text[le] == '\r' {
		le++
	}
	switch {
	case le < len(text) && text[le] == '\n':
		le++
	case le == len(text):
	default:
		return sp
	}
	ls := strings.LastIndexByte(text[:start], '\n') + 1
	if !bounds.Valid() || ls <= bounds.Start || !isBlank(text[ls:start]) {
		for start > ls && (text[start-1] == ' ' || text[start-1] == '\t') {
			start--
		}
		return Span{start, end}
	}

	// blank lines below
	for le < bounds.End {
		nl := strings.IndexByte(text[le:], '\n')
		if nl < 0 || le+nl >= bounds.End || !isBlank(text[le:le+nl]) {
			break
		}
		le += nl + 1
	}
	// blank lines above
	for ls > bounds.Start {
		pls := strings.LastIndexByte(text[:ls-1], '\n') + 1
		if pls <= bounds.Start || !isBlank(text[pls:ls-1]) {
			break
		}
		ls = pls
	}
	return Span{ls, le}
}
