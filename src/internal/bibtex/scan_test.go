package bibtex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `% comment line, see @misc{x} below
@article{a1,
  author = {Doe, J and Smith, A},
  title = {Alpha {Beta}, Gamma},
  journal = "J. {Econ}",
  year = 2020,
  month = jan # "~1",
}

@book{b1,
  title = {Book Title}
}
`

func concatSegments(d *Document) string {
	var b strings.Builder
	for _, seg := range d.Segments() {
		b.WriteString(d.Text[seg.Span.Start:seg.Span.End])
	}
	return b.String()
}

func TestScanEntriesAndFields(t *testing.T) {
	doc := Parse(sample)
	require.Len(t, doc.Entries, 2)

	a := doc.Entries[0]
	assert.Equal(t, "article", a.Type)
	assert.Equal(t, "a1", a.Key)
	assert.False(t, a.Malformed)
	assert.True(t, strings.HasPrefix(sample[a.Span.Start:a.Span.End], "@article{a1,"))
	assert.True(t, strings.HasSuffix(sample[a.Span.Start:a.Span.End], "}"))

	require.Len(t, a.Fields, 5)
	names := make([]string, 0, len(a.Fields))
	for _, f := range a.Fields {
		names = append(names, f.Key())
		assert.Equal(t, f.Value, sample[f.ValueSpan.Start:f.ValueSpan.End])
		assert.Equal(t, f.Name, sample[f.NameSpan.Start:f.NameSpan.End])
		assert.True(t, f.Sep.Valid(), "field %s should have a trailing comma", f.Name)
	}
	assert.Equal(t, []string{"author", "title", "journal", "year", "month"}, names)

	assert.Equal(t, "{Alpha {Beta}, Gamma}", a.Fields[1].Value)
	assert.Equal(t, Braced, a.Fields[1].Kind)
	assert.Equal(t, Quoted, a.Fields[2].Kind)
	assert.Equal(t, "2020", a.Fields[3].Value)
	assert.Equal(t, Bare, a.Fields[3].Kind)
	assert.Equal(t, `jan # "~1"`, a.Fields[4].Value)
	assert.Equal(t, Concat, a.Fields[4].Kind)

	b := doc.Entries[1]
	assert.Equal(t, "book", b.Type)
	require.Len(t, b.Fields, 1)
	assert.Equal(t, NoSpan, b.Fields[0].Sep)
}

func TestScanIsLazy(t *testing.T) {
	seen := 0
	for e := range Scan(sample) {
		seen++
		assert.Equal(t, "a1", e.Key)
		break
	}
	assert.Equal(t, 1, seen)
}

func TestSegmentsRoundTrip(t *testing.T) {
	docs := []string{
		sample,
		"",
		"no entries at all\n",
		"@misc{k, title = {x}}",
		"@article{a,\n  title = {Broken {title},\n  year = {2020}\n}\n\n@book{b,\n  title = {Fine}\n}\n",
		"@article{a,\n  title = {Bad}},\n}\n@misc{m, title={ok}}\n% trailing comment\n",
		"@string{jpe = {Journal of Political Economy}}\n\n@article{x, journal = jpe}\n",
	}
	for _, text := range docs {
		doc := Parse(text)
		assert.Equal(t, text, concatSegments(doc))
	}
}

func TestScanUnbalancedValueIsMalformed(t *testing.T) {
	text := "@article{a,\n  title = {Broken {title},\n  year = {2020}\n}\n\n@book{b,\n  title = {Fine}\n}\n"
	doc := Parse(text)
	require.Len(t, doc.Entries, 2)

	a := doc.Entries[0]
	assert.True(t, a.Malformed)
	assert.Nil(t, a.Fields)
	assert.True(t, strings.HasPrefix(text[a.Span.End:], "@book{b,"))

	b := doc.Entries[1]
	assert.False(t, b.Malformed)
	assert.Equal(t, "b", b.Key)
	require.Len(t, b.Fields, 1)
	assert.Equal(t, "{Fine}", b.Fields[0].Value)
}

func TestScanUnterminatedValueAtEOF(t *testing.T) {
	text := "@article{a,\n  title = {Never closed,\n  year = 2020\n"
	doc := Parse(text)
	require.Len(t, doc.Entries, 1)
	assert.True(t, doc.Entries[0].Malformed)
	assert.Equal(t, len(text), doc.Entries[0].Span.End)
}

func TestScanStrayClosingBraceIsMalformed(t *testing.T) {
	text := "@article{a,\n  title = {Bad}},\n  year = {2020}\n}\n@misc{m, title={ok}}\n"
	doc := Parse(text)
	require.Len(t, doc.Entries, 2)
	assert.True(t, doc.Entries[0].Malformed)
	assert.False(t, doc.Entries[1].Malformed)
	assert.Equal(t, "m", doc.Entries[1].Key)
}

func TestScanOpaqueEntries(t *testing.T) {
	text := `@string{jpe = {Journal of Political Economy}}
@comment{ignore {this}, title = {x}}
@preamble{"\newcommand{\x}{y}"}
@article{k, journal = jpe}
`
	doc := Parse(text)
	require.Len(t, doc.Entries, 4)
	for _, e := range doc.Entries[:3] {
		assert.True(t, e.Opaque, e.Type)
		assert.False(t, e.Malformed, e.Type)
		assert.Empty(t, e.Fields)
	}
	k := doc.Entries[3]
	require.Len(t, k.Fields, 1)
	assert.Equal(t, "jpe", k.Fields[0].Value)
	assert.Equal(t, Bare, k.Fields[0].Kind)
}

func TestScanParenthesizedEntry(t *testing.T) {
	text := "@misc(k,\n  title = {x}\n)\n"
	doc := Parse(text)
	require.Len(t, doc.Entries, 1)
	e := doc.Entries[0]
	assert.False(t, e.Malformed)
	assert.Equal(t, "k", e.Key)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "title", e.Fields[0].Key())
	assert.Equal(t, len(text)-1, e.Span.End)
}

func TestScanQuotedValueWithBraces(t *testing.T) {
	text := `@misc{k, title = "A {"quoted"} word, here", year = {2001}}`
	doc := Parse(text)
	require.Len(t, doc.Entries, 1)
	require.Len(t, doc.Entries[0].Fields, 2)
	assert.Equal(t, `"A {"quoted"} word, here"`, doc.Entries[0].Fields[0].Value)
}

func TestScanMixedCaseKeysKeepSpelling(t *testing.T) {
	doc := Parse("@Article{k,\n  Journal = {x},\n  DOI = {y}\n}\n")
	require.Len(t, doc.Entries, 1)
	e := doc.Entries[0]
	assert.Equal(t, "article", e.Type)
	assert.Equal(t, "Journal", e.Fields[0].Name)
	assert.Equal(t, "journal", e.Fields[0].Key())
	assert.Equal(t, "doi", e.Fields[1].Key())
}

func TestLineOf(t *testing.T) {
	text := "a\nb\nc"
	assert.Equal(t, 1, LineOf(text, 0))
	assert.Equal(t, 2, LineOf(text, 2))
	assert.Equal(t, 3, LineOf(text, 100))
}

func TestSpanLen(t *testing.T) {
	doc := Parse(sample)
	assert.Equal(t, 4, doc.Entries[0].Fields[3].ValueSpan.Len())
	assert.Zero(t, NoSpan.Len())
	assert.False(t, NoSpan.Valid())
}

func TestScanFreeTextBracesBetweenEntries(t *testing.T) {
	text := "@article{a,\n  journal = {journal of x}\n}\nsee {this} note\n@misc{b, year = {1}}\n"
	doc := Parse(text)
	require.Len(t, doc.Entries, 2)
	assert.False(t, doc.Entries[0].Malformed)
	require.Len(t, doc.Entries[0].Fields, 1)
	assert.Equal(t, text, concatSegments(doc))
}

func TestScanStrayAssignmentAfterEntry(t *testing.T) {
	text := "@article{a,\n  title = {Bad}}, year = {2020}\n}\n"
	doc := Parse(text)
	require.Len(t, doc.Entries, 1)
	assert.True(t, doc.Entries[0].Malformed)
}

func TestScanBackslashBeforeBrace(t *testing.T) {
	text := "@misc{k,\n  file = {C:\\dir\\},\n  year = {2020}\n}\n"
	doc := Parse(text)
	require.Len(t, doc.Entries, 1)
	e := doc.Entries[0]
	assert.False(t, e.Malformed)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, `{C:\dir\}`, e.Fields[0].Value)
}
