// Package clean runs the field transform pipeline over a BibTeX document:
// journal and title casing, surname protection and field removal, spliced
// back over the original text.
package clean

import (
	"fmt"
	"log/slog"

	"bibclean/src/internal/bibtex"
	"bibclean/src/internal/logging"
	"bibclean/src/internal/names"
	"bibclean/src/internal/stringsx"
	"bibclean/src/internal/titlecase"
)

// Stats counts what a run changed. Journals, Items and Removed only move
// when a field is actually rewritten or dropped.
type Stats struct {
	Entries   int `yaml:"entries"`
	Malformed int `yaml:"malformed"`
	Journals  int `yaml:"journals_fixed"`
	// Items counts titles cased, or surnames protected when
	// UppercaseSurnames is set.
	Items    int `yaml:"items_fixed"`
	Removed  int `yaml:"fields_removed"`
	BytesIn  int `yaml:"bytes_in"`
	BytesOut int `yaml:"bytes_out"`
}

// Delta returns the number of bytes the run removed.
func (s Stats) Delta() int { return s.BytesIn - s.BytesOut }

// Result is the cleaned text and its statistics.
type Result struct {
	Text  string
	Stats Stats
}

// Cleaner applies one validated Options value to documents.
type Cleaner struct {
	opts     Options
	removal  RemovalSet
	journals RemovalSet
	titles   RemovalSet
	log      *slog.Logger
}

// New validates opts and returns a Cleaner. A nil logger discards output.
func New(opts Options, log *slog.Logger) (*Cleaner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	fields := opts.Fields
	if fields == nil {
		fields = defaultRemovalFields
	}
	return &Cleaner{
		opts:     opts,
		removal:  NewRemovalSet(fields...),
		journals: NewRemovalSet(opts.JournalFields...),
		titles:   NewRemovalSet(opts.TitleFields...),
		log:      log,
	}, nil
}

// Removal returns the removal set in effect.
func (c *Cleaner) Removal() RemovalSet { return c.removal }

// Removing reports whether fields in the removal set are dropped.
func (c *Cleaner) Removing() bool { return !c.opts.JournalsOnly }

// CasingJournals reports whether journal fields are title-cased.
func (c *Cleaner) CasingJournals() bool { return !c.opts.RemoveFieldsOnly }

// CasingTitles reports whether entry titles are title-cased.
func (c *Cleaner) CasingTitles() bool {
	return c.opts.Titles && !c.opts.UppercaseSurnames && !c.opts.JournalsOnly && !c.opts.RemoveFieldsOnly
}

// ProtectingSurnames reports whether author and editor surnames are wrapped.
func (c *Cleaner) ProtectingSurnames() bool { return c.opts.UppercaseSurnames }

// CustomFields reports whether the removal set came from Options.Fields.
func (c *Cleaner) CustomFields() bool { return c.opts.Fields != nil }

// Clean rewrites text. Malformed entries are passed through untouched and
// counted; they never make Clean fail.
func (c *Cleaner) Clean(text string) (Result, error) {
	doc := bibtex.Parse(text)
	st := Stats{BytesIn: len(text)}
	var edits []bibtex.Edit
	for i := range doc.Entries {
		e := &doc.Entries[i]
		if e.Opaque {
			continue
		}
		st.Entries++
		if e.Malformed {
			st.Malformed++
			c.log.Warn("malformed entry passed through",
				"key", stringsx.FirstNonEmpty(e.Key, "?"),
				"offset", e.Span.Start,
				"line", bibtex.LineOf(text, e.Span.Start))
			continue
		}
		edits = append(edits, c.entryEdits(e, &st)...)
	}
	out, err := bibtex.Apply(text, edits)
	if err != nil {
		return Result{}, fmt.Errorf("reassemble: %w", err)
	}
	st.BytesOut = len(out)
	return Result{Text: out, Stats: st}, nil
}

func (c *Cleaner) entryEdits(e *bibtex.Entry, st *Stats) []bibtex.Edit {
	var edits []bibtex.Edit
	lastKept := -1
	tailRemoved := false
	for j, f := range e.Fields {
		key := f.Key()
		if c.Removing() && c.removal.Has(key) {
			sp := f.Span
			if f.Sep.Valid() {
				sp.End = f.Sep.End
			}
			edits = append(edits, bibtex.Edit{Kind: bibtex.Delete, Span: sp, Bounds: e.Span})
			st.Removed++
			tailRemoved = true
			c.log.Debug("field removed", "key", e.Key, "field", f.Name, "bytes", sp.Len())
			continue
		}
		lastKept, tailRemoved = j, false

		if v, ok := c.rewrite(f, st); ok {
			edits = append(edits, bibtex.Edit{Kind: bibtex.Replace, Span: f.ValueSpan, Text: v})
			c.log.Debug("field rewritten", "key", e.Key, "field", f.Name, "value", v)
		}
	}
	// The retained field now closing the entry loses its separator.
	if tailRemoved && lastKept >= 0 && e.Fields[lastKept].Sep.Valid() {
		edits = append(edits, bibtex.Edit{Kind: bibtex.Delete, Span: e.Fields[lastKept].Sep, Bounds: e.Span})
	}
	return edits
}

// rewrite returns the new value for a retained field and counts the change.
func (c *Cleaner) rewrite(f bibtex.Field, st *Stats) (string, bool) {
	if f.Kind != bibtex.Braced && f.Kind != bibtex.Quoted {
		return "", false
	}
	key := f.Key()
	switch {
	case c.CasingJournals() && c.journals.Has(key):
		if v, ok := titlecase.Rewrite(f.Value); ok && v != f.Value {
			st.Journals++
			return v, true
		}
	case c.CasingTitles() && c.titles.Has(key):
		if v, ok := titlecase.Rewrite(f.Value); ok && v != f.Value {
			st.Items++
			return v, true
		}
	case c.opts.UppercaseSurnames && (key == "author" || key == "editor"):
		if v, n := names.ProtectSurnames(f.Value); n > 0 {
			st.Items += n
			return v, true
		}
	}
	return "", false
}
