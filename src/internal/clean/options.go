package clean

import (
	"errors"
	"regexp"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// defaultRemovalFields is the removal set used when Options.Fields is nil.
var defaultRemovalFields = []string{
	"doi", "url", "urldate", "eprint", "eprinttype", "archiveprefix",
	"file", "abstract", "keywords", "issn", "isbn", "language",
	"month", "shorttitle", "annotation", "note",
}

// DefaultRemovalFields returns a copy of the default removal set.
func DefaultRemovalFields() []string { return slices.Clone(defaultRemovalFields) }

var fieldName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_:.+-]*$`)

// Options selects which transforms run.
type Options struct {
	// JournalsOnly runs journal casing and nothing else.
	JournalsOnly bool `json:"journals_only"`
	// RemoveFieldsOnly runs field removal and nothing else.
	RemoveFieldsOnly bool `json:"remove_fields_only"`
	// UppercaseSurnames protects author and editor surnames. Title casing
	// is off while it is set.
	UppercaseSurnames bool `json:"uppercase_surnames"`
	// Titles enables entry-title casing in the full pipeline.
	Titles bool `json:"titles"`
	// Fields overrides the removal set; nil means DefaultRemovalFields.
	Fields        []string `json:"fields"`
	TitleFields   []string `json:"title_fields"`
	JournalFields []string `json:"journal_fields"`
}

// DefaultOptions returns the full pipeline with title casing on.
func DefaultOptions() Options {
	return Options{
		Titles:        true,
		TitleFields:   []string{"title"},
		JournalFields: []string{"journal", "journaltitle"},
	}
}

// Validate rejects conflicting or malformed options with a *ConfigError.
func (o Options) Validate() error {
	switch {
	case o.JournalsOnly && o.RemoveFieldsOnly:
		return &ConfigError{Option: "journals_only", Message: "cannot be combined with remove_fields_only"}
	case o.UppercaseSurnames && o.JournalsOnly:
		return &ConfigError{Option: "uppercase_surnames", Message: "cannot be combined with journals_only"}
	case o.UppercaseSurnames && o.RemoveFieldsOnly:
		return &ConfigError{Option: "uppercase_surnames", Message: "cannot be combined with remove_fields_only"}
	case o.Fields != nil && len(o.Fields) == 0:
		return &ConfigError{Option: "fields", Message: "removal set is empty"}
	}

	name := validation.Match(fieldName).Error("must be a field name")
	err := validation.ValidateStruct(&o,
		validation.Field(&o.Fields, validation.Each(name)),
		validation.Field(&o.TitleFields, validation.Each(name)),
		validation.Field(&o.JournalFields, validation.Each(name)),
	)
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return &ConfigError{Option: keys[0], Message: errs[keys[0]].Error()}
	}
	return &ConfigError{Message: err.Error()}
}

// RemovalSet holds lower-cased field keys.
type RemovalSet map[string]struct{}

// NewRemovalSet builds a set from field names in any case.
func NewRemovalSet(names ...string) RemovalSet {
	s := make(RemovalSet, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has reports whether key is in the set, ignoring case.
func (s RemovalSet) Has(key string) bool {
	_, ok := s[strings.ToLower(key)]
	return ok
}

// Names returns the set's keys in sorted order.
func (s RemovalSet) Names() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
