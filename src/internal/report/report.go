// Package report renders the statistics of a clean run.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"bibclean/src/internal/clean"
)

// Summary describes one run: what was enabled and what changed.
type Summary struct {
	Input    string      `yaml:"input"`
	Output   string      `yaml:"output"`
	Journals bool        `yaml:"journal_casing"`
	Titles   bool        `yaml:"title_casing"`
	Surnames bool        `yaml:"surnames"`
	Removal  bool        `yaml:"removal"`
	Custom   bool        `yaml:"custom_fields"`
	Fields   []string    `yaml:"fields,omitempty"`
	Stats    clean.Stats `yaml:"stats"`
}

// ReductionPercent returns the byte reduction as a percentage of the input.
func (s Summary) ReductionPercent() float64 {
	if s.Stats.BytesIn == 0 {
		return 0
	}
	return float64(s.Stats.Delta()) / float64(s.Stats.BytesIn) * 100
}

// previewFields is how many default field names the text report lists.
const previewFields = 5

// Text writes the human-readable report.
func Text(w io.Writer, s Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Input:  %s\n", s.Input)
	fmt.Fprintf(&b, "Output: %s\n", s.Output)
	fmt.Fprintf(&b, "Entries: %d", s.Stats.Entries)
	if s.Stats.Malformed > 0 {
		fmt.Fprintf(&b, " (%d malformed, passed through)", s.Stats.Malformed)
	}
	b.WriteByte('\n')
	if s.Journals {
		fmt.Fprintf(&b, "Fixed %d journal title(s)\n", s.Stats.Journals)
	}
	switch {
	case s.Surnames:
		fmt.Fprintf(&b, "Protected %d surname(s)\n", s.Stats.Items)
	case s.Titles:
		fmt.Fprintf(&b, "Fixed %d entry title(s)\n", s.Stats.Items)
	}
	if s.Removal {
		if s.Custom || len(s.Fields) <= previewFields {
			fmt.Fprintf(&b, "Removing %s fields: %s\n", kind(s.Custom), strings.Join(s.Fields, ", "))
		} else {
			fmt.Fprintf(&b, "Removing %s fields: %s, ...\n", kind(s.Custom), strings.Join(s.Fields[:previewFields], ", "))
		}
		fmt.Fprintf(&b, "Removed %d field(s)\n", s.Stats.Removed)
	}
	fmt.Fprintf(&b, "Size reduced by %s bytes (%.1f%%)\n", humanize.Comma(int64(s.Stats.Delta())), s.ReductionPercent())
	_, err := io.WriteString(w, b.String())
	return err
}

func kind(custom bool) string {
	if custom {
		return "custom"
	}
	return "default"
}

// YAML writes the summary as a YAML document.
func YAML(w io.Writer, s Summary) error {
	doc := struct {
		Summary   `yaml:",inline"`
		Reduction float64 `yaml:"reduction_percent"`
	}{s, s.ReductionPercent()}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
