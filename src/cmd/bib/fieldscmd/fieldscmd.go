package fieldscmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bibclean/src/internal/clean"
	"bibclean/src/internal/titlecase"
)

// Lists is what `bib fields --yaml` prints.
type Lists struct {
	Remove     []string `yaml:"remove"`
	MinorWords []string `yaml:"minor_words,omitempty"`
}

// New returns the fields command which prints the built-in removal set.
func New() *cobra.Command {
	var asYAML, minor bool
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Print the fields removed by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := Lists{Remove: clean.DefaultRemovalFields()}
			if minor {
				l.MinorWords = titlecase.MinorWords()
				slices.Sort(l.MinorWords)
			}
			if asYAML {
				b, err := yaml.Marshal(l)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			for _, f := range l.Remove {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), f); err != nil {
					return err
				}
			}
			if minor {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "\nminor words: %v\n", l.MinorWords)
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print as YAML")
	cmd.Flags().BoolVar(&minor, "minor-words", false, "also print the words kept lower case by title casing")
	return cmd
}
