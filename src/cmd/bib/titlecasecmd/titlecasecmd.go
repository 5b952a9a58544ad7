package titlecasecmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bibclean/src/internal/titlecase"
)

// New returns the titlecase command. It cases its arguments as one phrase,
// or each line of stdin when no arguments are given.
func New() *cobra.Command {
	var protect bool
	cmd := &cobra.Command{
		Use:   "titlecase [phrase...]",
		Short: "Print a phrase in headline case as journal names are cased",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), Format(strings.Join(args, " "), protect))
				return err
			}
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), Format(sc.Text(), protect)); err != nil {
					return err
				}
			}
			return sc.Err()
		},
	}
	cmd.Flags().BoolVar(&protect, "protect", false, "wrap the result in BibTeX case-protecting braces")
	return cmd
}

// Format cases a phrase, or a raw field value when protect is set.
func Format(phrase string, protect bool) string {
	if !protect {
		return titlecase.Case(titlecase.StripBraces(titlecase.Unwrap(phrase)))
	}
	if v, ok := titlecase.Rewrite(phrase); ok {
		return v
	}
	return ""
}
