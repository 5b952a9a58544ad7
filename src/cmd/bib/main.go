package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "bib",
	Short:         "BibTeX cleaner (journal/title casing, surname protection, field removal)",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func execute() error {
	// Attach subcommands
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newTitlecaseCmd())
	rootCmd.AddCommand(newFieldsCmd())
	return rootCmd.Execute()
}

func main() {
	if err := execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
