package main

import (
	"github.com/spf13/cobra"

	"bibclean/src/cmd/bib/fieldscmd"
)

// newFieldsCmd creates the "fields" command that lists the default removal set.
func newFieldsCmd() *cobra.Command { return fieldscmd.New() }
