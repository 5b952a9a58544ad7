package main

import (
	"github.com/spf13/cobra"

	"bibclean/src/cmd/bib/titlecasecmd"
)

// newTitlecaseCmd creates the "titlecase" command.
func newTitlecaseCmd() *cobra.Command { return titlecasecmd.New() }
