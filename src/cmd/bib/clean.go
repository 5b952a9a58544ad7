package main

import (
	"github.com/spf13/cobra"

	"bibclean/src/cmd/bib/cleancmd"
)

// newCleanCmd creates the "clean" command that rewrites a BibTeX file.
func newCleanCmd() *cobra.Command { return cleancmd.New() }
