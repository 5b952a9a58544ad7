package cleancmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bibclean/src/internal/clean"
	"bibclean/src/internal/config"
	"bibclean/src/internal/logging"
	"bibclean/src/internal/report"
)

// New returns the clean command, which rewrites a BibTeX file and prints
// what changed.
func New() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "clean <input.bib> <output.bib>",
		Short: "Fix journal and title casing and strip unwanted fields from a BibTeX file",
		Long: `Rewrites a BibTeX file while keeping its layout. Journal names and entry
titles are title-cased and brace-protected, fields such as doi, url and
abstract are removed, and optionally author surnames are wrapped in
\MakeUppercase. Everything else is copied byte for byte.

Options may also come from a YAML config file (--config, or ./.bibclean.yaml)
and from BIBCLEAN_* environment variables, e.g. BIBCLEAN_FIELDS=doi,url.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			opts, st, err := config.Load(v, path)
			if err != nil {
				return err
			}
			log := logging.New(cmd.ErrOrStderr(), st.LogLevel, st.LogFormat)
			c, err := clean.New(opts, log)
			if err != nil {
				return err
			}
			sum, err := Run(c, log, args[0], args[1])
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), st.Report, sum)
		},
	}
	cobra.CheckErr(config.BindFlags(cmd.Flags(), v))
	return cmd
}

// Run cleans the file at in and writes the result to out.
func Run(c *clean.Cleaner, log *slog.Logger, in, out string) (report.Summary, error) {
	raw, err := os.ReadFile(in)
	if err != nil {
		return report.Summary{}, &clean.IOError{Operation: "read", Path: in, Err: err}
	}
	if !utf8.Valid(raw) {
		log.Warn("input is not valid UTF-8; bytes are copied as-is", "path", in)
	}
	res, err := c.Clean(string(raw))
	if err != nil {
		return report.Summary{}, fmt.Errorf("clean %s: %w", in, err)
	}
	if err := os.WriteFile(out, []byte(res.Text), 0o644); err != nil {
		return report.Summary{}, &clean.IOError{Operation: "write", Path: out, Err: err}
	}
	log.Debug("output written", "path", out, "bytes", res.Stats.BytesOut)

	sum := report.Summary{
		Input:    in,
		Output:   out,
		Journals: c.CasingJournals(),
		Titles:   c.CasingTitles(),
		Surnames: c.ProtectingSurnames(),
		Removal:  c.Removing(),
		Custom:   c.CustomFields(),
		Stats:    res.Stats,
	}
	if sum.Removal {
		sum.Fields = c.Removal().Names()
	}
	return sum, nil
}

func write(w io.Writer, format string, sum report.Summary) error {
	if format == "yaml" {
		return report.YAML(w, sum)
	}
	return report.Text(w, sum)
}
