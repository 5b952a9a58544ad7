// Package config layers the clean command's settings: flags over
// BIBCLEAN_* environment variables over a YAML config file over defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bibclean/src/internal/clean"
	"bibclean/src/internal/logging"
	"bibclean/src/internal/stringsx"
)

// DefaultFile is read from the working directory when no --config is given.
const DefaultFile = ".bibclean.yaml"

// EnvPrefix prefixes every environment variable, e.g. BIBCLEAN_FIELDS.
const EnvPrefix = "BIBCLEAN"

// Settings are the run options that do not affect the rewrite itself.
type Settings struct {
	Report    string // text or yaml
	LogLevel  logging.Level
	LogFormat logging.Format
}

// flag name -> config key
var keys = map[string]string{
	"journals-only":      "journals_only",
	"remove-fields-only": "remove_fields_only",
	"uppercase-surnames": "uppercase_surnames",
	"titles":             "titles",
	"fields":             "fields",
	"title-fields":       "title_fields",
	"journal-fields":     "journal_fields",
	"report":             "report",
	"log-level":          "log_level",
	"log-format":         "log_format",
	"verbose":            "verbose",
}

// BindFlags registers the clean command flags and binds them into v.
func BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	def := clean.DefaultOptions()
	flags.String("config", "", "config file (default ./"+DefaultFile+" if present)")
	flags.Bool("journals-only", false, "only fix journal title casing")
	flags.Bool("remove-fields-only", false, "only remove fields")
	flags.Bool("uppercase-surnames", false, `wrap author/editor surnames in \MakeUppercase (disables title casing)`)
	flags.Bool("titles", def.Titles, "title-case entry titles")
	flags.StringSlice("fields", nil, "fields to remove, comma separated (default: built-in list)")
	flags.StringSlice("title-fields", def.TitleFields, "fields cased as entry titles")
	flags.StringSlice("journal-fields", def.JournalFields, "fields cased as journal names")
	flags.String("report", "text", "statistics format: text or yaml")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	flags.BoolP("verbose", "v", false, "shorthand for --log-level=debug")

	for flag, key := range keys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	def := clean.DefaultOptions()
	v.SetDefault("titles", def.Titles)
	v.SetDefault("title_fields", def.TitleFields)
	v.SetDefault("journal_fields", def.JournalFields)
	v.SetDefault("report", "text")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads the config file (path, or DefaultFile when it exists) and the
// environment into v and returns the validated options. Every failure is
// a *clean.ConfigError.
func Load(v *viper.Viper, path string) (clean.Options, Settings, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return clean.Options{}, Settings{}, &clean.ConfigError{Option: "config", Message: err.Error()}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return clean.Options{}, Settings{}, &clean.ConfigError{Option: "config", Message: err.Error()}
		}
	}

	opts := clean.Options{
		JournalsOnly:      v.GetBool("journals_only"),
		RemoveFieldsOnly:  v.GetBool("remove_fields_only"),
		UppercaseSurnames: v.GetBool("uppercase_surnames"),
		Titles:            v.GetBool("titles"),
		TitleFields:       list(v, "title_fields"),
		JournalFields:     list(v, "journal_fields"),
	}
	if v.IsSet("fields") {
		opts.Fields = list(v, "fields")
	}
	if err := opts.Validate(); err != nil {
		return clean.Options{}, Settings{}, err
	}

	st, err := settings(v)
	if err != nil {
		return clean.Options{}, Settings{}, err
	}
	return opts, st, nil
}

// list reads a string list that may arrive as a YAML sequence, repeated
// flags or a comma separated string.
func list(v *viper.Viper, key string) []string {
	return stringsx.SplitList(",", v.GetStringSlice(key)...)
}

func settings(v *viper.Viper) (Settings, error) {
	st := Settings{Report: strings.ToLower(v.GetString("report"))}
	if st.Report == "" {
		st.Report = "text"
	}
	if err := validation.Validate(st.Report, validation.In("text", "yaml").Error("must be text or yaml")); err != nil {
		return Settings{}, &clean.ConfigError{Option: "report", Message: err.Error()}
	}
	var err error
	if st.LogLevel, err = logging.ParseLevel(v.GetString("log_level")); err != nil {
		return Settings{}, &clean.ConfigError{Option: "log_level", Message: err.Error()}
	}
	if v.GetBool("verbose") {
		st.LogLevel = logging.LevelDebug
	}
	if st.LogFormat, err = logging.ParseFormat(v.GetString("log_format")); err != nil {
		return Settings{}, &clean.ConfigError{Option: "log_format", Message: err.Error()}
	}
	return st, nil
}
