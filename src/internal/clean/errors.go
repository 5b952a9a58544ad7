package clean

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every configuration error.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError reports a rejected option. It is raised before any file is
// read or written.
type ConfigError struct {
	Option  string // option key, e.g. "fields"
	Message string
}

func (e *ConfigError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Option, e.Message)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// IOError wraps a failure to read the input or write the output.
type IOError struct {
	Operation string // "read" or "write"
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
