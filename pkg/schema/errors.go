package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateField signals two fields sharing a name inside one schema.
	ErrDuplicateField = errors.New("duplicate field")
	// ErrUnknownField signals a lookup or rule reference to a field the schema
	// does not declare.
	ErrUnknownField = errors.New("unknown field")
	// ErrEmptyFieldName signals a field declared without a name.
	ErrEmptyFieldName = errors.New("empty field name")
)

// ConfigError reports a mismatch between a schema and the code using it. It is
// a programmer error: callers are expected to fix the schema, not recover.
type ConfigError struct {
	Schema string
	Field  string
	Rule   string
	Err    error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "schema"
	if e.Schema != "" {
		msg += " " + e.Schema
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Rule != "" {
		msg += fmt.Sprintf(": rule %q", e.Rule)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsConfigError reports whether err carries a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
