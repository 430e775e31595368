package render

import (
	"strings"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/validation"
)

// FieldError is one message attached to a field, ready for display.
type FieldError struct {
	Field   string
	Message string
}

// VisibleErrors lists the errors a user should currently see, in schema
// order. Untouched fields are skipped.
func VisibleErrors(c *form.Controller) []FieldError {
	if c == nil {
		return nil
	}
	var out []FieldError
	for _, name := range c.Schema().Names() {
		if msg, ok := c.VisibleError(name); ok {
			out = append(out, FieldError{Field: name, Message: msg})
		}
	}
	return out
}

// IssuesByField groups issues into the field -> messages shape renderers
// consume, trimming blank messages and dropping duplicates.
func IssuesByField(iss validation.Issues) map[string][]string {
	if len(iss) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, it := range iss {
		msg := strings.TrimSpace(it.Message)
		if msg == "" || contains(out[it.Field], msg) {
			continue
		}
		out[it.Field] = append(out[it.Field], msg)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
