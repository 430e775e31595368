package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formrules/pkg/schema"
)

// Outcome is the result of validating a single field.
type Outcome struct {
	Field   string
	Rule    string
	Message string

	failed bool
}

// Valid reports whether every rule passed.
func (o Outcome) Valid() bool { return !o.failed }

// Issue describes one failing field.
type Issue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

// Issues lists failing fields in schema order. It implements error so a
// rejected submission can travel through error returns when convenient.
type Issues []Issue

func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(iss)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s: %s", iss[i].Field, iss[i].Message)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// ByField maps field names to their failure message.
func (iss Issues) ByField() map[string]string {
	if len(iss) == 0 {
		return nil
	}
	out := make(map[string]string, len(iss))
	for _, it := range iss {
		out[it.Field] = it.Message
	}
	return out
}

// Result is the outcome of a whole-form validation. Exactly one of Bag (when
// Valid) or Issues (when not) is meaningful.
type Result struct {
	Valid  bool
	Bag    Bag
	Issues Issues
}

// Err returns the issues as an error, or nil when the form is valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return r.Issues
}

// ValidateField applies the rules declared for name in order and reports the
// first failure. values is the full value bag, consulted by cross-field rules.
// An undeclared name yields a *schema.ConfigError.
func ValidateField(s *schema.Schema, name string, values map[string]string) (Outcome, error) {
	field, err := s.Field(name)
	if err != nil {
		return Outcome{}, err
	}
	value := values[name]
	for _, rule := range field.Rules {
		if msg, ok := rule.Check(value, values); !ok {
			return Outcome{Field: name, Rule: rule.Name, Message: msg, failed: true}, nil
		}
	}
	return Outcome{Field: name}, nil
}

// ValidateAll validates every declared field. Fields absent from values are
// treated as empty. Every failing field is reported, not just the first.
func ValidateAll(s *schema.Schema, values map[string]string) Result {
	names := s.Names()
	var issues Issues
	for _, name := range names {
		// name comes from the schema, so ValidateField cannot fail here.
		out, _ := ValidateField(s, name, values)
		if out.Valid() {
			continue
		}
		issues = append(issues, Issue{Field: name, Rule: out.Rule, Message: out.Message})
	}
	if len(issues) > 0 {
		return Result{Issues: issues}
	}
	return Result{Valid: true, Bag: NewBag(names, values)}
}

// AsIssues extracts Issues from an error.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
