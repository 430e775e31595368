package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Canonical rule identifiers used by declarative schema files.
const (
	KindRequired    = "required"
	KindEmail       = "email"
	KindMinLength   = "minLength"
	KindEqualsField = "equalsField"
)

// Default messages match the wording users already see on the bundled screens.
const (
	DefaultRequiredMessage = "Required"
	DefaultEmailMessage    = "Invalid email"
	DefaultMatchMessage    = "Passwords must match"
)

// ErrUnknownRule is returned by Lookup when the kind is not in the catalog.
var ErrUnknownRule = errors.New("rules: unknown rule")

// CheckFunc reports whether value passes. values is the full form value bag so
// cross-field rules can compare against siblings; it must not be mutated.
type CheckFunc func(value string, values map[string]string) bool

// Rule is a named predicate plus the message surfaced when it fails. Rules are
// plain values and safe to share between schemas.
type Rule struct {
	Name    string
	Message string

	eval func(value string, values map[string]string) (string, bool)
	refs []string
}

// New builds a rule from a predicate. refs lists the other fields the
// predicate reads so callers can re-run it when those fields change.
func New(name, message string, check CheckFunc, refs ...string) Rule {
	r := Rule{Name: name, Message: message, refs: cloneRefs(refs)}
	if check != nil {
		r.eval = func(value string, values map[string]string) (string, bool) {
			return "", check(value, values)
		}
	}
	return r
}

// Check evaluates the rule. It returns the failure message and false when the
// rule does not hold. A rule without a predicate always passes.
func (r Rule) Check(value string, values map[string]string) (string, bool) {
	if r.eval == nil {
		return "", true
	}
	msg, ok := r.eval(value, values)
	if ok {
		return "", true
	}
	if msg == "" {
		msg = r.Message
	}
	return msg, false
}

// Refs returns the names of other fields this rule reads.
func (r Rule) Refs() []string {
	return cloneRefs(r.refs)
}

// WithMessage returns a copy of the rule using msg on failure. Blank messages
// keep the current one.
func (r Rule) WithMessage(msg string) Rule {
	if strings.TrimSpace(msg) == "" {
		return r
	}
	r.Message = msg
	if r.eval != nil {
		inner := r.eval
		r.eval = func(value string, values map[string]string) (string, bool) {
			_, ok := inner(value, values)
			return msg, ok
		}
	}
	return r
}

// Required fails on empty or whitespace-only values.
func Required(msg string) Rule {
	return New(KindRequired, messageOr(msg, DefaultRequiredMessage), func(value string, _ map[string]string) bool {
		return strings.TrimSpace(value) != ""
	})
}

// emailPattern accepts the common local@domain shape (letters, digits and the
// usual punctuation in the local part, dot separated labels in the domain).
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// Email fails when a non-empty value is not shaped like an email address.
// Empty values pass; pair it with Required to reject them.
func Email(msg string) Rule {
	return New(KindEmail, messageOr(msg, DefaultEmailMessage), func(value string, _ map[string]string) bool {
		if value == "" {
			return true
		}
		return emailPattern.MatchString(value)
	})
}

// MinLength fails when the trimmed value has fewer than n characters.
func MinLength(n int, msg string) Rule {
	return New(KindMinLength, messageOr(msg, fmt.Sprintf("Min %d characters", n)), func(value string, _ map[string]string) bool {
		return utf8.RuneCountInString(strings.TrimSpace(value)) >= n
	})
}

// EqualsField fails when the value differs from the current value of other.
// A missing sibling compares as the empty string.
func EqualsField(other, msg string) Rule {
	return New(KindEqualsField, messageOr(msg, DefaultMatchMessage), func(value string, values map[string]string) bool {
		return value == values[other]
	}, other)
}

// All passes when every rule passes and reports the first failing member's
// message.
func All(name string, members ...Rule) Rule {
	members = append([]Rule(nil), members...)
	return Rule{
		Name: name,
		refs: collectRefs(members),
		eval: func(value string, values map[string]string) (string, bool) {
			return firstFailure(members, value, values)
		},
	}
}

// Or passes when any rule passes. When all fail the first member's message is
// reported.
func Or(name string, members ...Rule) Rule {
	members = append([]Rule(nil), members...)
	return Rule{
		Name: name,
		refs: collectRefs(members),
		eval: func(value string, values map[string]string) (string, bool) {
			if len(members) == 0 {
				return "", true
			}
			first := ""
			for i, r := range members {
				msg, ok := r.Check(value, values)
				if ok {
					return "", true
				}
				if i == 0 {
					first = msg
				}
			}
			return first, false
		},
	}
}

func firstFailure(members []Rule, value string, values map[string]string) (string, bool) {
	for _, r := range members {
		if msg, ok := r.Check(value, values); !ok {
			return msg, false
		}
	}
	return "", true
}

// Lookup resolves a catalog rule by kind. params carries kind specific
// settings: "value" for minLength and "field" for equalsField.
func Lookup(kind string, params map[string]string, msg string) (Rule, error) {
	switch strings.TrimSpace(kind) {
	case KindRequired:
		return Required(msg), nil
	case KindEmail:
		return Email(msg), nil
	case KindMinLength:
		raw := strings.TrimSpace(params["value"])
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Rule{}, fmt.Errorf("rules: minLength requires a non-negative integer value, got %q", raw)
		}
		return MinLength(n, msg), nil
	case KindEqualsField:
		field := strings.TrimSpace(params["field"])
		if field == "" {
			return Rule{}, errors.New("rules: equalsField requires a field parameter")
		}
		return EqualsField(field, msg), nil
	default:
		return Rule{}, fmt.Errorf("%w %q", ErrUnknownRule, kind)
	}
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}

func cloneRefs(refs []string) []string {
	if len(refs) == 0 {
		return nil
	}
	return append([]string(nil), refs...)
}

func collectRefs(members []Rule) []string {
	var refs []string
	for _, r := range members {
		refs = append(refs, r.refs...)
	}
	return dedupe(refs)
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
