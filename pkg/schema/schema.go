package schema

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formrules/pkg/rules"
)

// Field is one named input of a form. Presentation hints (Label, Placeholder,
// Help, Secret) are carried for renderers and never affect validation.
type Field struct {
	Name        string       `json:"name" yaml:"name"`
	Label       string       `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Help        string       `json:"help,omitempty" yaml:"help,omitempty"`
	Secret      bool         `json:"secret,omitempty" yaml:"secret,omitempty"`
	Rules       []rules.Rule `json:"-" yaml:"-"`
}

// DisplayLabel returns the label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Name
}

// Schema is an ordered, immutable set of uniquely named fields.
type Schema struct {
	id         string
	fields     []Field
	index      map[string]int
	dependents map[string][]string
}

// New validates the field set and builds a schema. It returns a *ConfigError
// when names are empty or duplicated, or when a rule references a field the
// schema does not declare.
func New(id string, fields ...Field) (*Schema, error) {
	s := &Schema{
		id:         strings.TrimSpace(id),
		fields:     make([]Field, 0, len(fields)),
		index:      make(map[string]int, len(fields)),
		dependents: make(map[string][]string),
	}

	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return nil, &ConfigError{Schema: s.id, Err: ErrEmptyFieldName}
		}
		if _, exists := s.index[name]; exists {
			return nil, &ConfigError{Schema: s.id, Field: name, Err: ErrDuplicateField}
		}
		field.Name = name
		field.Rules = append([]rules.Rule(nil), field.Rules...)
		s.index[name] = len(s.fields)
		s.fields = append(s.fields, field)
	}

	for _, field := range s.fields {
		seen := make(map[string]struct{})
		for _, rule := range field.Rules {
			for _, ref := range rule.Refs() {
				if _, ok := s.index[ref]; !ok {
					return nil, &ConfigError{
						Schema: s.id,
						Field:  field.Name,
						Rule:   rule.Name,
						Err:    fmt.Errorf("%w %q", ErrUnknownField, ref),
					}
				}
				if ref == field.Name {
					continue
				}
				if _, dup := seen[ref]; dup {
					continue
				}
				seen[ref] = struct{}{}
				s.dependents[ref] = append(s.dependents[ref], field.Name)
			}
		}
	}

	return s, nil
}

// Must is New for package-level schema declarations; it panics on error.
func Must(id string, fields ...Field) *Schema {
	s, err := New(id, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// ID returns the schema identifier.
func (s *Schema) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Len reports the number of fields.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Names returns field names in declaration order.
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Fields returns a copy of the declared fields.
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	return append([]Field(nil), s.fields...)
}

// Has reports whether name is declared.
func (s *Schema) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Field returns the declared field or a *ConfigError when it is unknown.
func (s *Schema) Field(name string) (Field, error) {
	if s != nil {
		if idx, ok := s.index[name]; ok {
			return s.fields[idx], nil
		}
	}
	return Field{}, &ConfigError{Schema: s.ID(), Field: name, Err: ErrUnknownField}
}

// Dependents lists the fields whose rules read name, in declaration order.
func (s *Schema) Dependents(name string) []string {
	if s == nil {
		return nil
	}
	deps := s.dependents[name]
	if len(deps) == 0 {
		return nil
	}
	return append([]string(nil), deps...)
}
