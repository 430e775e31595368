package validation

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Bag is an ordered, read-only set of field values. Iteration and encoding
// follow the schema's declaration order.
type Bag struct {
	names  []string
	values map[string]string
}

// NewBag copies values for the given names in order. Names missing from values
// map to the empty string; keys not listed in names are dropped.
func NewBag(names []string, values map[string]string) Bag {
	b := Bag{
		names:  make([]string, 0, len(names)),
		values: make(map[string]string, len(names)),
	}
	for _, name := range names {
		if _, dup := b.values[name]; dup {
			continue
		}
		b.names = append(b.names, name)
		b.values[name] = values[name]
	}
	return b
}

// Len reports the number of entries.
func (b Bag) Len() int { return len(b.names) }

// Names returns the keys in order.
func (b Bag) Names() []string { return append([]string(nil), b.names...) }

// Get returns the value stored under name.
func (b Bag) Get(name string) (string, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Map returns a mutable copy of the entries.
func (b Bag) Map() map[string]string {
	out := make(map[string]string, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Equal reports whether both bags hold the same keys, order and values.
func (b Bag) Equal(other Bag) bool {
	if len(b.names) != len(other.names) {
		return false
	}
	for i, name := range b.names {
		if other.names[i] != name || other.values[name] != b.values[name] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the bag as an object whose keys keep declaration order.
// HTML characters are written as typed.
func (b Bag) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range b.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.MarshalWithOption(name, json.DisableHTMLEscape())
		if err != nil {
			return nil, err
		}
		val, err := json.MarshalWithOption(b.values[name], json.DisableHTMLEscape())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
