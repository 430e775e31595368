package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formrules/pkg/rules"
)

// Violation is one problem found by Lint.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

type scope int

const (
	scopeOperation scope = iota
	scopeBody
	scopeProperty
)

var allowedKeys = map[scope]map[string]bool{
	scopeOperation: {extScreen: true, extSubmitLabel: true, extSuccessTitle: true, extLinks: true},
	scopeBody:      {extOrder: true},
	scopeProperty:  {extEquals: true, extSecret: true, extLabel: true, extPlaceholder: true, extMessages: true},
}

// Lint reports x-formgen extensions that Screens would ignore or reject:
// keys used outside their scope, values of the wrong type and message
// overrides for rules that do not exist. Violations are sorted by location.
func Lint(ctx context.Context, raw []byte) ([]Violation, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	var out []Violation
	if doc.Paths != nil {
		for path, item := range doc.Paths.Map() {
			if item == nil {
				continue
			}
			for _, method := range methodOrder {
				op := item.GetOperation(method)
				if op == nil {
					continue
				}
				base := []string{strings.ToLower(method) + " " + path}
				out = append(out, lintExtensions(base, scopeOperation, op.Extensions)...)

				body := requestSchema(op.RequestBody)
				if body == nil {
					continue
				}
				bodyPath := appendPath(base, "requestBody")
				out = append(out, lintExtensions(bodyPath, scopeBody, body.Extensions)...)
				if _, err := fieldOrder(body); err != nil {
					out = append(out, Violation{Location: formatLocation(bodyPath), Message: err.Error()})
				}

				names := make([]string, 0, len(body.Properties))
				for name := range body.Properties {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					prop := body.Properties[name]
					if prop == nil || prop.Value == nil {
						continue
					}
					propPath := appendPath(bodyPath, "properties."+name)
					out = append(out, lintExtensions(propPath, scopeProperty, prop.Value.Extensions)...)
					if other := extString(prop.Value.Extensions, extEquals); other != "" {
						if _, ok := body.Properties[other]; !ok {
							out = append(out, Violation{
								Location: formatLocation(propPath),
								Message:  fmt.Sprintf("%s references unknown property %q", extEquals, other),
							})
						}
					}
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Location == out[j].Location {
			return out[i].Message < out[j].Message
		}
		return out[i].Location < out[j].Location
	})
	return out, nil
}

func lintExtensions(path []string, at scope, extensions map[string]any) []Violation {
	if len(extensions) == 0 {
		return nil
	}
	keys := make([]string, 0, len(extensions))
	for key := range extensions {
		if strings.HasPrefix(key, extensionNamespace) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var out []Violation
	loc := formatLocation(path)
	for _, key := range keys {
		if !allowedKeys[at][key] {
			out = append(out, Violation{Location: loc, Message: fmt.Sprintf("unsupported extension %q here", key)})
			continue
		}
		if msg := checkValue(key, extensions); msg != "" {
			out = append(out, Violation{Location: loc, Message: msg})
		}
	}
	return out
}

func checkValue(key string, ext map[string]any) string {
	value := ext[key]
	switch key {
	case extOrder:
		if _, err := extStrings(ext, key); err != nil {
			return err.Error()
		}
	case extLinks:
		if _, err := extLinkList(ext); err != nil {
			return err.Error()
		}
	case extSecret:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("%s must be a boolean, found %T", key, value)
		}
	case extMessages:
		m, ok := value.(map[string]any)
		if !ok {
			return fmt.Sprintf("%s must be an object, found %T", key, value)
		}
		for kind := range m {
			if _, err := rules.Lookup(kind, map[string]string{"value": "0", "field": "x"}, ""); err != nil {
				return fmt.Sprintf("%s names unknown rule %q", key, kind)
			}
		}
	default:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("%s must be a string, found %T", key, value)
		}
	}
	return ""
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
