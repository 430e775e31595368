package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formrules/pkg/rules"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/screens"
)

// ErrNoScreens is returned when a document yields no usable operation.
var ErrNoScreens = errors.New("openapi: no form operations found")

var methodOrder = []string{"GET", "PUT", "POST", "DELETE", "PATCH"}

// Option tunes document parsing.
type Option func(*parseOptions)

type parseOptions struct {
	validate   bool
	allowEmpty bool
	logger     *slog.Logger
}

// WithValidation runs kin-openapi document validation before extraction.
func WithValidation() Option {
	return func(o *parseOptions) { o.validate = true }
}

// WithAllowEmpty accepts documents that produce no screens.
func WithAllowEmpty() Option {
	return func(o *parseOptions) { o.allowEmpty = true }
}

// WithLogger reports skipped operations.
func WithLogger(logger *slog.Logger) Option {
	return func(o *parseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Screens extracts one screen per operation whose request body is an object
// schema. Paths are visited in lexical order, methods in a fixed order.
//
// Property mapping:
//   - listed in the body's required array: required
//   - format email: email
//   - minLength: minLength
//   - x-formgen-equals: equalsField against the named sibling
//   - format password or x-formgen-secret: secret field
//
// Field order follows x-formgen-order on the body schema; properties it does
// not list follow in lexical order.
func Screens(ctx context.Context, raw []byte, opts ...Option) ([]screens.Screen, error) {
	cfg := parseOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	var out []screens.Screen
	if doc.Paths != nil {
		paths := doc.Paths.Map()
		keys := make([]string, 0, len(paths))
		for k := range paths {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, path := range keys {
			item := paths[path]
			if item == nil {
				continue
			}
			for _, method := range methodOrder {
				op := item.GetOperation(method)
				if op == nil {
					continue
				}
				screen, ok, err := screenFromOperation(method, path, op)
				if err != nil {
					return nil, err
				}
				if !ok {
					cfg.logger.Debug("openapi operation skipped", "method", method, "path", path)
					continue
				}
				out = append(out, screen)
			}
		}
	}

	if len(out) == 0 && !cfg.allowEmpty {
		return nil, ErrNoScreens
	}
	return out, nil
}

// Registry is Screens followed by screens.NewRegistry, so duplicate ids and
// dangling links are reported.
func Registry(ctx context.Context, raw []byte, opts ...Option) (*screens.Registry, error) {
	list, err := Screens(ctx, raw, opts...)
	if err != nil {
		return nil, err
	}
	return screens.NewRegistry(list...)
}

func screenFromOperation(method, path string, op *openapi3.Operation) (screens.Screen, bool, error) {
	body := requestSchema(op.RequestBody)
	if body == nil || !isObject(body) || len(body.Properties) == 0 {
		return screens.Screen{}, false, nil
	}

	id := extString(op.Extensions, extScreen)
	if id == "" {
		id = op.OperationID
	}
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}

	order, err := fieldOrder(body)
	if err != nil {
		return screens.Screen{}, false, fmt.Errorf("openapi: operation %s: %w", id, err)
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	fields := make([]schema.Field, 0, len(order))
	for _, name := range order {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		fields = append(fields, fieldFromProperty(name, ref.Value, required[name]))
	}

	s, err := schema.New(id, fields...)
	if err != nil {
		return screens.Screen{}, false, err
	}

	links, err := extLinkList(op.Extensions)
	if err != nil {
		return screens.Screen{}, false, fmt.Errorf("openapi: operation %s: %w", id, err)
	}

	title := strings.TrimSpace(op.Summary)
	if title == "" {
		title = id
	}
	return screens.Screen{
		ID:           id,
		Title:        title,
		SubmitLabel:  extString(op.Extensions, extSubmitLabel),
		SuccessTitle: extString(op.Extensions, extSuccessTitle),
		Links:        links,
		Schema:       s,
	}, true, nil
}

func fieldOrder(body *openapi3.Schema) ([]string, error) {
	listed, err := extStrings(body.Extensions, extOrder)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(body.Properties))
	out := make([]string, 0, len(body.Properties))
	for _, name := range listed {
		if _, ok := body.Properties[name]; !ok {
			return nil, fmt.Errorf("%s names unknown property %q", extOrder, name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}

	rest := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...), nil
}

func fieldFromProperty(name string, prop *openapi3.Schema, required bool) schema.Field {
	messages := extMessageMap(prop.Extensions)
	field := schema.Field{
		Name:        name,
		Label:       extString(prop.Extensions, extLabel),
		Placeholder: extString(prop.Extensions, extPlaceholder),
		Help:        strings.TrimSpace(prop.Description),
		Secret:      prop.Format == "password" || extBool(prop.Extensions, extSecret),
	}
	if field.Label == "" {
		field.Label = strings.TrimSpace(prop.Title)
	}

	if required {
		field.Rules = append(field.Rules, rules.Required(messages[rules.KindRequired]))
	}
	if strings.EqualFold(prop.Format, "email") {
		field.Rules = append(field.Rules, rules.Email(messages[rules.KindEmail]))
	}
	if prop.MinLength > 0 {
		field.Rules = append(field.Rules, rules.MinLength(int(prop.MinLength), messages[rules.KindMinLength]))
	}
	if other := extString(prop.Extensions, extEquals); other != "" {
		field.Rules = append(field.Rules, rules.EqualsField(other, messages[rules.KindEqualsField]))
	}
	return field
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if mt := content[k]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func isObject(s *openapi3.Schema) bool {
	if s.Type == nil || len(s.Type.Slice()) == 0 {
		return len(s.Properties) > 0
	}
	return s.Type.Is(openapi3.TypeObject)
}
