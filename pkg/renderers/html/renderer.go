package html

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/rules"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/screens"
)

const formTemplate = "form"

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templates fs.FS
	policy    *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// form.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templates = os.DirFS(path)
	}
}

// WithHelpPolicy replaces the policy used to clean field help text.
func WithHelpPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// Renderer turns a screen and its controller state into an HTML fragment.
type Renderer struct {
	engine *engine
	policy *bluemonday.Policy
}

// New constructs the renderer with the embedded templates.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templates: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.policy == nil {
		cfg.policy = defaultHelpPolicy()
	}
	eng, err := newEngine(cfg.templates, ".tpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{engine: eng, policy: cfg.policy}, nil
}

// Render draws screen using the live state of c. Only visible errors are
// shown, and secret fields never echo their value.
func (r *Renderer) Render(screen screens.Screen, c *form.Controller) ([]byte, error) {
	if r == nil || r.engine == nil {
		return nil, errors.New("html: renderer is nil")
	}
	if c == nil {
		return nil, errors.New("html: controller is required")
	}
	if screen.Schema == nil {
		return nil, fmt.Errorf("html: screen %q has no schema", screen.ID)
	}
	if c.Schema() != screen.Schema {
		return nil, fmt.Errorf("html: controller does not belong to screen %q", screen.ID)
	}

	fields := make([]map[string]any, 0, screen.Schema.Len())
	for _, field := range screen.Schema.Fields() {
		view := map[string]any{
			"name":        field.Name,
			"label":       field.DisplayLabel(),
			"placeholder": field.Placeholder,
			"type":        inputType(field),
			"help":        r.sanitizeHelp(field.Help),
			"value":       "",
			"error":       "",
		}
		if !field.Secret {
			view["value"] = c.Value(field.Name)
		}
		if msg, ok := c.VisibleError(field.Name); ok {
			view["error"] = msg
		}
		fields = append(fields, view)
	}

	links := make([]map[string]any, 0, len(screen.Links))
	for _, link := range screen.Links {
		label := link.Label
		if label == "" {
			label = link.Target
		}
		links = append(links, map[string]any{"label": label, "target": link.Target})
	}

	submit := screen.SubmitLabel
	if submit == "" {
		submit = "Submit"
	}
	return r.engine.render(formTemplate, pongo2.Context{
		"screen": map[string]any{
			"id":           screen.ID,
			"title":        screen.Title,
			"submit_label": submit,
		},
		"fields": fields,
		"links":  links,
	})
}

func (r *Renderer) sanitizeHelp(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(r.policy.Sanitize(trimmed))
}

func inputType(field schema.Field) string {
	if field.Secret {
		return "password"
	}
	for _, rule := range field.Rules {
		if rule.Name == rules.KindEmail {
			return "email"
		}
	}
	return "text"
}

func defaultHelpPolicy() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		helpPolicy = bluemonday.UGCPolicy()
	})
	return helpPolicy
}
