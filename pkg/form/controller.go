package form

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/validation"
)

// Controller owns the state of one form. It is not safe for concurrent use;
// callers drive it from a single event loop.
type Controller struct {
	schema   *schema.Schema
	state    State
	initial  map[string]string
	notifier Notifier
	logger   *slog.Logger
}

// New builds a controller in its initial state: values empty (or seeded by
// WithInitialValues), nothing touched, errors computed but hidden.
func New(s *schema.Schema, options ...Option) *Controller {
	if s == nil {
		panic(&schema.ConfigError{Err: fmt.Errorf("form: schema is required")})
	}
	c := &Controller{
		schema: s,
		logger: discardLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.Reset()
	return c
}

// Schema returns the schema the controller validates against.
func (c *Controller) Schema() *schema.Schema { return c.schema }

// HandleChange stores a new raw value for name and recomputes its error along
// with every field whose rules read name. Touched flags are left alone.
func (c *Controller) HandleChange(name, value string) {
	c.mustHave(name)
	c.state.Values[name] = value
	c.recompute(name)
	for _, dep := range c.schema.Dependents(name) {
		c.recompute(dep)
	}
	c.logger.Debug("form field changed", "form", c.schema.ID(), "field", name)
}

// HandleBlur marks name as touched.
func (c *Controller) HandleBlur(name string) {
	c.mustHave(name)
	c.state.Touched[name] = true
	c.logger.Debug("form field blurred", "form", c.schema.ID(), "field", name)
}

// Submit marks every field touched and validates the whole form. On success
// the validated bag is forwarded to the notifier and the form resets; on
// failure the state is kept as typed so all errors become visible. The
// returned error only reports a notifier failure.
func (c *Controller) Submit(ctx context.Context) (validation.Result, error) {
	for _, name := range c.schema.Names() {
		c.state.Touched[name] = true
	}

	res := validation.ValidateAll(c.schema, c.state.Values)
	if !res.Valid {
		c.logger.Info("form submission rejected", "form", c.schema.ID(), "issues", len(res.Issues))
		return res, nil
	}

	c.logger.Info("form submitted", "form", c.schema.ID(), "fields", res.Bag.Len())
	if c.notifier != nil {
		if err := c.notifier.Notify(ctx, Submission{Form: c.schema.ID(), Values: res.Bag}); err != nil {
			return res, fmt.Errorf("form: notify %s: %w", c.schema.ID(), err)
		}
	}
	c.Reset()
	return res, nil
}

// Reset restores the initial state.
func (c *Controller) Reset() {
	names := c.schema.Names()
	c.state = State{
		Values:  make(map[string]string, len(names)),
		Touched: make(map[string]bool, len(names)),
		Errors:  make(map[string]string, len(names)),
	}
	for _, name := range names {
		c.state.Values[name] = c.initial[name]
		c.state.Touched[name] = false
	}
	for _, name := range names {
		c.recompute(name)
	}
}

// Value returns the current raw value of name.
func (c *Controller) Value(name string) string {
	c.mustHave(name)
	return c.state.Values[name]
}

// Touched reports whether name has lost focus at least once (or a submit was
// attempted).
func (c *Controller) Touched(name string) bool {
	c.mustHave(name)
	return c.state.Touched[name]
}

// Error returns the current error for name regardless of touched.
func (c *Controller) Error(name string) (string, bool) {
	c.mustHave(name)
	msg, ok := c.state.Errors[name]
	return msg, ok
}

// VisibleError returns the error for name only when the field is touched.
func (c *Controller) VisibleError(name string) (string, bool) {
	if !c.Touched(name) {
		return "", false
	}
	return c.Error(name)
}

// Valid reports whether the whole form currently passes.
func (c *Controller) Valid() bool {
	return len(c.state.Errors) == 0
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state.clone()
}

// InitialState returns the state the controller resets to.
func (c *Controller) InitialState() State {
	probe := &Controller{schema: c.schema, initial: c.initial, logger: c.logger}
	probe.Reset()
	return probe.state
}

func (c *Controller) recompute(name string) {
	out, err := validation.ValidateField(c.schema, name, c.state.Values)
	if err != nil {
		panic(err)
	}
	if out.Valid() {
		delete(c.state.Errors, name)
		return
	}
	c.state.Errors[name] = out.Message
}

func (c *Controller) mustHave(name string) {
	if !c.schema.Has(name) {
		panic(&schema.ConfigError{Schema: c.schema.ID(), Field: name, Err: schema.ErrUnknownField})
	}
}
