package form

import (
	"context"
	"io"
	"log/slog"

	"github.com/goliatone/go-formrules/pkg/validation"
)

// Submission is what a Controller hands to its Notifier after a successful
// submit.
type Submission struct {
	Form   string
	Values validation.Bag
}

// Notifier surfaces accepted submissions to the user (an alert, a log line, a
// screen transition).
type Notifier interface {
	Notify(ctx context.Context, sub Submission) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, sub Submission) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, sub Submission) error {
	return f(ctx, sub)
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the collaborator notified on successful submit.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithLogger sets the logger used for debug tracing of form events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInitialValues seeds the values the form starts from and resets to.
// Keys not declared by the schema are ignored.
func WithInitialValues(values map[string]string) Option {
	return func(c *Controller) {
		c.initial = cloneStrings(values)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
