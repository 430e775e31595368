package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/validation"
)

// Alert builds the confirmation text shown after a successful submit:
// the title, a colon, then the bag as indented JSON.
func Alert(title string, bag validation.Bag) (string, error) {
	return FormatAlert(title, bag, OutputFormatJSON)
}

// FormatAlert is Alert with the payload rendered in format.
func FormatAlert(title string, bag validation.Bag, format OutputFormat) (string, error) {
	payload, err := Format(bag, format)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(title) + ":\n" + strings.TrimRight(string(payload), "\n"), nil
}

// AlertNotifier writes a confirmation alert for each accepted submission.
type AlertNotifier struct {
	w      io.Writer
	title  string
	format OutputFormat
}

// NewAlertNotifier returns a notifier writing to w. An empty title falls back
// to the submitted form id.
func NewAlertNotifier(w io.Writer, title string, format OutputFormat) *AlertNotifier {
	if format == "" {
		format = OutputFormatJSON
	}
	return &AlertNotifier{w: w, title: title, format: format}
}

// Notify implements form.Notifier.
func (n *AlertNotifier) Notify(ctx context.Context, sub form.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n == nil || n.w == nil {
		return errors.New("render: alert writer is nil")
	}
	title := n.title
	if strings.TrimSpace(title) == "" {
		title = sub.Form
	}
	text, err := FormatAlert(title, sub.Values, n.format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(n.w, text)
	return err
}

// LogNotifier records accepted submissions. Only field names are logged so
// secrets never reach the log stream.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier logging through logger (slog.Default when
// nil).
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements form.Notifier.
func (n *LogNotifier) Notify(ctx context.Context, sub form.Submission) error {
	n.logger.InfoContext(ctx, "submission accepted", "form", sub.Form, "fields", sub.Values.Names())
	return nil
}

// Notifiers fans a submission out to every notifier in order, stopping at the
// first error.
func Notifiers(list ...form.Notifier) form.Notifier {
	return form.NotifierFunc(func(ctx context.Context, sub form.Submission) error {
		for _, n := range list {
			if n == nil {
				continue
			}
			if err := n.Notify(ctx, sub); err != nil {
				return err
			}
		}
		return nil
	})
}
