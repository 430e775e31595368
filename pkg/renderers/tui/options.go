package tui

import (
	"log/slog"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/render"
)

// Theme captures optional prefixes the session puts in front of messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme keeps output plain enough for logs and pipes.
var DefaultTheme = Theme{InfoPrefix: "", ErrorPrefix: "! "}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutputFormat selects how the confirmation alert renders the submitted
// values.
func WithOutputFormat(format render.OutputFormat) Option {
	return func(s *Session) {
		if format != "" {
			s.format = format
		}
	}
}

// WithNotifier adds a notifier invoked after the confirmation alert for each
// accepted submission.
func WithNotifier(n form.Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifiers = append(s.notifiers, n)
		}
	}
}

// WithLogger sets the logger handed to every controller the session builds.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}
