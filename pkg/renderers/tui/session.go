package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/render"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/screens"
	"github.com/goliatone/go-formrules/pkg/validation"
)

// doneOption ends the link menu without navigating.
const doneOption = "Done"

// Outcome describes a completed screen.
type Outcome struct {
	Screen string
	Values validation.Bag
	// Next is the screen the user picked from the link menu, empty when they
	// chose to stop.
	Next string
}

// Session walks a user through screens on a terminal, one controller per run.
type Session struct {
	driver    PromptDriver
	format    render.OutputFormat
	notifiers []form.Notifier
	logger    *slog.Logger
	theme     Theme
}

// NewSession constructs a session with defaults (survey driver on stdout,
// JSON alert payload).
func NewSession(options ...Option) *Session {
	s := &Session{
		format: render.OutputFormatJSON,
		theme:  DefaultTheme,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Run prompts every field of screen, submits, and re-prompts the failing
// fields until the submission is accepted or the user aborts. After success
// the screen's links are offered as a menu.
func (s *Session) Run(ctx context.Context, screen screens.Screen) (Outcome, error) {
	if ctx == nil {
		return Outcome{}, errors.New("tui: context is required")
	}
	if s.driver == nil {
		return Outcome{}, ErrNoDriver
	}
	if screen.Schema == nil {
		return Outcome{}, fmt.Errorf("tui: screen %q has no schema", screen.ID)
	}

	var accepted validation.Bag
	alert := form.NotifierFunc(func(ctx context.Context, sub form.Submission) error {
		accepted = sub.Values
		title := screen.SuccessTitle
		if title == "" {
			title = sub.Form
		}
		text, err := render.FormatAlert(title, sub.Values, s.format)
		if err != nil {
			return err
		}
		return s.info(ctx, text)
	})
	notifiers := append([]form.Notifier{alert}, s.notifiers...)
	c := screen.NewController(
		form.WithNotifier(render.Notifiers(notifiers...)),
		form.WithLogger(s.logger),
	)

	if screen.Title != "" {
		if err := s.info(ctx, screen.Title); err != nil {
			return Outcome{}, err
		}
	}

	pending := screen.Schema.Names()
	for round := 1; ; round++ {
		for _, name := range pending {
			if err := s.promptField(ctx, c, name); err != nil {
				return Outcome{}, err
			}
		}

		res, err := c.Submit(ctx)
		if err != nil {
			return Outcome{}, err
		}
		if res.Valid {
			s.logger.Debug("tui screen completed", "screen", screen.ID, "rounds", round)
			break
		}

		pending = failingFields(res.Issues)
		if err := s.info(ctx, s.theme.ErrorPrefix+fmt.Sprintf("%d field(s) need attention", len(pending))); err != nil {
			return Outcome{}, err
		}
	}

	next, err := s.chooseLink(ctx, screen)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Screen: screen.ID, Values: accepted, Next: next}, nil
}

// RunFrom runs start and keeps following the links the user picks until they
// stop.
func (s *Session) RunFrom(ctx context.Context, reg *screens.Registry, start string) ([]Outcome, error) {
	if reg == nil {
		return nil, errors.New("tui: registry is required")
	}
	var out []Outcome
	id := start
	for id != "" {
		screen, err := reg.Lookup(id)
		if err != nil {
			return out, err
		}
		res, err := s.Run(ctx, screen)
		if err != nil {
			return out, err
		}
		out = append(out, res)
		id = res.Next
	}
	return out, nil
}

func (s *Session) promptField(ctx context.Context, c *form.Controller, name string) error {
	field, err := c.Schema().Field(name)
	if err != nil {
		return err
	}
	cfg := InputConfig{
		Message: promptMessage(field),
		Help:    field.Help,
	}

	var value string
	if field.Secret {
		value, err = s.driver.Password(ctx, cfg)
	} else {
		cfg.Default = c.Value(name)
		value, err = s.driver.Input(ctx, cfg)
	}
	if err != nil {
		return err
	}

	c.HandleChange(name, value)
	c.HandleBlur(name)
	if msg, ok := c.VisibleError(name); ok {
		return s.info(ctx, s.theme.ErrorPrefix+field.DisplayLabel()+": "+msg)
	}
	return nil
}

func (s *Session) chooseLink(ctx context.Context, screen screens.Screen) (string, error) {
	if len(screen.Links) == 0 {
		return "", nil
	}
	options := make([]string, 0, len(screen.Links)+1)
	for _, link := range screen.Links {
		label := link.Label
		if label == "" {
			label = link.Target
		}
		options = append(options, label)
	}
	options = append(options, doneOption)

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      "Where to next?",
		Options:      options,
		DefaultIndex: len(options) - 1,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(screen.Links) {
		return "", nil
	}
	return screen.Links[idx].Target, nil
}

func (s *Session) info(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, s.theme.InfoPrefix+msg)
}

func promptMessage(field schema.Field) string {
	label := field.DisplayLabel()
	if field.Placeholder != "" {
		return fmt.Sprintf("%s (%s)", label, field.Placeholder)
	}
	return label
}

func failingFields(iss validation.Issues) []string {
	seen := make(map[string]struct{}, len(iss))
	var out []string
	for _, it := range iss {
		if _, ok := seen[it.Field]; ok {
			continue
		}
		seen[it.Field] = struct{}{}
		out = append(out, it.Field)
	}
	return out
}
