package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/openapi"
	"github.com/goliatone/go-formrules/pkg/render"
	"github.com/goliatone/go-formrules/pkg/renderers/html"
	"github.com/goliatone/go-formrules/pkg/renderers/tui"
	"github.com/goliatone/go-formrules/pkg/screens"
)

// ListCmd prints the available screens.
type ListCmd struct{}

// Run executes the list command.
func (c *ListCmd) Run(app *App) error {
	tw := tabwriter.NewWriter(app.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tFIELDS\tLINKS")
	for _, s := range app.Registry.Screens() {
		targets := make([]string, 0, len(s.Links))
		for _, l := range s.Links {
			targets = append(targets, l.Target)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Title, strings.Join(s.Schema.Names(), ","), strings.Join(targets, ","))
	}
	return tw.Flush()
}

// FillCmd walks a screen interactively and follows the links the user picks.
type FillCmd struct {
	Screen string `arg:"" help:"Screen to start from." default:"signin"`
}

// Run executes the fill command.
func (c *FillCmd) Run(app *App) error {
	format, err := render.ParseOutputFormat(app.Config.Output.Format)
	if err != nil {
		return err
	}
	session := tui.NewSession(
		tui.WithPromptDriver(tui.NewSurveyDriver(app.Stdout)),
		tui.WithOutputFormat(format),
		tui.WithLogger(app.Logger),
		tui.WithNotifier(render.NewLogNotifier(app.Logger)),
	)
	_, err = session.RunFrom(app.Ctx, app.Registry, c.Screen)
	return err
}

// CheckCmd submits values once and reports the outcome.
type CheckCmd struct {
	Screen string            `arg:"" help:"Screen to validate against."`
	Set    map[string]string `help:"Field value as name=value. Repeatable." short:"s"`
}

// Run executes the check command.
func (c *CheckCmd) Run(app *App) error {
	screen, err := app.Registry.Lookup(c.Screen)
	if err != nil {
		return err
	}
	format, err := render.ParseOutputFormat(app.Config.Output.Format)
	if err != nil {
		return err
	}
	title := screen.SuccessTitle
	ctrl := screen.NewController(
		form.WithLogger(app.Logger),
		form.WithNotifier(render.Notifiers(
			render.NewAlertNotifier(app.Stdout, title, format),
			render.NewLogNotifier(app.Logger),
		)),
	)
	if err := applyValues(ctrl, screen, c.Set); err != nil {
		return err
	}

	res, err := ctrl.Submit(app.Ctx)
	if err != nil {
		return err
	}
	if !res.Valid {
		for _, issue := range res.Issues {
			fmt.Fprintf(app.Stdout, "%s: %s\n", issue.Field, issue.Message)
		}
		return errRejected
	}
	return nil
}

// RenderCmd prints the HTML fragment for a screen.
type RenderCmd struct {
	Screen    string            `arg:"" help:"Screen to render."`
	Set       map[string]string `help:"Prefill a field as name=value. Repeatable." short:"s"`
	Touch     bool              `help:"Mark every field touched so errors are shown."`
	Templates string            `help:"Directory with a replacement form.tpl." type:"existingdir"`
	Out       string            `help:"Write to this file instead of stdout." type:"path"`
}

// Run executes the render command.
func (c *RenderCmd) Run(app *App) error {
	screen, err := app.Registry.Lookup(c.Screen)
	if err != nil {
		return err
	}
	var opts []html.Option
	if c.Templates != "" {
		opts = append(opts, html.WithTemplatesDir(c.Templates))
	}
	renderer, err := html.New(opts...)
	if err != nil {
		return err
	}

	ctrl := screen.NewController(form.WithLogger(app.Logger))
	if err := applyValues(ctrl, screen, c.Set); err != nil {
		return err
	}
	if c.Touch {
		for _, name := range screen.Schema.Names() {
			ctrl.HandleBlur(name)
		}
	}

	out, err := renderer.Render(screen, ctrl)
	if err != nil {
		return err
	}
	if c.Out != "" {
		if err := os.WriteFile(c.Out, out, 0o644); err != nil {
			return fmt.Errorf("render: write %s: %w", c.Out, err)
		}
		app.Logger.Info("form written", "screen", screen.ID, "path", c.Out)
		return nil
	}
	_, err = app.Stdout.Write(out)
	return err
}

// LintCmd checks OpenAPI documents for extensions the screen builder would
// ignore or reject.
type LintCmd struct {
	Paths []string `arg:"" help:"OpenAPI documents to lint." type:"existingfile"`
}

// Run executes the lint command.
func (c *LintCmd) Run(app *App) error {
	found := 0
	for _, path := range c.Paths {
		raw, err := openapi.ReadFile(app.Ctx, path)
		if err != nil {
			return err
		}
		violations, err := openapi.Lint(app.Ctx, raw)
		if err != nil {
			return fmt.Errorf("lint %s: %w", path, err)
		}
		for _, v := range violations {
			fmt.Fprintf(app.Stdout, "%s: %s\n", path, v)
		}
		found += len(violations)
	}
	if found > 0 {
		app.Logger.Debug("lint finished", "violations", found)
		return errRejected
	}
	return nil
}

// applyValues feeds values to ctrl in schema order, rejecting names the screen
// does not declare.
func applyValues(ctrl *form.Controller, screen screens.Screen, values map[string]string) error {
	var unknown []string
	for name := range values {
		if !screen.Schema.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("screen %q has no field %s", screen.ID, strings.Join(unknown, ", "))
	}
	for _, name := range screen.Schema.Names() {
		if v, ok := values[name]; ok {
			ctrl.HandleChange(name, v)
		}
	}
	return nil
}
