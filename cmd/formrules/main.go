package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	formrules "github.com/goliatone/go-formrules"
	"github.com/goliatone/go-formrules/internal/config"
	"github.com/goliatone/go-formrules/pkg/renderers/tui"
	"github.com/goliatone/go-formrules/pkg/screens"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	exitSuccess  = 0
	exitRejected = 1
	exitSetup    = 2
	exitAborted  = 130
)

// errRejected marks a submission that failed validation. The issues were
// already printed.
var errRejected = errors.New("submission rejected")

// CLI is the top-level command structure for formrules.
type CLI struct {
	Version   kong.VersionFlag `help:"Show version." short:"V"`
	Config    string           `help:"Path to a YAML config file." type:"path"`
	SchemaDir string           `help:"Directory of screen files that replaces the bundled screens." type:"path"`
	OpenAPI   string           `name:"openapi" help:"OpenAPI document to derive screens from." type:"path"`
	LogLevel  string           `help:"Log level (debug, info, warn, error)."`
	Output    string           `help:"Submission output format (json, pretty, form)." short:"o"`

	List   ListCmd   `cmd:"" help:"List available screens."`
	Fill   FillCmd   `cmd:"" help:"Fill a screen interactively."`
	Check  CheckCmd  `cmd:"" help:"Validate values against a screen without prompting."`
	Render RenderCmd `cmd:"" help:"Render a screen as an HTML fragment."`
	Lint   LintCmd   `cmd:"" help:"Lint x-formgen extensions in OpenAPI documents."`
}

// App carries the resolved dependencies every command runs with.
type App struct {
	Ctx      context.Context
	Config   *config.Config
	Logger   *slog.Logger
	Registry *screens.Registry
	Stdout   io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("formrules"),
		kong.Description("Validate and fill form screens from the terminal."),
		kong.Vars{"version": version + " " + commit + " " + date},
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return exitSetup
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return exitSetup
	}

	app, err := cli.app(ctx, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return exitSetup
	}

	if err := kctx.Run(app); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintf(stderr, "error: %s\n", err)
		}
		return exitCode(err)
	}
	return exitSuccess
}

func (c *CLI) app(ctx context.Context, stdout, stderr io.Writer) (*App, error) {
	cfg, err := config.Resolve(c.Config, c.overlay)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger(stderr)
	reg, err := formrules.LoadScreens(ctx, formrules.Sources{
		Dir:     cfg.Schemas.Dir,
		OpenAPI: cfg.Schemas.OpenAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("load screens: %w", err)
	}
	logger.Debug("screens loaded", "screens", reg.IDs())

	return &App{
		Ctx:      ctx,
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Stdout:   stdout,
	}, nil
}

// overlay applies flags on top of file and environment settings. A schema
// flag replaces both schema sources so the two never combine.
func (c *CLI) overlay(cfg *config.Config) {
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.Output != "" {
		cfg.Output.Format = c.Output
	}
	if c.SchemaDir != "" || c.OpenAPI != "" {
		cfg.Schemas.Dir = c.SchemaDir
		cfg.Schemas.OpenAPI = c.OpenAPI
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errRejected):
		return exitRejected
	case errors.Is(err, tui.ErrAborted), errors.Is(err, context.Canceled):
		return exitAborted
	default:
		return exitSetup
	}
}
