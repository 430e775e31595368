// Package config handles the CLI's YAML configuration with environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrules/pkg/render"
)

// Config holds all formrules CLI settings.
type Config struct {
	Log     Log     `yaml:"log"`
	Output  Output  `yaml:"output"`
	Schemas Schemas `yaml:"schemas"`
}

// Log controls the slog handler built for the CLI.
type Log struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Output selects how accepted submissions are printed.
type Output struct {
	Format string `yaml:"format"` // json | pretty | form
}

// Schemas points at screen definitions that replace the bundled ones.
type Schemas struct {
	Dir     string `yaml:"dir"`
	OpenAPI string `yaml:"openapi"`
}

// env mirrors the overridable settings. Unset variables leave the loaded
// values alone.
type env struct {
	LogLevel  string `env:"FORMRULES_LOG_LEVEL"`
	LogFormat string `env:"FORMRULES_LOG_FORMAT"`
	Output    string `env:"FORMRULES_OUTPUT"`
	SchemaDir string `env:"FORMRULES_SCHEMA_DIR"`
	OpenAPI   string `env:"FORMRULES_OPENAPI"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Output: Output{
			Format: string(render.OutputFormatJSON),
		},
	}
}

// Load reads the YAML config at path. A missing or empty file yields the
// defaults; unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv overlays FORMRULES_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	var e env
	if err := envdecode.Decode(&e); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("config: decoding environment: %w", err)
	}
	override(&cfg.Log.Level, e.LogLevel)
	override(&cfg.Log.Format, e.LogFormat)
	override(&cfg.Output.Format, e.Output)
	override(&cfg.Schemas.Dir, e.SchemaDir)
	override(&cfg.Schemas.OpenAPI, e.OpenAPI)
	return nil
}

// Resolve loads path, applies the environment, then each overlay in order
// (typically command line flags), and validates the result.
func Resolve(path string, overlays ...func(*Config)) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	for _, overlay := range overlays {
		if overlay != nil {
			overlay(cfg)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings no component can honor.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if _, err := render.ParseOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Schemas.Dir != "" && c.Schemas.OpenAPI != "" {
		return errors.New("config: schemas.dir and schemas.openapi are mutually exclusive")
	}
	return nil
}

// Level parses the configured log level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	raw := strings.TrimSpace(c.Log.Level)
	if raw == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log level %q: %w", raw, err)
	}
	return level, nil
}

// Logger builds the slog logger described by the config, writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func override(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}
