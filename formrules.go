// Package formrules is the entry point for callers that want the bundled
// screens or screens loaded from a schema directory or OpenAPI document
// without wiring the individual packages.
package formrules

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/openapi"
	"github.com/goliatone/go-formrules/pkg/schemafile"
	"github.com/goliatone/go-formrules/pkg/screens"
)

// Sources picks where screens come from. The zero value selects the bundled
// screens. Dir and OpenAPI are mutually exclusive.
type Sources struct {
	// Dir is a directory of JSON or YAML screen files.
	Dir string
	// OpenAPI is the path to an OpenAPI 3 document.
	OpenAPI string
}

// DefaultScreens returns the bundled sign-in, sign-up and employee screens.
func DefaultScreens() (*screens.Registry, error) {
	return schemafile.LoadEmbedded()
}

// ScreensFS exposes the bundled screen definitions so callers can copy them as
// a starting point for their own schema directory.
func ScreensFS() fs.FS {
	return schemafile.EmbeddedFS()
}

// LoadScreens resolves src into a registry.
func LoadScreens(ctx context.Context, src Sources) (*screens.Registry, error) {
	dir := strings.TrimSpace(src.Dir)
	doc := strings.TrimSpace(src.OpenAPI)
	switch {
	case dir != "" && doc != "":
		return nil, errors.New("formrules: choose either a schema directory or an OpenAPI document")
	case doc != "":
		raw, err := openapi.ReadFile(ctx, doc)
		if err != nil {
			return nil, err
		}
		return openapi.Registry(ctx, raw)
	case dir != "":
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return schemafile.LoadFS(os.DirFS(dir))
	default:
		return DefaultScreens()
	}
}

// NewController looks up id in reg and returns a controller for it.
func NewController(reg *screens.Registry, id string, options ...form.Option) (*form.Controller, screens.Screen, error) {
	screen, err := reg.Lookup(id)
	if err != nil {
		return nil, screens.Screen{}, err
	}
	return screen.NewController(options...), screen, nil
}
