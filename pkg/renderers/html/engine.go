package html

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// engine loads pongo2 templates from an fs.FS and caches them by path.
type engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
}

func newEngine(files fs.FS, ext string) (*engine, error) {
	if files == nil {
		return nil, errors.New("html: templates fs is required")
	}
	if ext == "" {
		ext = ".tpl"
	}
	return &engine{
		set:       pongo2.NewSet("formrules", pongo2.NewFSLoader(files)),
		templates: make(map[string]*pongo2.Template),
		ext:       ext,
	}, nil
}

func (e *engine) render(name string, data pongo2.Context) ([]byte, error) {
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}
	tmpl, err := e.template(path)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(data, &buf); err != nil {
		return nil, fmt.Errorf("html: execute template %q: %w", path, err)
	}
	return buf.Bytes(), nil
}

func (e *engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("html: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}
