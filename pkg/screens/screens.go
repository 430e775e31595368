package screens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/schema"
)

var (
	// ErrDuplicateScreen is returned when two screens share an id.
	ErrDuplicateScreen = errors.New("screens: duplicate screen")
	// ErrUnknownScreen is returned when a lookup or link names a missing screen.
	ErrUnknownScreen = errors.New("screens: unknown screen")
)

// Link is a "go to screen X" affordance offered by a screen.
type Link struct {
	Label  string `json:"label" yaml:"label"`
	Target string `json:"target" yaml:"target"`
}

// Screen binds a schema to the copy a presentation layer needs to show it.
type Screen struct {
	ID           string
	Title        string
	SubmitLabel  string
	SuccessTitle string
	Links        []Link
	Schema       *schema.Schema
}

// NewController returns a fresh controller for the screen's schema.
func (s Screen) NewController(options ...form.Option) *form.Controller {
	return form.New(s.Schema, options...)
}

// Registry keeps screens in registration order.
type Registry struct {
	order   []string
	screens map[string]Screen
}

// NewRegistry registers the given screens and checks that every link points
// at a registered screen.
func NewRegistry(list ...Screen) (*Registry, error) {
	r := &Registry{screens: make(map[string]Screen, len(list))}
	for _, s := range list {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a screen. The id must be unique and a schema is required.
func (r *Registry) Register(s Screen) error {
	id := strings.TrimSpace(s.ID)
	if id == "" {
		return errors.New("screens: screen id is required")
	}
	if s.Schema == nil {
		return fmt.Errorf("screens: screen %q has no schema", id)
	}
	if _, exists := r.screens[id]; exists {
		return fmt.Errorf("%w %q", ErrDuplicateScreen, id)
	}
	s.ID = id
	s.Links = append([]Link(nil), s.Links...)
	if r.screens == nil {
		r.screens = make(map[string]Screen)
	}
	r.screens[id] = s
	r.order = append(r.order, id)
	return nil
}

// Validate reports links that target unregistered screens.
func (r *Registry) Validate() error {
	for _, id := range r.order {
		for _, link := range r.screens[id].Links {
			if _, ok := r.screens[link.Target]; !ok {
				return fmt.Errorf("%w %q (linked from %q)", ErrUnknownScreen, link.Target, id)
			}
		}
	}
	return nil
}

// Get returns the screen registered under id.
func (r *Registry) Get(id string) (Screen, bool) {
	if r == nil {
		return Screen{}, false
	}
	s, ok := r.screens[strings.TrimSpace(id)]
	return s, ok
}

// Lookup is Get with an error for unknown ids.
func (r *Registry) Lookup(id string) (Screen, error) {
	s, ok := r.Get(id)
	if !ok {
		return Screen{}, fmt.Errorf("%w %q", ErrUnknownScreen, id)
	}
	return s, nil
}

// IDs returns the registered ids in order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Screens returns the registered screens in order.
func (r *Registry) Screens() []Screen {
	if r == nil {
		return nil
	}
	out := make([]Screen, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.screens[id])
	}
	return out
}
