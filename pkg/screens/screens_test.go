package screens_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/rules"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/screens"
)

func screen(id string, links ...screens.Link) screens.Screen {
	return screens.Screen{
		ID:     id,
		Title:  id,
		Links:  links,
		Schema: schema.Must(id, schema.Field{Name: "email", Rules: []rules.Rule{rules.Required("")}}),
	}
}

func TestRegistryKeepsOrder(t *testing.T) {
	reg, err := screens.NewRegistry(
		screen("signin", screens.Link{Label: "Sign up", Target: "signup"}),
		screen("signup", screens.Link{Label: "Back", Target: "signin"}),
	)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if diff := cmp.Diff([]string{"signin", "signup"}, reg.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	s, ok := reg.Get("signup")
	if !ok || s.Title != "signup" {
		t.Fatalf("lookup failed: %+v", s)
	}
	if c := s.NewController(); c.Schema() != s.Schema {
		t.Fatalf("controller should use the screen schema")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := screens.NewRegistry(screen("signin"), screen(" signin "))
	if !errors.Is(err, screens.ErrDuplicateScreen) {
		t.Fatalf("expected ErrDuplicateScreen, got %v", err)
	}
}

func TestRegistryRejectsDanglingLinks(t *testing.T) {
	_, err := screens.NewRegistry(screen("signin", screens.Link{Target: "employee"}))
	if !errors.Is(err, screens.ErrUnknownScreen) {
		t.Fatalf("expected ErrUnknownScreen, got %v", err)
	}
}

func TestLookupUnknown(t *testing.T) {
	reg, err := screens.NewRegistry(screen("signin"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, err := reg.Lookup("nope"); !errors.Is(err, screens.ErrUnknownScreen) {
		t.Fatalf("expected ErrUnknownScreen, got %v", err)
	}
}
