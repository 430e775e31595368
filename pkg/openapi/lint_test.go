package openapi

import (
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLint_CleanFixture(t *testing.T) {
	raw, err := os.ReadFile("testdata/accounts.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	got, err := Lint(context.Background(), raw)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no violations, got %v", got)
	}
}

func TestLint_ReportsViolations(t *testing.T) {
	raw := []byte(`{
  "openapi": "3.0.3",
  "info": {"title": "x", "version": "1"},
  "paths": {
    "/a": {
      "post": {
        "operationId": "a",
        "x-formgen-order": ["name"],
        "requestBody": {"content": {"application/json": {"schema": {
          "type": "object",
          "x-formgen-order": ["missing"],
          "properties": {
            "name": {"type": "string", "x-formgen-secret": "yes", "x-formgen-messages": {"shout": "no"}},
            "confirm": {"type": "string", "x-formgen-equals": "pass"}
          }
        }}}},
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`)
	got, err := Lint(context.Background(), raw)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	var messages []string
	for _, v := range got {
		messages = append(messages, v.String())
	}
	want := []string{
		`post /a -> unsupported extension "x-formgen-order" here`,
		`post /a > requestBody -> x-formgen-order names unknown property "missing"`,
		`post /a > requestBody > properties.confirm -> x-formgen-equals references unknown property "pass"`,
		`post /a > requestBody > properties.name -> x-formgen-messages names unknown rule "shout"`,
		`post /a > requestBody > properties.name -> x-formgen-secret must be a boolean, found string`,
	}
	if diff := cmp.Diff(want, messages); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}
