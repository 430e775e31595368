package validation_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/rules"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/validation"
)

var (
	signIn = schema.Must("signin",
		schema.Field{Name: "email", Rules: []rules.Rule{rules.Required(""), rules.Email("")}},
		schema.Field{Name: "password", Rules: []rules.Rule{rules.Required("")}},
	)
	signUp = schema.Must("signup",
		schema.Field{Name: "email", Rules: []rules.Rule{rules.Required(""), rules.Email("")}},
		schema.Field{Name: "password", Rules: []rules.Rule{rules.Required(""), rules.MinLength(6, "")}},
		schema.Field{Name: "confirm", Rules: []rules.Rule{rules.Required(""), rules.EqualsField("password", "")}},
	)
)

func TestValidateFieldFirstFailureWins(t *testing.T) {
	out, err := validation.ValidateField(signIn, "email", map[string]string{})
	if err != nil {
		t.Fatalf("validate field: %v", err)
	}
	if out.Valid() || out.Message != "Required" || out.Rule != rules.KindRequired {
		t.Fatalf("unexpected outcome %+v", out)
	}

	out, err = validation.ValidateField(signIn, "email", map[string]string{"email": "nope"})
	if err != nil {
		t.Fatalf("validate field: %v", err)
	}
	if out.Message != "Invalid email" {
		t.Fatalf("unexpected outcome %+v", out)
	}

	out, _ = validation.ValidateField(signIn, "email", map[string]string{"email": "jane@example.com"})
	if !out.Valid() {
		t.Fatalf("expected valid outcome, got %+v", out)
	}
}

func TestValidateFieldUnknownName(t *testing.T) {
	_, err := validation.ValidateField(signIn, "username", nil)
	var cfgErr *schema.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "username" || !errors.Is(err, schema.ErrUnknownField) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestValidateAllReportsEveryFailure(t *testing.T) {
	res := validation.ValidateAll(signIn, map[string]string{"email": "", "password": ""})
	if res.Valid {
		t.Fatalf("expected rejection")
	}
	want := map[string]string{"email": "Required", "password": "Required"}
	if diff := cmp.Diff(want, res.Issues.ByField()); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if res.Issues[0].Field != "email" || res.Issues[1].Field != "password" {
		t.Fatalf("issues not in schema order: %+v", res.Issues)
	}
}

func TestValidateAllEmailOnly(t *testing.T) {
	res := validation.ValidateAll(signIn, map[string]string{"email": "not-an-email", "password": "secret"})
	want := validation.Issues{{Field: "email", Rule: rules.KindEmail, Message: "Invalid email"}}
	if diff := cmp.Diff(want, res.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAllMinLengthIgnoresConfirm(t *testing.T) {
	for _, confirm := range []string{"", "abc12", "other"} {
		res := validation.ValidateAll(signUp, map[string]string{
			"email":    "jane@example.com",
			"password": "abc12",
			"confirm":  confirm,
		})
		got := res.Issues.ByField()["password"]
		if got != "Min 6 characters" {
			t.Fatalf("confirm=%q: expected min length message, got %q", confirm, got)
		}
	}
}

func TestValidateAllMismatchOnlyOnConfirm(t *testing.T) {
	values := map[string]string{"email": "jane@example.com", "password": "abcdef", "confirm": "abcdex"}
	res := validation.ValidateAll(signUp, values)
	want := map[string]string{"confirm": "Passwords must match"}
	if diff := cmp.Diff(want, res.Issues.ByField()); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	values["password"] = "abcdex"
	if res := validation.ValidateAll(signUp, values); !res.Valid {
		t.Fatalf("expected valid after password change, got %v", res.Issues)
	}
}

func TestValidateAllSuccessBag(t *testing.T) {
	values := map[string]string{
		"email":    " jane@example.com",
		"password": "hunter2",
		"extra":    "dropped",
	}
	res := validation.ValidateAll(signIn, values)
	if res.Valid {
		t.Fatalf("leading whitespace should fail the email rule")
	}

	values["email"] = "jane@example.com"
	res = validation.ValidateAll(signIn, values)
	if !res.Valid {
		t.Fatalf("expected valid, got %v", res.Issues)
	}
	if res.Err() != nil {
		t.Fatalf("expected nil error for valid result")
	}
	want := map[string]string{"email": "jane@example.com", "password": "hunter2"}
	if diff := cmp.Diff(want, res.Bag.Map()); diff != "" {
		t.Fatalf("bag mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"email", "password"}, res.Bag.Names()); diff != "" {
		t.Fatalf("bag order mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAllDeterministic(t *testing.T) {
	values := map[string]string{"email": "x", "password": "abc", "confirm": "abd"}
	first := validation.ValidateAll(signUp, values)
	for i := 0; i < 10; i++ {
		again := validation.ValidateAll(signUp, values)
		if diff := cmp.Diff(first.Issues, again.Issues); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestResultErrCarriesIssues(t *testing.T) {
	res := validation.ValidateAll(signIn, nil)
	err := res.Err()
	if err == nil {
		t.Fatalf("expected error")
	}
	iss, ok := validation.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("expected two issues, got %v", iss)
	}
	if got := err.Error(); got != "email: Required; password: Required" {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestBagMarshalKeepsOrder(t *testing.T) {
	bag := validation.NewBag([]string{"zeta", "alpha"}, map[string]string{"alpha": "<a>", "zeta": "z"})
	raw, err := bag.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(raw); got != `{"zeta":"z","alpha":"<a>"}` {
		t.Fatalf("unexpected json %s", got)
	}
	other := validation.NewBag([]string{"zeta", "alpha"}, map[string]string{"alpha": "<a>", "zeta": "z"})
	if !bag.Equal(other) {
		t.Fatalf("expected equal bags")
	}
}
