package schemafile_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/rules"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/schemafile"
	"github.com/goliatone/go-formrules/pkg/screens"
	"github.com/goliatone/go-formrules/pkg/validation"
)

func loadEmbedded(t *testing.T) *screens.Registry {
	t.Helper()
	reg, err := schemafile.LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded screens: %v", err)
	}
	return reg
}

func mustScreen(t *testing.T, reg *screens.Registry, id string) screens.Screen {
	t.Helper()
	s, err := reg.Lookup(id)
	if err != nil {
		t.Fatalf("lookup %s: %v", id, err)
	}
	return s
}

func TestEmbeddedScreens(t *testing.T) {
	reg := loadEmbedded(t)
	if diff := cmp.Diff([]string{"signin", "signup", "employee"}, reg.IDs()); diff != "" {
		t.Fatalf("screen ids mismatch (-want +got):\n%s", diff)
	}

	want := map[string][]string{
		"signin":   {"email", "password"},
		"signup":   {"email", "password", "confirm"},
		"employee": {"fullname", "email", "position", "phone", "department"},
	}
	for id, fields := range want {
		s := mustScreen(t, reg, id)
		if diff := cmp.Diff(fields, s.Schema.Names()); diff != "" {
			t.Fatalf("%s fields mismatch (-want +got):\n%s", id, diff)
		}
	}

	signin := mustScreen(t, reg, "signin")
	if signin.SuccessTitle != "Signed in" || len(signin.Links) != 2 {
		t.Fatalf("unexpected sign-in screen %+v", signin)
	}
	password, err := signin.Schema.Field("password")
	if err != nil || !password.Secret {
		t.Fatalf("password should be a secret field: %+v %v", password, err)
	}
	if diff := cmp.Diff([]string{"confirm"}, mustScreen(t, reg, "signup").Schema.Dependents("password")); diff != "" {
		t.Fatalf("signup dependents mismatch (-want +got):\n%s", diff)
	}
}

func TestSignInEmptyRejectsBoth(t *testing.T) {
	s := mustScreen(t, loadEmbedded(t), "signin").Schema
	res := validation.ValidateAll(s, map[string]string{"email": "", "password": ""})
	want := map[string]string{"email": "Required", "password": "Required"}
	if diff := cmp.Diff(want, res.Issues.ByField()); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestSignInInvalidEmailOnly(t *testing.T) {
	s := mustScreen(t, loadEmbedded(t), "signin").Schema
	res := validation.ValidateAll(s, map[string]string{"email": "not-an-email", "password": "secret"})
	want := map[string]string{"email": "Invalid email"}
	if diff := cmp.Diff(want, res.Issues.ByField()); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestSignUpPasswordTooShort(t *testing.T) {
	s := mustScreen(t, loadEmbedded(t), "signup").Schema
	for _, confirm := range []string{"", "abc12", "abcdef"} {
		res := validation.ValidateAll(s, map[string]string{"email": "jane@example.com", "password": "abc12", "confirm": confirm})
		if got := res.Issues.ByField()["password"]; got != "Min 6 characters" {
			t.Fatalf("confirm=%q: got %q", confirm, got)
		}
	}
}

func TestSignUpMismatchThenPasswordChange(t *testing.T) {
	screen := mustScreen(t, loadEmbedded(t), "signup")
	res := validation.ValidateAll(screen.Schema, map[string]string{"email": "jane@example.com", "password": "abcdef", "confirm": "abcdex"})
	if diff := cmp.Diff(map[string]string{"confirm": "Passwords must match"}, res.Issues.ByField()); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	c := screen.NewController()
	c.HandleChange("email", "jane@example.com")
	c.HandleChange("password", "abcdef")
	c.HandleChange("confirm", "abcdex")
	if _, ok := c.Error("confirm"); !ok {
		t.Fatalf("expected confirm mismatch")
	}
	c.HandleChange("password", "abcdex")
	if msg, ok := c.Error("confirm"); ok {
		t.Fatalf("confirm error should disappear, got %q", msg)
	}
}

func TestEmployeeSuccessBagIsUntrimmed(t *testing.T) {
	s := mustScreen(t, loadEmbedded(t), "employee").Schema
	values := map[string]string{
		"fullname":   " Jane Doe ",
		"email":      "jane@example.com",
		"position":   "Engineer",
		"phone":      "555-0100",
		"department": "R&D ",
	}
	res := validation.ValidateAll(s, values)
	if !res.Valid {
		t.Fatalf("expected success, got %v", res.Issues)
	}
	if diff := cmp.Diff(values, res.Bag.Map()); diff != "" {
		t.Fatalf("bag mismatch (-want +got):\n%s", diff)
	}
}

func TestEmployeeSubmitResets(t *testing.T) {
	screen := mustScreen(t, loadEmbedded(t), "employee")
	var got []form.Submission
	c := screen.NewController(form.WithNotifier(form.NotifierFunc(func(_ context.Context, sub form.Submission) error {
		got = append(got, sub)
		return nil
	})))
	initial := c.State()
	for _, name := range screen.Schema.Names() {
		c.HandleChange(name, "x")
		c.HandleBlur(name)
	}
	c.HandleChange("email", "jane@example.com")
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one submission, got %d", len(got))
	}
	for _, name := range screen.Schema.Names() {
		if c.Value(name) != "" || c.Touched(name) {
			t.Fatalf("%s not reset", name)
		}
		wantErr, wantOK := initial.Errors[name]
		gotErr, gotOK := c.Error(name)
		if wantOK != gotOK || wantErr != gotErr {
			t.Fatalf("%s error not reset: got %q want %q", name, gotErr, wantErr)
		}
	}
}

func TestLoadFSJSONAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json": {Data: []byte(`{"screens":[{"id":"login","fields":[{"name":"user","rules":[{"kind":"required"}]}]}]}`)},
		"b.yml": {Data: []byte(`
screens:
  - id: pin
    title: PIN
    links:
      - label: back
        target: login
    fields:
      - name: pin
        rules:
          - kind: minLength
            params: {value: 4}
`)},
		"notes.txt": {Data: []byte("ignored")},
	}
	reg, err := schemafile.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"login", "pin"}, reg.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	login, _ := reg.Get("login")
	if login.Title != "login" {
		t.Fatalf("title should fall back to id, got %q", login.Title)
	}
	pin, _ := reg.Get("pin")
	out, err := validation.ValidateField(pin.Schema, "pin", map[string]string{"pin": "12"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Message != "Min 4 characters" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestLoadFSErrors(t *testing.T) {
	cases := map[string]struct {
		files fstest.MapFS
		check func(error) bool
	}{
		"unknown rule": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("screens:\n  - id: x\n    fields:\n      - name: f\n        rules:\n          - kind: phone\n")}},
			check: func(err error) bool { return errors.Is(err, rules.ErrUnknownRule) },
		},
		"dangling equalsField": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("screens:\n  - id: x\n    fields:\n      - name: confirm\n        rules:\n          - kind: equalsField\n            params: {field: password}\n")}},
			check: schema.IsConfigError,
		},
		"duplicate field": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("screens:\n  - id: x\n    fields:\n      - name: f\n      - name: f\n")}},
			check: func(err error) bool { return errors.Is(err, schema.ErrDuplicateField) },
		},
		"duplicate screen": {
			files: fstest.MapFS{
				"a.yaml": {Data: []byte("screens:\n  - id: x\n")},
				"b.yaml": {Data: []byte("screens:\n  - id: x\n")},
			},
			check: func(err error) bool { return err != nil && strings.Contains(err.Error(), "duplicate screen") },
		},
		"dangling link": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("screens:\n  - id: x\n    links:\n      - target: y\n")}},
			check: func(err error) bool { return errors.Is(err, screens.ErrUnknownScreen) },
		},
		"misspelled yaml key": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("screens:\n  - id: x\n    fields:\n      - name: f\n        rule:\n          - kind: required\n")}},
			check: func(err error) bool {
				return err != nil && strings.Contains(err.Error(), "a.yaml") && strings.Contains(err.Error(), "rule")
			},
		},
		"unknown json key": {
			files: fstest.MapFS{"a.json": {Data: []byte(`{"screens":[{"id":"x","feilds":[]}]}`)}},
			check: func(err error) bool {
				return err != nil && strings.Contains(err.Error(), "a.json") && strings.Contains(err.Error(), "feilds")
			},
		},
		"malformed yaml": {
			files: fstest.MapFS{"a.yml": {Data: []byte("screens: [\n")}},
			check: func(err error) bool {
				return err != nil && strings.Contains(err.Error(), "parse a.yml: yaml:")
			},
		},
		"empty file": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("  ")}},
			check: func(err error) bool { return err != nil && strings.Contains(err.Error(), "is empty") },
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := schemafile.LoadFS(tc.files)
			if err == nil || !tc.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
