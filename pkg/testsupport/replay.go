package testsupport

import (
	"context"
	"testing"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/validation"
)

// EventKind names a user interaction replayed against a controller.
type EventKind string

const (
	Change EventKind = "change"
	Blur   EventKind = "blur"
	Submit EventKind = "submit"
)

// Event is one scripted interaction. Value is only read for Change.
type Event struct {
	Kind  EventKind
	Field string
	Value string
}

// Step records the controller after an event.
type Step struct {
	Event  Event
	State  form.State
	Result *validation.Result
}

// Replay applies events in order and returns the state after each one.
func Replay(t *testing.T, c *form.Controller, events ...Event) []Step {
	t.Helper()
	steps := make([]Step, 0, len(events))
	for _, ev := range events {
		step := Step{Event: ev}
		switch ev.Kind {
		case Change:
			c.HandleChange(ev.Field, ev.Value)
		case Blur:
			c.HandleBlur(ev.Field)
		case Submit:
			res, err := c.Submit(context.Background())
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			step.Result = &res
		default:
			t.Fatalf("unknown event kind %q", ev.Kind)
		}
		step.State = c.State()
		steps = append(steps, step)
	}
	return steps
}
