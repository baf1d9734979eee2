package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

// Action is a user-triggered status transition.
type Action string

// Status transitions. All of them are reversible; no status is terminal.
const (
	ActionComplete Action = "complete"
	ActionReopen   Action = "reopen"
	ActionCancel   Action = "cancel"
)

// Actions lists every transition.
var Actions = []Action{ActionComplete, ActionReopen, ActionCancel}

// ParseAction resolves a case-insensitive action name.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if strings.EqualFold(string(a), strings.TrimSpace(s)) {
			return a, nil
		}
	}
	return "", clierr.Newf(clierr.InvalidInput, "invalid action %q", s).
		WithDetails(map[string]any{"action": s, "allowed": Actions})
}

// Transition returns the status a task in from moves to under a.
//   - Complete: any status except Completed -> Completed.
//   - Reopen: Completed or Canceled -> Upcoming.
//   - Cancel: any status except Canceled -> Canceled.
func Transition(a Action, from Status) (Status, error) {
	switch a {
	case ActionComplete:
		if from == StatusCompleted {
			return "", statusConflict(a, from)
		}
		return StatusCompleted, nil
	case ActionReopen:
		if !from.IsClosed() {
			return "", statusConflict(a, from)
		}
		return StatusUpcoming, nil
	case ActionCancel:
		if from == StatusCanceled {
			return "", statusConflict(a, from)
		}
		return StatusCanceled, nil
	default:
		return "", clierr.Newf(clierr.InvalidInput, "invalid action %q", string(a))
	}
}

// Available returns the transitions that are legal from s.
func Available(s Status) []Action {
	var out []Action
	for _, a := range Actions {
		if _, err := Transition(a, s); err == nil {
			out = append(out, a)
		}
	}
	return out
}

func statusConflict(a Action, from Status) *clierr.Error {
	return clierr.Newf(clierr.StatusConflict, "cannot %s a task that is %s", a, strings.ToLower(string(from))).
		WithDetails(map[string]any{
			"action": a,
			"status": from,
		})
}
