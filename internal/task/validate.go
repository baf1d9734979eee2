package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

// ValidateTitle rejects titles that are empty after trimming.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return clierr.New(clierr.InvalidTitle, "title must not be empty")
	}
	return nil
}

// ValidateStatus checks that a status is one of the known statuses.
func ValidateStatus(status string) error {
	if Status(status).IsValid() {
		return nil
	}
	return invalidStatus(status)
}

// ValidatePriority checks that a priority is one of the known priorities.
func ValidatePriority(priority string) error {
	if Priority(priority).IsValid() {
		return nil
	}
	return invalidPriority(priority)
}

// ValidateDate returns a coded error for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateTaskID returns a coded error for a malformed or ambiguous ID.
func ValidateTaskID(input, reason string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q: %s", input, reason).
		WithDetails(map[string]any{"input": input})
}

// NotFound returns a coded error for a missing task.
func NotFound(id string) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
		WithDetails(map[string]any{"id": id})
}

func invalidStatus(status string) *clierr.Error {
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", status).
		WithDetails(map[string]any{
			"status":  status,
			"allowed": Statuses,
		})
}

func invalidPriority(priority string) *clierr.Error {
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", priority).
		WithDetails(map[string]any{
			"priority": priority,
			"allowed":  Priorities,
		})
}
