package task

import (
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

// Patch is a partial edit of a task's user-editable fields. Nil fields are
// left alone. Status is deliberately absent: it only changes through
// Transition.
type Patch struct {
	Title         *string
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
	Color         *string
	Priority      *Priority
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Deadline == nil &&
		!p.ClearDeadline && p.Color == nil && p.Priority == nil
}

// Normalize trims text fields and validates the result.
func (p Patch) Normalize() (Patch, error) {
	if p.IsEmpty() {
		return p, clierr.New(clierr.NoChanges, "no changes specified")
	}
	if p.Deadline != nil && p.ClearDeadline {
		return p, clierr.New(clierr.InvalidInput, "cannot set and clear the deadline at once")
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if err := ValidateTitle(title); err != nil {
			return p, err
		}
		p.Title = &title
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		p.Description = &desc
	}
	if p.Color != nil {
		color := strings.TrimSpace(*p.Color)
		if color == "" {
			color = DefaultColor
		}
		p.Color = &color
	}
	if p.Priority != nil {
		if err := ValidatePriority(string(*p.Priority)); err != nil {
			return p, err
		}
	}
	return p, nil
}

// Apply writes the patch onto t. The patch should already be normalized.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.ClearDeadline {
		t.Deadline = nil
	}
	if p.Deadline != nil {
		dl := *p.Deadline
		t.Deadline = &dl
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
}
