// Package task defines the task record, its status lifecycle and the
// validation rules applied when tasks are created or edited.
package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultColor is the color token given to tasks created without one.
const DefaultColor = "#3f51b5"

// Task is a single to-do item owned by one identity.
type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Color       string     `json:"color"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Draft holds the user-supplied fields of a task that does not exist yet.
type Draft struct {
	Title       string
	Description string
	Deadline    *time.Time
	Color       string
	Priority    Priority
}

// New builds a task from a draft. The title and description are trimmed, an
// empty title is rejected, and missing color and priority fall back to the
// defaults. The initial status is Overdue when the deadline is already past
// at now, otherwise Upcoming.
func New(d Draft, ownerID string, now time.Time) (*Task, error) {
	title := strings.TrimSpace(d.Title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}

	priority := d.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if err := ValidatePriority(string(priority)); err != nil {
		return nil, err
	}

	color := strings.TrimSpace(d.Color)
	if color == "" {
		color = DefaultColor
	}

	t := &Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(d.Description),
		Color:       color,
		Priority:    priority,
		Status:      InitialStatus(d.Deadline, now),
		CreatedAt:   now,
	}
	if d.Deadline != nil {
		dl := *d.Deadline
		t.Deadline = &dl
	}
	return t, nil
}

// InitialStatus is the status assigned at creation time.
func InitialStatus(deadline *time.Time, now time.Time) Status {
	if deadline != nil && deadline.Before(now) {
		return StatusOverdue
	}
	return StatusUpcoming
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	c := *t
	if t.Deadline != nil {
		dl := *t.Deadline
		c.Deadline = &dl
	}
	return &c
}

// ShortID returns the first eight characters of the task ID for display.
func (t *Task) ShortID() string {
	const n = 8
	if len(t.ID) <= n {
		return t.ID
	}
	return t.ID[:n]
}
