package task

import (
	"strings"
	"time"
)

// Status is the stored status of a task.
type Status string

// Task statuses.
const (
	StatusUpcoming  Status = "Upcoming"
	StatusOverdue   Status = "Overdue"
	StatusCompleted Status = "Completed"
	StatusCanceled  Status = "Canceled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusUpcoming, StatusOverdue, StatusCompleted, StatusCanceled}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsClosed reports whether a lapsed deadline no longer matters for s.
func (s Status) IsClosed() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// Priority is the urgency level of a task.
type Priority string

// Task priorities.
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

// ParseStatus resolves a case-insensitive status name.
func ParseStatus(s string) (Status, error) {
	for _, v := range Statuses {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", invalidStatus(s)
}

// ParsePriority resolves a case-insensitive priority name.
func ParsePriority(s string) (Priority, error) {
	for _, v := range Priorities {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", invalidPriority(s)
}

// IsOverdue reports whether t has an open status and a deadline before now.
func IsOverdue(t *Task, now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now) && !t.Status.IsClosed()
}

// EffectiveStatus is the status shown to the user. It is never persisted:
// an open task whose deadline has lapsed displays as Overdue, everything
// else displays its stored status.
func EffectiveStatus(t *Task, now time.Time) Status {
	if IsOverdue(t, now) {
		return StatusOverdue
	}
	return t.Status
}
