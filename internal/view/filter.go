package view

import (
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// Filter returns the tasks matching both the status and priority filter
// (AND logic). A filter of All, or any value that is not a known status or
// priority, lets every task through.
func Filter(tasks []*task.Task, opts Options, now time.Time) []*task.Task {
	result := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesStatus(t, opts, now) && matchesPriority(t, opts.Priority) {
			result = append(result, t)
		}
	}
	return result
}

func matchesStatus(t *task.Task, opts Options, now time.Time) bool {
	want := task.Status(opts.Status)
	if !want.IsValid() {
		return true
	}
	if opts.Policy == MatchEffective {
		return task.EffectiveStatus(t, now) == want
	}
	return t.Status == want
}

func matchesPriority(t *task.Task, filter PriorityFilter) bool {
	want := task.Priority(filter)
	if !want.IsValid() {
		return true
	}
	return t.Priority == want
}
