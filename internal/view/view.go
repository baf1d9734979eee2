package view

import (
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// Apply runs the full pipeline: filter, then stable sort. The returned
// slice is new; the input slice and its tasks are not modified.
func Apply(tasks []*task.Task, opts Options, now time.Time) []*task.Task {
	result := Filter(tasks, opts, now)
	Sort(result, opts.Sort, opts.Collation)
	return result
}

// Row pairs a task with the status to display for it at a given instant.
type Row struct {
	Task      *task.Task  `json:"task"`
	Effective task.Status `json:"effective_status"`
}

// Rows runs Apply and attaches the effective status of each task at now.
func Rows(tasks []*task.Task, opts Options, now time.Time) []Row {
	list := Apply(tasks, opts, now)
	rows := make([]Row, len(list))
	for i, t := range list {
		rows[i] = Row{Task: t, Effective: task.EffectiveStatus(t, now)}
	}
	return rows
}
