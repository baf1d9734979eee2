package view

import (
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// StatusCount holds a count for one status.
type StatusCount struct {
	Status task.Status `json:"status"`
	Count  int         `json:"count"`
}

// PriorityCount holds a count for one priority.
type PriorityCount struct {
	Priority task.Priority `json:"priority"`
	Count    int           `json:"count"`
}

// Summary is the aggregate overview of a task list.
type Summary struct {
	Total int `json:"total"`
	// Stored counts the persisted status of every task.
	Stored []StatusCount `json:"stored"`
	// Effective counts what is displayed, with lapsed deadlines as Overdue.
	Effective  []StatusCount   `json:"effective"`
	Priorities []PriorityCount `json:"priorities"`
	// Lapsed counts Upcoming tasks that display as Overdue.
	Lapsed int `json:"lapsed"`
}

// Summarize counts tasks per stored status, effective status and priority.
// Every known status and priority appears, in canonical order, even when
// its count is zero.
func Summarize(tasks []*task.Task, now time.Time) Summary {
	stored := make(map[task.Status]int, len(task.Statuses))
	effective := make(map[task.Status]int, len(task.Statuses))
	prio := make(map[task.Priority]int, len(task.Priorities))

	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		eff := task.EffectiveStatus(t, now)
		stored[t.Status]++
		effective[eff]++
		prio[t.Priority]++
		if eff != t.Status {
			s.Lapsed++
		}
	}

	for _, st := range task.Statuses {
		s.Stored = append(s.Stored, StatusCount{Status: st, Count: stored[st]})
		s.Effective = append(s.Effective, StatusCount{Status: st, Count: effective[st]})
	}
	for _, p := range task.Priorities {
		s.Priorities = append(s.Priorities, PriorityCount{Priority: p, Count: prio[p]})
	}
	return s
}
