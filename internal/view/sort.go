package view

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// epoch stands in for a missing deadline so undated tasks sort first
// ascending and last descending.
var epoch = time.Unix(0, 0).UTC()

// Sort orders tasks in place by the given option. The sort is stable, so
// tasks with equal keys keep their input order. An unknown option leaves
// the order untouched.
func Sort(tasks []*task.Task, opt SortOption, collation string) {
	switch opt {
	case DeadlineAsc:
		sort.SliceStable(tasks, func(i, j int) bool {
			return deadlineOf(tasks[i]).Before(deadlineOf(tasks[j]))
		})
	case DeadlineDesc:
		sort.SliceStable(tasks, func(i, j int) bool {
			return deadlineOf(tasks[j]).Before(deadlineOf(tasks[i]))
		})
	case TitleAsc:
		c := newCollator(collation)
		sort.SliceStable(tasks, func(i, j int) bool {
			return c.CompareString(tasks[i].Title, tasks[j].Title) < 0
		})
	case TitleDesc:
		c := newCollator(collation)
		sort.SliceStable(tasks, func(i, j int) bool {
			return c.CompareString(tasks[j].Title, tasks[i].Title) < 0
		})
	}
}

func deadlineOf(t *task.Task) time.Time {
	if t.Deadline == nil {
		return epoch
	}
	return *t.Deadline
}

// newCollator builds a collator for the language tag, falling back to
// English for empty or unparseable tags.
func newCollator(tag string) *collate.Collator {
	lang := language.English
	if tag != "" {
		if parsed, err := language.Parse(tag); err == nil {
			lang = parsed
		}
	}
	return collate.New(lang)
}
