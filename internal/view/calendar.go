package view

import (
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// Mark summarizes the tasks due on one calendar day.
type Mark struct {
	Day    date.Date `json:"day"`
	Count  int       `json:"count"`
	Colors []string  `json:"colors"`
}

// Month holds the marks for every day of a calendar month. Days without
// tasks are absent from Marks.
type Month struct {
	First date.Date               `json:"first"`
	Days  int                     `json:"days"`
	Marks map[string]*Mark        `json:"marks"`
	Tasks map[string][]*task.Task `json:"-"`
}

// Calendar buckets tasks by the calendar day of their deadline in loc and
// keeps the buckets that fall inside month. Tasks without a deadline never
// appear. Colors keep task order and are not deduplicated, so a day with
// two red tasks shows two red dots.
func Calendar(tasks []*task.Task, month date.Date, loc *time.Location) Month {
	if loc == nil {
		loc = time.UTC
	}
	first := month.FirstOfMonth()
	m := Month{
		First: first,
		Days:  daysIn(first),
		Marks: make(map[string]*Mark),
		Tasks: make(map[string][]*task.Task),
	}
	for _, t := range tasks {
		if t.Deadline == nil {
			continue
		}
		day := date.Of(*t.Deadline, loc)
		if day.Year() != first.Year() || day.Month() != first.Month() {
			continue
		}
		key := day.String()
		mark, ok := m.Marks[key]
		if !ok {
			mark = &Mark{Day: day}
			m.Marks[key] = mark
		}
		mark.Count++
		mark.Colors = append(mark.Colors, t.Color)
		m.Tasks[key] = append(m.Tasks[key], t)
	}
	return m
}

// At returns the mark for the given day of the month, or nil when nothing
// is due.
func (m Month) At(day int) *Mark {
	if day < 1 || day > m.Days {
		return nil
	}
	return m.Marks[m.First.AddDays(day-1).String()]
}

// Weekday returns the weekday of the first day of the month, used to pad
// the first row of a grid.
func (m Month) Weekday() time.Weekday {
	return m.First.Weekday()
}

// TasksOn returns the tasks whose deadline falls on day in loc, in input
// order.
func TasksOn(tasks []*task.Task, day date.Date, loc *time.Location) []*task.Task {
	if loc == nil {
		loc = time.UTC
	}
	want := day.String()
	var result []*task.Task
	for _, t := range tasks {
		if t.Deadline == nil {
			continue
		}
		if date.Of(*t.Deadline, loc).String() == want {
			result = append(result, t)
		}
	}
	return result
}

func daysIn(first date.Date) int {
	return first.AddDate(0, 1, -1).Day()
}
