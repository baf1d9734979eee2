package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

// maxDots is how many color dots a calendar cell shows before "+n".
const maxDots = 3

var todayStyle = lipgloss.NewStyle().Reverse(true)

// CalendarGrid renders a month as a Sunday-first grid. Days with tasks
// carry one dot per task in the task's color. selected, when inside the
// month, is highlighted.
func CalendarGrid(w io.Writer, m view.Month, selected date.Date) {
	rows := CalendarRows(m, selected)
	fmt.Fprintln(w, titleStyle.Render(m.First.Format("January 2006")))
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(strings.Join(rows[0], " "), " ")))
	for _, row := range rows[1:] {
		fmt.Fprintln(w, strings.TrimRight(strings.Join(row, " "), " "))
	}
}

// CalendarRows lays the month out as rows of fixed-width cells. The first
// row holds the weekday names.
func CalendarRows(m view.Month, selected date.Date) [][]string {
	const cellW = 7
	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	rows := [][]string{make([]string, len(names))}
	for i, n := range names {
		rows[0][i] = padRight(n, cellW)
	}

	week := make([]string, 0, len(names))
	for range int(m.Weekday()) {
		week = append(week, strings.Repeat(" ", cellW))
	}
	for day := 1; day <= m.Days; day++ {
		label := fmt.Sprintf("%2d", day)
		if m.First.AddDays(day-1).String() == selected.String() && colorEnabled {
			label = todayStyle.Render(label)
		}
		week = append(week, padRight(label+" "+dots(m.At(day)), cellW))
		if len(week) == len(names) {
			rows = append(rows, week)
			week = make([]string, 0, len(names))
		}
	}
	if len(week) > 0 {
		rows = append(rows, week)
	}
	return rows
}

func dots(mark *view.Mark) string {
	if mark == nil {
		return ""
	}
	var b strings.Builder
	for i, c := range mark.Colors {
		if i == maxDots {
			fmt.Fprintf(&b, "+%d", mark.Count-maxDots)
			break
		}
		b.WriteString(Swatch(c))
	}
	return b.String()
}
