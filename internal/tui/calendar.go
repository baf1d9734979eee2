package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

// calendar is the month view state.
type calendar struct {
	month    date.Date
	selected date.Date
}

// shift moves the selection by days, following it into other months.
func (c *calendar) shift(days int) {
	c.selected = c.selected.AddDays(days)
	c.month = c.selected.FirstOfMonth()
}

// shiftMonth moves to the same day of another month, clamped to its length.
func (c *calendar) shiftMonth(months int) {
	first := date.Date{Time: c.month.AddDate(0, months, 0)}
	last := first.AddDate(0, 1, -1).Day()
	day := min(c.selected.Day(), last)
	c.month = first
	c.selected = first.AddDays(day - 1)
}

func (m *Model) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc, "q", "v":
		m.screen = screenList
	case "left", "h":
		m.cal.shift(-1)
	case "right", "l":
		m.cal.shift(1)
	case "up", "k":
		m.cal.shift(-7) //nolint:mnd // one week
	case "down", "j":
		m.cal.shift(7) //nolint:mnd // one week
	case "[", "pgup":
		m.cal.shiftMonth(-1)
	case "]", "pgdown":
		m.cal.shiftMonth(1)
	case "T":
		today := date.Of(m.now(), m.loc)
		m.cal = calendar{month: today.FirstOfMonth(), selected: today}
	}
	return m, nil
}

func (m *Model) viewCalendar() string {
	month := view.Calendar(m.tasks, m.cal.month, m.loc)
	rows := output.CalendarRows(month, m.cal.selected)

	var b strings.Builder
	b.WriteString(m.styles.header.Render(m.cal.month.Format("January 2006")))
	b.WriteString("\n\n")
	b.WriteString(m.styles.dim.Render(strings.Join(rows[0], " ")))
	b.WriteString("\n")
	for _, row := range rows[1:] {
		b.WriteString(strings.Join(row, " "))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	due := view.TasksOn(m.tasks, m.cal.selected, m.loc)
	fmt.Fprintf(&b, "%s: %d task(s)\n", m.cal.selected.Format("Mon, Jan 2"), len(due))
	now := m.now()
	for _, t := range due {
		eff := task.EffectiveStatus(t, now)
		fmt.Fprintf(&b, "  %s %s %s  %s\n",
			output.Swatch(t.Color),
			t.Deadline.In(m.loc).Format("15:04"),
			pad(output.StatusStyle(eff).Render(string(eff)), statusColW),
			t.Title)
	}

	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render("arrows: day   [ ]: month   T: today   esc: back"))
	return b.String()
}
