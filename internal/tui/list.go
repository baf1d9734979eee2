package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

const (
	statusColW   = 11
	priorityColW = 8
	deadlineColW = 16
)

func (m *Model) viewList() string {
	var b strings.Builder

	bar := fmt.Sprintf("Status: %s   Priority: %s   Sort: %s",
		m.opts.Status, m.opts.Priority, m.opts.Sort.Label())
	if m.opts.Policy == view.MatchEffective {
		bar += "   (overdue by deadline)"
	}
	b.WriteString(m.styles.header.Width(m.width).Render(bar))
	b.WriteString("\n")

	switch {
	case !m.loaded:
		b.WriteString(m.styles.dim.Render("  Loading tasks..."))
		b.WriteString("\n")
	case len(m.rows) == 0:
		b.WriteString(m.styles.dim.Render("  No tasks. Press a to add one."))
		b.WriteString("\n")
	default:
		b.WriteString(m.styles.dim.Render(m.rowHeader()))
		b.WriteString("\n")
		end := min(m.scrollOff+m.visibleRows(), len(m.rows))
		for i := m.scrollOff; i < end; i++ {
			line := m.renderRow(m.rows[i])
			if i == m.cursor {
				line = m.styles.selected.Width(m.width).Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.styles.err.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.notice != "" {
		b.WriteString(m.styles.notice.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) titleWidth() int {
	return max(m.width-statusColW-priorityColW-deadlineColW-8, 10) //nolint:mnd // swatch, gaps, minimum
}

func (m *Model) rowHeader() string {
	return fmt.Sprintf("    %-*s %-*s %-*s %s",
		statusColW, "STATUS", priorityColW, "PRIORITY", m.titleWidth(), "TITLE", "DEADLINE")
}

func (m *Model) renderRow(r view.Row) string {
	t := r.Task
	deadline := m.styles.dim.Render("--")
	if t.Deadline != nil {
		deadline = t.Deadline.In(m.loc).Format(output.DeadlineLayout)
	}
	title := truncate(t.Title, m.titleWidth())
	return fmt.Sprintf("  %s %s %s %s %s",
		output.Swatch(t.Color),
		pad(output.StatusStyle(r.Effective).Render(string(r.Effective)), statusColW),
		pad(output.PriorityStyle(t.Priority).Render(string(t.Priority)), priorityColW),
		pad(title, m.titleWidth()),
		deadline)
}

func (m *Model) viewDetail() string {
	t := m.selected()
	if t == nil {
		return ""
	}
	var b strings.Builder
	output.TaskDetail(&b, t, m.now(), m.loc, m.theme)
	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render("esc: back"))
	return b.String()
}

func (m *Model) viewDeleteConfirm() string {
	t := m.selected()
	if t == nil {
		return ""
	}
	prompt := fmt.Sprintf("Delete %q?\n\nThis cannot be undone.\n\n%s",
		truncate(t.Title, 40), m.styles.dim.Render("y: delete   n: keep")) //nolint:mnd // dialog width
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.styles.dialog.Render(prompt))
}

// pad pads s with spaces to the given visible width.
func pad(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
