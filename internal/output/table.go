package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskflow/internal/activity"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

// DeadlineLayout is how deadlines are shown in tables.
const DeadlineLayout = "2006-01-02 15:04"

var (
	colorEnabled = true

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	// Status colors shared with the TUI badges.
	statusStyles = map[string]lipgloss.Style{
		string(task.StatusUpcoming):  lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		string(task.StatusOverdue):   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		string(task.StatusCompleted): lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		string(task.StatusCanceled):  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}

	priorityStyles = map[string]lipgloss.Style{
		string(task.PriorityHigh):   lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		string(task.PriorityMedium): lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		string(task.PriorityLow):    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
)

// DisableColor strips all styling from table output.
func DisableColor() {
	colorEnabled = false
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
}

// StatusStyle returns the style used for a status badge.
func StatusStyle(s task.Status) lipgloss.Style {
	if st, ok := statusStyles[string(s)]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// PriorityStyle returns the style used for a priority label.
func PriorityStyle(p task.Priority) lipgloss.Style {
	if st, ok := priorityStyles[string(p)]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// Swatch renders a colored dot for a task color token.
func Swatch(color string) string {
	if !colorEnabled {
		return "*"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// TaskTable renders pipeline rows as a formatted table. The status column
// shows the effective status; a lapsed Upcoming task reads Overdue.
func TaskTable(w io.Writer, rows []view.Row, loc *time.Location) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, statusW, prioW, titleW, dueW := 10, 11, 10, 7, 18
	for _, r := range rows {
		statusW = max(statusW, len(r.Effective)+pad)
		titleW = max(titleW, min(lipgloss.Width(r.Task.Title)+pad, 50)) //nolint:mnd // max title column width
	}

	header := fmt.Sprintf("   %-*s %-*s %-*s %-*s %-*s",
		idW, "ID", statusW, "STATUS", prioW, "PRIORITY", titleW, "TITLE", dueW, "DEADLINE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, r := range rows {
		t := r.Task
		row := fmt.Sprintf("%s  %-*s %s %s %s %s",
			Swatch(t.Color),
			idW, t.ShortID(),
			padRight(StatusStyle(r.Effective).Render(string(r.Effective)), statusW),
			padRight(PriorityStyle(t.Priority).Render(string(t.Priority)), prioW),
			padRight(truncate(t.Title, 48), titleW), //nolint:mnd // max title length
			deadlineOrDash(t.Deadline, loc))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. The description is
// rendered as markdown.
func TaskDetail(w io.Writer, t *task.Task, now time.Time, loc *time.Location, theme Theme) {
	titleLine := fmt.Sprintf("%s %s", Swatch(t.Color), t.Title)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	eff := task.EffectiveStatus(t, now)
	status := StatusStyle(eff).Render(string(eff))
	if eff != t.Status {
		status += dimStyle.Render(" (stored " + string(t.Status) + ")")
	}

	printField(w, "ID", t.ID)
	printField(w, "Status", status)
	printField(w, "Priority", PriorityStyle(t.Priority).Render(string(t.Priority)))
	printField(w, "Deadline", deadlineOrDash(t.Deadline, loc))
	if t.Deadline != nil && !t.Status.IsClosed() {
		printField(w, "Due in", FormatRemaining(t.Deadline.Sub(now)))
	}
	printField(w, "Color", t.Color)
	printField(w, "Created", t.CreatedAt.In(loc).Format(DeadlineLayout))
	printField(w, "Actions", actionList(task.Available(t.Status)))

	if desc := Markdown(t.Description, 80, theme); desc != "" { //nolint:mnd // wrap width
		fmt.Fprintln(w)
		fmt.Fprintln(w, desc)
	}
}

// SummaryTable renders task counts as a small dashboard.
func SummaryTable(w io.Writer, s view.Summary) {
	fmt.Fprintln(w, titleStyle.Render("Tasks"))
	fmt.Fprintf(w, "Total: %d tasks\n\n", s.Total)

	const statusColW = 16
	header := fmt.Sprintf("%-*s %8s %10s", statusColW, "STATUS", "STORED", "DISPLAYED")
	fmt.Fprintln(w, headerStyle.Render(header))
	for i, sc := range s.Stored {
		fmt.Fprintf(w, "%s %8d %10d\n",
			padRight(StatusStyle(sc.Status).Render(string(sc.Status)), statusColW),
			sc.Count, s.Effective[i].Count)
	}
	if s.Lapsed > 0 {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d upcoming task(s) past their deadline", s.Lapsed)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %8s", statusColW, "PRIORITY", "COUNT")))
	for _, pc := range s.Priorities {
		fmt.Fprintf(w, "%s %8d\n",
			padRight(PriorityStyle(pc.Priority).Render(string(pc.Priority)), statusColW), pc.Count)
	}
}

// ActivityTable renders activity log entries, oldest first.
func ActivityTable(w io.Writer, entries []activity.Entry, loc *time.Location) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	header := fmt.Sprintf("%-16s %-9s %-10s %s", "WHEN", "ACTION", "TASK", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, e := range entries {
		id := e.TaskID
		if len(id) > 8 { //nolint:mnd // short id length
			id = id[:8]
		}
		if id == "" {
			id = dimStyle.Render("--")
		}
		fmt.Fprintf(w, "%-16s %-9s %s %s\n",
			e.Timestamp.In(loc).Format(DeadlineLayout), e.Action, padRight(id, 10), e.Detail) //nolint:mnd // column width
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// FormatRemaining renders the time to a deadline as "in 2d 3h" or
// "3h 20m ago".
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return FormatDuration(-d) + " ago"
	}
	return "in " + FormatDuration(d)
}

// FormatDuration renders a duration as human-readable "Xd Yh" or "Xh Ym".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	minutes := int(d.Minutes()) % 60 //nolint:mnd // 60 minutes per hour
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-10s %s\n", label+":", value)
}

func deadlineOrDash(dl *time.Time, loc *time.Location) string {
	if dl == nil {
		return dimStyle.Render("--")
	}
	return dl.In(loc).Format(DeadlineLayout)
}

func actionList(actions []task.Action) string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
