package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

// TaskCompact renders pipeline rows in one-line-per-record compact format.
func TaskCompact(w io.Writer, rows []view.Row, loc *time.Location) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, r := range rows {
		fmt.Fprintln(w, formatTaskLine(r.Task, r.Effective, loc))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, now time.Time, loc *time.Location) {
	fmt.Fprintln(w, formatTaskLine(t, task.EffectiveStatus(t, now), loc)+" color:"+t.Color)
	fmt.Fprintln(w, "  created:"+t.CreatedAt.In(loc).Format(DeadlineLayout)+" id:"+t.ID)
	if t.Description != "" {
		for _, line := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// SummaryCompact renders task counts in compact format.
func SummaryCompact(w io.Writer, s view.Summary) {
	fmt.Fprintf(w, "%d tasks\n", s.Total)
	for i, sc := range s.Stored {
		line := "  " + string(sc.Status) + ": " + strconv.Itoa(sc.Count)
		if eff := s.Effective[i].Count; eff != sc.Count {
			line += " (displayed " + strconv.Itoa(eff) + ")"
		}
		fmt.Fprintln(w, line)
	}
	parts := make([]string, 0, len(s.Priorities))
	for _, pc := range s.Priorities {
		parts = append(parts, string(pc.Priority)+"="+strconv.Itoa(pc.Count))
	}
	fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task, effective task.Status, loc *time.Location) string {
	line := t.ShortID() + " [" + string(effective) + "/" + string(t.Priority) + "] " + t.Title
	if t.Deadline != nil {
		line += " due:" + t.Deadline.In(loc).Format(DeadlineLayout)
	}
	return line
}
