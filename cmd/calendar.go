package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Show deadlines on a month calendar",
	Long: `Renders a month grid with one colored dot per task due that day.
With --day, also lists the tasks due on that day. Defaults to the current month.`,
	Args: cobra.NoArgs,
	RunE: runCalendar,
}

func init() {
	calendarCmd.Flags().String("month", "", "month to show (YYYY-MM)")
	calendarCmd.Flags().String("day", "", "day to select and list (YYYY-MM-DD)")
	rootCmd.AddCommand(calendarCmd)
}

// calendarResult is the JSON shape of the calendar command.
type calendarResult struct {
	view.Month
	Day   *date.Date   `json:"day,omitempty"`
	Tasks []*task.Task `json:"tasks,omitempty"`
}

func runCalendar(cmd *cobra.Command, _ []string) error {
	return withBoard(func(ctx context.Context, a *app, b *board.Board) error {
		selected, month, hasDay, err := calendarTarget(cmd, date.Of(b.Now(), a.loc))
		if err != nil {
			return err
		}

		all, err := b.All(ctx)
		if err != nil {
			return err
		}
		m := view.Calendar(all, month, a.loc)
		var due []*task.Task
		if hasDay {
			due = view.TasksOn(all, selected, a.loc)
		}

		if outputFormat() == output.FormatJSON {
			res := calendarResult{Month: m}
			if hasDay {
				res.Day = &selected
				res.Tasks = due
			}
			return output.JSON(os.Stdout, res)
		}

		output.CalendarGrid(os.Stdout, m, selected)
		if hasDay {
			fmt.Fprintln(os.Stdout)
			rows := make([]view.Row, len(due))
			for i, t := range due {
				rows[i] = view.Row{Task: t, Effective: task.EffectiveStatus(t, b.Now())}
			}
			if len(rows) == 0 {
				output.Messagef(os.Stdout, "Nothing due on %s", selected)
				return nil
			}
			if outputFormat() == output.FormatCompact {
				output.TaskCompact(os.Stdout, rows, a.loc)
			} else {
				output.TaskTable(os.Stdout, rows, a.loc)
			}
		}
		return nil
	})
}

// calendarTarget resolves --month and --day. --day alone picks its month;
// with neither flag the current month is shown with today selected.
func calendarTarget(cmd *cobra.Command, today date.Date) (selected, month date.Date, hasDay bool, err error) {
	selected, month = today, today.FirstOfMonth()

	if v, _ := cmd.Flags().GetString("day"); v != "" {
		d, err := date.Parse(v)
		if err != nil {
			return selected, month, false, task.ValidateDate("day", v, err)
		}
		selected, month, hasDay = d, d.FirstOfMonth(), true
	}
	if v, _ := cmd.Flags().GetString("month"); v != "" {
		m, err := date.ParseMonth(v)
		if err != nil {
			return selected, month, hasDay, task.ValidateDate("month", v, err)
		}
		month = m
	}
	return selected, month, hasDay, nil
}
