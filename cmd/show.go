package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long: `Displays full details of a single task including its effective status,
the available actions and its markdown description.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// showResult adds derived fields to a task for JSON output.
type showResult struct {
	*task.Task
	EffectiveStatus task.Status   `json:"effective_status"`
	Actions         []task.Action `json:"actions"`
}

func runShow(_ *cobra.Command, args []string) error {
	return withBoard(func(ctx context.Context, a *app, b *board.Board) error {
		t, err := b.Get(ctx, args[0])
		if err != nil {
			return err
		}
		now := b.Now()

		switch outputFormat() {
		case output.FormatJSON:
			return output.JSON(os.Stdout, showResult{
				Task:            t,
				EffectiveStatus: task.EffectiveStatus(t, now),
				Actions:         task.Available(t.Status),
			})
		case output.FormatCompact:
			output.TaskDetailCompact(os.Stdout, t, now, a.loc)
		default:
			output.TaskDetail(os.Stdout, t, now, a.loc, output.ResolveTheme(a.cfg.Theme))
		}
		return nil
	})
}
