package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var completeCmd = &cobra.Command{
	Use:     "complete ID[,ID,...]",
	Aliases: []string{"done"},
	Short:   "Mark a task as completed",
	Args:    cobra.ExactArgs(1),
	RunE:    actionRunner(task.ActionComplete),
}

var reopenCmd = &cobra.Command{
	Use:   "reopen ID[,ID,...]",
	Short: "Reopen a completed or canceled task",
	Long: `Moves a completed or canceled task back to Upcoming. A past deadline
shows it as Overdue again until the deadline is changed.`,
	Args: cobra.ExactArgs(1),
	RunE: actionRunner(task.ActionReopen),
}

var cancelCmd = &cobra.Command{
	Use:   "cancel ID[,ID,...]",
	Short: "Cancel a task",
	Args:  cobra.ExactArgs(1),
	RunE:  actionRunner(task.ActionCancel),
}

func init() {
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(reopenCmd)
	rootCmd.AddCommand(cancelCmd)
}

// moveResult wraps a task with the status it left for JSON output.
type moveResult struct {
	*task.Task
	From task.Status `json:"from"`
}

// actionRunner returns the RunE of a status transition command.
func actionRunner(a task.Action) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		refs, err := board.ParseRefs(args[0])
		if err != nil {
			return err
		}

		return withBoard(func(ctx context.Context, _ *app, b *board.Board) error {
			if len(refs) > 1 {
				return runBatch(refs, func(ref string) (*task.Task, error) {
					return b.Act(ctx, ref, a)
				})
			}
			return moveSingleTask(ctx, b, refs[0], a)
		})
	}
}

// moveSingleTask handles a single transition with full output.
func moveSingleTask(ctx context.Context, b *board.Board, ref string, a task.Action) error {
	before, err := b.Get(ctx, ref)
	if err != nil {
		return err
	}
	t, err := b.Act(ctx, before.ID, a)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, moveResult{Task: t, From: before.Status})
	}
	output.Messagef(os.Stdout, "Moved task %s: %s -> %s", t.ShortID(), before.Status, t.Status)
	return nil
}
