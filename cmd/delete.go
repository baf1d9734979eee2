package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Permanently deletes a task. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	refs, err := board.ParseRefs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	if len(refs) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch delete requires --yes")
	}

	return withBoard(func(ctx context.Context, _ *app, b *board.Board) error {
		if len(refs) > 1 {
			return runBatch(refs, func(ref string) (*task.Task, error) {
				return b.Delete(ctx, ref)
			})
		}
		return deleteSingleTask(ctx, b, refs[0], yes)
	})
}

// deleteSingleTask handles a single task delete with confirmation and output.
func deleteSingleTask(ctx context.Context, b *board.Board, ref string, yes bool) error {
	t, err := b.Get(ctx, ref)
	if err != nil {
		return err
	}

	if !yes {
		ok, err := confirm(fmt.Sprintf("Delete task %s %q?", t.ShortID(), t.Title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	if _, err := b.Delete(ctx, t.ID); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     t.ID,
			"title":  t.Title,
		})
	}
	output.Messagef(os.Stdout, "Deleted task %s: %s", t.ShortID(), t.Title)
	return nil
}
