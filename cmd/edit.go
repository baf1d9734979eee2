package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID[,ID,...]",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed;
the status is never touched by an edit.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("description", "", "new description (replaces the old one)")
	editCmd.Flags().String("deadline", "", "new deadline")
	editCmd.Flags().Bool("clear-deadline", false, "remove the deadline")
	editCmd.Flags().String("color", "", "new color as #rrggbb")
	editCmd.Flags().String("priority", "", "new priority: Low, Medium, High")
	editCmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	refs, err := board.ParseRefs(args[0])
	if err != nil {
		return err
	}
	patch, err := patchFromFlags(cmd, time.Local)
	if err != nil {
		return err
	}

	return withBoard(func(ctx context.Context, _ *app, b *board.Board) error {
		if len(refs) > 1 {
			return runBatch(refs, func(ref string) (*task.Task, error) {
				return b.Edit(ctx, ref, patch)
			})
		}

		t, err := b.Edit(ctx, refs[0], patch)
		if err != nil {
			return err
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, t)
		}
		output.Messagef(os.Stdout, "Updated task %s: %s", t.ShortID(), t.Title)
		return nil
	})
}

// patchFromFlags collects the changed flags into a patch.
func patchFromFlags(cmd *cobra.Command, loc *time.Location) (task.Patch, error) {
	var p task.Patch
	flags := cmd.Flags()

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		p.Title = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		p.Description = &v
	}
	if flags.Changed("deadline") {
		v, _ := flags.GetString("deadline")
		dl, err := date.ParseDeadline(v, loc)
		if err != nil {
			return p, task.ValidateDate("deadline", v, err)
		}
		p.Deadline = &dl
	}
	if clearDeadline, _ := flags.GetBool("clear-deadline"); clearDeadline {
		if p.Deadline != nil {
			return p, clierr.New(clierr.InvalidInput, "--deadline and --clear-deadline are mutually exclusive")
		}
		p.ClearDeadline = true
	}
	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		p.Color = &v
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		prio, err := task.ParsePriority(v)
		if err != nil {
			return p, err
		}
		p.Priority = &prio
	}

	if p.IsEmpty() {
		return p, clierr.New(clierr.NoChanges, "no changes specified")
	}
	return p, nil
}
