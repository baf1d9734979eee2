package cmd

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "add [TITLE]",
	Aliases: []string{"create"},
	Short:   "Add a new task",
	Long: `Adds a task with the given title and optional fields.

Title can be provided as a positional argument or via --title flag.
A deadline in the past makes the task Overdue from the start.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("title", "", "task title (alternative to positional argument)")
	createCmd.Flags().String("description", "", "task description (markdown)")
	createCmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	createCmd.Flags().String("deadline", "", "deadline (YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339)")
	createCmd.Flags().String("color", "", "color as #rrggbb (default from config)")
	createCmd.Flags().String("priority", "", "priority: Low, Medium, High (default from config)")
	rootCmd.AddCommand(createCmd)
}

// normalizeTaskFlags maps flag aliases shared by add and edit.
func normalizeTaskFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "desc", "body":
		name = "description"
	case "due":
		name = "deadline"
	case "clear-due":
		name = "clear-deadline"
	}
	return pflag.NormalizedName(name)
}

func runCreate(cmd *cobra.Command, args []string) error {
	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}

	draft := task.Draft{Title: title}
	if err := applyCreateFlags(cmd, &draft, time.Local); err != nil {
		return err
	}

	return withBoard(func(ctx context.Context, _ *app, b *board.Board) error {
		t, err := b.Create(ctx, draft)
		if err != nil {
			return err
		}

		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, t)
		}
		output.Messagef(os.Stdout, "Created task %s: %s (%s)", t.ShortID(), t.Title, t.Status)
		return nil
	})
}

// resolveCreateTitle extracts the task title from the positional argument
// or --title, rejecting both at once.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	titleFlag, _ := cmd.Flags().GetString("title")
	switch {
	case len(args) > 0 && titleFlag != "":
		return "", clierr.New(clierr.InvalidInput,
			"provide title as positional argument or --title, not both")
	case len(args) > 0:
		return args[0], nil
	case titleFlag != "":
		return titleFlag, nil
	default:
		return "", clierr.New(clierr.InvalidTitle, "title must not be empty")
	}
}

func applyCreateFlags(cmd *cobra.Command, d *task.Draft, loc *time.Location) error {
	d.Description, _ = cmd.Flags().GetString("description")

	if v, _ := cmd.Flags().GetString("deadline"); v != "" {
		dl, err := date.ParseDeadline(v, loc)
		if err != nil {
			return task.ValidateDate("deadline", v, err)
		}
		d.Deadline = &dl
	}
	if v, _ := cmd.Flags().GetString("color"); v != "" {
		d.Color = strings.TrimSpace(v)
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		p, err := task.ParsePriority(v)
		if err != nil {
			return err
		}
		d.Priority = p
	}
	return nil
}
