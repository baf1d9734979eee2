package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists your tasks with optional filtering, sorting, and output format control.
Filters and sort default to the values in config.yml.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("status", "", "filter by stored status ("+joinValues(view.StatusFilters())+")")
	listCmd.Flags().String("priority", "", "filter by priority ("+joinValues(view.PriorityFilters())+")")
	listCmd.Flags().String("sort", "", "sort order ("+joinValues(view.SortOptions)+")")
	listCmd.Flags().String("overdue-filter", "", "status the filter compares: stored or effective")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	return withBoard(func(ctx context.Context, a *app, b *board.Board) error {
		opts, err := listOptions(cmd, a.cfg.ViewOptions())
		if err != nil {
			return err
		}

		rows, err := b.List(ctx, opts)
		if err != nil {
			return err
		}
		if limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}

		switch outputFormat() {
		case output.FormatJSON:
			return output.JSON(os.Stdout, rows)
		case output.FormatCompact:
			output.TaskCompact(os.Stdout, rows, a.loc)
		default:
			output.TaskTable(os.Stdout, rows, a.loc)
		}
		return nil
	})
}

// listOptions overlays the list flags on the configured defaults.
func listOptions(cmd *cobra.Command, opts view.Options) (view.Options, error) {
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		s, err := view.ParseStatusFilter(v)
		if err != nil {
			return opts, err
		}
		opts.Status = s
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		p, err := view.ParsePriorityFilter(v)
		if err != nil {
			return opts, err
		}
		opts.Priority = p
	}
	if v, _ := cmd.Flags().GetString("sort"); v != "" {
		o, err := view.ParseSortOption(v)
		if err != nil {
			return opts, err
		}
		opts.Sort = o
	}
	if v, _ := cmd.Flags().GetString("overdue-filter"); v != "" {
		p, err := view.ParseOverduePolicy(v)
		if err != nil {
			return opts, err
		}
		opts.Policy = p
	}
	return opts, nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
