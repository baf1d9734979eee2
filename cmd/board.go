package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

var flagWatch bool

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"board"},
	Short:   "Show task counts",
	Long: `Displays task counts per stored and effective status, per priority,
and how many tasks have lapsed into Overdue since they were created.

Use --watch to keep the display live-updating. The summary re-renders whenever
your tasks change, including changes made from another terminal.
Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the summary on task changes")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	return withBoard(func(ctx context.Context, _ *app, b *board.Board) error {
		if !flagWatch {
			s, err := b.Summary(ctx)
			if err != nil {
				return err
			}
			return renderSummary(s)
		}
		return watchSummary(ctx, b)
	})
}

func renderSummary(s view.Summary) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, s)
	case output.FormatCompact:
		output.SummaryCompact(os.Stdout, s)
	default:
		output.SummaryTable(os.Stdout, s)
	}
	return nil
}

func watchSummary(ctx context.Context, b *board.Board) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sub, err := b.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribing to tasks: %w", err)
	}
	defer sub.Unsubscribe()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-sub.C():
			if !ok {
				return nil
			}
			if snap.Err != nil {
				fmt.Fprintf(os.Stderr, "Warning: task subscription: %v\n", snap.Err)
				continue
			}
			clearScreen()
			if err := renderSummary(view.Summarize(snap.Tasks, b.Now())); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: rendering summary: %v\n", err)
			}
		}
	}
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
