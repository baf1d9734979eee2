package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/activity"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"log"},
	Short:   "Show recent activity",
	Long:    `Lists the most recent entries of the local activity log, newest last.`,
	Args:    cobra.NoArgs,
	RunE:    runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of entries to show (0 for all)") //nolint:mnd // default page size
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := activity.New(cfg.ActivityPath()).Recent(limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []activity.Entry{}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, entries)
	}
	output.ActivityTable(os.Stdout, entries, time.Local)
	return nil
}
