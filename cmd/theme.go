package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
)

var themeCmd = &cobra.Command{
	Use:   "theme [auto|light|dark]",
	Short: "Toggle or set the color theme",
	Long: `Without an argument, switches between the light and dark theme.
"auto" follows the terminal background. The choice is saved to config.yml.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: config.Themes,
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		cfg.Theme = args[0]
	} else {
		cfg.Theme = string(output.ResolveTheme(cfg.Theme).Toggle())
	}
	if err := saveTheme(cfg); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"theme": cfg.Theme})
	}
	output.Messagef(os.Stdout, "Theme set to %s", cfg.Theme)
	return nil
}

func saveTheme(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("setting theme: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
