package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a taskflow config directory",
	Long: `Creates the config directory with config.yml and a fresh session secret.
Defaults to ~/.config/taskflow; use --dir to pick another location.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("backend", config.DriverSQLite, "storage backend (sqlite, firestore)")
	initCmd.Flags().String("project", "", "Firestore project ID (firestore backend)")
	initCmd.Flags().String("credentials", "", "service account credentials file (firestore backend)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := config.ResolveDir(flagDir)
	if err != nil {
		return err
	}

	cfg, err := config.Init(dir)
	if err != nil {
		return err
	}

	backend, _ := cmd.Flags().GetString("backend")
	if backend != config.DriverSQLite {
		cfg.Backend.Driver = backend
		cfg.Backend.Firestore.ProjectID, _ = cmd.Flags().GetString("project")
		cfg.Backend.Firestore.CredentialsFile, _ = cmd.Flags().GetString("credentials")
		if err := cfg.Validate(); err != nil {
			_ = os.Remove(cfg.ConfigPath())
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"dir":     cfg.Dir(),
			"config":  cfg.ConfigPath(),
			"backend": cfg.Backend.Driver,
		})
	}

	output.Messagef(os.Stdout, "Initialized taskflow in %s", cfg.Dir())
	output.Messagef(os.Stdout, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Backend: %s", cfg.Backend.Driver)
	output.Messagef(os.Stdout, "  Next:    taskflow register")
	return nil
}
