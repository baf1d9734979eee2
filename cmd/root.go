// Package cmd implements the taskflow CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/activity"
	"github.com/twiced-technology-gmbh/taskflow/internal/auth"
	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/store"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "Personal task manager with deadlines and a calendar",
	Long: `taskflow keeps a per-account task list with deadlines, priorities and colors.
Run taskflow without arguments to open the interactive list.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the taskflow config directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		os.Exit(output.JSONError(os.Stdout, err))
	}

	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// loadConfig finds and loads the taskflow config. The per-user default
// directory is created on first use; an explicit --dir or TASKFLOW_DIR
// must be initialized with 'taskflow init'.
func loadConfig() (*config.Config, error) {
	dir, err := config.ResolveDir(flagDir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}

	defaultDir, defErr := config.DefaultDir()
	if defErr != nil || dir != defaultDir {
		return nil, clierr.New(clierr.ConfigNotFound, err.Error()).
			WithDetails(map[string]any{"dir": dir})
	}
	if _, err := config.Init(defaultDir); err != nil {
		return nil, err
	}
	return config.Load(defaultDir)
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// app holds everything a command needs once the config is loaded.
type app struct {
	cfg   *config.Config
	store store.Store
	log   *activity.Log
	auth  *auth.Service
	loc   *time.Location
}

// openApp loads the config and connects to the configured backend.
// Callers must Close the returned app.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s backend: %w", cfg.Backend.Driver, err)
	}
	log := activity.New(cfg.ActivityPath())
	return &app{
		cfg:   cfg,
		store: st,
		log:   log,
		auth: auth.NewService(st, auth.Options{
			Secret:      cfg.Session.Secret,
			TTL:         cfg.SessionTTL(),
			SessionPath: cfg.SessionPath(),
			Log:         log,
		}),
		loc: time.Local,
	}, nil
}

// Close releases the backend connection.
func (a *app) Close() {
	_ = a.store.Close()
}

// defaults returns the values applied to new tasks.
func (a *app) defaults() board.Defaults {
	return board.Defaults{
		Priority: task.Priority(a.cfg.Defaults.Priority),
		Color:    a.cfg.Defaults.Color,
	}
}

// board returns the task board of the logged-in user.
func (a *app) board(ctx context.Context) (*board.Board, *auth.Identity, error) {
	id, err := a.auth.Require(ctx)
	if err != nil {
		return nil, nil, err
	}
	return board.New(a.store, id.UserID, a.defaults(), a.log), id, nil
}

// withBoard opens the app, resolves the session and runs fn.
func withBoard(fn func(ctx context.Context, a *app, b *board.Board) error) error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	b, _, err := a.board(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, a, b)
}

// runBatch executes fn for each task reference and collects results.
// Returns a SilentError with exit code 1 if any operation failed (after
// outputting results).
func runBatch(refs []string, fn func(string) (*task.Task, error)) error {
	results := make([]output.BatchResult, 0, len(refs))
	anyFailed := false

	for _, ref := range refs {
		t, err := fn(ref)
		if err != nil {
			anyFailed = true
			results = append(results, output.FailedResult(ref, err))
			continue
		}
		results = append(results, output.BatchResult{Ref: ref, ID: t.ID, OK: true})
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task %s: %s\n", r.Ref, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(refs))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
