package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/tui"
)

func runTUI(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	b, _, err := a.board(ctx)
	if err != nil {
		return err
	}

	model := tui.New(ctx, b, tui.Options{
		View:    a.cfg.ViewOptions(),
		Theme:   output.ResolveTheme(a.cfg.Theme),
		Refresh: a.cfg.RefreshInterval(),
		Loc:     a.loc,
		OnTheme: func(t output.Theme) error {
			a.cfg.Theme = string(t)
			return saveTheme(a.cfg)
		},
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
