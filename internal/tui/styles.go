package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskflow/internal/output"
)

// palette holds the styles that differ between light and dark terminals.
type palette struct {
	header   lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	err      lipgloss.Style
	notice   lipgloss.Style
	dialog   lipgloss.Style
	label    lipgloss.Style
}

func paletteFor(theme output.Theme) palette {
	if theme == output.ThemeLight {
		return palette{
			header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("236")).Background(lipgloss.Color("253")).Padding(0, 1),
			selected: lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("254")),
			dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			err:      lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
			notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
			dialog:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 2),
			label:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(labelWidth),
		}
	}
	return palette{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1),
		selected: lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("237")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		dialog:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 2),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(labelWidth),
	}
}

// truncate shortens s to at most n visible characters, adding "...".
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 { //nolint:mnd // room for the ellipsis
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
