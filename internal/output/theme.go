package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/taskflow/internal/config"
)

// Theme is the resolved light or dark palette.
type Theme string

// Resolved themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ResolveTheme turns a configured theme into a concrete one. "auto" asks
// the terminal for its background color.
func ResolveTheme(setting string) Theme {
	switch setting {
	case config.ThemeLight:
		return ThemeLight
	case config.ThemeDark:
		return ThemeDark
	}
	if termenv.HasDarkBackground() {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Markdown renders a task description for the terminal. Rendering errors
// fall back to the raw text.
func Markdown(text string, width int, theme Theme) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if !colorEnabled {
		return text
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(theme)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
