// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"reflect"

	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/purrmodoro/internal/config"
	"github.com/xvierd/purrmodoro/internal/domain"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// styles bundles the lipgloss styles derived from a theme.
type styles struct {
	title  lipgloss.Style
	tab    lipgloss.Style
	help   lipgloss.Style
	quote  lipgloss.Style
	paused lipgloss.Style
	alert  lipgloss.Style
}

func newStyles(theme config.ThemeConfig) styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorTitle)),
		tab:    lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(theme.ColorHelp)),
		help:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp)),
		quote:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(theme.ColorQuote)),
		paused: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorPaused)),
		alert: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.ColorQuote)).
			Padding(0, 1),
	}
}

// modeColor returns the accent colour for mode, greyed out while paused.
func modeColor(theme config.ThemeConfig, state domain.TimerState, total int) lipgloss.Color {
	if !state.IsActive && state.TimeLeft > 0 && state.TimeLeft < total {
		return lipgloss.Color(theme.ColorPaused)
	}
	return lipgloss.Color(theme.ColorFor(state.Mode))
}

// activeTab renders the selected mode tab.
func (s styles) activeTab(color lipgloss.Color) lipgloss.Style {
	return s.tab.Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(color)
}
