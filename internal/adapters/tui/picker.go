package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/purrmodoro/internal/config"
	"github.com/xvierd/purrmodoro/internal/domain"
)

// PickerResult holds the outcome of a picker interaction.
type PickerResult struct {
	Mode    domain.Mode
	Aborted bool
}

type pickerModel struct {
	settings domain.Settings
	cursor   int
	chosen   bool
	aborted  bool
	theme    config.ThemeConfig
}

func newPickerModel(settings domain.Settings, initial domain.Mode, theme config.ThemeConfig) pickerModel {
	m := pickerModel{settings: settings, theme: theme}
	for i, mode := range domain.Modes {
		if mode == initial {
			m.cursor = i
		}
	}
	return m
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j", "tab":
			if m.cursor < len(domain.Modes)-1 {
				m.cursor++
			}
		case "1", "2", "3":
			m.cursor = int(msg.String()[0] - '1')
			m.chosen = true
			return m, tea.Quit
		case "enter":
			m.chosen = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Which timer?") + "\n\n")

	for i, mode := range domain.Modes {
		line := fmt.Sprintf("%d %-12s %s", i+1, mode.Label(), domain.FormatClock(m.settings.DurationFor(mode)))
		if i == m.cursor {
			accent := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorFor(mode)))
			b.WriteString("  " + accent.Render("▸ "+line) + "\n")
			continue
		}
		b.WriteString(dimStyle.Render("    "+line) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑/↓ navigate · enter select · esc cancel") + "\n")
	return b.String()
}

func (m pickerModel) result() PickerResult {
	if m.aborted || !m.chosen {
		return PickerResult{Aborted: true}
	}
	return PickerResult{Mode: domain.Modes[m.cursor]}
}

// RunModePicker asks the user which mode to start in, showing the
// configured duration of each.
func RunModePicker(settings domain.Settings, initial domain.Mode, theme *config.ThemeConfig) (PickerResult, error) {
	p := tea.NewProgram(newPickerModel(settings, initial, resolveTheme(theme)))
	final, err := p.Run()
	if err != nil {
		return PickerResult{Aborted: true}, fmt.Errorf("failed to run picker: %w", err)
	}
	return final.(pickerModel).result(), nil
}
