package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/purrmodoro/internal/domain"
)

// editorAction is what the settings editor asks its parent to do.
type editorAction int

const (
	editorNone editorAction = iota
	editorSave
	editorCancel
	editorDefaults
)

// settingsEditor edits the three durations as minutes/seconds pairs. Inputs
// are ordered mode by mode: work minutes, work seconds, short minutes, ...
type settingsEditor struct {
	inputs []textinput.Model
	focus  int
	err    error
}

func numericOnly(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("digits only")
		}
	}
	return nil
}

func newSettingsEditor(settings domain.Settings) settingsEditor {
	e := settingsEditor{inputs: make([]textinput.Model, 0, len(domain.Modes)*2)}
	for range domain.Modes {
		for _, placeholder := range []string{"min", "sec"} {
			ti := textinput.New()
			ti.Prompt = ""
			ti.Placeholder = placeholder
			ti.CharLimit = 4
			ti.Width = 4
			ti.Validate = numericOnly
			e.inputs = append(e.inputs, ti)
		}
	}
	e.fill(settings)
	e.inputs[0].Focus()
	return e
}

// fill replaces every input with the values of settings.
func (e *settingsEditor) fill(settings domain.Settings) {
	for i, m := range domain.Modes {
		minutes, seconds := domain.SplitMinSec(settings.DurationFor(m))
		e.inputs[i*2].SetValue(strconv.Itoa(minutes))
		e.inputs[i*2+1].SetValue(strconv.Itoa(seconds))
	}
	e.err = nil
}

// settings parses the inputs. Empty fields count as zero; the controller
// raises totals below one second.
func (e settingsEditor) settings() (domain.Settings, error) {
	var s domain.Settings
	for i, m := range domain.Modes {
		minutes, err := atoiOrZero(e.inputs[i*2].Value())
		if err != nil {
			return domain.Settings{}, fmt.Errorf("%s minutes: %w", m.Label(), err)
		}
		seconds, err := atoiOrZero(e.inputs[i*2+1].Value())
		if err != nil {
			return domain.Settings{}, fmt.Errorf("%s seconds: %w", m.Label(), err)
		}
		total, err := domain.SecondsFromMinSec(minutes, seconds)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("%s: %w", m.Label(), err)
		}
		s = s.With(m, total)
	}
	return s, nil
}

func atoiOrZero(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (e *settingsEditor) move(delta int) tea.Cmd {
	e.inputs[e.focus].Blur()
	e.focus = (e.focus + delta + len(e.inputs)) % len(e.inputs)
	return e.inputs[e.focus].Focus()
}

// update handles a message and reports what the parent should do.
func (e settingsEditor) update(msg tea.Msg) (settingsEditor, editorAction, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return e, editorCancel, nil
		case "enter":
			return e, editorSave, nil
		case "ctrl+d":
			return e, editorDefaults, nil
		case "tab", "down", "right":
			cmd := e.move(1)
			return e, editorNone, cmd
		case "shift+tab", "up", "left":
			cmd := e.move(-1)
			return e, editorNone, cmd
		}
	}

	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return e, editorNone, cmd
}

func (e settingsEditor) view(st styles) string {
	rows := []string{st.title.Render("Timer Settings"), ""}
	for i, m := range domain.Modes {
		label := lipgloss.NewStyle().Width(12).Render(m.Label())
		rows = append(rows, fmt.Sprintf("%s %s m %s s", label, e.inputs[i*2].View(), e.inputs[i*2+1].View()))
	}
	if e.err != nil {
		rows = append(rows, "", st.paused.Render(e.err.Error()))
	}
	rows = append(rows, "", st.help.Render("enter save · esc cancel · ctrl+d defaults · tab next field"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
