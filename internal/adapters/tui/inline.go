package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/xvierd/purrmodoro/internal/config"
	"github.com/xvierd/purrmodoro/internal/domain"
	"github.com/xvierd/purrmodoro/internal/mascot"
	"github.com/xvierd/purrmodoro/internal/ports"
	"github.com/xvierd/purrmodoro/internal/ring"
)

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}

// InlineModel is a compact timer drawn in a few lines below the prompt
// instead of taking over the screen.
type InlineModel struct {
	ctx      context.Context
	ctrl     Controller
	wisdom   ports.WisdomProvider
	events   <-chan domain.Event
	selector *mascot.Selector
	theme    config.ThemeConfig
	styles   styles
	keys     keyMap
	progress progress.Model

	state domain.TimerState
	total int
	asset mascot.Asset
	quote domain.Quote
	flash string
	width int
	done  bool

	prompt  bool
	lastErr error
}

// NewInlineModel creates an inline model bound to the controller in opts.
func NewInlineModel(ctx context.Context, opts Options) InlineModel {
	theme := resolveTheme(opts.Theme)
	w := getTerminalWidth()
	bar := progress.New(progress.WithSolidFill(theme.ColorWork), progress.WithoutPercentage())
	bar.Width = w - 24

	m := InlineModel{
		ctx:      ctx,
		ctrl:     opts.Controller,
		wisdom:   opts.Wisdom,
		events:   opts.Controller.Subscribe(eventBuffer),
		selector: mascot.NewSelector(opts.Rand),
		theme:    theme,
		styles:   newStyles(theme),
		keys:     defaultKeyMap(),
		progress: bar,
		quote:    domain.FallbackQuote(),
		width:    w,
		prompt:   opts.Controller.NotificationPromptVisible(),
	}
	m.sync()
	return m
}

// Init starts listening for controller events and fetches the first quote.
func (m InlineModel) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.events),
		fetchWisdomCmd(m.ctx, m.wisdom, m.state.Mode),
	)
}

func (m *InlineModel) sync() bool {
	return m.apply(m.ctrl.Snapshot(), m.ctrl.Settings())
}

func (m *InlineModel) apply(state domain.TimerState, settings domain.Settings) bool {
	changed := state.Mode != m.state.Mode
	m.state = state
	m.total = settings.DurationFor(state.Mode)
	m.asset = m.selector.Current(state.Mode, state.TimeLeft, m.total)
	if changed {
		m.flash = ""
	}
	return changed
}

func (m InlineModel) refetch(changed bool) tea.Cmd {
	if !changed {
		return nil
	}
	return fetchWisdomCmd(m.ctx, m.wisdom, m.state.Mode)
}

// Update handles messages and updates the model.
func (m InlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 24
		return m, nil

	case eventMsg:
		changed := m.sync()
		if msg.event.Type == domain.EventCompleted {
			if flash := completionFlash(msg.event, m.state); flash != "" {
				m.flash = flash
			}
		}
		return m, tea.Batch(waitForEvent(m.events), m.refetch(changed))

	case eventsClosedMsg:
		m.done = true
		return m, tea.Quit

	case wisdomMsg:
		if msg.mode == m.state.Mode {
			m.quote = msg.quote
		}
		return m, nil

	case tea.KeyMsg:
		keys := m.keys.withPrompt(m.prompt)
		switch {
		case key.Matches(msg, keys.Quit):
			m.done = true
			m.ctrl.Close()
			return m, tea.Quit
		case key.Matches(msg, keys.Enable):
			m.lastErr = m.ctrl.EnableNotifications(m.ctx)
			m.prompt = m.ctrl.NotificationPromptVisible()
			return m, nil
		case key.Matches(msg, keys.Later):
			m.lastErr = m.ctrl.DismissNotificationPrompt(m.ctx, false)
			m.prompt = m.ctrl.NotificationPromptVisible()
			return m, nil
		case key.Matches(msg, keys.NeverAsk):
			m.lastErr = m.ctrl.DismissNotificationPrompt(m.ctx, true)
			m.prompt = m.ctrl.NotificationPromptVisible()
			return m, nil
		case key.Matches(msg, keys.Toggle):
			m.flash = ""
			m.ctrl.Toggle()
		case key.Matches(msg, keys.Reset):
			m.flash = ""
			m.ctrl.Reset()
		case key.Matches(msg, keys.Work):
			m.lastErr = m.ctrl.SwitchMode(domain.ModeWork)
		case key.Matches(msg, keys.Short):
			m.lastErr = m.ctrl.SwitchMode(domain.ModeShortBreak)
		case key.Matches(msg, keys.Long):
			m.lastErr = m.ctrl.SwitchMode(domain.ModeLongBreak)
		case key.Matches(msg, keys.NextMode):
			m.lastErr = m.ctrl.SwitchMode(m.state.Mode.Next())
		default:
			return m, nil
		}
		changed := m.sync()
		return m, m.refetch(changed)
	}

	return m, nil
}

// View renders the compact timer.
func (m InlineModel) View() string {
	color := modeColor(m.theme, m.state, m.total)
	accent := lipgloss.NewStyle().Bold(true).Foreground(color)

	status := "running"
	if !m.state.IsActive {
		status = "paused"
	}
	if m.state.Finished() {
		status = "done"
	}

	// The bar fills up as the countdown runs down.
	elapsed := 1 - ring.Fraction(m.state.TimeLeft, m.total)
	bar := m.progress.ViewAs(elapsed)

	var b strings.Builder
	fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
		accent.Render(m.state.Mode.Label()),
		accent.Render(domain.FormatClock(m.state.TimeLeft)),
		bar,
		m.styles.paused.Render(status),
	)

	line := mascot.Caption(m.asset) + " · " + m.quote.Text
	if m.flash != "" {
		line = m.flash
	}
	b.WriteString("  " + m.styles.quote.Render(line) + "\n")

	if m.lastErr != nil {
		b.WriteString("  " + m.styles.paused.Render("error: "+m.lastErr.Error()) + "\n")
	}
	if m.prompt && !m.done {
		b.WriteString("  " + m.styles.alert.Render("notifications? [y] enable  [l] later  [n] don't ask again") + "\n")
	}

	if !m.done {
		b.WriteString("  " + m.styles.help.Render("space start/pause · r reset · tab mode · q quit") + "\n")
	}
	return b.String()
}
