package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/purrmodoro/internal/config"
	"github.com/xvierd/purrmodoro/internal/domain"
	"github.com/xvierd/purrmodoro/internal/mascot"
	"github.com/xvierd/purrmodoro/internal/ports"
	"github.com/xvierd/purrmodoro/internal/ring"
)

// Controller is the countdown the TUI drives. *services.TimerController
// implements it.
type Controller interface {
	Snapshot() domain.TimerState
	Settings() domain.Settings
	TotalTime() int
	Subscribe(buffer int) <-chan domain.Event
	Toggle()
	Reset()
	SwitchMode(mode domain.Mode) error
	SaveSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error)
	ResetSettingsToDefaults() domain.Settings
	NotificationPromptVisible() bool
	EnableNotifications(ctx context.Context) error
	DismissNotificationPrompt(ctx context.Context, dontShowAgain bool) error
	Close()
}

// StatsFunc loads today's completion totals.
type StatsFunc func(ctx context.Context) (*domain.DailyStats, error)

// Options configures a Model.
type Options struct {
	Controller Controller
	// Wisdom is optional; without it the fallback quote is shown.
	Wisdom ports.WisdomProvider
	// Stats is optional; without it the daily line is hidden.
	Stats StatsFunc
	Theme *config.ThemeConfig
	// Rand drives mascot selection; nil uses the global source.
	Rand mascot.Rand
}

// eventBuffer is the subscription buffer. A full second of backlog is more
// than the UI ever lags.
const eventBuffer = 16

// minRingHeight is the terminal height needed to draw the progress ring.
const minRingHeight = 36

// ringRadius is the ring radius in rows.
const ringRadius = 6

// eventMsg carries a controller event into the update loop.
type eventMsg struct {
	event domain.Event
}

// eventsClosedMsg reports that the controller closed its subscription.
type eventsClosedMsg struct{}

// wisdomMsg delivers a quote fetched for mode.
type wisdomMsg struct {
	mode  domain.Mode
	quote domain.Quote
}

// statsMsg delivers today's totals.
type statsMsg struct {
	stats *domain.DailyStats
}

// Model represents the TUI state.
type Model struct {
	ctx      context.Context
	ctrl     Controller
	wisdom   ports.WisdomProvider
	stats    StatsFunc
	events   <-chan domain.Event
	selector *mascot.Selector
	theme    config.ThemeConfig
	styles   styles
	keys     keyMap
	help     help.Model

	state    domain.TimerState
	settings domain.Settings
	total    int
	asset    mascot.Asset

	quote        domain.Quote
	quoteLoading bool
	today        *domain.DailyStats
	flash        string
	lastErr      error

	editing bool
	editor  settingsEditor
	prompt  bool

	width  int
	height int
}

// NewModel creates a new TUI model bound to ctrl.
func NewModel(ctx context.Context, opts Options) Model {
	theme := resolveTheme(opts.Theme)
	m := Model{
		ctx:      ctx,
		ctrl:     opts.Controller,
		wisdom:   opts.Wisdom,
		stats:    opts.Stats,
		events:   opts.Controller.Subscribe(eventBuffer),
		selector: mascot.NewSelector(opts.Rand),
		theme:    theme,
		styles:   newStyles(theme),
		keys:     defaultKeyMap(),
		help:     help.New(),
		quote:    domain.FallbackQuote(),
		prompt:   opts.Controller.NotificationPromptVisible(),
	}
	m.sync()
	m.quoteLoading = m.wisdom != nil
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.events),
		fetchWisdomCmd(m.ctx, m.wisdom, m.state.Mode),
		fetchStatsCmd(m.ctx, m.stats),
	)
}

func waitForEvent(events <-chan domain.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

func fetchWisdomCmd(ctx context.Context, wisdom ports.WisdomProvider, mode domain.Mode) tea.Cmd {
	if wisdom == nil {
		return nil
	}
	return func() tea.Msg {
		return wisdomMsg{mode: mode, quote: wisdom.FetchWisdom(ctx, mode)}
	}
}

func fetchStatsCmd(ctx context.Context, stats StatsFunc) tea.Cmd {
	if stats == nil {
		return nil
	}
	return func() tea.Msg {
		s, err := stats(ctx)
		if err != nil {
			return statsMsg{}
		}
		return statsMsg{stats: s}
	}
}

// sync copies the controller state into the model and reports whether the
// mode changed.
func (m *Model) sync() bool {
	return m.apply(m.ctrl.Snapshot(), m.ctrl.Settings())
}

func (m *Model) apply(state domain.TimerState, settings domain.Settings) bool {
	changed := state.Mode != m.state.Mode
	m.state = state
	m.settings = settings
	m.total = settings.DurationFor(state.Mode)
	m.asset = m.selector.Current(state.Mode, state.TimeLeft, m.total)
	return changed
}

// completionFlash returns the banner for a completion event, or "" when the
// timer has moved on since the countdown finished.
func completionFlash(ev domain.Event, now domain.TimerState) string {
	if now.Mode != ev.State.Mode || !now.Finished() {
		return ""
	}
	return ev.State.Mode.CompletionMessage()
}

// afterSync returns the follow-up work for a mode change.
func (m *Model) afterSync(modeChanged bool) tea.Cmd {
	if !modeChanged {
		return nil
	}
	m.flash = ""
	m.quoteLoading = m.wisdom != nil
	return fetchWisdomCmd(m.ctx, m.wisdom, m.state.Mode)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		changed := m.sync()
		cmds := []tea.Cmd{waitForEvent(m.events), m.afterSync(changed)}
		if msg.event.Type == domain.EventCompleted {
			if flash := completionFlash(msg.event, m.state); flash != "" {
				m.flash = flash
			}
			cmds = append(cmds, fetchStatsCmd(m.ctx, m.stats))
		}
		return m, tea.Batch(cmds...)

	case eventsClosedMsg:
		return m, tea.Quit

	case wisdomMsg:
		// Only the quote for the mode on screen is kept.
		if msg.mode == m.state.Mode {
			m.quote = msg.quote
			m.quoteLoading = false
		}
		return m, nil

	case statsMsg:
		m.today = msg.stats
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditor(msg)
		}
		return m.handleKey(msg)
	}

	if m.editing {
		return m.updateEditor(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys.withPrompt(m.prompt)

	switch {
	case key.Matches(msg, keys.Quit):
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

	case key.Matches(msg, keys.Edit):
		m.editing = true
		m.editor = newSettingsEditor(m.ctrl.Settings())
		return m, m.editor.inputs[0].Cursor.BlinkCmd()

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	default:
		return m, nil
	}

	changed := m.sync()
	return m, m.afterSync(changed)
}

func (m Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	editor, action, cmd := m.editor.update(msg)
	m.editor = editor

	switch action {
	case editorCancel:
		m.editing = false
		return m, nil

	case editorDefaults:
		m.editor.fill(m.ctrl.ResetSettingsToDefaults())
		return m, nil

	case editorSave:
		settings, err := m.editor.settings()
		if err != nil {
			m.editor.err = err
			return m, nil
		}
		// A persistence failure still applies the new durations.
		_, m.lastErr = m.ctrl.SaveSettings(m.ctx, settings)
		m.editing = false
		m.sync()
		return m, nil
	}
	return m, cmd
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	if m.editing {
		content = m.editor.view(m.styles)
	} else {
		content = m.viewTimer()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTimer() string {
	color := modeColor(m.theme, m.state, m.total)
	var sections []string

	sections = append(sections, m.styles.title.Render("PurrModoro"), "")
	sections = append(sections, m.viewTabs(), "")

	sections = append(sections, lipgloss.NewStyle().Foreground(color).Render(mascot.Art(m.asset)))
	sections = append(sections, m.styles.help.Render(mascot.Caption(m.asset)), "")

	clock := domain.FormatClock(m.state.TimeLeft)
	if m.height >= minRingHeight {
		fraction := ring.Fraction(m.state.TimeLeft, m.total)
		sections = append(sections, lipgloss.NewStyle().Foreground(color).Render(ring.Render(fraction, ringRadius, clock)), "")
	}
	sections = append(sections, renderBigTime(clock, color, m.width))
	sections = append(sections, m.styles.paused.Render(m.statusLabel()), "")

	if m.flash != "" {
		sections = append(sections, lipgloss.NewStyle().Bold(true).Foreground(color).Render(m.flash), "")
	}

	sections = append(sections, m.viewQuote())

	if line := m.viewToday(); line != "" {
		sections = append(sections, "", m.styles.help.Render(line))
	}

	if m.prompt {
		sections = append(sections, "", m.styles.alert.Render(
			"Enable notifications so the cat can tell you when time is up?\n"+
				"[y] enable  [l] later  [n] don't ask again"))
	}

	if m.lastErr != nil {
		sections = append(sections, "", m.styles.paused.Render("Error: "+m.lastErr.Error()))
	}

	sections = append(sections, "", m.help.View(m.keys.withPrompt(m.prompt)))
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(domain.Modes))
	for _, mode := range domain.Modes {
		if mode == m.state.Mode {
			tabs = append(tabs, m.styles.activeTab(lipgloss.Color(m.theme.ColorFor(mode))).Render(mode.Label()))
			continue
		}
		tabs = append(tabs, m.styles.tab.Render(mode.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) statusLabel() string {
	switch {
	case m.state.IsActive:
		return domain.GetTimerStatusLabel(m.state.Status())
	case m.state.Finished():
		return "Done"
	case m.state.TimeLeft < m.total:
		return domain.GetTimerStatusLabel(m.state.Status())
	default:
		return "Ready"
	}
}

func (m Model) viewQuote() string {
	if m.quoteLoading {
		return m.styles.help.Render("The cat is thinking...")
	}
	text := fmt.Sprintf("“%s”", m.quote.Text)
	return lipgloss.JoinVertical(lipgloss.Center,
		m.styles.quote.Render(text),
		m.styles.help.Render("mood: "+string(m.quote.Mood)),
	)
}

// viewToday summarises today's completions in one line.
func (m Model) viewToday() string {
	if m.today == nil {
		return ""
	}
	sessions := m.today.WorkSessions
	label := "focus sessions"
	if sessions == 1 {
		label = "focus session"
	}
	parts := []string{fmt.Sprintf("🐾 %d %s today", sessions, label)}
	if m.today.BreaksTaken > 0 {
		parts = append(parts, fmt.Sprintf("%d breaks", m.today.BreaksTaken))
	}
	if m.today.FocusedSeconds > 0 {
		parts = append(parts, m.today.TotalFocused().String()+" focused")
	}
	return strings.Join(parts, " · ")
}
