package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xvierd/purrmodoro/internal/domain"
	"github.com/xvierd/purrmodoro/internal/ports"
)

// CompletionClip is the sound played when a countdown reaches zero.
const CompletionClip = "short"

// TimerControllerDeps holds the collaborators of a TimerController.
// Sound, Notifier and History are optional.
type TimerControllerDeps struct {
	Clock            ports.Clock
	Preferences      *PreferenceService
	Sound            ports.SoundPlayer
	Notifier         ports.Notifier
	NotificationIcon string
	History          *HistoryService
	Logger           *slog.Logger
}

// TimerController owns the countdown state machine: the current mode, the
// remaining seconds, whether the countdown runs and the configured
// durations. All methods are safe for concurrent use.
type TimerController struct {
	deps   TimerControllerDeps
	logger *slog.Logger

	mu       sync.Mutex
	settings domain.Settings
	state    domain.TimerState
	cancel   func()
	// generation is bumped whenever the tick source is replaced or stopped so
	// that a tick already in flight on the clock goroutine is ignored.
	generation uint64
	subs       []chan domain.Event
	seq        uint64
	closed     bool

	permission    domain.NotificationPermission
	promptHidden  bool
	promptDismiss bool
}

// NewTimerController loads persisted preferences and returns an idle
// controller in mode.
func NewTimerController(ctx context.Context, deps TimerControllerDeps, mode domain.Mode) (*TimerController, error) {
	if deps.Clock == nil {
		return nil, fmt.Errorf("timer controller requires a clock")
	}
	if deps.Preferences == nil {
		return nil, fmt.Errorf("timer controller requires a preference service")
	}
	if _, err := domain.ValidateMode(string(mode)); err != nil {
		return nil, err
	}

	settings := deps.Preferences.LoadSettings(ctx)
	return &TimerController{
		deps:          deps,
		logger:        loggerOrDiscard(deps.Logger),
		settings:      settings,
		state:         domain.NewTimerState(mode, settings),
		permission:    deps.Preferences.Permission(ctx),
		promptDismiss: deps.Preferences.PromptDismissed(ctx),
	}, nil
}

// Snapshot returns the current timer state.
func (c *TimerController) Snapshot() domain.TimerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Settings returns the current durations.
func (c *TimerController) Settings() domain.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// TotalTime returns the configured duration of the current mode.
func (c *TimerController) TotalTime() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.DurationFor(c.state.Mode)
}

// Subscribe returns a channel receiving every event. Sends never block: a
// subscriber that falls more than buffer events behind misses events.
// The channel is closed by Close.
func (c *TimerController) Subscribe(buffer int) <-chan domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan domain.Event, buffer)
	if c.closed {
		close(ch)
		return ch
	}
	c.subs = append(c.subs, ch)
	return ch
}

// Start begins counting down. Starting a finished countdown is a no-op.
func (c *TimerController) Start() {
	c.mu.Lock()
	if c.closed || c.state.IsActive || c.state.TimeLeft == 0 {
		c.mu.Unlock()
		return
	}
	c.state.IsActive = true
	c.generation++
	gen := c.generation
	c.cancel = c.deps.Clock.Every(time.Second, func() { c.tick(gen) })
	c.emitLocked(domain.EventStateChange)
	c.mu.Unlock()
}

// Pause stops counting down, keeping the remaining time.
func (c *TimerController) Pause() {
	c.mu.Lock()
	if !c.state.IsActive {
		c.mu.Unlock()
		return
	}
	c.state.IsActive = false
	stop := c.stopLocked()
	c.emitLocked(domain.EventStateChange)
	c.mu.Unlock()

	stop()
}

// Toggle starts an idle countdown or pauses a running one.
func (c *TimerController) Toggle() {
	if c.Snapshot().IsActive {
		c.Pause()
		return
	}
	c.Start()
}

// Reset stops the countdown and restores the full duration of the current mode.
func (c *TimerController) Reset() {
	c.mu.Lock()
	c.state.IsActive = false
	c.state.TimeLeft = c.settings.DurationFor(c.state.Mode)
	stop := c.stopLocked()
	c.emitLocked(domain.EventStateChange)
	c.mu.Unlock()

	stop()
}

// SwitchMode stops the countdown and seeds it with the duration of mode.
func (c *TimerController) SwitchMode(mode domain.Mode) error {
	if _, err := domain.ValidateMode(string(mode)); err != nil {
		return err
	}

	c.mu.Lock()
	c.state.Mode = mode
	c.state.IsActive = false
	c.state.TimeLeft = c.settings.DurationFor(mode)
	stop := c.stopLocked()
	c.emitLocked(domain.EventModeChange)
	c.mu.Unlock()

	stop()
	return nil
}

// SaveSettings clamps and persists settings. An idle countdown is re-seeded
// with the new duration of its mode; a running one is left untouched. The
// new settings take effect even when persisting fails.
func (c *TimerController) SaveSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	clamped, err := c.deps.Preferences.SaveSettings(ctx, settings)
	if err != nil {
		c.logger.ErrorContext(ctx, "save settings failed", "error", err)
	}

	c.mu.Lock()
	c.settings = clamped
	if !c.state.IsActive {
		c.state.TimeLeft = clamped.DurationFor(c.state.Mode)
	}
	c.emitLocked(domain.EventSettingsSaved)
	c.mu.Unlock()

	return clamped, err
}

// ResetSettingsToDefaults returns the default durations without persisting
// them. Callers save them explicitly.
func (c *TimerController) ResetSettingsToDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// NotificationPromptVisible reports whether the user should be asked to
// enable notifications.
func (c *TimerController) NotificationPromptVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.permission == domain.PermissionDefault && !c.promptHidden && !c.promptDismiss
}

// NotificationPermission returns the current permission.
func (c *TimerController) NotificationPermission() domain.NotificationPermission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.permission
}

// EnableNotifications grants notification permission and hides the prompt.
func (c *TimerController) EnableNotifications(ctx context.Context) error {
	return c.SetNotificationPermission(ctx, domain.PermissionGranted)
}

// SetNotificationPermission records p for this session and persists it.
func (c *TimerController) SetNotificationPermission(ctx context.Context, p domain.NotificationPermission) error {
	if _, err := domain.ParseNotificationPermission(string(p)); err != nil {
		return err
	}
	c.mu.Lock()
	c.permission = p
	c.promptHidden = true
	c.mu.Unlock()

	return c.deps.Preferences.SetPermission(ctx, p)
}

// DismissNotificationPrompt hides the prompt for this session, and for good
// when dontShowAgain is set.
func (c *TimerController) DismissNotificationPrompt(ctx context.Context, dontShowAgain bool) error {
	c.mu.Lock()
	c.promptHidden = true
	if dontShowAgain {
		c.promptDismiss = true
	}
	c.mu.Unlock()

	if !dontShowAgain {
		return nil
	}
	return c.deps.Preferences.DismissPrompt(ctx)
}

// Close stops the tick source and closes all subscriber channels. It is
// safe to call more than once.
func (c *TimerController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.state.IsActive = false
	stop := c.stopLocked()
	subs := c.subs
	c.subs = nil
	for _, ch := range subs {
		close(ch)
	}
	c.mu.Unlock()

	stop()
}

func (c *TimerController) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || !c.state.IsActive || c.state.TimeLeft <= 0 {
		c.mu.Unlock()
		return
	}
	c.state.TimeLeft--
	c.emitLocked(domain.EventTick)

	finished := c.state.TimeLeft == 0
	stop := func() {}
	var completed domain.Event
	var permission domain.NotificationPermission
	var total int
	if finished {
		c.state.IsActive = false
		stop = c.stopLocked()
		completed = c.eventLocked(domain.EventCompleted)
		permission = c.permission
		total = c.settings.DurationFor(c.state.Mode)
	}
	c.mu.Unlock()

	if !finished {
		return
	}
	stop()
	c.onComplete(completed, permission, total)
}

// onComplete records the finished countdown, publishes the completion and
// then plays the sound and shows the notification, which may block.
func (c *TimerController) onComplete(ev domain.Event, permission domain.NotificationPermission, total int) {
	ctx := context.Background()
	mode := ev.State.Mode

	if c.deps.History != nil {
		if _, err := c.deps.History.Record(ctx, mode, total); err != nil {
			c.logger.WarnContext(ctx, "record completion failed", "error", err)
		}
	}
	c.logger.InfoContext(ctx, "countdown_completed", "mode", string(mode), "duration_s", total)

	c.mu.Lock()
	c.sendLocked(ev)
	c.mu.Unlock()

	if c.deps.Sound != nil {
		if err := c.deps.Sound.Play(CompletionClip); err != nil {
			c.logger.WarnContext(ctx, "completion sound failed", "error", err)
		}
	}

	if c.deps.Notifier != nil && permission == domain.PermissionGranted {
		if err := c.deps.Notifier.Notify(domain.NotificationTitle, mode.CompletionMessage(), c.deps.NotificationIcon); err != nil {
			c.logger.WarnContext(ctx, "completion notification failed", "error", err)
		}
	}
}

// stopLocked invalidates the current tick source and returns its cancel
// func, which must be called after the lock is released.
func (c *TimerController) stopLocked() func() {
	c.generation++
	cancel := c.cancel
	c.cancel = nil
	if cancel == nil {
		return func() {}
	}
	return cancel
}

func (c *TimerController) eventLocked(t domain.EventType) domain.Event {
	return domain.Event{Type: t, State: c.state, Settings: c.settings}
}

func (c *TimerController) emitLocked(t domain.EventType) {
	c.sendLocked(c.eventLocked(t))
}

// sendLocked numbers ev and offers it to every subscriber. Sends never
// block, so holding the lock keeps delivery order equal to Seq order.
func (c *TimerController) sendLocked(ev domain.Event) {
	c.seq++
	ev.Seq = c.seq
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
