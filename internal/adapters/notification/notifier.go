// Package notification provides desktop notifications and the completion
// sound through beeep.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/xvierd/purrmodoro/internal/config"
	"github.com/xvierd/purrmodoro/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg    *config.NotificationConfig
	notify func(title, message string, icon any) error
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// AppName identifies PurrModoro to the desktop notification service.
const AppName = "PurrModoro"

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	beeep.AppName = AppName
	return &Notifier{cfg: cfg, notify: beeep.Notify}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, body, icon string) error {
	if !n.IsEnabled() {
		return nil
	}
	if err := n.notify(title, body, icon); err != nil {
		return fmt.Errorf("desktop notification failed: %w", err)
	}
	return nil
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

// SoundPlayer rings the terminal/system bell when an interval completes.
type SoundPlayer struct {
	cfg  *config.NotificationConfig
	beep func(freq float64, duration int) error
}

// Ensure SoundPlayer implements ports.SoundPlayer.
var _ ports.SoundPlayer = (*SoundPlayer)(nil)

// NewSoundPlayer creates a sound player with the given configuration.
func NewSoundPlayer(cfg *config.NotificationConfig) *SoundPlayer {
	return &SoundPlayer{cfg: cfg, beep: beeep.Beep}
}

// Play beeps once for any clip; the short completion ring is the only clip.
func (p *SoundPlayer) Play(clip string) error {
	if p.cfg == nil || !p.cfg.Sound {
		return nil
	}
	if err := p.beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
		return fmt.Errorf("play %q: %w", clip, err)
	}
	return nil
}
