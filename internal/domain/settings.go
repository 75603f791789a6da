package domain

import (
	"fmt"
	"time"
)

// MinDurationSeconds is the smallest duration any mode may be configured with.
const MinDurationSeconds = 1

// Settings holds the configured length of each mode, in whole seconds.
// The JSON shape is the persisted format.
type Settings struct {
	WorkDuration       int `json:"workDuration"`
	ShortBreakDuration int `json:"shortBreakDuration"`
	LongBreakDuration  int `json:"longBreakDuration"`
}

// DefaultSettings returns the standard pomodoro durations (25m / 5m / 15m).
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:       25 * 60,
		ShortBreakDuration: 5 * 60,
		LongBreakDuration:  15 * 60,
	}
}

// Clamp returns a copy of s with every duration raised to at least one second.
func (s Settings) Clamp() Settings {
	return Settings{
		WorkDuration:       max(s.WorkDuration, MinDurationSeconds),
		ShortBreakDuration: max(s.ShortBreakDuration, MinDurationSeconds),
		LongBreakDuration:  max(s.LongBreakDuration, MinDurationSeconds),
	}
}

// DurationFor returns the configured seconds for mode m.
func (s Settings) DurationFor(m Mode) int {
	switch m {
	case ModeShortBreak:
		return s.ShortBreakDuration
	case ModeLongBreak:
		return s.LongBreakDuration
	default:
		return s.WorkDuration
	}
}

// With returns a copy of s with mode m set to seconds (unclamped).
func (s Settings) With(m Mode, seconds int) Settings {
	switch m {
	case ModeShortBreak:
		s.ShortBreakDuration = seconds
	case ModeLongBreak:
		s.LongBreakDuration = seconds
	default:
		s.WorkDuration = seconds
	}
	return s
}

// SecondsFromDuration converts d to whole seconds, rejecting negative values.
func SecondsFromDuration(d time.Duration) (int, error) {
	if d < 0 {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidDuration, d)
	}
	return int(d / time.Second), nil
}

// SecondsFromMinSec combines a minutes/seconds pair as entered in the settings
// editor. Seconds are limited to 0..59 and minutes to non-negative values.
func SecondsFromMinSec(minutes, seconds int) (int, error) {
	if minutes < 0 {
		return 0, fmt.Errorf("%w: minutes must not be negative", ErrInvalidDuration)
	}
	if seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("%w: seconds must be between 0 and 59", ErrInvalidDuration)
	}
	return minutes*60 + seconds, nil
}

// SplitMinSec is the inverse of SecondsFromMinSec.
func SplitMinSec(total int) (minutes, seconds int) {
	if total < 0 {
		total = 0
	}
	return total / 60, total % 60
}

// FormatClock formats seconds as MM:SS. Minutes are not capped at 59.
func FormatClock(seconds int) string {
	m, s := SplitMinSec(seconds)
	return fmt.Sprintf("%02d:%02d", m, s)
}
