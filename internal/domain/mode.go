package domain

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Mode is one of the three timer phases.
type Mode string

const (
	ModeWork       Mode = "WORK"
	ModeShortBreak Mode = "SHORT_BREAK"
	ModeLongBreak  Mode = "LONG_BREAK"
)

// Modes lists all modes in display order.
var Modes = []Mode{
	ModeWork,
	ModeShortBreak,
	ModeLongBreak,
}

// ValidateMode checks if a string is an exact mode identifier.
func ValidateMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range Modes {
		if m == valid {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w %q: must be one of WORK, SHORT_BREAK, LONG_BREAK", ErrInvalidMode, s)
}

// ResolveMode accepts loose user input ("short", "lb", "focus") and returns the
// best matching mode. Exact identifiers always win over fuzzy matches.
func ResolveMode(input string) (Mode, error) {
	if m, err := ValidateMode(input); err == nil {
		return m, nil
	}

	query := strings.ToLower(strings.TrimSpace(input))
	if query == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidMode)
	}

	// Each mode is searchable by its id and its label.
	var candidates []string
	var owners []Mode
	for _, m := range Modes {
		candidates = append(candidates, strings.ToLower(string(m)), strings.ToLower(m.Label()))
		owners = append(owners, m, m)
	}

	matches := fuzzy.Find(query, candidates)
	if len(matches) == 0 {
		return "", fmt.Errorf("%w %q", ErrInvalidMode, input)
	}
	return owners[matches[0].Index], nil
}

// Label returns a human-readable label.
func (m Mode) Label() string {
	switch m {
	case ModeWork:
		return "Focus Time"
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// IsBreak reports whether m is one of the break modes.
func (m Mode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

// Next returns the mode after m in display order, wrapping around.
func (m Mode) Next() Mode {
	for i, candidate := range Modes {
		if candidate == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeWork
}

// CompletionMessage is the notification body shown when an interval of mode m ends.
func (m Mode) CompletionMessage() string {
	if m == ModeWork {
		return "Time for a break!"
	}
	return "Time to focus!"
}
