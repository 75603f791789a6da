package domain

import (
	"fmt"
	"strings"
)

// Mood is the cat's attitude attached to a quote.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSleepy  Mood = "sleepy"
	MoodFocused Mood = "focused"
	MoodPlayful Mood = "playful"
)

// Moods lists every valid mood.
var Moods = []Mood{MoodHappy, MoodSleepy, MoodFocused, MoodPlayful}

// FallbackQuoteText is shown whenever the quote source cannot deliver.
const FallbackQuoteText = "Purr... connection lost. Just keep going!"

// Quote is a short line of cat wisdom.
type Quote struct {
	Text string `json:"text" yaml:"text"`
	Mood Mood   `json:"mood" yaml:"mood"`
}

// FallbackQuote returns the fixed quote used on any quote failure.
func FallbackQuote() Quote {
	return Quote{Text: FallbackQuoteText, Mood: MoodSleepy}
}

// Validate checks that the quote has text and a known mood.
func (q Quote) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrEmptyQuote
	}
	for _, m := range Moods {
		if q.Mood == m {
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrInvalidMood, q.Mood)
}
