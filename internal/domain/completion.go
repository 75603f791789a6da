package domain

import "time"

// Completion records a countdown that ran all the way to zero.
type Completion struct {
	ID          string
	Mode        Mode
	Duration    int
	CompletedAt time.Time
	GitBranch   string
	GitCommit   string
}

// NewCompletion creates a completion for mode with the given planned duration.
func NewCompletion(mode Mode, durationSeconds int, at time.Time) *Completion {
	return &Completion{
		ID:          generateID(),
		Mode:        mode,
		Duration:    durationSeconds,
		CompletedAt: at,
	}
}

// SetGitContext attaches repository information to the completion.
func (c *Completion) SetGitContext(branch, commit string) {
	c.GitBranch = branch
	c.GitCommit = commit
}

// IsWork reports whether the completion was a focus interval.
func (c *Completion) IsWork() bool {
	return c.Mode == ModeWork
}

// DailyStats summarises completions for a single day.
type DailyStats struct {
	WorkSessions   int
	BreaksTaken    int
	FocusedSeconds int
}

// TotalFocused returns the focused time as a time.Duration.
func (s DailyStats) TotalFocused() time.Duration {
	return time.Duration(s.FocusedSeconds) * time.Second
}

// Summarize folds completions into DailyStats.
func Summarize(completions []*Completion) DailyStats {
	var stats DailyStats
	for _, c := range completions {
		if c.IsWork() {
			stats.WorkSessions++
			stats.FocusedSeconds += c.Duration
		} else {
			stats.BreaksTaken++
		}
	}
	return stats
}
