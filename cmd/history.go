package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xvierd/purrmodoro/internal/adapters/git"
	"github.com/xvierd/purrmodoro/internal/domain"
)

var historyPeriod string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed timers",
	Long:  `List the timers that ran all the way to zero, newest first, with their git context.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		completions, err := loadHistory(cmd.Context(), historyPeriod)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeHistoryJSON(cmd.OutOrStdout(), completions)
		}
		renderHistory(cmd.OutOrStdout(), historyPeriod, completions)
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyPeriod, "period", "p", "week", "Time period: today, week, month or all")
	rootCmd.AddCommand(historyCmd)
}

// loadHistory fetches the completions of period.
func loadHistory(ctx context.Context, period string) ([]*domain.Completion, error) {
	since, err := app.history.PeriodStart(period)
	if err != nil {
		return nil, err
	}
	completions, err := app.state.ListHistory(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	return completions, nil
}

// completionRecord is the exported shape of a completion.
type completionRecord struct {
	ID              string    `json:"id" yaml:"id"`
	Mode            string    `json:"mode" yaml:"mode"`
	DurationSeconds int       `json:"duration_seconds" yaml:"duration_seconds"`
	CompletedAt     time.Time `json:"completed_at" yaml:"completed_at"`
	GitBranch       string    `json:"git_branch,omitempty" yaml:"git_branch,omitempty"`
	GitCommit       string    `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
}

func toRecords(completions []*domain.Completion) []completionRecord {
	records := make([]completionRecord, 0, len(completions))
	for _, c := range completions {
		records = append(records, completionRecord{
			ID:              c.ID,
			Mode:            string(c.Mode),
			DurationSeconds: c.Duration,
			CompletedAt:     c.CompletedAt,
			GitBranch:       c.GitBranch,
			GitCommit:       c.GitCommit,
		})
	}
	return records
}

func writeHistoryJSON(w io.Writer, completions []*domain.Completion) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toRecords(completions))
}

func renderHistory(w io.Writer, period string, completions []*domain.Completion) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(app.config.Theme.ColorQuote))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorPaused))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+titleStyle.Render("Completed timers ("+period+")"))
	fmt.Fprintln(w)

	if len(completions) == 0 {
		fmt.Fprintln(w, "  "+dimStyle.Render("Nothing yet. The cat is waiting."))
		fmt.Fprintln(w)
		return
	}

	for _, c := range completions {
		accent := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorFor(c.Mode)))
		line := fmt.Sprintf("  %s  %s  %s",
			c.CompletedAt.Local().Format("2006-01-02 15:04"),
			accent.Render(fmt.Sprintf("%-12s", c.Mode.Label())),
			domain.FormatClock(c.Duration),
		)
		if c.GitBranch != "" {
			line += dimStyle.Render(fmt.Sprintf("  %s@%s", c.GitBranch, git.ShortCommit(c.GitCommit)))
		}
		fmt.Fprintln(w, line)
	}

	stats := domain.Summarize(completions)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %d focus sessions · %d breaks · %s focused\n",
		stats.WorkSessions, stats.BreaksTaken, formatMinutes(stats.TotalFocused()))
	fmt.Fprintln(w)
}

// formatMinutes formats a duration as a human-friendly string like "25m" or "1h30m".
func formatMinutes(d time.Duration) string {
	if d >= time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}
