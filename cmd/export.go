package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xvierd/purrmodoro/internal/domain"
)

var (
	exportFormat string
	exportPeriod string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export completion history",
	Long:  "Export your completed timers in markdown, CSV or YAML format.",
	RunE: func(cmd *cobra.Command, args []string) error {
		completions, err := loadHistory(cmd.Context(), exportPeriod)
		if err != nil {
			return err
		}
		return runExport(cmd.OutOrStdout(), exportFormat, completions)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md, csv or yaml")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "week", "Time period: today, week, month or all")
}

func runExport(w io.Writer, format string, completions []*domain.Completion) error {
	switch format {
	case "csv":
		return exportCSV(w, completions)
	case "yaml", "yml":
		return exportYAML(w, completions)
	case "md", "markdown":
		return exportMarkdown(w, completions)
	default:
		return fmt.Errorf("unknown format %q: use md, csv or yaml", format)
	}
}

func exportMarkdown(w io.Writer, completions []*domain.Completion) error {
	fmt.Fprintf(w, "# PurrModoro Export\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04"))

	day := ""
	for _, c := range completions {
		if d := c.CompletedAt.Local().Format("2006-01-02"); d != day {
			if day != "" {
				fmt.Fprintln(w)
			}
			day = d
			fmt.Fprintf(w, "## %s\n", day)
		}
		fmt.Fprintf(w, "- %s %s (%s)", c.CompletedAt.Local().Format("15:04"), c.Mode.Label(), domain.FormatClock(c.Duration))
		if c.GitBranch != "" {
			fmt.Fprintf(w, " on `%s`", c.GitBranch)
		}
		fmt.Fprintln(w)
	}

	stats := domain.Summarize(completions)
	fmt.Fprintf(w, "\n**Total:** %d focus sessions, %d breaks, %s focused\n",
		stats.WorkSessions, stats.BreaksTaken, formatMinutes(stats.TotalFocused()))
	return nil
}

func exportCSV(w io.Writer, completions []*domain.Completion) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{"completed_at", "mode", "duration_seconds", "git_branch", "git_commit"})
	for _, c := range completions {
		_ = cw.Write([]string{
			c.CompletedAt.Format(time.RFC3339),
			string(c.Mode),
			strconv.Itoa(c.Duration),
			c.GitBranch,
			c.GitCommit,
		})
	}

	cw.Flush()
	return cw.Error()
}

func exportYAML(w io.Writer, completions []*domain.Completion) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{
		"completions": toRecords(completions),
		"summary":     summaryRecord(domain.Summarize(completions)),
	}); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

type summary struct {
	WorkSessions   int `json:"work_sessions" yaml:"work_sessions"`
	BreaksTaken    int `json:"breaks_taken" yaml:"breaks_taken"`
	FocusedSeconds int `json:"focused_seconds" yaml:"focused_seconds"`
}

func summaryRecord(s domain.DailyStats) summary {
	return summary{WorkSessions: s.WorkSessions, BreaksTaken: s.BreaksTaken, FocusedSeconds: s.FocusedSeconds}
}
