package cmd

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xvierd/purrmodoro/internal/domain"
)

var statsPeriod string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of completed timers",
	Long:  `Display a terminal dashboard with completions per mode, focused time per day and your most productive hours.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		completions, err := loadHistory(cmd.Context(), statsPeriod)
		if err != nil {
			return err
		}
		renderDashboard(cmd.OutOrStdout(), buildDashboard(statsPeriod, completions))
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "week", "Time period: today, week, month or all")
	rootCmd.AddCommand(statsCmd)
}

// dashboard aggregates completions for display.
type dashboard struct {
	label   string
	totals  domain.DailyStats
	byMode  map[domain.Mode]int
	byDay   []dayTotal
	topHour []hourEntry
}

type dayTotal struct {
	day     string
	focused time.Duration
}

// hourEntry pairs an hour with its total focused time for sorting.
type hourEntry struct {
	Hour     int
	Duration time.Duration
}

func buildDashboard(period string, completions []*domain.Completion) dashboard {
	d := dashboard{
		label:  "Completed timers (" + period + ")",
		totals: domain.Summarize(completions),
		byMode: make(map[domain.Mode]int),
	}

	days := make(map[string]time.Duration)
	hours := make(map[int]time.Duration)
	for _, c := range completions {
		d.byMode[c.Mode]++
		if !c.IsWork() {
			continue
		}
		at := c.CompletedAt.Local()
		focused := time.Duration(c.Duration) * time.Second
		days[at.Format("2006-01-02")] += focused
		hours[at.Hour()] += focused
	}

	for day, focused := range days {
		d.byDay = append(d.byDay, dayTotal{day: day, focused: focused})
	}
	sort.Slice(d.byDay, func(i, j int) bool { return d.byDay[i].day < d.byDay[j].day })

	for h, dur := range hours {
		d.topHour = append(d.topHour, hourEntry{Hour: h, Duration: dur})
	}
	sort.Slice(d.topHour, func(i, j int) bool {
		if d.topHour[i].Duration == d.topHour[j].Duration {
			return d.topHour[i].Hour < d.topHour[j].Hour
		}
		return d.topHour[i].Duration > d.topHour[j].Duration
	})
	if len(d.topHour) > 3 {
		d.topHour = d.topHour[:3]
	}
	return d
}

func renderDashboard(w io.Writer, d dashboard) {
	theme := app.config.Theme
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorQuote))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorPaused))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorQuote))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", titleStyle.Render(d.label))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	fmt.Fprintf(w, "  Total: %s focus sessions, %s breaks, %s focused\n\n",
		valueStyle.Render(fmt.Sprintf("%d", d.totals.WorkSessions)),
		valueStyle.Render(fmt.Sprintf("%d", d.totals.BreaksTaken)),
		valueStyle.Render(formatHours(d.totals.TotalFocused().Hours())),
	)

	if d.totals.WorkSessions+d.totals.BreaksTaken == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No completed timers in this period."))
		return
	}

	// Bar chart: completions per mode
	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Completions by mode"))
	maxCount := 0
	for _, n := range d.byMode {
		maxCount = max(maxCount, n)
	}
	for _, mode := range domain.Modes {
		n := d.byMode[mode]
		barColor := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorFor(mode)))
		fmt.Fprintf(w, "  %s %s %d\n",
			dimStyle.Render(fmt.Sprintf("%-12s", mode.Label())),
			barColor.Render(buildBar(scaleBar(n, maxCount))),
			n,
		)
	}
	fmt.Fprintln(w)

	if len(d.byDay) > 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("Focused time per day"))
		var longest time.Duration
		for _, day := range d.byDay {
			longest = max(longest, day.focused)
		}
		barColor := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorWork))
		for _, day := range d.byDay {
			fmt.Fprintf(w, "  %s %s %s\n",
				dimStyle.Render(day.day),
				barColor.Render(buildBar(scaleBar(int(day.focused), int(longest)))),
				formatHours(day.focused.Hours()),
			)
		}
		fmt.Fprintln(w)
	}

	if len(d.topHour) > 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("Your most productive hours"))
		for _, e := range d.topHour {
			hourLabel := fmt.Sprintf("%2d:00-%d:00", e.Hour, e.Hour+1)
			fmt.Fprintf(w, "  %s  %s\n",
				dimStyle.Render(hourLabel),
				valueStyle.Render(formatHours(e.Duration.Hours())),
			)
		}
		fmt.Fprintln(w)
	}
}

const maxBarWidth = 30

// scaleBar maps n out of maxN onto the bar width, showing at least one
// block for any non-zero value.
func scaleBar(n, maxN int) int {
	if maxN <= 0 || n <= 0 {
		return 0
	}
	width := int(math.Round(float64(n) / float64(maxN) * maxBarWidth))
	return max(width, 1)
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

// formatHours formats a float hours value as "Xh Ym".
func formatHours(h float64) string {
	if h < 0.01 {
		return "0m"
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}
