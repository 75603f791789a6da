package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/xvierd/purrmodoro/internal/domain"
)

var (
	setWork  time.Duration
	setShort time.Duration
	setLong  time.Duration
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change the timer durations",
	Long:  `Show, set, edit or reset the length of the work, short break and long break timers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettingsShow(cmd, args)
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured durations",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set durations from flags",
	Long: `Set one or more durations. Values are Go durations truncated to whole seconds
and raised to at least one second, e.g. purr settings set --work 50m --short 10m.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		current, err := app.state.GetSettings(ctx)
		if err != nil {
			return err
		}

		updated, err := applyDurationFlags(cmd, current)
		if err != nil {
			return err
		}

		saved, err := app.state.UpdateSettings(ctx, updated)
		if err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		return printSettings(cmd.OutOrStdout(), saved)
	},
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit durations in an interactive form",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isInteractive() {
			return errNotInteractive
		}
		ctx := cmd.Context()
		current, err := app.state.GetSettings(ctx)
		if err != nil {
			return err
		}

		fields := newSettingsFields(current)
		if err := settingsForm(fields).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("settings form: %w", err)
		}

		updated, err := fields.settings()
		if err != nil {
			return err
		}
		saved, err := app.state.UpdateSettings(ctx, updated)
		if err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		return printSettings(cmd.OutOrStdout(), saved)
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default durations (25m / 5m / 15m)",
	RunE: func(cmd *cobra.Command, args []string) error {
		saved, err := app.state.UpdateSettings(cmd.Context(), domain.DefaultSettings())
		if err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		return printSettings(cmd.OutOrStdout(), saved)
	},
}

func init() {
	settingsSetCmd.Flags().DurationVar(&setWork, "work", 0, "Work duration (e.g. 25m)")
	settingsSetCmd.Flags().DurationVar(&setShort, "short", 0, "Short break duration (e.g. 5m)")
	settingsSetCmd.Flags().DurationVar(&setLong, "long", 0, "Long break duration (e.g. 15m)")

	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsEditCmd, settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	settings, err := app.state.GetSettings(cmd.Context())
	if err != nil {
		return err
	}
	return printSettings(cmd.OutOrStdout(), settings)
}

// applyDurationFlags overlays the duration flags the user actually passed.
func applyDurationFlags(cmd *cobra.Command, s domain.Settings) (domain.Settings, error) {
	flags := []struct {
		name  string
		value time.Duration
		mode  domain.Mode
	}{
		{"work", setWork, domain.ModeWork},
		{"short", setShort, domain.ModeShortBreak},
		{"long", setLong, domain.ModeLongBreak},
	}

	changed := false
	for _, f := range flags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		seconds, err := domain.SecondsFromDuration(f.value)
		if err != nil {
			return s, fmt.Errorf("--%s: %w", f.name, err)
		}
		s = s.With(f.mode, seconds)
		changed = true
	}
	if !changed {
		return s, fmt.Errorf("nothing to set: pass --work, --short or --long")
	}
	return s, nil
}

func printSettings(w io.Writer, s domain.Settings) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Timer settings:")
	fmt.Fprintln(w)
	for _, mode := range domain.Modes {
		fmt.Fprintf(w, "    %-12s %s\n", mode.Label(), domain.FormatClock(s.DurationFor(mode)))
	}
	fmt.Fprintln(w)
	return nil
}

// settingsFields holds the text of the minutes/seconds inputs per mode.
type settingsFields struct {
	minutes [3]string
	seconds [3]string
}

func newSettingsFields(s domain.Settings) *settingsFields {
	f := &settingsFields{}
	for i, mode := range domain.Modes {
		m, sec := domain.SplitMinSec(s.DurationFor(mode))
		f.minutes[i] = strconv.Itoa(m)
		f.seconds[i] = strconv.Itoa(sec)
	}
	return f
}

// settings converts the form values. Blank fields count as zero; the store
// raises a zero total to one second.
func (f *settingsFields) settings() (domain.Settings, error) {
	var s domain.Settings
	for i, mode := range domain.Modes {
		minutes, err := parseField(f.minutes[i])
		if err != nil {
			return s, fmt.Errorf("%s minutes: %w", mode.Label(), err)
		}
		seconds, err := parseField(f.seconds[i])
		if err != nil {
			return s, fmt.Errorf("%s seconds: %w", mode.Label(), err)
		}
		total, err := domain.SecondsFromMinSec(minutes, seconds)
		if err != nil {
			return s, fmt.Errorf("%s: %w", mode.Label(), err)
		}
		s = s.With(mode, total)
	}
	return s, nil
}

func parseField(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidDuration, s)
	}
	return n, nil
}

func validateMinutes(s string) error {
	n, err := parseField(s)
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateSeconds(s string) error {
	n, err := parseField(s)
	if err != nil {
		return err
	}
	if n < 0 || n > 59 {
		return fmt.Errorf("must be between 0 and 59")
	}
	return nil
}

func settingsForm(f *settingsFields) *huh.Form {
	groups := make([]*huh.Group, 0, len(domain.Modes))
	for i, mode := range domain.Modes {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title(mode.Label()+" (minutes)").
				Value(&f.minutes[i]).
				Validate(validateMinutes),
			huh.NewInput().
				Title(mode.Label()+" (seconds)").
				Value(&f.seconds[i]).
				Validate(validateSeconds),
		))
	}
	return huh.NewForm(groups...).WithShowHelp(true)
}
