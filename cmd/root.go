// Package cmd provides the CLI commands for the PurrModoro application.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/xvierd/purrmodoro/internal/adapters/tui"
	"github.com/xvierd/purrmodoro/internal/domain"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	jsonOutput bool
	inlineMode bool
	modeFlag   string
	pickMode   bool
)

// errNotInteractive is returned when the timer is launched without a terminal.
var errNotInteractive = errors.New("the timer needs an interactive terminal; try 'purr settings show' or 'purr history'")

// isInteractive reports whether stdin is a terminal. Tests replace it.
var isInteractive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "purr",
	Short: "PurrModoro - a Pomodoro timer with a cat",
	Long: `PurrModoro is a terminal Pomodoro timer. A cat keeps you company,
changes its pose as the countdown runs and shares a bit of wisdom.

Run "purr" with no arguments to open the timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The full-screen timer owns the terminal, so its logs go to a file.
		return initializeServices(cmd.Parent() == nil)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runTimer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.purrmodoro/purr.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	rootCmd.Flags().BoolVarP(&inlineMode, "inline", "i", false, "Compact inline timer (no fullscreen)")
	rootCmd.Flags().StringVar(&modeFlag, "mode", "", "Initial mode: work, short, long (fuzzy matched)")
	rootCmd.Flags().BoolVar(&pickMode, "pick", false, "Choose the initial mode from a menu")

	// Set version - cobra handles --version automatically
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
	rootCmd.SetVersionTemplate("PurrModoro\nVersion: {{.Version}}\n")
}

// initialMode resolves the mode the timer opens in.
func initialMode() (domain.Mode, error) {
	if modeFlag == "" {
		return domain.ModeWork, nil
	}
	mode, err := domain.ResolveMode(modeFlag)
	if err != nil {
		return "", fmt.Errorf("invalid --mode: %w", err)
	}
	return mode, nil
}

func runTimer(cmd *cobra.Command, args []string) error {
	if !isInteractive() {
		return errNotInteractive
	}

	mode, err := initialMode()
	if err != nil {
		return err
	}

	ctx := setupSignalHandler()

	if pickMode {
		settings := app.prefs.LoadSettings(ctx)
		result, err := tui.RunModePicker(settings, mode, &app.config.Theme)
		if err != nil {
			return err
		}
		if result.Aborted {
			return nil
		}
		mode = result.Mode
	}

	controller, err := newController(ctx, mode)
	if err != nil {
		return err
	}

	timer := tui.NewTimer(tui.Options{
		Controller: controller,
		Wisdom:     app.wisdom,
		Stats:      app.history.TodayStats,
		Theme:      &app.config.Theme,
	}, inlineMode)

	app.logger.Info("timer started", "mode", mode, "inline", inlineMode)
	if err := timer.Run(ctx); err != nil {
		return fmt.Errorf("timer error: %w", err)
	}
	return nil
}
