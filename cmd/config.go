package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xvierd/purrmodoro/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View application configuration",
	Long: `Show the application configuration (notifications, cat wisdom, storage and logging).
Timer durations live in the database; use "purr settings" for those.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		printConfig(cmd.OutOrStdout(), path, app.config)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <notifications|sound|wisdom> <on|off>",
	Short: "Turn a feature on or off",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseSwitch(args[1])
		if err != nil {
			return err
		}

		switch args[0] {
		case "notifications":
			app.config.Notifications.Enabled = on
		case "sound":
			app.config.Notifications.Sound = on
		case "wisdom":
			app.config.Wisdom.Enabled = on
		default:
			return fmt.Errorf("unknown setting %q: use notifications, sound or wisdom", args[0])
		}

		if err := config.Save(app.config); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", args[0], onOff(on))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func printConfig(w io.Writer, path string, cfg *config.Config) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Config file:    %s\n", path)
	fmt.Fprintf(w, "  Data dir:       %s\n", cfg.Storage.DataDir)
	fmt.Fprintf(w, "  Log level:      %s\n", cfg.Log.Level)
	fmt.Fprintln(w)

	notifStatus := onOff(cfg.Notifications.Enabled)
	if cfg.Notifications.Enabled && cfg.Notifications.Sound {
		notifStatus = "on (with sound)"
	}
	fmt.Fprintf(w, "  Notifications:  %s\n", notifStatus)

	wisdomStatus := onOff(cfg.Wisdom.Enabled)
	if cfg.Wisdom.Enabled && cfg.Wisdom.APIKey() == "" {
		wisdomStatus = fmt.Sprintf("on (no key in $%s, using the fallback line)", cfg.Wisdom.APIKeyEnv)
	}
	fmt.Fprintf(w, "  Cat wisdom:     %s\n", wisdomStatus)
	fmt.Fprintf(w, "  Wisdom model:   %s (timeout %s, %d retries)\n",
		cfg.Wisdom.Model, cfg.Wisdom.Timeout, cfg.Wisdom.MaxRetries)
	fmt.Fprintln(w)
}

func parseSwitch(s string) (bool, error) {
	switch s {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
