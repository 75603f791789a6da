package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xvierd/purrmodoro/internal/domain"
)

var wisdomMode string

var wisdomCmd = &cobra.Command{
	Use:   "wisdom",
	Short: "Ask the cat for a bit of wisdom",
	Long: `Fetch one quote for the given mode. When the quote service is disabled or
unreachable the cat falls back to its usual line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := domain.ResolveMode(wisdomMode)
		if err != nil {
			return fmt.Errorf("invalid --mode: %w", err)
		}

		quote := app.state.FetchWisdom(cmd.Context(), mode)

		out := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(quote)
		}

		quoteStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(app.config.Theme.ColorQuote))
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorHelp))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  "+quoteStyle.Render("\""+quote.Text+"\""))
		fmt.Fprintln(out, "  "+dimStyle.Render("mood: "+string(quote.Mood)))
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	wisdomCmd.Flags().StringVar(&wisdomMode, "mode", "work", "Mode to ask for: work, short or long")
	rootCmd.AddCommand(wisdomCmd)
}
