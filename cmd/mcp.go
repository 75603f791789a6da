package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/purrmodoro/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server provides tools for reading and changing the timer durations, listing
completed timers and asking the cat for wisdom.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol, so the banner goes to stderr.
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, "🐾 Starting MCP server...")
		fmt.Fprintln(errOut, "   The server will communicate via stdio")
		fmt.Fprintln(errOut, "   Press Ctrl+C to stop")

		ctx := setupSignalHandler()

		server := mcp.NewServer(app.state, app.history.PeriodStart)
		app.logger.Info("mcp server starting")
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
