package ports

import (
	"context"
	"time"

	"github.com/xvierd/purrmodoro/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides state information to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// GetSettings returns the persisted durations.
	GetSettings(ctx context.Context) (domain.Settings, error)

	// UpdateSettings clamps, persists and returns the new durations.
	UpdateSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error)

	// ListHistory returns completions at or after since.
	ListHistory(ctx context.Context, since time.Time) ([]*domain.Completion, error)

	// TodayStats returns today's aggregated completions.
	TodayStats(ctx context.Context) (*domain.DailyStats, error)

	// FetchWisdom returns a quote for mode, never failing.
	FetchWisdom(ctx context.Context, mode domain.Mode) domain.Quote
}
