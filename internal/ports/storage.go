// Package ports defines the interfaces (driven and driving ports)
// for PurrModoro following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/purrmodoro/internal/domain"
)

// Preference keys shared by every PreferenceStore implementation.
const (
	KeySettings                    = "purrmodoro-settings"
	KeyNotificationPromptDismissed = "purrmodoro-notification-warning-dismissed"
	KeyNotificationPermission      = "purrmodoro-notification-permission"
)

// PreferenceStore is a small string key/value store for user preferences.
// This is a driven port (implemented by adapters).
type PreferenceStore interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// HistoryRepository defines the interface for completion persistence.
// This is a driven port (implemented by adapters).
type HistoryRepository interface {
	// Save persists a completion.
	Save(ctx context.Context, completion *domain.Completion) error

	// FindByID retrieves a completion by its identifier.
	FindByID(ctx context.Context, id string) (*domain.Completion, error)

	// FindRecent retrieves completions at or after since, newest first.
	FindRecent(ctx context.Context, since time.Time) ([]*domain.Completion, error)

	// GetDailyStats returns aggregated statistics for the day containing date.
	GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Preferences provides access to the preference store.
	Preferences() PreferenceStore

	// History provides access to completion history.
	History() HistoryRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
