package services

import (
	"context"
	"time"

	"github.com/xvierd/purrmodoro/internal/domain"
)

// StateService implements the MCPStateProvider interface on top of the
// persisted preferences and history. It does not own a running countdown.
type StateService struct {
	preferences *PreferenceService
	history     *HistoryService
	wisdom      *WisdomService
}

// NewStateService creates a new state service.
func NewStateService(preferences *PreferenceService, history *HistoryService, wisdom *WisdomService) *StateService {
	return &StateService{
		preferences: preferences,
		history:     history,
		wisdom:      wisdom,
	}
}

// GetSettings implements ports.MCPStateProvider.
func (s *StateService) GetSettings(ctx context.Context) (domain.Settings, error) {
	return s.preferences.LoadSettings(ctx), nil
}

// UpdateSettings implements ports.MCPStateProvider.
func (s *StateService) UpdateSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	return s.preferences.SaveSettings(ctx, settings)
}

// ListHistory implements ports.MCPStateProvider.
func (s *StateService) ListHistory(ctx context.Context, since time.Time) ([]*domain.Completion, error) {
	return s.history.Recent(ctx, since)
}

// TodayStats implements ports.MCPStateProvider.
func (s *StateService) TodayStats(ctx context.Context) (*domain.DailyStats, error) {
	return s.history.TodayStats(ctx)
}

// FetchWisdom implements ports.MCPStateProvider.
func (s *StateService) FetchWisdom(ctx context.Context, mode domain.Mode) domain.Quote {
	return s.wisdom.FetchWisdom(ctx, mode)
}
