package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/xvierd/purrmodoro/internal/domain"
	"github.com/xvierd/purrmodoro/internal/ports"
)

// PreferenceService reads and writes user preferences: durations, the
// notification permission and the "don't show again" flag.
type PreferenceService struct {
	store  ports.PreferenceStore
	logger *slog.Logger
}

// NewPreferenceService creates a preference service backed by store.
func NewPreferenceService(store ports.PreferenceStore, logger *slog.Logger) *PreferenceService {
	return &PreferenceService{store: store, logger: loggerOrDiscard(logger)}
}

// LoadSettings returns the persisted settings. Missing, unreadable or
// unparseable values yield the defaults; fields absent from the blob keep
// their default value and every duration is clamped to at least one second.
func (s *PreferenceService) LoadSettings(ctx context.Context) domain.Settings {
	raw, ok, err := s.store.Get(ctx, ports.KeySettings)
	if err != nil {
		s.logger.WarnContext(ctx, "load settings failed, using defaults", "error", err)
		return domain.DefaultSettings()
	}
	if !ok {
		return domain.DefaultSettings()
	}

	settings := domain.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.logger.WarnContext(ctx, "persisted settings malformed, using defaults", "error", err)
		return domain.DefaultSettings()
	}
	return settings.Clamp()
}

// SaveSettings clamps settings and persists them. The clamped value is
// returned even when persisting fails.
func (s *PreferenceService) SaveSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	clamped := settings.Clamp()
	data, err := json.Marshal(clamped)
	if err != nil {
		return clamped, fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.store.Set(ctx, ports.KeySettings, string(data)); err != nil {
		return clamped, fmt.Errorf("failed to persist settings: %w", err)
	}
	return clamped, nil
}

// Permission returns the stored notification permission, default when unset
// or unreadable.
func (s *PreferenceService) Permission(ctx context.Context) domain.NotificationPermission {
	raw, ok, err := s.store.Get(ctx, ports.KeyNotificationPermission)
	if err != nil || !ok {
		return domain.PermissionDefault
	}
	p, err := domain.ParseNotificationPermission(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "ignoring stored permission", "error", err)
	}
	return p
}

// SetPermission persists the notification permission.
func (s *PreferenceService) SetPermission(ctx context.Context, p domain.NotificationPermission) error {
	if _, err := domain.ParseNotificationPermission(string(p)); err != nil {
		return err
	}
	if err := s.store.Set(ctx, ports.KeyNotificationPermission, string(p)); err != nil {
		return fmt.Errorf("failed to persist notification permission: %w", err)
	}
	return nil
}

// PromptDismissed reports whether the notification prompt was dismissed
// permanently.
func (s *PreferenceService) PromptDismissed(ctx context.Context) bool {
	raw, ok, err := s.store.Get(ctx, ports.KeyNotificationPromptDismissed)
	return err == nil && ok && raw == "true"
}

// DismissPrompt permanently hides the notification prompt.
func (s *PreferenceService) DismissPrompt(ctx context.Context) error {
	if err := s.store.Set(ctx, ports.KeyNotificationPromptDismissed, "true"); err != nil {
		return fmt.Errorf("failed to persist prompt dismissal: %w", err)
	}
	return nil
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
