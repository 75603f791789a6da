package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xvierd/purrmodoro/internal/domain"
	"github.com/xvierd/purrmodoro/internal/ports"
	"github.com/xvierd/purrmodoro/internal/services"
)

func newTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestNewMemory(t *testing.T) {
	storage := newTestStorage(t)
	if storage == nil {
		t.Fatal("NewMemory() returned nil storage")
	}
	if err := storage.Migrate(); err != nil {
		t.Errorf("Migrate() should be idempotent: %v", err)
	}
}

func TestNew_CreatesDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "purr.db")
	storage, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = storage.Close() }()

	ctx := context.Background()
	if err := storage.Preferences().Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	_ = storage.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	v, ok, err := reopened.Preferences().Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Errorf("Get() after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestPreferenceRepository(t *testing.T) {
	prefs := newTestStorage(t).Preferences()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := prefs.Get(ctx, ports.KeySettings)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok {
			t.Error("expected key to be absent")
		}
	})

	t.Run("set then overwrite", func(t *testing.T) {
		if err := prefs.Set(ctx, ports.KeyNotificationPermission, "default"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := prefs.Set(ctx, ports.KeyNotificationPermission, "granted"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		v, ok, err := prefs.Get(ctx, ports.KeyNotificationPermission)
		if err != nil || !ok || v != "granted" {
			t.Errorf("Get() = %q, %v, %v", v, ok, err)
		}
	})
}

func TestPreferenceRepository_WithPreferenceService(t *testing.T) {
	prefs := newTestStorage(t).Preferences()
	svc := services.NewPreferenceService(prefs, nil)
	ctx := context.Background()

	want := domain.Settings{WorkDuration: 1, ShortBreakDuration: 240, LongBreakDuration: 1200}
	if _, err := svc.SaveSettings(ctx, domain.Settings{WorkDuration: 0, ShortBreakDuration: 240, LongBreakDuration: 1200}); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	if got := svc.LoadSettings(ctx); got != want {
		t.Errorf("LoadSettings() = %+v, want %+v", got, want)
	}

	if err := prefs.Set(ctx, ports.KeySettings, "{{{"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := svc.LoadSettings(ctx); got != domain.DefaultSettings() {
		t.Errorf("malformed blob should load defaults, got %+v", got)
	}

	if err := svc.SetPermission(ctx, domain.PermissionGranted); err != nil {
		t.Fatalf("SetPermission() error = %v", err)
	}
	if got := svc.Permission(ctx); got != domain.PermissionGranted {
		t.Errorf("Permission() = %v", got)
	}

	if svc.PromptDismissed(ctx) {
		t.Error("prompt should not start dismissed")
	}
	if err := svc.DismissPrompt(ctx); err != nil {
		t.Fatalf("DismissPrompt() error = %v", err)
	}
	if !svc.PromptDismissed(ctx) {
		t.Error("prompt should be dismissed")
	}
}

func TestHistoryRepository_SaveAndFind(t *testing.T) {
	repo := newTestStorage(t).History()
	ctx := context.Background()
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.Local)

	c := domain.NewCompletion(domain.ModeWork, 1500, at)
	c.SetGitContext("main", "abc1234")
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	found, err := repo.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Mode != domain.ModeWork || found.Duration != 1500 {
		t.Errorf("unexpected completion %+v", found)
	}
	if !found.CompletedAt.Equal(at) {
		t.Errorf("CompletedAt = %v, want %v", found.CompletedAt, at)
	}
	if found.GitBranch != "main" || found.GitCommit != "abc1234" {
		t.Errorf("git context lost: %+v", found)
	}

	if err := repo.Save(ctx, c); !errors.Is(err, ErrDuplicateCompletion) {
		t.Errorf("duplicate Save() error = %v, want ErrDuplicateCompletion", err)
	}

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrCompletionNotFound) {
		t.Errorf("FindByID(missing) error = %v", err)
	}
}

func TestHistoryRepository_FindRecentAndStats(t *testing.T) {
	repo := newTestStorage(t).History()
	ctx := context.Background()
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.Local)

	entries := []struct {
		mode domain.Mode
		dur  int
		at   time.Time
	}{
		{domain.ModeWork, 1500, day.Add(-2 * time.Hour)},
		{domain.ModeWork, 1500, day.Add(9 * time.Hour)},
		{domain.ModeShortBreak, 300, day.Add(9*time.Hour + 25*time.Minute)},
		{domain.ModeWork, 1200, day.Add(10 * time.Hour)},
		{domain.ModeLongBreak, 900, day.Add(11 * time.Hour)},
	}
	for _, e := range entries {
		if err := repo.Save(ctx, domain.NewCompletion(e.mode, e.dur, e.at)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	recent, err := repo.FindRecent(ctx, day)
	if err != nil {
		t.Fatalf("FindRecent() error = %v", err)
	}
	if len(recent) != 4 {
		t.Fatalf("FindRecent() returned %d, want 4", len(recent))
	}
	if recent[0].Mode != domain.ModeLongBreak {
		t.Errorf("expected newest first, got %v", recent[0].Mode)
	}

	stats, err := repo.GetDailyStats(ctx, day.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("GetDailyStats() error = %v", err)
	}
	want := domain.DailyStats{WorkSessions: 2, BreaksTaken: 2, FocusedSeconds: 2700}
	if *stats != want {
		t.Errorf("GetDailyStats() = %+v, want %+v", *stats, want)
	}
}
