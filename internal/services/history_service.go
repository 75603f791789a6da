package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xvierd/purrmodoro/internal/domain"
	"github.com/xvierd/purrmodoro/internal/ports"
)

// HistoryService records and queries completed countdowns.
type HistoryService struct {
	repo        ports.HistoryRepository
	gitDetector ports.GitDetector
	workingDir  string
	now         func() time.Time
}

// NewHistoryService creates a history service. gitDetector may be nil.
func NewHistoryService(repo ports.HistoryRepository, gitDetector ports.GitDetector, workingDir string) *HistoryService {
	return &HistoryService{
		repo:        repo,
		gitDetector: gitDetector,
		workingDir:  workingDir,
		now:         time.Now,
	}
}

// Record stores a completion of mode lasting durationSeconds.
func (s *HistoryService) Record(ctx context.Context, mode domain.Mode, durationSeconds int) (*domain.Completion, error) {
	completion := domain.NewCompletion(mode, durationSeconds, s.now())

	// Detect git context if available
	if s.gitDetector != nil {
		gitInfo, err := s.gitDetector.Detect(ctx, s.workingDir)
		if err == nil && gitInfo != nil {
			completion.SetGitContext(gitInfo.Branch, gitInfo.Commit)
		}
	}

	if err := s.repo.Save(ctx, completion); err != nil {
		return nil, fmt.Errorf("failed to save completion: %w", err)
	}
	return completion, nil
}

// Recent returns completions at or after since, newest first.
func (s *HistoryService) Recent(ctx context.Context, since time.Time) ([]*domain.Completion, error) {
	return s.repo.FindRecent(ctx, since)
}

// TodayStats aggregates today's completions.
func (s *HistoryService) TodayStats(ctx context.Context) (*domain.DailyStats, error) {
	stats, err := s.repo.GetDailyStats(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load daily stats: %w", err)
	}
	return stats, nil
}

// PeriodStart returns the earliest completion time included in period
// ("today", "week", "month" or "all").
func (s *HistoryService) PeriodStart(period string) (time.Time, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case "today", "day":
		return startOfDay, nil
	case "", "week":
		return startOfDay.AddDate(0, 0, -6), nil
	case "month":
		return startOfDay.AddDate(0, -1, 0), nil
	case "all":
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unknown period %q: use today, week, month or all", period)
	}
}
