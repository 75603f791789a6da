package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/purrmodoro/internal/domain"
	"github.com/xvierd/purrmodoro/internal/ports"
)

// ErrDuplicateCompletion is returned when a completion id is saved twice.
var ErrDuplicateCompletion = errors.New("completion already recorded")

// historyRepository implements ports.HistoryRepository using SQLite.
type historyRepository struct {
	db *sql.DB
}

// newHistoryRepository creates a new history repository.
func newHistoryRepository(db *sql.DB) ports.HistoryRepository {
	return &historyRepository{db: db}
}

// Save persists a completion.
func (r *historyRepository) Save(ctx context.Context, c *domain.Completion) error {
	query := `
		INSERT INTO completions (id, mode, duration_s, completed_at, git_branch, git_commit)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		string(c.Mode),
		c.Duration,
		c.CompletedAt.UnixMilli(),
		c.GitBranch,
		c.GitCommit,
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateCompletion, c.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to save completion: %w", err)
	}
	return nil
}

// FindByID retrieves a completion by id.
func (r *historyRepository) FindByID(ctx context.Context, id string) (*domain.Completion, error) {
	query := `
		SELECT id, mode, duration_s, completed_at, git_branch, git_commit
		FROM completions
		WHERE id = ?
	`
	c, err := scanCompletion(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCompletionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find completion: %w", err)
	}
	return c, nil
}

// FindRecent retrieves completions at or after since, newest first.
func (r *historyRepository) FindRecent(ctx context.Context, since time.Time) ([]*domain.Completion, error) {
	query := `
		SELECT id, mode, duration_s, completed_at, git_branch, git_commit
		FROM completions
		WHERE completed_at >= ?
		ORDER BY completed_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query recent completions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var completions []*domain.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// GetDailyStats returns aggregated statistics for the day containing date.
func (r *historyRepository) GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	query := `
		SELECT
			COUNT(CASE WHEN mode = 'WORK' THEN 1 END) AS work_sessions,
			COUNT(CASE WHEN mode IN ('SHORT_BREAK', 'LONG_BREAK') THEN 1 END) AS breaks,
			COALESCE(SUM(CASE WHEN mode = 'WORK' THEN duration_s END), 0) AS focused_s
		FROM completions
		WHERE completed_at >= ? AND completed_at < ?
	`

	stats := &domain.DailyStats{}
	err := r.db.QueryRowContext(ctx, query, startOfDay.UnixMilli(), endOfDay.UnixMilli()).Scan(
		&stats.WorkSessions,
		&stats.BreaksTaken,
		&stats.FocusedSeconds,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompletion(row rowScanner) (*domain.Completion, error) {
	var c domain.Completion
	var mode string
	var completedAtMs int64

	err := row.Scan(
		&c.ID,
		&mode,
		&c.Duration,
		&completedAtMs,
		&c.GitBranch,
		&c.GitCommit,
	)
	if err != nil {
		return nil, err
	}

	c.Mode = domain.Mode(mode)
	c.CompletedAt = time.UnixMilli(completedAtMs)
	return &c, nil
}
