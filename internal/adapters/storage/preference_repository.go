package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/purrmodoro/internal/ports"
)

// preferenceRepository implements ports.PreferenceStore on the preferences table.
type preferenceRepository struct {
	db *sql.DB
}

func newPreferenceRepository(db *sql.DB) ports.PreferenceStore {
	return &preferenceRepository{db: db}
}

// Get returns the value stored under key.
func (r *preferenceRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts key.
func (r *preferenceRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to write preference %q: %w", key, err)
	}
	return nil
}
