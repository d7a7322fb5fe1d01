package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-studio/internal/types"
)

// GetSettings loads the global settings row. Defaults are returned when no
// admin has saved anything yet.
func (db *DB) GetSettings(ctx context.Context) (types.Settings, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.DefaultSettings(), nil
		}
		return types.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	var s types.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return types.Settings{}, fmt.Errorf("failed to parse stored settings: %w", err)
	}
	return s, nil
}

// UpdateSettings replaces the global settings row
func (db *DB) UpdateSettings(ctx context.Context, s types.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO settings (id, data) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET data = $1, updated_at = NOW()`, raw)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

// GetStats computes the admin dashboard counters
func (db *DB) GetStats(ctx context.Context) (types.Stats, error) {
	var s types.Stats
	err := db.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM users),
		   (SELECT COUNT(*) FROM users WHERE verified),
		   (SELECT COUNT(*) FROM resumes),
		   (SELECT COUNT(*) FROM resumes WHERE COALESCE(file_url, '') <> ''),
		   (SELECT COUNT(*) FROM activities WHERE created_at >= date_trunc('day', NOW()))`,
	).Scan(&s.TotalUsers, &s.VerifiedUsers, &s.TotalResumes, &s.GeneratedResumes, &s.ActivitiesToday)
	if err != nil {
		return types.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return s, nil
}
