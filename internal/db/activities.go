package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecordActivity appends an entry to the activity log
func (db *DB) RecordActivity(ctx context.Context, userID uuid.UUID, action, detail string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO activities (user_id, action, detail) VALUES ($1, $2, $3)`,
		userID, action, detail)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ListActivities retrieves recent activity entries joined with the acting
// user's email, newest first
func (db *DB) ListActivities(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.pool.Query(ctx,
		`SELECT a.id, a.user_id, COALESCE(u.email, ''), a.action, COALESCE(a.detail, ''), a.created_at
		 FROM activities a
		 LEFT JOIN users u ON u.id = a.user_id
		 ORDER BY a.created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.UserEmail, &a.Action, &a.Detail, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, nil
}
