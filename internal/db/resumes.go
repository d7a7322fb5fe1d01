package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resumeColumns = `id, user_id, file_name, COALESCE(file_url, ''), COALESCE(job_title, ''), version, content, created_at, updated_at`

// InsertResume records a generated resume and returns its ID. The version
// counts generations of the same file name for the user.
func (db *DB) InsertResume(ctx context.Context, userID uuid.UUID, fileName, fileURL, jobTitle string, content []byte) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, file_name, file_url, job_title, version, content)
		 VALUES ($1, $2, $3, $4,
		         1 + COALESCE((SELECT MAX(version) FROM resumes WHERE user_id = $1 AND file_name = $2), 0),
		         $5)
		 RETURNING id`,
		userID, fileName, fileURL, jobTitle, content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert resume: %w", err)
	}
	return id, nil
}

// GetResume retrieves a resume by ID; returns nil when not found
func (db *DB) GetResume(ctx context.Context, resumeID uuid.UUID) (*Resume, error) {
	var r Resume
	err := db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, resumeID,
	).Scan(&r.ID, &r.UserID, &r.FileName, &r.FileURL, &r.JobTitle, &r.Version, &r.Content, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &r, nil
}

// ListResumesByUser retrieves a user's resumes, newest first
func (db *DB) ListResumesByUser(ctx context.Context, userID uuid.UUID) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []Resume
	for rows.Next() {
		var r Resume
		if err := rows.Scan(&r.ID, &r.UserID, &r.FileName, &r.FileURL, &r.JobTitle, &r.Version, &r.Content, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, r)
	}
	return resumes, nil
}

// RenameResume changes the stored file name of a resume owned by the user
func (db *DB) RenameResume(ctx context.Context, resumeID, userID uuid.UUID, fileName string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET file_name = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		fileName, resumeID, userID)
	if err != nil {
		return fmt.Errorf("failed to rename resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	return nil
}

// DeleteResume removes a resume owned by the user
func (db *DB) DeleteResume(ctx context.Context, resumeID, userID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM resumes WHERE id = $1 AND user_id = $2`, resumeID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	return nil
}
