package server

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/db"
)

func TestResumeProjection(t *testing.T) {
	created := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	updated := created.AddDate(0, 0, 2)
	row := db.Resume{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		FileName:  "jane-backend.pdf",
		FileURL:   "https://cdn/x.pdf",
		JobTitle:  "Backend Engineer",
		Version:   3,
		CreatedAt: created,
		UpdatedAt: updated,
	}

	out := resumeProjection(row)
	assert.Equal(t, row.ID, out.ID)
	assert.Equal(t, "jane-backend.pdf", out.FileName)
	assert.Equal(t, "Backend Engineer", out.JobTitle)
	assert.Equal(t, 3, out.Version)
	assert.Equal(t, created, out.CreatedAt)
	assert.Equal(t, updated, out.UpdatedAt)
}
