package listing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/types"
)

func sampleResumes() []types.Resume {
	day := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.Local)
	return []types.Resume{
		{ID: uuid.New(), FileName: "jane-backend.pdf", JobTitle: "Backend Engineer", FileURL: "https://cdn/x1.pdf", CreatedAt: day},
		{ID: uuid.New(), FileName: "jane-draft", JobTitle: "Platform Engineer", CreatedAt: day.AddDate(0, 0, 1)},
		{ID: uuid.New(), FileName: "jane-frontend.pdf", JobTitle: "Frontend Engineer", FileURL: "https://cdn/x2.pdf", CreatedAt: day.AddDate(0, 0, 2)},
	}
}

func TestFilterResumes_Status(t *testing.T) {
	items := sampleResumes()

	generated := FilterResumes(items, Filters{Status: types.StatusGenerated})
	assert.Len(t, generated, 2)
	assert.Equal(t, "jane-backend.pdf", generated[0].FileName, "order preserved")
	assert.Equal(t, "jane-frontend.pdf", generated[1].FileName)

	drafts := FilterResumes(items, Filters{Status: types.StatusDraft})
	assert.Len(t, drafts, 1)
	assert.Equal(t, "jane-draft", drafts[0].FileName)

	all := FilterResumes(items, Filters{Status: types.StatusFilterAll})
	assert.Len(t, all, 3)
}

func TestFilterResumes_Query(t *testing.T) {
	items := sampleResumes()

	byFile := FilterResumes(items, Filters{Query: "BACKEND"})
	assert.Len(t, byFile, 1)

	byTitle := FilterResumes(items, Filters{Query: "engineer"})
	assert.Len(t, byTitle, 3)

	none := FilterResumes(items, Filters{Query: "designer"})
	assert.Empty(t, none)
}

func TestFilterResumes_Date(t *testing.T) {
	items := sampleResumes()

	// Same calendar day at a different time of day still matches.
	day := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.Local)
	matched := FilterResumes(items, Filters{Date: day})
	assert.Len(t, matched, 1)
	assert.Equal(t, "jane-backend.pdf", matched[0].FileName)
}

func TestFilterResumes_Combined(t *testing.T) {
	items := sampleResumes()

	out := FilterResumes(items, Filters{Query: "jane", Status: types.StatusGenerated, Date: items[2].CreatedAt})
	assert.Len(t, out, 1)
	assert.Equal(t, "jane-frontend.pdf", out[0].FileName)
}

func TestFilterResumes_DoesNotMutateInput(t *testing.T) {
	items := sampleResumes()
	FilterResumes(items, Filters{Status: types.StatusDraft})
	assert.Len(t, items, 3)
}

func TestFilterActivities(t *testing.T) {
	day := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.Local)
	items := []types.Activity{
		{Action: "generate", UserEmail: "jane@example.com", CreatedAt: day},
		{Action: "login", UserEmail: "admin@example.com", CreatedAt: day},
		{Action: "delete", Detail: "resume jane-backend.pdf", UserEmail: "jane@example.com", CreatedAt: day.AddDate(0, 0, 1)},
	}

	assert.Len(t, FilterActivities(items, "jane", time.Time{}), 2)
	assert.Len(t, FilterActivities(items, "", day), 2)
	assert.Len(t, FilterActivities(items, "backend", time.Time{}), 1)
	assert.Len(t, FilterActivities(items, "", time.Time{}), 3)
}
