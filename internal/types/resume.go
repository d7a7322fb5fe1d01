package types

import (
	"time"

	"github.com/google/uuid"
)

// Resume status values used by the listing filter.
const (
	StatusGenerated = "Generated"
	StatusDraft     = "Draft"
	// StatusFilterAll matches every resume regardless of status.
	StatusFilterAll = "all"
)

// Resume is the listing projection of a stored resume.
type Resume struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"fileName"`
	JobTitle  string    `json:"jobTitle,omitempty"`
	FileURL   string    `json:"fileUrl,omitempty"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Status reports the resume's lifecycle state. A resume is Generated once
// a rendered PDF exists for it.
func (r *Resume) Status() string {
	if r.FileURL != "" {
		return StatusGenerated
	}
	return StatusDraft
}

// GeneratedResume is the result of a successful PDF generation. PDF holds
// the raw bytes when the rendering service streams the document inline;
// otherwise FileURL points at the hosted copy.
type GeneratedResume struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"fileName"`
	FileURL   string    `json:"fileUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	PDF       []byte    `json:"-"`
}

// Analysis is the review returned by the resume analysis service.
type Analysis struct {
	ATSScore            int               `json:"atsScore"`
	OverallReview       string            `json:"overallReview"`
	SectionImprovements map[string]string `json:"sectionImprovements,omitempty"`
}
