// Package draft provides the session-scoped store for in-progress resume
// drafts. One draft session exists per user; every field edit writes the
// whole document back.
package draft

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/types"
)

// State is the single persisted document for a wizard session: the draft
// itself plus the navigation position and the artifact reference once a
// PDF has been generated.
type State struct {
	Draft     types.ResumeDraft `json:"draft"`
	Step      int               `json:"step"`
	SourcePDF string            `json:"source_pdf,omitempty"`
	ResumeID  string            `json:"resume_id,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store persists wizard sessions keyed by user ID.
//
// Load returns (nil, nil) when no session exists or the stored blob is
// malformed; a malformed blob is indistinguishable from absence so the
// caller routes the user back to the acquisition flow. Errors are reserved
// for backend failures.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (*State, error)
	Save(ctx context.Context, userID uuid.UUID, st *State) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
