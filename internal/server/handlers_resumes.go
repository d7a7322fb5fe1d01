package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/listing"
	"github.com/jonathan/resume-studio/internal/types"
)

// resumeProjection converts a database row into the listing shape.
func resumeProjection(r db.Resume) types.Resume {
	return types.Resume{
		ID:        r.ID,
		FileName:  r.FileName,
		JobTitle:  r.JobTitle,
		FileURL:   r.FileURL,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// parseListFilters reads the q, status and date query parameters.
func parseListFilters(r *http.Request) listing.Filters {
	f := listing.Filters{
		Query:  r.URL.Query().Get("q"),
		Status: r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("date"); v != "" {
		if date, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			f.Date = date
		}
	}
	return f
}

// resumeListItem pairs the projection with its computed status.
type resumeListItem struct {
	types.Resume
	Status string `json:"status"`
}

// handleListResumes lists the user's resumes, newest first, with
// optional query, status and date filtering.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	rows, err := s.db.ListResumesByUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list resumes")
		return
	}

	items := make([]types.Resume, 0, len(rows))
	for _, row := range rows {
		items = append(items, resumeProjection(row))
	}
	items = listing.FilterResumes(items, parseListFilters(r))

	out := make([]resumeListItem, 0, len(items))
	for _, item := range items {
		out = append(out, resumeListItem{Resume: item, Status: item.Status()})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": out})
}

// handleGetResume returns a single resume owned by the caller.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	resume, ok := s.ownedResume(w, r, userID)
	if !ok {
		return
	}

	item := resumeProjection(*resume)
	s.jsonResponse(w, http.StatusOK, resumeListItem{Resume: item, Status: item.Status()})
}

// handleRenameResume changes a stored resume's file name.
func (s *Server) handleRenameResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	resume, ok := s.ownedResume(w, r, userID)
	if !ok {
		return
	}

	var req struct {
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileName == "" {
		s.errorResponse(w, http.StatusBadRequest, "fileName is required")
		return
	}

	if err := s.db.RenameResume(r.Context(), resume.ID, userID, req.FileName); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to rename resume")
		return
	}

	if err := s.db.RecordActivity(r.Context(), userID, types.ActivityRename, req.FileName); err != nil {
		log.Printf("failed to record rename activity for user %s: %v", userID, err)
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Resume renamed"})
}

// handleDeleteResume deletes a stored resume owned by the caller.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	resume, ok := s.ownedResume(w, r, userID)
	if !ok {
		return
	}

	if err := s.db.DeleteResume(r.Context(), resume.ID, userID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete resume")
		return
	}

	if err := s.db.RecordActivity(r.Context(), userID, types.ActivityDelete, resume.FileName); err != nil {
		log.Printf("failed to record delete activity for user %s: %v", userID, err)
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Resume deleted"})
}

// ownedResume loads the path's resume and verifies the caller owns it.
// A resume belonging to someone else reads as not found.
func (s *Server) ownedResume(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*db.Resume, bool) {
	resumeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resume ID")
		return nil, false
	}

	resume, err := s.db.GetResume(r.Context(), resumeID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load resume")
		return nil, false
	}
	if resume == nil || resume.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, "resume not found")
		return nil, false
	}
	return resume, true
}
