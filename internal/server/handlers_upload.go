package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

// handleUpload accepts a PDF upload, sends it to the parsing service and
// starts a wizard session from the parsed draft.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	settings, err := s.db.GetSettings(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	maxBytes := int64(settings.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		s.errorResponse(w, http.StatusBadRequest, "only PDF uploads are accepted")
		return
	}

	parsed, err := s.remote.ParseResume(r.Context(), header.Filename, file)
	if err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			s.jsonResponse(w, http.StatusBadGateway, map[string]any{
				"error":  "parsing service returned an invalid document",
				"fields": schemaErr.Errors,
			})
			return
		}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	st, err := s.engine.StartFromParsed(r.Context(), userID, parsed, header.Filename)
	if err != nil {
		s.wizardError(w, err)
		return
	}

	if err := s.db.RecordActivity(r.Context(), userID, types.ActivityUpload, header.Filename); err != nil {
		log.Printf("failed to record upload activity for user %s: %v", userID, err)
	}

	s.jsonResponse(w, http.StatusCreated, newSessionResponse(st))
}

// handleEditResume starts a wizard session from a previously saved
// resume's draft document.
func (s *Server) handleEditResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	resumeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resume ID")
		return
	}

	resume, err := s.db.GetResume(r.Context(), resumeID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load resume")
		return
	}
	if resume == nil || resume.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, "resume not found")
		return
	}
	if len(resume.Content) == 0 {
		s.errorResponse(w, http.StatusConflict, "resume has no editable draft")
		return
	}

	var d types.ResumeDraft
	if err := json.Unmarshal(resume.Content, &d); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "stored draft is unreadable")
		return
	}
	if d.PDFName == "" {
		d.PDFName = resume.FileName
	}

	st, err := s.engine.StartFromResume(r.Context(), userID, resumeID, &d)
	if err != nil {
		s.wizardError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, newSessionResponse(st))
}
