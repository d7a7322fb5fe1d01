package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/draft"
	"github.com/jonathan/resume-studio/internal/server/middleware"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/jonathan/resume-studio/internal/validation"
	"github.com/jonathan/resume-studio/internal/wizard"
)

// sessionResponse is the wire shape of a wizard session.
type sessionResponse struct {
	Draft    types.ResumeDraft `json:"draft"`
	Step     int               `json:"step"`
	StepName string            `json:"stepName"`
	Progress map[string]bool   `json:"progress"`
	Source   string            `json:"sourcePdf,omitempty"`
}

func newSessionResponse(st *draft.State) sessionResponse {
	// The engine keeps Step in range, but the session blob comes from an
	// external store; clamp rather than panic on a tampered value.
	step := st.Step
	if step < 0 {
		step = 0
	}
	if step >= len(validation.StepOrder) {
		step = len(validation.StepOrder) - 1
	}
	return sessionResponse{
		Draft:    st.Draft,
		Step:     step,
		StepName: validation.StepOrder[step],
		Progress: validation.Progress(&st.Draft),
		Source:   st.SourcePDF,
	}
}

// userIDOrFail extracts the authenticated user, writing a 401 on failure.
func (s *Server) userIDOrFail(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

// wizardError writes the response for a failed wizard operation. Step
// validation failures carry their field map.
func (s *Server) wizardError(w http.ResponseWriter, err error) {
	var stepErr *wizard.StepValidationError
	if errors.As(err, &stepErr) {
		s.jsonResponse(w, HTTPStatus(err), map[string]any{
			"error":  fmt.Sprintf("step %q has invalid fields", stepErr.Step),
			"step":   stepErr.Step,
			"fields": stepErr.Fields,
		})
		return
	}

	var incomplete *wizard.IncompleteDraftError
	if errors.As(err, &incomplete) {
		s.jsonResponse(w, HTTPStatus(err), map[string]any{
			"error": "draft is incomplete",
			"steps": incomplete.Steps,
		})
		return
	}

	s.errorResponse(w, HTTPStatus(err), err.Error())
}

// handleStartBlank begins a wizard session from an empty draft.
func (s *Server) handleStartBlank(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	st, err := s.engine.StartBlank(r.Context(), userID)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, newSessionResponse(st))
}

// handleGetDraft returns the current wizard session.
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	st, err := s.engine.Session(r.Context(), userID)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(st))
}

// handleDiscardDraft ends the wizard session without generating.
func (s *Server) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	if err := s.engine.Discard(r.Context(), userID); err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Draft discarded"})
}

// handleDraftProgress reports per-step completion.
func (s *Server) handleDraftProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	progress, err := s.engine.Progress(r.Context(), userID)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"progress": progress})
}

func (s *Server) handleUpdatePersonal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	var p types.Personal
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := s.engine.UpdatePersonal(r.Context(), userID, p)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(st))
}

func (s *Server) handleSetPDFName(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	var req struct {
		PDFName string `json:"pdfName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := s.engine.SetPDFName(r.Context(), userID, req.PDFName)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(st))
}

func (s *Server) handleSetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	var req struct {
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := s.engine.SetSummary(r.Context(), userID, req.Summary)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(st))
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	var req struct {
		Skill string `json:"skill"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := s.engine.AddSkill(r.Context(), userID, req.Skill)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(st))
}

func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	var req struct {
		Skill string `json:"skill"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := s.engine.RemoveSkill(r.Context(), userID, req.Skill)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(st))
}

// handleSetExperience saves the experience section. Date problems are
// reported back per entry but do not block the save.
func (s *Server) handleSetExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	var req struct {
		Entries []types.WorkExperience `json:"entries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dateErrors := s.engine.ExperienceDateErrors(req.Entries)

	st, err := s.engine.SetExperience(r.Context(), userID, req.Entries)
	if err != nil {
		s.wizardError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"session":    newSessionResponse(st),
		"dateErrors": dateErrors,
	})
}

func (s *Server) handleSetEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	var req struct {
		Entries []types.Education `json:"entries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := s.engine.SetEducation(r.Context(), userID, req.Entries)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(st))
}

func (s *Server) handleSetProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	var req struct {
		Entries []types.Project `json:"entries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := s.engine.SetProjects(r.Context(), userID, req.Entries)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(st))
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	st, err := s.engine.Next(r.Context(), userID)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(st))
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	st, err := s.engine.Back(r.Context(), userID)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(st))
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	st, err := s.engine.Jump(r.Context(), userID, r.PathValue("step"))
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(st))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	analysis, err := s.engine.Analyze(r.Context(), userID)
	if err != nil {
		s.wizardError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleGenerate renders the draft. When the rendering service streams
// the PDF inline the bytes are forwarded as a download; otherwise the
// hosted file reference is returned as JSON.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	generated, err := s.engine.Generate(r.Context(), userID)
	if err != nil {
		s.wizardError(w, err)
		return
	}

	if len(generated.PDF) > 0 {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", generated.FileName))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(generated.PDF); err != nil {
			return
		}
		return
	}

	s.jsonResponse(w, http.StatusCreated, generated)
}
