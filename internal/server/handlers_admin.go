package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/listing"
	"github.com/jonathan/resume-studio/internal/types"
)

func activityProjection(a db.Activity) types.Activity {
	return types.Activity{
		ID:        a.ID,
		UserID:    a.UserID,
		UserEmail: a.UserEmail,
		Action:    a.Action,
		Detail:    a.Detail,
		CreatedAt: a.CreatedAt,
	}
}

// handleAdminListUsers lists accounts for the admin console.
func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	users, err := s.db.ListUsers(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	out := make([]*types.User, 0, len(users))
	for i := range users {
		out = append(out, convertDBUserToTypesUser(&users[i]))
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"users": out})
}

// handleAdminInviteUser creates a pre-verified account with a one-time
// password.
func (s *Server) handleAdminInviteUser(w http.ResponseWriter, r *http.Request) {
	var req types.InviteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, password, err := s.userService.Invite(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"user":             user,
		"initial_password": password,
	})
}

// handleAdminSetRole changes an account's role.
func (s *Server) handleAdminSetRole(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Role != types.RoleUser && req.Role != types.RoleAdmin {
		s.errorResponse(w, http.StatusBadRequest, "role must be user or admin")
		return
	}

	if err := s.db.SetUserRole(r.Context(), userID, req.Role); err != nil {
		if strings.Contains(err.Error(), "not found") {
			s.errorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "failed to update role")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Role updated"})
}

// handleAdminSetVerified toggles an account's verified flag.
func (s *Server) handleAdminSetVerified(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req struct {
		Verified bool `json:"verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.db.SetUserVerified(r.Context(), userID, req.Verified); err != nil {
		if strings.Contains(err.Error(), "not found") {
			s.errorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "failed to update verification")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Verification updated"})
}

// handleAdminDeleteUser removes an account. Admins cannot remove
// themselves.
func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.userIDOrFail(w, r)
	if !ok {
		return
	}

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid user ID")
		return
	}
	if userID == callerID {
		s.errorResponse(w, http.StatusConflict, "cannot delete your own account")
		return
	}

	if err := s.db.DeleteUser(r.Context(), userID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			s.errorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

// handleAdminStats returns the dashboard counters.
func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetStats(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

// handleAdminActivities lists the activity log with optional query and
// date filtering.
func (s *Server) handleAdminActivities(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	rows, err := s.db.ListActivities(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list activities")
		return
	}

	items := make([]types.Activity, 0, len(rows))
	for _, row := range rows {
		items = append(items, activityProjection(row))
	}

	var date time.Time
	if v := r.URL.Query().Get("date"); v != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			date = parsed
		}
	}
	items = listing.FilterActivities(items, r.URL.Query().Get("q"), date)

	s.jsonResponse(w, http.StatusOK, map[string]any{"activities": items})
}

// handleAdminGetSettings returns the global settings.
func (s *Server) handleAdminGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.db.GetSettings(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	s.jsonResponse(w, http.StatusOK, settings)
}

// handleAdminUpdateSettings replaces the global settings.
func (s *Server) handleAdminUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings types.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := settings.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if err := s.db.UpdateSettings(r.Context(), settings); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to update settings")
		return
	}

	s.jsonResponse(w, http.StatusOK, settings)
}

// dashboardSection carries one dashboard block, or the reason it could
// not be loaded. One failing section never blanks the others.
type dashboardSection struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleAdminDashboard fetches stats, recent activities, users and
// settings concurrently, isolating each section's failure.
func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	var (
		statsSection      dashboardSection
		activitiesSection dashboardSection
		usersSection      dashboardSection
		settingsSection   dashboardSection
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		stats, err := s.db.GetStats(ctx)
		if err != nil {
			log.Printf("dashboard stats failed: %v", err)
			statsSection.Error = "failed to load stats"
			return nil
		}
		statsSection.Data = stats
		return nil
	})
	g.Go(func() error {
		rows, err := s.db.ListActivities(ctx, 20)
		if err != nil {
			log.Printf("dashboard activities failed: %v", err)
			activitiesSection.Error = "failed to load activities"
			return nil
		}
		items := make([]types.Activity, 0, len(rows))
		for _, row := range rows {
			items = append(items, activityProjection(row))
		}
		activitiesSection.Data = items
		return nil
	})
	g.Go(func() error {
		users, err := s.db.ListUsers(ctx, 10)
		if err != nil {
			log.Printf("dashboard users failed: %v", err)
			usersSection.Error = "failed to load users"
			return nil
		}
		out := make([]*types.User, 0, len(users))
		for i := range users {
			out = append(out, convertDBUserToTypesUser(&users[i]))
		}
		usersSection.Data = out
		return nil
	})

	g.Go(func() error {
		settings, err := s.db.GetSettings(ctx)
		if err != nil {
			log.Printf("dashboard settings failed: %v", err)
			settingsSection.Error = "failed to load settings"
			return nil
		}
		settingsSection.Data = settings
		return nil
	})

	// Goroutines report failures through their sections.
	_ = g.Wait()

	s.jsonResponse(w, http.StatusOK, map[string]dashboardSection{
		"stats":      statsSection,
		"activities": activitiesSection,
		"users":      usersSection,
		"settings":   settingsSection,
	})
}
