package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/draft"
	"github.com/jonathan/resume-studio/internal/remote"
	"github.com/jonathan/resume-studio/internal/server/middleware"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/jonathan/resume-studio/internal/wizard"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	drafts      draft.Store
	remote      *remote.Client
	engine      *wizard.Engine
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, err := draft.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	s := &Server{
		db:     database,
		drafts: draft.NewRedisStore(redisClient),
		remote: remote.New(cfg.RemoteURL),
	}

	s.engine = wizard.NewEngine(s.drafts, s.remote, database, func(d *types.ResumeDraft) ([]byte, error) {
		return json.Marshal(d)
	})

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	otpService := NewOTPService(redisClient)
	s.userService = NewUserService(database, passwordConfig, otpService)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for remote PDF generation
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router with per-group auth middleware.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.Authenticate(s.jwtService.AsTokenValidator())
	requireAdmin := func(h http.HandlerFunc) http.Handler {
		return requireAuth(middleware.RequireRole(types.RoleAdmin)(h))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	mux.HandleFunc("GET /health", s.handleHealth)

	// Authentication
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /auth/verify-otp", s.authHandler.VerifyOTP)
	mux.HandleFunc("POST /auth/resend-otp", s.authHandler.ResendOTP)
	mux.Handle("GET /auth/me", authed(s.handleMe))
	mux.Handle("POST /auth/logout", authed(s.handleLogout))

	// Draft acquisition
	mux.Handle("POST /resumes/upload", authed(s.handleUpload))
	mux.Handle("POST /draft/blank", authed(s.handleStartBlank))
	mux.Handle("POST /resumes/{id}/edit", authed(s.handleEditResume))

	// Wizard session
	mux.Handle("GET /draft", authed(s.handleGetDraft))
	mux.Handle("DELETE /draft", authed(s.handleDiscardDraft))
	mux.Handle("GET /draft/progress", authed(s.handleDraftProgress))
	mux.Handle("PUT /draft/personal", authed(s.handleUpdatePersonal))
	mux.Handle("PUT /draft/pdf-name", authed(s.handleSetPDFName))
	mux.Handle("PUT /draft/summary", authed(s.handleSetSummary))
	mux.Handle("POST /draft/skills", authed(s.handleAddSkill))
	mux.Handle("DELETE /draft/skills", authed(s.handleRemoveSkill))
	mux.Handle("PUT /draft/experience", authed(s.handleSetExperience))
	mux.Handle("PUT /draft/education", authed(s.handleSetEducation))
	mux.Handle("PUT /draft/projects", authed(s.handleSetProjects))
	mux.Handle("POST /draft/next", authed(s.handleNext))
	mux.Handle("POST /draft/back", authed(s.handleBack))
	mux.Handle("POST /draft/goto/{step}", authed(s.handleJump))
	mux.Handle("POST /draft/analyze", authed(s.handleAnalyze))
	mux.Handle("POST /draft/generate", authed(s.handleGenerate))

	// Stored resumes
	mux.Handle("GET /resumes", authed(s.handleListResumes))
	mux.Handle("GET /resumes/{id}", authed(s.handleGetResume))
	mux.Handle("PUT /resumes/{id}/rename", authed(s.handleRenameResume))
	mux.Handle("DELETE /resumes/{id}", authed(s.handleDeleteResume))

	// Admin console
	mux.Handle("GET /admin/users", requireAdmin(s.handleAdminListUsers))
	mux.Handle("POST /admin/users/invite", requireAdmin(s.handleAdminInviteUser))
	mux.Handle("PUT /admin/users/{id}/role", requireAdmin(s.handleAdminSetRole))
	mux.Handle("PUT /admin/users/{id}/verify", requireAdmin(s.handleAdminSetVerified))
	mux.Handle("DELETE /admin/users/{id}", requireAdmin(s.handleAdminDeleteUser))
	mux.Handle("GET /admin/stats", requireAdmin(s.handleAdminStats))
	mux.Handle("GET /admin/activities", requireAdmin(s.handleAdminActivities))
	mux.Handle("GET /admin/settings", requireAdmin(s.handleAdminGetSettings))
	mux.Handle("PUT /admin/settings", requireAdmin(s.handleAdminUpdateSettings))
	mux.Handle("GET /admin/dashboard", requireAdmin(s.handleAdminDashboard))

	return s.withMaintenance(mux)
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withMaintenance blocks mutating requests while maintenance mode is on.
// Auth, health and the admin console stay reachable so an admin can turn
// it back off.
func (s *Server) withMaintenance(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet ||
			strings.HasPrefix(r.URL.Path, "/auth/") ||
			strings.HasPrefix(r.URL.Path, "/admin/") {
			next.ServeHTTP(w, r)
			return
		}

		settings, err := s.db.GetSettings(r.Context())
		if err != nil {
			log.Printf("failed to load settings for maintenance check: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if settings.MaintenanceMode {
			s.errorResponse(w, http.StatusServiceUnavailable, "service is under maintenance")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRegister refuses registration when the admin has closed it.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	settings, err := s.db.GetSettings(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	if !settings.AllowRegistration {
		err := &ErrRegistrationClosed{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.authHandler.Register(w, r)
}

// handleMe returns the authenticated user's profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.MeWithUserID(w, r, userID)
}

// handleLogout acknowledges logout. Tokens are stateless; the client
// discards its copy.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// RemoteAddr is used directly; X-Forwarded-For is only safe behind a
// trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
