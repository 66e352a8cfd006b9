package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/edupulse/student-risk-hub/internal/application/command"
	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/notify"
	"github.com/edupulse/student-risk-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Route not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "student-risk-hub",
		"status":  "ok",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.deps.ReadinessChecks))
	ready := true
	for name, check := range s.deps.ReadinessChecks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			ready = false
		} else {
			checks[name] = "ok"
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]interface{}{
		"ready":  ready,
		"checks": checks,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// TABLE LISTING HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.deps.ListStudentsHandler.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (s *Server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.ListAttendanceHandler.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.ListAssessmentsHandler.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleListFees(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.ListFeesHandler.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetScoredStudents(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetScoredStudentsHandler.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Mentor       mentorDTO `json:"mentor"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

type mentorDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.deps.Auth == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "auth_unavailable", "Authentication is not configured")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	mentor, access, refresh, err := s.deps.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			writeJSONError(w, http.StatusUnauthorized, "bad_credentials", "Invalid email or password")
			return
		}
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Mentor:       mentorDTO{ID: mentor.ID, Name: mentor.Name, Email: mentor.Email},
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// MENTOR MANAGEMENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createMentorRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	MailPassword string `json:"mail_password"`
	Role         string `json:"role"`
}

func (s *Server) handleCreateMentor(w http.ResponseWriter, r *http.Request) {
	var req createMentorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	if req.Name == "" || req.Email == "" {
		writeJSONError(w, http.StatusBadRequest, "missing_fields", "Name and email are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeJSONError(w, http.StatusBadRequest, "password_too_short", "Password must be at least 8 characters")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to process password")
		return
	}

	mentor := &record.Mentor{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		MailPassword: req.MailPassword,
		Role:         req.Role,
	}
	if err := s.deps.Mentors.Create(r.Context(), mentor); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mentorDTO{ID: mentor.ID, Name: mentor.Name, Email: mentor.Email})
}

type deleteMentorRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleDeleteMentor(w http.ResponseWriter, r *http.Request) {
	var req deleteMentorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}
	if req.Email == "" {
		writeJSONError(w, http.StatusBadRequest, "missing_fields", "Email is required")
		return
	}

	if err := s.deps.Mentors.DeleteByEmail(r.Context(), req.Email); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "email": req.Email})
}

// ══════════════════════════════════════════════════════════════════════════════
// PIPELINE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type syncResponse struct {
	Sync  *command.RunSyncResult  `json:"sync"`
	Score *command.RunScoreResult `json:"score"`
}

// handleRunSync refreshes the tables and, when that succeeds, rebuilds
// the scored snapshot so the API never serves scores for stale rows.
func (s *Server) handleRunSync(w http.ResponseWriter, r *http.Request) {
	syncResult, err := s.deps.RunSyncHandler.Handle(r.Context(), command.RunSyncCommand{
		Trigger:       "api",
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	scoreResult, err := s.deps.RunScoreHandler.Handle(r.Context(), command.RunScoreCommand{
		Trigger:       "api",
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{Sync: syncResult, Score: scoreResult})
}

func (s *Server) handleRunScore(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.RunScoreHandler.Handle(r.Context(), command.RunScoreCommand{
		Trigger:       "api",
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type notifyRequest struct {
	StudentIDs []string `json:"student_ids"`
	Message    string   `json:"message"`
	Subject    string   `json:"subject"`
}

func (s *Server) handleSendAlerts(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	result, err := s.deps.SendAlertsHandler.Handle(r.Context(), command.SendAlertsCommand{
		MentorID:   mentorIDFromContext(r.Context()),
		StudentIDs: req.StudentIDs,
		Message:    req.Message,
		Subject:    req.Subject,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, notify.Templates())
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps domain errors onto HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrSnapshotMissing):
		writeJSONError(w, http.StatusServiceUnavailable, "snapshot_missing", "No scored snapshot available yet")
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, shared.ErrUnauthorized):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, shared.ErrSourceUnavailable):
		writeJSONError(w, http.StatusBadGateway, "source_unavailable", err.Error())
	case errors.Is(err, shared.ErrServiceUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
	default:
		s.logger.Error("request failed", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
