// Package http exposes the intake API. Routing is a plain path switch on
// an http.Handler to keep dependencies light.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"intellicare/internal/db"
	"intellicare/internal/intake"
	"intellicare/internal/logging"
	"intellicare/internal/session"
	"intellicare/internal/triage"
	"intellicare/pkg"
)

const defaultMaxInputLength = 4000

// emergencyKeywords trigger the fast path: a message containing one is
// answered with an emergency directive immediately, before any interview
// work happens.
var emergencyKeywords = []string{
	"chest pain", "difficulty breathing", "shortness of breath", "severe bleeding",
	"loss of consciousness", "unconscious", "seizure", "stroke", "sudden weakness",
	"sudden numbness", "severe burn", "severe head injury", "suicidal", "homicidal",
}

func detectEmergency(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range emergencyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Server bundles the dependencies the handlers need. Repo and Notifier
// are nil when no database is configured; the archive endpoints then
// return 404 and finished sessions are simply not archived. It implements
// http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	Sessions       *session.Manager
	Repo           *db.Repository
	Notifier       *db.Notifier
	Model          string
	MaxInputLength int

	log *zap.Logger
}

func NewServer(sessions *session.Manager, repo *db.Repository, notifier *db.Notifier, model string, maxInputLength int) *Server {
	if maxInputLength <= 0 {
		maxInputLength = defaultMaxInputLength
	}
	return &Server{
		Sessions:       sessions,
		Repo:           repo,
		Notifier:       notifier,
		Model:          model,
		MaxInputLength: maxInputLength,
		log:            logging.With(zap.String("component", "http")),
	}
}

// ServeHTTP dispatches incoming requests based on the URL path.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/" && r.Method == http.MethodGet:
		s.handleRoot(w, r)
	case path == "/api/health" && r.Method == http.MethodGet:
		s.handleHealth(w, r)
	case path == "/api/chat" && r.Method == http.MethodPost:
		s.handleChat(w, r)
	case strings.HasPrefix(path, "/api/session/"):
		id := strings.TrimPrefix(path, "/api/session/")
		switch r.Method {
		case http.MethodGet:
			s.handleSessionInfo(w, r, id)
		case http.MethodDelete:
			s.handleDeleteSession(w, r, id)
		default:
			http.NotFound(w, r)
		}
	case strings.HasPrefix(path, "/api/reset/") && r.Method == http.MethodPost:
		s.handleResetSession(w, r, strings.TrimPrefix(path, "/api/reset/"))
	case path == "/api/assessments" && r.Method == http.MethodGet:
		s.handleListAssessments(w, r)
	case strings.HasPrefix(path, "/api/assessments/") && r.Method == http.MethodGet:
		s.handleGetAssessment(w, r, strings.TrimPrefix(path, "/api/assessments/"))
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "running",
		"service":  "IntelliCare Medical Diagnostic API",
		"model":    s.Model,
		"version":  "2.0",
		"greeting": intake.Greeting,
		"features": []string{
			"Privacy-respecting (can skip personal questions)",
			"Medical history collection",
			"Smart triage system",
			"Comprehensive differential diagnosis",
		},
		"endpoints": map[string]string{
			"/":                         "GET - API information",
			"/api/health":               "GET - Health check",
			"/api/chat":                 "POST - Send a message (creates/uses sessions)",
			"/api/session/{session_id}": "GET - Get session info, DELETE - Delete a session",
			"/api/reset/{session_id}":   "POST - Reset a session",
			"/api/assessments":          "GET - List archived assessments",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"active_sessions": s.Sessions.Count(),
		"model":           s.Model,
		"timestamp":       time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req pkg.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "Message is required.")
		return
	}
	if len(message) > s.MaxInputLength {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Message too long. Maximum length is %d characters.", s.MaxInputLength))
		return
	}

	// safety first: an emergency phrase short-circuits the interview
	if detectEmergency(message) {
		s.log.Warn("emergency detected", zap.String("message", RedactPII(message)))
		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		writeJSON(w, http.StatusOK, pkg.ChatResponse{
			SessionID: sessionID,
			Response:  "⚠️ This sounds like a medical emergency. Please call emergency services immediately (911 in US) or go to the nearest emergency department. Do not wait for online consultation.",
			IsFinal:   true,
			DiagnosisData: &pkg.DiagnosisData{
				TriageLevel:       1,
				TriageLevelName:   pkg.TriageLevelName(1),
				TriageMessage:     triage.TriageMessage(1),
				Recommendation:    "Call emergency services immediately",
				EmergencyDetected: true,
				Diagnoses:         []pkg.Diagnosis{},
				Department:        "Emergency Medicine",
			},
		})
		return
	}

	s.log.Info("chat request", zap.String("message", truncate(RedactPII(message), 500)))

	sess := s.Sessions.GetOrCreate(req.SessionID)
	sess.Lock()
	defer sess.Unlock()

	reply, isFinal, report := sess.Orchestrator.Chat(r.Context(), message)

	resp := pkg.ChatResponse{
		SessionID: sess.ID,
		Response:  reply,
		IsFinal:   isFinal,
	}
	if isFinal {
		resp.DiagnosisData = sess.Orchestrator.DiagnosisData()
		resp.Report = report
		if resp.DiagnosisData != nil && report != nil {
			s.archive(sess.ID, sess.Orchestrator.Patient(), resp.DiagnosisData, *report)
		}
		s.Sessions.Delete(sess.ID)
		s.log.Info("session finished", zap.String("session_id", sess.ID))
	}

	writeJSON(w, http.StatusOK, resp)
}

// archive persists a finished assessment asynchronously; failures are
// logged and never affect the chat response.
func (s *Server) archive(sessionID string, patient *pkg.PatientProfile, data *pkg.DiagnosisData, report string) {
	if s.Repo == nil {
		return
	}
	record := &pkg.ArchivedAssessment{
		SessionID:   sessionID,
		Patient:     *patient,
		Diagnoses:   data.Diagnoses,
		TriageLevel: data.TriageLevel,
		Department:  data.Department,
		Report:      report,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Repo.SaveAssessment(ctx, record); err != nil {
			s.log.Error("failed to archive assessment", zap.String("session_id", sessionID), zap.Error(err))
			return
		}
		if s.Notifier != nil {
			if err := s.Notifier.Notify(ctx, record.ID); err != nil {
				s.log.Warn("failed to notify archive channel", zap.Error(err))
			}
		}
	}()
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, _ *http.Request, id string) {
	sess := s.Sessions.Get(id)
	if sess == nil {
		writeError(w, http.StatusNotFound, "Session not found.")
		return
	}
	sess.Lock()
	info := sess.Orchestrator.Info()
	sess.Unlock()
	info.SessionID = id
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, _ *http.Request, id string) {
	if !s.Sessions.Delete(id) {
		writeError(w, http.StatusNotFound, "Session not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "deleted",
		"session_id": id,
	})
}

func (s *Server) handleResetSession(w http.ResponseWriter, _ *http.Request, id string) {
	sess := s.Sessions.Get(id)
	if sess == nil {
		writeError(w, http.StatusNotFound, "Session not found.")
		return
	}
	sess.Lock()
	sess.Orchestrator.Reset()
	sess.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "reset",
		"session_id": id,
	})
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	if s.Repo == nil {
		http.NotFound(w, r)
		return
	}
	assessments, err := s.Repo.ListRecentAssessments(r.Context(), 20)
	if err != nil {
		s.log.Error("failed to list assessments", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not load assessments.")
		return
	}
	if assessments == nil {
		assessments = []pkg.ArchivedAssessment{}
	}
	writeJSON(w, http.StatusOK, assessments)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request, id string) {
	if s.Repo == nil {
		http.NotFound(w, r)
		return
	}
	assessment, err := s.Repo.GetAssessment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Assessment not found.")
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
