package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"intellicare/internal/llm"
	"intellicare/internal/session"
	"intellicare/pkg"
)

type scriptedLLM struct{}

func (scriptedLLM) Generate(_ context.Context, prompt string, _ llm.Options) (string, error) {
	if strings.Contains(prompt, "differential diagnoses") {
		return "1. Tension Headache - 60% - Common benign headache", nil
	}
	return "Do you also have any nausea or light sensitivity?", nil
}

func newTestServer(t *testing.T) (*Server, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(scriptedLLM{}, time.Minute)
	t.Cleanup(sessions.Close)
	return NewServer(sessions, nil, nil, "test-model", 100), sessions
}

func postChat(t *testing.T, srv *Server, body any) (*httptest.ResponseRecorder, pkg.ChatResponse) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var resp pkg.ChatResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
	}
	return rec, resp
}

func TestRootEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "IntelliCare") {
		t.Fatal("root response missing service name")
	}
	if !strings.Contains(rec.Body.String(), "greeting") {
		t.Fatal("root response missing greeting")
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("status field = %v", body["status"])
	}
}

func TestChatValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := postChat(t, srv, pkg.ChatRequest{Message: ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty message: status = %d, want 400", rec.Code)
	}

	rec, _ = postChat(t, srv, pkg.ChatRequest{Message: strings.Repeat("a", 101)})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("oversized message: status = %d, want 400", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))
	raw := httptest.NewRecorder()
	srv.ServeHTTP(raw, req)
	if raw.Code != http.StatusBadRequest {
		t.Fatalf("invalid JSON: status = %d, want 400", raw.Code)
	}
}

func TestChatEmergencyFastPath(t *testing.T) {
	srv, sessions := newTestServer(t)

	rec, resp := postChat(t, srv, pkg.ChatRequest{Message: "my father has severe bleeding"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !resp.IsFinal {
		t.Fatal("emergency response must be final")
	}
	if resp.DiagnosisData == nil || resp.DiagnosisData.TriageLevel != 1 {
		t.Fatalf("DiagnosisData = %+v, want triage level 1", resp.DiagnosisData)
	}
	if !resp.DiagnosisData.EmergencyDetected {
		t.Fatal("emergency_detected not set")
	}
	if resp.DiagnosisData.Department != "Emergency Medicine" {
		t.Fatalf("Department = %q", resp.DiagnosisData.Department)
	}
	if resp.SessionID == "" {
		t.Fatal("emergency response must still carry a session id")
	}
	// the fast path must not have created an interview session
	if sessions.Count() != 0 {
		t.Fatalf("sessions = %d, want 0 after emergency fast path", sessions.Count())
	}
}

func TestChatCreatesAndReusesSession(t *testing.T) {
	srv, sessions := newTestServer(t)

	_, first := postChat(t, srv, pkg.ChatRequest{Message: "I have a headache"})
	if first.SessionID == "" || first.IsFinal {
		t.Fatalf("unexpected first response: %+v", first)
	}
	if sessions.Count() != 1 {
		t.Fatalf("sessions = %d, want 1", sessions.Count())
	}

	_, second := postChat(t, srv, pkg.ChatRequest{Message: "I'm 30", SessionID: first.SessionID})
	if second.SessionID != first.SessionID {
		t.Fatal("follow-up turn must reuse the session")
	}
	if sessions.Count() != 1 {
		t.Fatalf("sessions = %d, want still 1", sessions.Count())
	}
}

func TestChatRejectionEvictsSession(t *testing.T) {
	srv, sessions := newTestServer(t)

	_, resp := postChat(t, srv, pkg.ChatRequest{Message: "tell me a joke please"})
	if !resp.IsFinal {
		t.Fatal("non-medical opening must end the session")
	}
	if resp.Report != nil {
		t.Fatal("rejection must carry no report")
	}
	if sessions.Count() != 0 {
		t.Fatalf("sessions = %d, want 0 after terminal rejection", sessions.Count())
	}
}

func TestSessionInfoLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	_, chat := postChat(t, srv, pkg.ChatRequest{Message: "I have a headache"})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/"+chat.SessionID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("session info: status = %d", rec.Code)
	}
	var info pkg.SessionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info.SessionID != chat.SessionID || info.TurnCount != 1 {
		t.Fatalf("info = %+v", info)
	}
	if len(info.SymptomsCollected) == 0 {
		t.Fatal("symptoms missing from session info")
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reset/"+chat.SessionID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/session/"+chat.SessionID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/"+chat.SessionID, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted session info: status = %d, want 404", rec.Code)
	}
}

func TestUnknownSessionOperations(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/session/nope"},
		{http.MethodDelete, "/api/session/nope"},
		{http.MethodPost, "/api/reset/nope"},
	} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", tc.method, tc.path, rec.Code)
		}
	}
}

func TestAssessmentEndpointsWithoutArchive(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assessments", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when no archive is configured", rec.Code)
	}
}

func TestDetectEmergency(t *testing.T) {
	if !detectEmergency("sudden weakness on one side") {
		t.Fatal("missed emergency keyword")
	}
	if detectEmergency("mild headache since yesterday") {
		t.Fatal("false emergency")
	}
}

func TestRedactPII(t *testing.T) {
	in := "reach me at jane@example.com or +1 555 123 4567, MRN 1234567"
	out := RedactPII(in)
	for _, leaked := range []string{"jane@example.com", "555 123 4567", "1234567"} {
		if strings.Contains(out, leaked) {
			t.Errorf("PII %q survived redaction: %q", leaked, out)
		}
	}
	for _, want := range []string{"[REDACTED_EMAIL]", "[REDACTED_PHONE]"} {
		if !strings.Contains(out, want) {
			t.Errorf("redacted form missing %q: %q", want, out)
		}
	}
}
