package pkg

import "time"

// Gender is the patient-reported gender. It is optional; an empty value
// means the patient declined to share or has not been asked yet.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderOther  Gender = "other"
)

// PatientProfile is the structured record accumulated over an intake
// conversation. Optional fields use pointers so "not provided" is
// distinguishable from a zero value. MedicalHistory keeps a non-nil empty
// slice once the history question has been answered negatively; a nil slice
// means the question has not been answered at all.
type PatientProfile struct {
	Age            *int     `json:"age,omitempty"`
	Gender         Gender   `json:"gender,omitempty"`
	Symptoms       []string `json:"symptoms"`
	Duration       string   `json:"duration,omitempty"`
	Severity       string   `json:"severity,omitempty"`
	MedicalHistory []string `json:"medical_history"`
	IsPregnant     *bool    `json:"is_pregnant,omitempty"`
}

// Confidence bands a diagnosis probability into a coarse label.
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceLow      Confidence = "low"
)

// Diagnosis is one candidate condition in a differential.
type Diagnosis struct {
	Disease     string     `json:"disease"`
	Probability float64    `json:"probability"`
	Confidence  Confidence `json:"confidence"`
	Explanation string     `json:"explanation"`
}

// Assessment is the outcome of the triage engine for one patient:
// ranked differential diagnoses, an urgency level from 1 (immediate
// emergency) to 5 (non-urgent), the recommended care department, and a
// human-readable triage recommendation.
type Assessment struct {
	Diagnoses     []Diagnosis `json:"diagnoses"`
	TriageLevel   int         `json:"triage_level"`
	TriageMessage string      `json:"triage_message"`
	Department    string      `json:"department"`
}

// TriageLevelName maps a triage level to the display name used by the
// frontend payload.
func TriageLevelName(level int) string {
	switch level {
	case 1:
		return "IMMEDIATE EMERGENCY"
	case 2:
		return "URGENT"
	case 3:
		return "PRIORITY"
	case 4:
		return "ROUTINE"
	case 5:
		return "NON-URGENT"
	}
	return "UNKNOWN"
}

// DiagnosisData is the structured payload returned to callers once a
// session has completed. Recommendation duplicates TriageMessage under the
// key the frontend expects.
type DiagnosisData struct {
	Patient           PatientProfile `json:"patient"`
	Diagnoses         []Diagnosis    `json:"diagnoses"`
	TriageLevel       int            `json:"triage_level"`
	TriageLevelName   string         `json:"triage_level_name"`
	TriageMessage     string         `json:"triage_message"`
	Recommendation    string         `json:"recommendation"`
	Department        string         `json:"department"`
	EmergencyDetected bool           `json:"emergency_detected,omitempty"`
}

// ChatRequest is the body of POST /api/chat. SessionID is optional; an
// empty value starts a new session.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is returned for every chat turn. DiagnosisData and Report
// are only populated when IsFinal is true.
type ChatResponse struct {
	SessionID     string         `json:"session_id"`
	Response      string         `json:"response"`
	IsFinal       bool           `json:"is_final"`
	DiagnosisData *DiagnosisData `json:"diagnosis_data"`
	Report        *string        `json:"report"`
}

// SessionInfo is the progress snapshot for GET /api/session/{id}.
type SessionInfo struct {
	SessionID         string   `json:"session_id"`
	TurnCount         int      `json:"turn_count"`
	SymptomsCollected []string `json:"symptoms_collected"`
	InfoCollected     []string `json:"info_collected"`
	InfoSkipped       []string `json:"info_skipped"`
}

// ArchivedAssessment is a completed assessment persisted to the archive
// for later review. It is written once when a session finalizes and never
// updated.
type ArchivedAssessment struct {
	ID          string         `json:"id"`
	SessionID   string         `json:"session_id"`
	Patient     PatientProfile `json:"patient"`
	Diagnoses   []Diagnosis    `json:"diagnoses"`
	TriageLevel int            `json:"triage_level"`
	Department  string         `json:"department"`
	Report      string         `json:"report"`
	CreatedAt   time.Time      `json:"created_at"`
}
