package db

import (
	"testing"
	"time"

	"intellicare/pkg"
)

// stubRow plays one database row into scanAssessment without a live
// connection.
type stubRow struct {
	id, sessionID string
	patient       []byte
	diagnoses     []byte
	triageLevel   int
	department    string
	report        string
	createdAt     time.Time
}

func (r stubRow) Scan(dest ...any) error {
	*dest[0].(*string) = r.id
	*dest[1].(*string) = r.sessionID
	*dest[2].(*[]byte) = r.patient
	*dest[3].(*[]byte) = r.diagnoses
	*dest[4].(*int) = r.triageLevel
	*dest[5].(*string) = r.department
	*dest[6].(*string) = r.report
	*dest[7].(*time.Time) = r.createdAt
	return nil
}

func TestScanAssessment(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	row := stubRow{
		id:          "a0000000-0000-0000-0000-000000000001",
		sessionID:   "b0000000-0000-0000-0000-000000000002",
		patient:     []byte(`{"age":45,"gender":"male","symptoms":["chest pain"],"medical_history":[]}`),
		diagnoses:   []byte(`[{"disease":"Acute Coronary Syndrome","probability":0.7,"confidence":"high","explanation":"x"}]`),
		triageLevel: 1,
		department:  "Emergency Medicine",
		report:      "report text",
		createdAt:   created,
	}

	a, err := scanAssessment(row)
	if err != nil {
		t.Fatalf("scanAssessment: %v", err)
	}
	if a.ID != row.id || a.SessionID != row.sessionID {
		t.Fatalf("ids = %q/%q", a.ID, a.SessionID)
	}
	if a.Patient.Age == nil || *a.Patient.Age != 45 {
		t.Fatalf("Patient.Age = %v, want 45", a.Patient.Age)
	}
	if a.Patient.Gender != pkg.GenderMale {
		t.Fatalf("Patient.Gender = %q", a.Patient.Gender)
	}
	if len(a.Diagnoses) != 1 || a.Diagnoses[0].Disease != "Acute Coronary Syndrome" {
		t.Fatalf("Diagnoses = %+v", a.Diagnoses)
	}
	if a.TriageLevel != 1 || a.Department != "Emergency Medicine" {
		t.Fatalf("triage/department = %d/%q", a.TriageLevel, a.Department)
	}
	if !a.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt = %v", a.CreatedAt)
	}
}

func TestScanAssessmentRejectsBadJSON(t *testing.T) {
	row := stubRow{patient: []byte(`{broken`), diagnoses: []byte(`[]`)}
	if _, err := scanAssessment(row); err == nil {
		t.Fatal("expected error for malformed patient JSON")
	}
}

func TestConstructors(t *testing.T) {
	if repo := NewRepository(nil); repo == nil {
		t.Fatal("NewRepository returned nil")
	}
	n := NewNotifier(nil, "assessments")
	if n == nil || n.Channel != "assessments" {
		t.Fatalf("NewNotifier = %+v", n)
	}
}
