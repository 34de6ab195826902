package report

import (
	"strings"
	"testing"
	"time"

	"intellicare/pkg"
)

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func samplePatient() *pkg.PatientProfile {
	return &pkg.PatientProfile{
		Age:            intPtr(45),
		Gender:         pkg.GenderMale,
		Symptoms:       []string{"chest pain", "sweating"},
		Duration:       "2 hours",
		Severity:       "severe (8/10)",
		MedicalHistory: []string{"hypertension"},
	}
}

func sampleAssessment() pkg.Assessment {
	return pkg.Assessment{
		Diagnoses: []pkg.Diagnosis{
			{Disease: "Acute Coronary Syndrome", Probability: 0.7, Confidence: pkg.ConfidenceHigh, Explanation: "Requires immediate evaluation"},
			{Disease: "Unstable Angina", Probability: 0.2, Confidence: pkg.ConfidenceLow, Explanation: "Cardiac chest pain at rest"},
		},
		TriageLevel:   1,
		TriageMessage: "🚨 IMMEDIATE EMERGENCY - Call 911 or go to ER NOW",
		Department:    "Emergency Medicine",
	}
}

func TestRenderDeterministic(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	first := Render(samplePatient(), sampleAssessment(), at)
	second := Render(samplePatient(), sampleAssessment(), at)
	if first != second {
		t.Fatal("Render() must be byte-identical for identical inputs")
	}
	if !strings.Contains(first, "Generated: 2025-03-14 09:30:00") {
		t.Fatal("report missing injected timestamp")
	}
}

func TestRenderSections(t *testing.T) {
	out := Render(samplePatient(), sampleAssessment(), time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))

	for _, want := range []string{
		"PATIENT MEDICAL ASSESSMENT REPORT",
		"PATIENT INFORMATION:",
		"Age: 45",
		"Gender: male",
		"CHIEF COMPLAINTS:",
		"  1. Chest Pain",
		"  2. Sweating",
		"SYMPTOM DETAILS:",
		"Duration: 2 hours",
		"Severity: severe (8/10)",
		"MEDICAL HISTORY:",
		"  • hypertension",
		"CLINICAL ASSESSMENT:",
		"1. Acute Coronary Syndrome",
		"   Probability: 70.0% | Confidence: high",
		"   Clinical Note: Requires immediate evaluation",
		"TRIAGE ASSESSMENT:",
		"Urgency Level: 1/5",
		"CARE PATHWAY:",
		"Recommended Department: Emergency Medicine",
		"IMPORTANT MEDICAL DISCLAIMER:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderDeclinedDemographics(t *testing.T) {
	patient := samplePatient()
	patient.Age = nil
	patient.Gender = ""
	out := Render(patient, sampleAssessment(), time.Now())

	if !strings.Contains(out, "Age: Not provided (patient declined)") {
		t.Fatal("declined age not noted")
	}
	if !strings.Contains(out, "Gender: Not provided (patient declined)") {
		t.Fatal("declined gender not noted")
	}
}

func TestRenderOmitsEmptyHistory(t *testing.T) {
	patient := samplePatient()
	patient.MedicalHistory = []string{}
	out := Render(patient, sampleAssessment(), time.Now())
	if strings.Contains(out, "MEDICAL HISTORY:") {
		t.Fatal("empty history section must be omitted")
	}
}

func TestRenderPregnancyLine(t *testing.T) {
	patient := samplePatient()
	out := Render(patient, sampleAssessment(), time.Now())
	if strings.Contains(out, "Pregnant:") {
		t.Fatal("unknown pregnancy status must be omitted")
	}

	patient.IsPregnant = boolPtr(true)
	out = Render(patient, sampleAssessment(), time.Now())
	if !strings.Contains(out, "Pregnant: Yes") {
		t.Fatal("confirmed pregnancy must appear")
	}
}

func TestSummary(t *testing.T) {
	out := Summary(samplePatient(), sampleAssessment())

	for _, want := range []string{
		"MEDICAL ASSESSMENT",
		"📋 SYMPTOMS REPORTED:",
		"   • Chest Pain",
		"🔍 DIFFERENTIAL DIAGNOSES:",
		"   1. Acute Coronary Syndrome (70.0% probability)",
		"      → Requires immediate evaluation",
		"🏥 RECOMMENDED DEPARTMENT: Emergency Medicine",
		"    Level: 1/5",
		"DISCLAIMER",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}
