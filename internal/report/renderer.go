// Package report renders a finished assessment into the plain-text
// clinical report and the shorter chat summary shown to the patient.
package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"intellicare/pkg"
)

var (
	heavyRule = strings.Repeat("=", 70)
	lightRule = strings.Repeat("-", 70)

	titleCaser = cases.Title(language.English)
)

// Render produces the full assessment report. The timestamp is passed in
// so rendering stays deterministic for a fixed input.
func Render(patient *pkg.PatientProfile, assessment pkg.Assessment, generatedAt time.Time) string {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add(heavyRule)
	add("PATIENT MEDICAL ASSESSMENT REPORT")
	add(heavyRule)
	add("Generated: %s", generatedAt.Format("2006-01-02 15:04:05"))
	add("")

	add("PATIENT INFORMATION:")
	add(lightRule)
	if patient.Age != nil {
		add("Age: %d", *patient.Age)
	} else {
		add("Age: Not provided (patient declined)")
	}
	if patient.Gender != "" {
		add("Gender: %s", patient.Gender)
	} else {
		add("Gender: Not provided (patient declined)")
	}
	if patient.IsPregnant != nil {
		pregnant := "No"
		if *patient.IsPregnant {
			pregnant = "Yes"
		}
		add("Pregnant: %s", pregnant)
	}
	add("")

	add("CHIEF COMPLAINTS:")
	add(lightRule)
	for i, symptom := range patient.Symptoms {
		add("  %d. %s", i+1, titleCaser.String(symptom))
	}
	add("")

	add("SYMPTOM DETAILS:")
	add(lightRule)
	add("Duration: %s", orNotSpecified(patient.Duration))
	add("Severity: %s", orNotSpecified(patient.Severity))
	add("")

	if history := meaningfulHistory(patient.MedicalHistory); len(history) > 0 {
		add("MEDICAL HISTORY:")
		add(lightRule)
		for _, item := range history {
			add("  • %s", item)
		}
		add("")
	}

	add("CLINICAL ASSESSMENT:")
	add(heavyRule)
	add("")
	add("Differential Diagnoses (ranked by probability):")
	add(lightRule)
	for i, diag := range assessment.Diagnoses {
		add("")
		add("%d. %s", i+1, diag.Disease)
		add("   Probability: %.1f%% | Confidence: %s", diag.Probability*100, diag.Confidence)
		if diag.Explanation != "" {
			add("   Clinical Note: %s", diag.Explanation)
		}
	}
	add("")

	add("TRIAGE ASSESSMENT:")
	add(lightRule)
	add("Urgency Level: %d/5", assessment.TriageLevel)
	add("Recommendation: %s", assessment.TriageMessage)
	add("")

	add("CARE PATHWAY:")
	add(lightRule)
	add("Recommended Department: %s", assessment.Department)
	add("")

	add(heavyRule)
	add("IMPORTANT MEDICAL DISCLAIMER:")
	add(lightRule)
	add("This is an AI-assisted preliminary assessment and does NOT constitute")
	add("professional medical advice, diagnosis, or treatment.")
	add(heavyRule)

	return strings.Join(lines, "\n")
}

// Summary builds the closing chat message for a finished session.
func Summary(patient *pkg.PatientProfile, assessment pkg.Assessment) string {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("\nThank you for providing that information. Based on our conversation, here is my medical assessment:\n")
	add(heavyRule)
	add("MEDICAL ASSESSMENT")
	add("%s\n", heavyRule)

	add("📋 SYMPTOMS REPORTED:")
	for _, symptom := range patient.Symptoms {
		add("   • %s", titleCaser.String(symptom))
	}
	add("")

	add("🔍 DIFFERENTIAL DIAGNOSES:\n")
	for i, diag := range assessment.Diagnoses {
		add("   %d. %s (%.1f%% probability)", i+1, diag.Disease, diag.Probability*100)
		if diag.Explanation != "" {
			add("      → %s", diag.Explanation)
		}
		add("")
	}

	add("🏥 RECOMMENDED DEPARTMENT: %s\n", assessment.Department)

	add("⚠️  URGENCY ASSESSMENT:")
	add("    Level: %d/5", assessment.TriageLevel)
	add("    Action: %s\n", assessment.TriageMessage)

	add(heavyRule)
	add("⚠️  DISCLAIMER: This is a preliminary AI assessment, not a medical diagnosis.")
	add(heavyRule)

	return strings.Join(lines, "\n")
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

func meaningfulHistory(history []string) []string {
	var out []string
	for _, item := range history {
		switch strings.ToLower(strings.TrimSpace(item)) {
		case "", "no", "none":
			continue
		}
		out = append(out, item)
	}
	return out
}
