// Package triage turns a completed patient record into a clinical
// assessment: differential diagnoses from the LLM (with deterministic
// fallbacks), a 1-5 urgency level, and a department referral.
package triage

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"intellicare/internal/llm"
	"intellicare/internal/logging"
	"intellicare/pkg"
)

const maxDiagnoses = 3

// urgency keyword sets, checked most-urgent first. A single hit anywhere
// in the symptom and diagnosis text decides the level.
var triageKeywords = []struct {
	level    int
	keywords []string
}{
	{1, []string{
		"chest pain", "difficulty breathing", "severe bleeding",
		"loss of consciousness", "stroke", "heart attack", "severe trauma",
		"unconscious", "not breathing", "severe burn",
	}},
	{2, []string{
		"severe pain", "high fever", "confusion", "significant bleeding",
		"suspected fracture", "severe allergic reaction", "dehydration",
	}},
	{3, []string{
		"persistent fever", "significant pain", "infection signs",
		"persistent vomiting",
	}},
}

// departmentRouting is an ordered list: when keyword hit counts tie, the
// earlier entry wins, so declaration order is the explicit tie-break.
var departmentRouting = []struct {
	department string
	keywords   []string
}{
	{"Emergency Medicine", []string{"severe", "acute", "trauma", "immediate", "emergency", "life-threatening"}},
	{"Cardiology", []string{"chest pain", "heart", "palpitation", "cardiac", "angina", "hypertension"}},
	{"Pulmonology", []string{"breathing", "cough", "lung", "respiratory", "asthma", "pneumonia"}},
	{"Gastroenterology", []string{"abdominal pain", "nausea", "vomiting", "diarrhea", "stomach", "liver"}},
	{"Neurology", []string{"headache", "migraine", "numbness", "seizure", "stroke", "confusion", "dizziness"}},
	{"Orthopedics", []string{"bone", "joint pain", "fracture", "sprain", "back pain", "arthritis", "leg pain", "knee pain", "ankle pain"}},
	{"Dermatology", []string{"rash", "itching", "skin", "swelling", "lesion"}},
	{"ENT", []string{"sore throat", "ear pain", "hearing", "runny nose", "sinus"}},
	{"Infectious Disease", []string{"fever", "infection", "sepsis", "tuberculosis", "influenza"}},
	{"Obstetrics & Gynecology", []string{"pregnant", "pregnancy", "pelvic pain", "vaginal bleeding", "missed period"}},
}

const defaultDepartment = "General Medicine"

var triageMessages = map[int]string{
	1: "🚨 IMMEDIATE EMERGENCY - Call 911 or go to ER NOW",
	2: "⚠️ URGENT - Seek emergency care within 1 hour",
	3: "⚠️ PRIORITY - See a doctor within 24 hours",
	4: "ℹ️ ROUTINE - Schedule appointment within 3-7 days",
	5: "ℹ️ NON-URGENT - Routine checkup when convenient",
}

// TriageMessage returns the patient-facing action line for a level.
func TriageMessage(level int) string {
	return triageMessages[level]
}

// Engine produces assessments. Diagnose never fails: LLM errors fall back
// to rule-based diagnoses, and an internal panic degrades to a
// mid-priority assessment rather than surfacing.
type Engine struct {
	llm llm.Client
	log *zap.Logger
}

func NewEngine(client llm.Client) *Engine {
	return &Engine{llm: client, log: logging.With(zap.String("component", "triage"))}
}

// Diagnose assesses a completed patient record.
func (e *Engine) Diagnose(ctx context.Context, patient *pkg.PatientProfile) (result pkg.Assessment) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("assessment panicked, degrading to priority referral", zap.Any("panic", r))
			result = degradedAssessment()
		}
	}()

	diagnoses := e.differentials(ctx, patient)
	level := calculateTriage(patient, diagnoses)

	return pkg.Assessment{
		Diagnoses:     diagnoses,
		TriageLevel:   level,
		TriageMessage: triageMessages[level],
		Department:    routeDepartment(patient, diagnoses),
	}
}

func degradedAssessment() pkg.Assessment {
	return pkg.Assessment{
		Diagnoses:     defaultFallback(),
		TriageLevel:   3,
		TriageMessage: triageMessages[3],
		Department:    defaultDepartment,
	}
}

func (e *Engine) differentials(ctx context.Context, patient *pkg.PatientProfile) []pkg.Diagnosis {
	response, err := e.llm.Generate(ctx, diagnosisPrompt(patient), llm.Options{
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		e.log.Warn("diagnosis generation failed, using fallback", zap.Error(err))
		return fallbackDiagnosis(patient)
	}

	diagnoses := parseDiagnosisResponse(response)
	if len(diagnoses) == 0 {
		e.log.Warn("no parseable diagnoses in response, using fallback")
		diagnoses = fallbackDiagnosis(patient)
	}
	if len(diagnoses) > maxDiagnoses {
		diagnoses = diagnoses[:maxDiagnoses]
	}
	return diagnoses
}

var (
	diagnosisLineRe = regexp.MustCompile(`^\d+\.\s`)
	lineNumberRe    = regexp.MustCompile(`^\d+\.\s*`)
	percentRe       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
)

// parseDiagnosisResponse extracts diagnoses from numbered lines of the
// form "N. Name - P% - explanation". Lines without a percentage get a
// decaying default probability; malformed lines are skipped.
func parseDiagnosisResponse(response string) []pkg.Diagnosis {
	var diagnoses []pkg.Diagnosis
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if !diagnosisLineRe.MatchString(line) {
			continue
		}
		line = lineNumberRe.ReplaceAllString(line, "")
		parts := strings.Split(line, "-")
		if len(parts) < 2 {
			continue
		}

		disease := strings.TrimSpace(parts[0])
		if disease == "" {
			continue
		}

		probability := 0.7 / float64(len(diagnoses)+1)
		if m := percentRe.FindStringSubmatch(parts[1]); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				probability = v / 100
			}
		}

		explanation := strings.TrimSpace(parts[1])
		if len(parts) > 2 {
			explanation = strings.TrimSpace(strings.Join(parts[2:], "-"))
		}
		explanation = strings.TrimSpace(percentRe.ReplaceAllString(explanation, ""))
		if len(explanation) > 200 {
			explanation = explanation[:200]
		}

		diagnoses = append(diagnoses, pkg.Diagnosis{
			Disease:     disease,
			Probability: probability,
			Confidence:  confidenceFor(probability),
			Explanation: explanation,
		})
	}
	return diagnoses
}

func confidenceFor(probability float64) pkg.Confidence {
	switch {
	case probability >= 0.7:
		return pkg.ConfidenceHigh
	case probability >= 0.4:
		return pkg.ConfidenceModerate
	default:
		return pkg.ConfidenceLow
	}
}

// fallbackDiagnosis supplies rule-based differentials when the LLM gives
// nothing usable. Clusters are keyed on the dominant symptom and, for
// fever, on whether the duration reads as acute.
func fallbackDiagnosis(patient *pkg.PatientProfile) []pkg.Diagnosis {
	symptoms := strings.ToLower(strings.Join(patient.Symptoms, " "))
	duration := strings.ToLower(patient.Duration)

	shortDuration := false
	for _, term := range []string{"day", "days", "hour", "hours", "yesterday", "today"} {
		if strings.Contains(duration, term) {
			shortDuration = true
			break
		}
	}

	switch {
	case strings.Contains(symptoms, "fever") && shortDuration:
		return []pkg.Diagnosis{
			{Disease: "Viral Upper Respiratory Infection", Probability: 0.65, Confidence: pkg.ConfidenceModerate,
				Explanation: "Common viral infection causing fever and systemic symptoms"},
			{Disease: "Influenza", Probability: 0.25, Confidence: pkg.ConfidenceModerate,
				Explanation: "Flu virus causing acute fever and body aches"},
			{Disease: "Viral Syndrome", Probability: 0.10, Confidence: pkg.ConfidenceLow,
				Explanation: "Non-specific viral illness"},
		}
	case strings.Contains(symptoms, "fever"):
		return []pkg.Diagnosis{
			{Disease: "Bacterial Infection", Probability: 0.50, Confidence: pkg.ConfidenceModerate,
				Explanation: "Persistent fever may indicate bacterial infection requiring evaluation"},
			{Disease: "Chronic Viral Infection", Probability: 0.30, Confidence: pkg.ConfidenceLow,
				Explanation: "Prolonged viral illness"},
			{Disease: "Other Infectious Disease", Probability: 0.20, Confidence: pkg.ConfidenceLow,
				Explanation: "Requires further diagnostic workup"},
		}
	case strings.Contains(symptoms, "leg pain"), strings.Contains(symptoms, "knee pain"):
		return []pkg.Diagnosis{
			{Disease: "Musculoskeletal Strain", Probability: 0.60, Confidence: pkg.ConfidenceModerate,
				Explanation: "Muscle or joint strain from overuse or injury"},
			{Disease: "Osteoarthritis", Probability: 0.30, Confidence: pkg.ConfidenceLow,
				Explanation: "Degenerative joint disease"},
			{Disease: "Peripheral Neuropathy", Probability: 0.10, Confidence: pkg.ConfidenceLow,
				Explanation: "Nerve-related pain"},
		}
	default:
		return defaultFallback()
	}
}

func defaultFallback() []pkg.Diagnosis {
	return []pkg.Diagnosis{
		{Disease: "Non-specific Illness", Probability: 0.60, Confidence: pkg.ConfidenceLow,
			Explanation: "Symptoms require in-person medical evaluation for accurate diagnosis"},
		{Disease: "Viral Syndrome", Probability: 0.30, Confidence: pkg.ConfidenceLow,
			Explanation: "General viral illness"},
		{Disease: "Requires Clinical Evaluation", Probability: 0.10, Confidence: pkg.ConfidenceLow,
			Explanation: "Further diagnostic workup needed"},
	}
}

// assessmentText joins everything the urgency and routing rules scan:
// symptoms plus diagnosis names and explanations.
func assessmentText(patient *pkg.PatientProfile, diagnoses []pkg.Diagnosis) string {
	parts := make([]string, 0, len(patient.Symptoms)+2*len(diagnoses))
	parts = append(parts, patient.Symptoms...)
	for _, d := range diagnoses {
		parts = append(parts, d.Disease, d.Explanation)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

var severityScoreRe = regexp.MustCompile(`(\d+)`)

// calculateTriage applies the urgency cascade: emergency keywords, then
// the reported severity (numeric before textual), then a duration rule
// for fever, then non-urgent. First match wins.
func calculateTriage(patient *pkg.PatientProfile, diagnoses []pkg.Diagnosis) int {
	text := assessmentText(patient, diagnoses)

	for _, tier := range triageKeywords {
		for _, kw := range tier.keywords {
			if strings.Contains(text, kw) {
				return clampLevel(tier.level)
			}
		}
	}

	if patient.Severity != "" {
		if m := severityScoreRe.FindStringSubmatch(patient.Severity); m != nil {
			score, _ := strconv.Atoi(m[1])
			switch {
			case score >= 9:
				return 2
			case score >= 7:
				return 3
			case score >= 5:
				return 4
			default:
				return 5
			}
		}
		severity := strings.ToLower(patient.Severity)
		switch {
		case strings.Contains(severity, "severe"):
			return 2
		case strings.Contains(severity, "moderate"):
			return 4
		case strings.Contains(severity, "mild"):
			return 5
		}
	}

	if strings.Contains(text, "fever") {
		duration := strings.ToLower(patient.Duration)
		for _, term := range []string{"day", "days", "1", "2", "3"} {
			if strings.Contains(duration, term) {
				return 5
			}
		}
		return 4
	}

	return 5
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 5 {
		return 5
	}
	return level
}

// routeDepartment picks the department whose keyword set scores the most
// hits against the assessment text. A confirmed pregnancy short-circuits
// to obstetrics regardless of scores.
func routeDepartment(patient *pkg.PatientProfile, diagnoses []pkg.Diagnosis) string {
	if patient.IsPregnant != nil && *patient.IsPregnant {
		return "Obstetrics & Gynecology"
	}

	text := assessmentText(patient, diagnoses)
	best, bestScore := defaultDepartment, 0
	for _, route := range departmentRouting {
		score := 0
		for _, kw := range route.keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = route.department, score
		}
	}
	return best
}
