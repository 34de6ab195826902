package triage

import (
	"fmt"
	"strings"

	"intellicare/pkg"
)

// diagnosisPrompt renders the patient record into the differential
// diagnosis request. The output contract (numbered "Name - P% -
// explanation" lines) is what parseDiagnosisResponse expects back.
func diagnosisPrompt(patient *pkg.PatientProfile) string {
	var b strings.Builder
	b.WriteString("You are an experienced medical doctor. Based on the patient information below, provide the top 3 most likely differential diagnoses.\n\n")
	b.WriteString("PATIENT INFORMATION:\n")

	if patient.Age != nil {
		fmt.Fprintf(&b, "Age: %d years\n", *patient.Age)
	}
	if patient.Gender != "" {
		fmt.Fprintf(&b, "Gender: %s\n", patient.Gender)
	}
	if patient.IsPregnant != nil {
		pregnant := "No"
		if *patient.IsPregnant {
			pregnant = "Yes"
		}
		fmt.Fprintf(&b, "Pregnant: %s\n", pregnant)
	}

	if len(patient.Symptoms) > 0 {
		b.WriteString("\nChief Complaints:\n")
		for _, s := range patient.Symptoms {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	if patient.Duration != "" {
		fmt.Fprintf(&b, "\nDuration: %s\n", patient.Duration)
	}
	if patient.Severity != "" {
		fmt.Fprintf(&b, "Severity: %s\n", patient.Severity)
	}

	if history := meaningfulHistory(patient.MedicalHistory); len(history) > 0 {
		b.WriteString("\nMedical History:\n")
		for _, item := range history {
			fmt.Fprintf(&b, "  - %s\n", item)
		}
	}

	b.WriteString(`
TASK: Provide exactly 3 differential diagnoses in this exact format:

1. [Disease Name] - [Probability percentage]% - Brief explanation (1-2 sentences)
2. [Disease Name] - [Probability percentage]% - Brief explanation (1-2 sentences)
3. [Disease Name] - [Probability percentage]% - Brief explanation (1-2 sentences)

Guidelines:
- List from most likely to least likely
- Probability should be realistic and match the clinical picture
- For acute symptoms of short duration (days), prioritize common acute conditions
- For fever of 2-3 days with mild severity, think viral infection, flu, common cold
- Do NOT suggest rare diseases like tuberculosis for simple short-duration fever
- Consider age, gender, symptoms, duration, and severity
- Keep explanations brief and clinical

Your diagnosis:`)

	return b.String()
}

// meaningfulHistory filters out bare negatives that occasionally survive
// parsing as list entries.
func meaningfulHistory(history []string) []string {
	var out []string
	for _, item := range history {
		switch strings.ToLower(strings.TrimSpace(item)) {
		case "", "no", "none", "nothing":
			continue
		}
		out = append(out, item)
	}
	return out
}
