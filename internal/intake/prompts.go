package intake

import (
	"fmt"
	"regexp"
	"strings"

	"intellicare/pkg"
)

// Greeting opens every new session.
const Greeting = "Hello! I'm here to help assess your symptoms. What brings you here today?"

// TooShortMessage is returned when the opening message is too short to
// describe a health concern.
const TooShortMessage = "⚠️ Please describe your medical symptoms or health concerns. This system is designed for medical symptom assessment only."

// RejectionMessage is returned when the opening message has no medical
// content at all.
const RejectionMessage = `⚠️ I'm a medical symptom assessment assistant and can only help with health-related concerns.

Please describe your medical symptoms or health issues, such as:
- Physical symptoms (pain, fever, nausea, dizziness, etc.)
- How long you've been experiencing them
- Any concerns about your health

Examples of valid queries:
✅ "I have a headache and fever"
✅ "I'm feeling dizzy and nauseous"
✅ "I have chest pain that started this morning"
✅ "My stomach hurts and I've been vomiting"
✅ "I'm experiencing shortness of breath"

For non-medical questions, please use a general-purpose assistant.

Thank you for understanding! 🏥`

// NoSymptomsMessage closes a session that somehow completed without any
// symptoms on record.
const NoSymptomsMessage = "I'm sorry, I couldn't collect enough information about your symptoms. Please start over and describe your symptoms."

// cannedQuestions are the fixed prompts for each required item. Optional
// items carry the skip affordance; required ones don't offer it.
var cannedQuestions = map[InfoItem]string{
	ItemAge:      "May I ask your age? (You can say 'skip' if you prefer not to share)",
	ItemGender:   "What is your gender? (You can say 'skip' if you prefer not to share)",
	ItemSymptoms: "Could you describe the symptoms you're experiencing?",
	ItemDuration: "How long have you been experiencing these symptoms?",
	ItemSeverity: "On a scale of 1-10, how severe would you rate your symptoms?",
	ItemHistory:  "Do you have any medical history or chronic conditions (like diabetes, hypertension, asthma, heart disease, etc.) that I should know about?",
}

const pregnancyQuestion = "Is there any chance you could be pregnant, or are you currently pregnant? (You can say 'skip' if you prefer not to share)"

// pregnancyRelevantSymptoms trigger the pregnancy question for female
// patients.
var pregnancyRelevantSymptoms = []string{
	"nausea", "vomiting", "fatigue", "missed period", "abdominal pain",
	"pelvic pain", "cramping", "vaginal bleeding", "dizziness", "weakness",
	"morning sickness", "tender breasts", "breast tenderness",
}

func isPregnancyRelevant(symptoms []string) bool {
	if len(symptoms) == 0 {
		return false
	}
	joined := strings.ToLower(strings.Join(symptoms, " "))
	for _, s := range pregnancyRelevantSymptoms {
		if strings.Contains(joined, s) {
			return true
		}
	}
	return false
}

// adaptivePrompt builds the LLM prompt for one symptom-specific follow-up.
// It spells out what is already known so the model doesn't re-ask, and
// steers each of the three rounds toward a different clinical angle.
func adaptivePrompt(patient *pkg.PatientProfile, state *State, lastAnswer string) string {
	symptoms := strings.Join(patient.Symptoms, ", ")
	duration := patient.Duration
	if duration == "" {
		duration = "unknown duration"
	}
	severity := patient.Severity
	if severity == "" {
		severity = "unknown severity"
	}
	history := "none reported"
	if len(patient.MedicalHistory) > 0 {
		history = strings.Join(patient.MedicalHistory, ", ")
	}

	return fmt.Sprintf(`You are a medical assistant asking follow-up questions about symptoms.

Patient already told us:
- Symptoms: %s
- Duration: %s
- Severity: %s
- Medical history: %s
- Previous answer: %q

This is question %d of %d.

Generate ONE brief follow-up question to gather NEW information we don't already have.

DO NOT ask about:
- Duration (we already know: %s)
- Severity (we already know: %s)
- Medical history (we already know: %s)

Focus areas for this question:
Question 1: Associated symptoms they haven't mentioned (fever, nausea, headache, etc.)
Question 2: Timing and triggers (worse at certain times? triggered by activity?)
Question 3: Impact and relief (what helps? how does it affect daily life?)

Rules:
- Keep under 20 words
- Include examples in parentheses when helpful
- Ask ONLY one question
- Don't repeat what they already told us

Question:`,
		symptoms, duration, severity, history, lastAnswer,
		state.AdaptiveAsked()+1, maxAdaptiveQuestions,
		duration, severity, history)
}

// fallbackQuestion supplies a deterministic follow-up when LLM generation
// fails or produces something unusable. Each round has its own bank keyed
// on the symptom picture, matching the round's focus area.
func fallbackQuestion(patient *pkg.PatientProfile, state *State) string {
	joined := strings.ToLower(strings.Join(patient.Symptoms, " "))
	round := state.AdaptiveAsked() + 1

	hasAny := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(joined, s) {
				return true
			}
		}
		return false
	}

	switch round {
	case 1:
		switch {
		case hasAny("dizzy", "dizziness", "weak", "weakness"):
			return "Are you experiencing any other symptoms like nausea, headache, blurred vision, or chest pain?"
		case hasAny("fever"):
			return "Do you have any other symptoms like cough, body aches, headache, or sore throat?"
		case hasAny("pain"):
			return "Can you describe the pain quality (sharp, dull, throbbing, or burning)?"
		default:
			return "Are there any other symptoms you've noticed along with this?"
		}
	case 2:
		switch {
		case hasAny("dizzy", "dizziness"):
			return "Does the dizziness happen all the time, or is it triggered by certain movements (like standing up or turning your head)?"
		case hasAny("weak", "weakness"):
			return "Is the weakness constant throughout the day, or does it get worse at certain times?"
		case hasAny("pain"):
			return "When does the pain feel the worst (morning, evening, during activity, at rest)?"
		default:
			return "Are your symptoms constant or do they come and go?"
		}
	default:
		switch {
		case hasAny("dizzy", "dizziness", "weak", "weakness"):
			return "Have you noticed anything that makes you feel better (like rest, eating, drinking fluids)?"
		case hasAny("pain"):
			return "What helps relieve the pain (rest, medications, heat/ice)?"
		default:
			return "How are these symptoms affecting your daily activities?"
		}
	}
}

// nonMedicalPatterns reject opening messages with clearly non-medical
// intent: arithmetic, smalltalk, questions about the assistant itself,
// and general-knowledge queries.
var nonMedicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s*[\+\-\*/×÷]\s*\d+`),
	regexp.MustCompile(`what is \d+`),
	regexp.MustCompile(`calculate`),
	regexp.MustCompile(`solve`),
	regexp.MustCompile(`equation`),
	regexp.MustCompile(`answer`),
	regexp.MustCompile(`^(hi|hello|hey|good morning|good evening|sup|yo)$`),
	regexp.MustCompile(`what can you do`),
	regexp.MustCompile(`how do you work`),
	regexp.MustCompile(`who are you`),
	regexp.MustCompile(`what are you`),
	regexp.MustCompile(`your capabilities`),
	regexp.MustCompile(`your purpose`),
	regexp.MustCompile(`weather`),
	regexp.MustCompile(`\btime\b`),
	regexp.MustCompile(`\bdate\b`),
	regexp.MustCompile(`news`),
	regexp.MustCompile(`sports`),
	regexp.MustCompile(`joke`),
	regexp.MustCompile(`story`),
	regexp.MustCompile(`recipe`),
	regexp.MustCompile(`cooking`),
	regexp.MustCompile(`directions`),
	regexp.MustCompile(`navigate`),
	regexp.MustCompile(`movie`),
	regexp.MustCompile(`music`),
	regexp.MustCompile(`game`),
}

// medicalKeywords rescue opening messages that describe a health concern
// in words the symptom vocabulary doesn't cover.
var medicalKeywords = []string{
	"pain", "hurt", "ache", "sore", "sick", "ill", "unwell", "feel",
	"symptom", "problem", "issue", "concern", "worried", "doctor",
	"hospital", "medicine", "medication", "treatment", "diagnosis",
	"suffering", "uncomfortable", "discomfort", "bad", "terrible",
	"awful", "worse", "better", "injury", "injured", "wound",
	"bleeding", "swollen", "infected", "infection", "disease",
	"condition", "health", "medical", "emergency", "urgent",
}
