package intake

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"intellicare/internal/llm"
	"intellicare/internal/logging"
	"intellicare/pkg"
)

// Planner decides the next question for a session: first the canned
// prompts for missing required items in priority order, then the
// conditional pregnancy question, then up to three LLM-generated
// symptom-specific follow-ups with deterministic fallbacks.
type Planner struct {
	llm llm.Client
	log *zap.Logger
}

func NewPlanner(client llm.Client) *Planner {
	return &Planner{llm: client, log: logging.With(zap.String("component", "planner"))}
}

// Plan returns the next question, or "" when nothing remains to ask and
// the session should move to assessment.
func (p *Planner) Plan(ctx context.Context, state *State, patient *pkg.PatientProfile, lastAnswer string) string {
	if current := state.CurrentQuestion(); current != "" {
		return cannedQuestions[current]
	}

	if !state.pregnancyAsked && patient.Gender == pkg.GenderFemale &&
		childbearingAge(patient.Age) && isPregnancyRelevant(patient.Symptoms) {
		state.pregnancyAsked = true
		state.awaitingPregnant = true
		return pregnancyQuestion
	}

	if state.CanAskAdaptive() && len(patient.Symptoms) > 0 {
		// two unproductive attempts on a round is enough; move on
		if state.adaptiveAttempts >= maxAdaptiveAttempts {
			state.MarkAdaptiveAsked()
		}
		if state.CanAskAdaptive() {
			state.adaptiveAttempts++
			question := p.generateAdaptive(ctx, patient, state, lastAnswer)
			if question == state.lastQuestion {
				p.log.Debug("duplicate follow-up generated, using fallback")
				question = fallbackQuestion(patient, state)
			}
			state.lastQuestion = question
			return question
		}
	}

	return ""
}

// childbearingAge gates the pregnancy question: an unknown age still asks,
// a known age outside 15-50 does not.
func childbearingAge(age *int) bool {
	return age == nil || (*age >= 15 && *age <= 50)
}

// generateAdaptive asks the LLM for one follow-up question and validates
// the result; any failure falls back to the fixed question bank.
func (p *Planner) generateAdaptive(ctx context.Context, patient *pkg.PatientProfile, state *State, lastAnswer string) string {
	raw, err := p.llm.Generate(ctx, adaptivePrompt(patient, state, lastAnswer), llm.Options{
		MaxTokens:   60,
		Temperature: 0.7,
	})
	if err != nil {
		p.log.Warn("follow-up generation failed", zap.Error(err))
		return fallbackQuestion(patient, state)
	}

	question := cleanQuestion(raw)

	lower := strings.ToLower(question)
	for _, phrase := range []string{"how long", "duration", "how severe", "rate", "scale of"} {
		if strings.Contains(lower, phrase) {
			p.log.Debug("generated question re-asks known info", zap.String("question", question))
			return fallbackQuestion(patient, state)
		}
	}
	if len(question) < 10 || len(question) > 250 {
		return fallbackQuestion(patient, state)
	}
	return question
}

var (
	questionPrefixRe = regexp.MustCompile(`(?i)^(Question:|Here's a question:|I would ask:|Ask:|Query:)`)
	bracketedRe      = regexp.MustCompile(`\[.*?\]`)

	// parentheticals that are the model talking to itself, not options
	// for the patient
	instructionRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\(.*?taking notes.*?\)`),
		regexp.MustCompile(`(?i)\(.*?preparing.*?\)`),
		regexp.MustCompile(`(?i)\(.*?assessment.*?\)`),
		regexp.MustCompile(`(?i)\(.*?while.*?\)`),
		regexp.MustCompile(`(?i)\(.*?next step.*?\)`),
		regexp.MustCompile(`(?i)\(.*?these questions.*?\)`),
	}

	metaPhrases = []string{
		"taking notes", "preparing for", "next step in",
		"these questions", "ask these", "mr.", "mrs.", "ms.",
		"during the assessment", "while examining",
	}
)

// cleanQuestion strips model chatter from a generated follow-up while
// keeping clarifying options in parentheses, then normalizes it down to a
// single question ending in '?'.
func cleanQuestion(response string) string {
	response = strings.TrimSpace(questionPrefixRe.ReplaceAllString(response, ""))
	response = bracketedRe.ReplaceAllString(response, "")
	for _, re := range instructionRes {
		response = re.ReplaceAllString(response, "")
	}

	var kept []string
	for _, sentence := range strings.Split(response, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		meta := false
		for _, phrase := range metaPhrases {
			if strings.Contains(lower, phrase) {
				meta = true
				break
			}
		}
		if !meta {
			kept = append(kept, sentence)
		}
	}
	response = strings.TrimSpace(strings.Join(kept, ". "))

	if idx := strings.Index(response, "?"); idx >= 0 {
		response = response[:idx+1]
	}
	response = strings.TrimRight(response, ".,;:!")
	if !strings.HasSuffix(response, "?") {
		response += "?"
	}
	return strings.TrimSpace(response)
}
