package intake

import (
	"regexp"
	"strconv"
	"strings"

	"intellicare/pkg"
)

// skipPhrases are decline responses that mark an optional item skipped.
var skipPhrases = []string{
	"skip", "prefer not to say", "prefer not to share", "rather not say",
	"dont want to", "don't want to", "pass", "next question",
}

// Parser turns a free-text answer into structured updates on the patient
// record and dialogue state. Dispatch is strict: an answer is only applied
// to the field currently being asked, never to another field it happens to
// resemble, so a misparsed later answer can't overwrite an earlier
// confirmed one.
type Parser struct {
	lexicon  *Lexicon
	handlers map[InfoItem]func(p *Parser, text string, patient *pkg.PatientProfile, state *State)
}

// NewParser builds a parser over the given lexicon.
func NewParser(lexicon *Lexicon) *Parser {
	p := &Parser{lexicon: lexicon}
	p.handlers = map[InfoItem]func(*Parser, string, *pkg.PatientProfile, *State){
		ItemAge:      (*Parser).parseAge,
		ItemGender:   (*Parser).parseGender,
		ItemSymptoms: (*Parser).parseSymptomsOnly,
		ItemDuration: (*Parser).parseDuration,
		ItemSeverity: (*Parser).parseSeverity,
		ItemHistory:  (*Parser).parseHistory,
	}
	return p
}

// Parse applies one user answer. Symptom extraction always runs and merges
// into the record; the field handler for the current expected question runs
// afterwards. Updates are all-or-nothing per field: a handler either
// records a complete value and marks the item, or leaves both untouched.
func (p *Parser) Parse(text string, patient *pkg.PatientProfile, state *State) {
	p.mergeSymptoms(text, patient, state)

	if state.awaitingPregnant {
		p.parsePregnancy(text, patient, state)
		return
	}

	current := state.CurrentQuestion()
	if current == "" {
		// adaptive phase: the reply is free elaboration, symptom merge
		// above is all the structure we take from it
		return
	}
	if handler, ok := p.handlers[current]; ok {
		handler(p, text, patient, state)
	}
}

func (p *Parser) mergeSymptoms(text string, patient *pkg.PatientProfile, state *State) {
	extracted := p.lexicon.Extract(text)
	if len(extracted) == 0 {
		return
	}
	have := make(map[string]bool, len(patient.Symptoms))
	for _, s := range patient.Symptoms {
		have[strings.ToLower(s)] = true
	}
	for _, s := range extracted {
		if !have[s] {
			have[s] = true
			patient.Symptoms = append(patient.Symptoms, s)
		}
	}
	if len(patient.Symptoms) > 0 {
		state.MarkCollected(ItemSymptoms)
	}
}

// isSkip reports whether the reply declines to answer. A bare short "no"
// also counts, but callers must only honor skips for optional items.
func isSkip(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, phrase := range skipPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	switch lower {
	case "no", "nope", "nah":
		return true
	}
	return false
}

func (p *Parser) parseAge(text string, patient *pkg.PatientProfile, state *State) {
	if isSkip(text) {
		state.MarkSkipped(ItemAge)
		return
	}
	if age, ok := extractAge(text); ok {
		patient.Age = &age
		state.MarkCollected(ItemAge)
	}
}

func (p *Parser) parseGender(text string, patient *pkg.PatientProfile, state *State) {
	if isSkip(text) {
		state.MarkSkipped(ItemGender)
		return
	}
	if g, ok := extractGender(text); ok {
		patient.Gender = g
		state.MarkCollected(ItemGender)
	}
}

// parseSymptomsOnly exists so the dispatch table covers every item; the
// unconditional merge in Parse already did the work.
func (p *Parser) parseSymptomsOnly(string, *pkg.PatientProfile, *State) {}

func (p *Parser) parseDuration(text string, patient *pkg.PatientProfile, state *State) {
	if d, ok := extractDuration(text); ok {
		patient.Duration = d
		state.MarkCollected(ItemDuration)
	}
}

var bareNumberRe = regexp.MustCompile(`^\s*\d+\s*$`)

func (p *Parser) parseSeverity(text string, patient *pkg.PatientProfile, state *State) {
	lower := strings.ToLower(text)
	rated := bareNumberRe.MatchString(text)
	for _, cue := range []string{"rate", "scale", "severe", "mild", "moderate", "pain level"} {
		if strings.Contains(lower, cue) {
			rated = true
			break
		}
	}
	// plain numbers inside rating-shaped replies still count ("it's a 7")
	if !rated && severityScoreRe.MatchString(text) {
		rated = true
	}
	if !rated {
		return
	}
	if sev, ok := extractSeverity(text); ok {
		patient.Severity = sev
		state.MarkCollected(ItemSeverity)
	}
}

func (p *Parser) parseHistory(text string, patient *pkg.PatientProfile, state *State) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if !looksLikeHistoryAnswer(lower) {
		return
	}
	conditions, ok := extractMedicalHistory(text)
	if !ok {
		return
	}
	if len(conditions) > 0 {
		have := make(map[string]bool, len(patient.MedicalHistory))
		for _, c := range patient.MedicalHistory {
			have[c] = true
		}
		for _, c := range conditions {
			if !have[c] {
				have[c] = true
				patient.MedicalHistory = append(patient.MedicalHistory, c)
			}
		}
	}
	if patient.MedicalHistory == nil {
		// explicit "no history" is an answer, distinct from never asked
		patient.MedicalHistory = []string{}
	}
	state.MarkCollected(ItemHistory)
}

// parsePregnancy consumes the one pregnancy answer. The question is asked
// at most once: an answer we can't interpret leaves the status unknown
// rather than re-asking.
func (p *Parser) parsePregnancy(text string, patient *pkg.PatientProfile, state *State) {
	state.awaitingPregnant = false
	if patient.Gender != pkg.GenderFemale {
		return
	}
	if isSkip(text) {
		f := false
		patient.IsPregnant = &f
		return
	}
	if preg, ok := extractPregnancy(text); ok {
		patient.IsPregnant = &preg
	}
}

// ---- field extractors ----

var ageRe = regexp.MustCompile(`\b(\d{1,3})\b`)

func extractAge(text string) (int, bool) {
	for _, m := range ageRe.FindAllString(text, -1) {
		n, err := strconv.Atoi(m)
		if err == nil && n > 0 && n < 120 {
			return n, true
		}
	}
	return 0, false
}

var (
	femaleTokens = []string{"female", "woman", "girl", "lady"}
	maleTokens   = []string{"male", "man", "boy", "gentleman"}
)

// extractGender checks female-indicating tokens before male-indicating
// ones: "male" is a substring of "female", so the reverse order would
// misread "I am female" as male.
func extractGender(text string) (pkg.Gender, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, tok := range femaleTokens {
		if strings.Contains(lower, tok) {
			return pkg.GenderFemale, true
		}
	}
	for _, tok := range maleTokens {
		if strings.Contains(lower, tok) && !strings.Contains(lower, "female") {
			return pkg.GenderMale, true
		}
	}
	switch lower {
	case "f":
		return pkg.GenderFemale, true
	case "m":
		return pkg.GenderMale, true
	case "other", "non-binary", "nonbinary":
		return pkg.GenderOther, true
	}
	return "", false
}

var durationPatterns = []struct {
	re   *regexp.Regexp
	unit string
}{
	{regexp.MustCompile(`(\d+)\s*days?`), "days"},
	{regexp.MustCompile(`(\d+)\s*weeks?`), "weeks"},
	{regexp.MustCompile(`(\d+)\s*months?`), "months"},
	{regexp.MustCompile(`(\d+)\s*years?`), "years"},
	{regexp.MustCompile(`(\d+)\s*hours?`), "hours"},
}

var wordNumbers = []struct {
	word string
	num  string
}{
	{"one", "1"}, {"two", "2"}, {"three", "3"}, {"four", "4"}, {"five", "5"},
	{"six", "6"}, {"seven", "7"}, {"eight", "8"}, {"nine", "9"}, {"ten", "10"},
	{"couple", "2"}, {"few", "3"}, {"several", "3"},
}

func extractDuration(text string) (string, bool) {
	lower := strings.ToLower(text)

	for _, p := range durationPatterns {
		if m := p.re.FindStringSubmatch(lower); m != nil {
			return m[1] + " " + p.unit, true
		}
	}

	switch {
	case strings.Contains(lower, "yesterday"):
		return "1 day", true
	case strings.Contains(lower, "today"), strings.Contains(lower, "this morning"):
		return "less than 1 day", true
	case strings.Contains(lower, "last week"):
		return "1 week", true
	case strings.Contains(lower, "last month"):
		return "1 month", true
	}

	for _, wn := range wordNumbers {
		for unit, plural := range map[string]string{"day": "days", "week": "weeks", "month": "months", "year": "years"} {
			if strings.Contains(lower, wn.word+" "+unit) {
				return wn.num + " " + plural, true
			}
		}
	}
	return "", false
}

var severityScoreRe = regexp.MustCompile(`\b(\d{1,2})\b`)

// extractSeverity prefers a numeric 1-10 rating over descriptive terms.
// Numeric scores are banded: 1-3 mild, 4-6 moderate, 7-10 severe.
func extractSeverity(text string) (string, bool) {
	lower := strings.ToLower(text)

	for _, m := range severityScoreRe.FindAllString(text, -1) {
		score, err := strconv.Atoi(m)
		if err != nil || score < 1 || score > 10 {
			continue
		}
		band := "severe"
		switch {
		case score <= 3:
			band = "mild"
		case score <= 6:
			band = "moderate"
		}
		return band + " (" + m + "/10)", true
	}

	for _, w := range []string{"severe", "extreme", "unbearable", "worst", "terrible", "intense"} {
		if strings.Contains(lower, w) {
			return "severe", true
		}
	}
	for _, w := range []string{"moderate", "manageable", "noticeable", "significant", "fairly bad"} {
		if strings.Contains(lower, w) {
			return "moderate", true
		}
	}
	for _, w := range []string{"mild", "slight", "minor", "little", "light", "bearable"} {
		if strings.Contains(lower, w) {
			return "mild", true
		}
	}
	return "", false
}

// historyConditions maps canonical condition names to their keyword cues.
// Declared as an ordered list so extraction output order is stable.
var historyConditions = []struct {
	condition string
	keywords  []string
}{
	{"diabetes", []string{"diabetes", "diabetic", "sugar"}},
	{"hypertension", []string{"hypertension", "high blood pressure", "bp"}},
	{"asthma", []string{"asthma", "breathing problem"}},
	{"heart disease", []string{"heart disease", "cardiac", "heart problem", "heart attack", "angina"}},
	{"kidney disease", []string{"kidney", "renal"}},
	{"liver disease", []string{"liver", "hepatitis"}},
	{"thyroid", []string{"thyroid", "hyperthyroid", "hypothyroid"}},
	{"cancer", []string{"cancer", "tumor", "malignancy"}},
	{"arthritis", []string{"arthritis", "joint disease"}},
	{"epilepsy", []string{"epilepsy", "seizures", "fits"}},
	{"stroke", []string{"stroke", "cva"}},
	{"copd", []string{"copd", "emphysema", "chronic bronchitis"}},
	{"migraine", []string{"migraine", "chronic headache"}},
	{"depression", []string{"depression", "anxiety", "mental health"}},
	{"allergies", []string{"allergy", "allergies", "allergic"}},
}

var historyKeywords = []string{
	"diabetes", "hypertension", "asthma", "heart", "kidney",
	"liver", "thyroid", "cancer", "arthritis", "epilepsy",
	"stroke", "copd", "migraine", "depression", "allergy",
}

// looksLikeHistoryAnswer filters out replies that clearly aren't answering
// the medical-history question yet: anything short, anything naming a known
// condition, or a clear negative counts as an answer.
func looksLikeHistoryAnswer(lower string) bool {
	if len(strings.Fields(lower)) <= 5 {
		return true
	}
	for _, kw := range historyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, neg := range []string{"no", "none", "nothing", "nope", "not that i know"} {
		if strings.Contains(lower, neg) {
			return true
		}
	}
	return false
}

// extractMedicalHistory returns the canonical conditions mentioned, an
// empty slice for an explicit negative answer, or ok=false when the text
// isn't interpretable as a history answer. An explicit "no" is a valid,
// complete answer: absence of history is not the same as never asked.
func extractMedicalHistory(text string) ([]string, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))

	switch lower {
	case "no", "none", "nope", "nothing", "not really", "no medical history":
		return []string{}, true
	}
	negatives := []string{"no medical", "no chronic", "nothing", "not that i know",
		"no history", "no conditions", "don't have any"}
	if len(strings.Fields(lower)) <= 10 {
		for _, neg := range negatives {
			if strings.Contains(lower, neg) {
				return []string{}, true
			}
		}
	}

	var found []string
	for _, hc := range historyConditions {
		for _, kw := range hc.keywords {
			if strings.Contains(lower, kw) {
				found = append(found, hc.condition)
				break
			}
		}
	}
	if len(found) > 0 {
		return found, true
	}

	// medical-sounding free text without a dictionary hit is kept verbatim
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > 10 && !strings.Contains(lower, "no") && !strings.Contains(lower, "none") && !strings.Contains(lower, "nothing") {
		return []string{trimmed}, true
	}
	return nil, false
}

// extractPregnancy parses a yes/no pregnancy answer. Negative phrasing is
// checked first: "I'm not pregnant" contains "pregnant" and would read as
// yes otherwise.
func extractPregnancy(text string) (bool, bool) {
	lower := strings.ToLower(text)

	for _, w := range []string{"not pregnant", "i'm not", "i am not", "no"} {
		if strings.Contains(lower, w) {
			return false, true
		}
	}
	for _, w := range []string{"yes", "pregnant", "expecting", "i am"} {
		if strings.Contains(lower, w) {
			return true, true
		}
	}
	return false, false
}
