// Package intake runs the patient interview: extracting symptoms,
// collecting the structured record one question at a time, and handing a
// completed record to triage.
package intake

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"intellicare/internal/llm"
	"intellicare/internal/logging"
	"intellicare/internal/report"
	"intellicare/internal/triage"
	"intellicare/pkg"
)

// Orchestrator drives one interview session from greeting to report.
// It is not safe for concurrent use; the session manager serializes
// access per session.
type Orchestrator struct {
	lexicon *Lexicon
	parser  *Parser
	planner *Planner
	engine  *triage.Engine
	log     *zap.Logger

	patient *pkg.PatientProfile
	state   *State

	assessment *pkg.Assessment
	finished   bool

	now func() time.Time
}

func NewOrchestrator(client llm.Client) *Orchestrator {
	lexicon := NewLexicon()
	o := &Orchestrator{
		lexicon: lexicon,
		parser:  NewParser(lexicon),
		planner: NewPlanner(client),
		engine:  triage.NewEngine(client),
		log:     logging.With(zap.String("component", "intake")),
		now:     time.Now,
	}
	o.Reset()
	return o
}

// Reset clears the record and dialogue state for a fresh interview.
func (o *Orchestrator) Reset() {
	maxTurns := defaultMaxTurns
	if o.state != nil {
		maxTurns = o.state.maxTurns
	}
	o.patient = &pkg.PatientProfile{}
	o.state = NewState()
	o.state.SetMaxTurns(maxTurns)
	o.assessment = nil
	o.finished = false
}

// SetMaxTurns overrides the forced-termination turn limit for this and
// subsequent interviews on the orchestrator.
func (o *Orchestrator) SetMaxTurns(n int) {
	o.state.SetMaxTurns(n)
}

// Chat processes one patient message and returns the reply, whether the
// session is over, and the full report when one was produced.
func (o *Orchestrator) Chat(ctx context.Context, text string) (string, bool, *string) {
	o.state.IncrementTurn()

	if o.state.firstUserMessage {
		o.state.firstUserMessage = false
		if msg, ok := o.validateOpening(text); !ok {
			o.log.Info("opening message rejected as non-medical")
			o.finished = true
			return msg, true, nil
		}
	}

	o.parser.Parse(text, o.patient, o.state)

	// a substantive reply to a pending follow-up closes that round
	if len(o.state.MissingInfo()) == 0 &&
		o.state.adaptiveAttempts > 0 &&
		o.state.CanAskAdaptive() &&
		len(strings.TrimSpace(text)) > 3 {
		o.state.MarkAdaptiveAsked()
	}

	if o.state.IsComplete() {
		return o.finalize(ctx)
	}

	question := o.planner.Plan(ctx, o.state, o.patient, text)
	if question == "" {
		// the planner found nothing left to ask even though completion
		// hasn't tripped (optional items auto-resolved); retry once,
		// then assess with what we have
		if o.state.IsComplete() {
			return o.finalize(ctx)
		}
		question = o.planner.Plan(ctx, o.state, o.patient, text)
		if question == "" {
			return o.finalize(ctx)
		}
	}

	return question, false, nil
}

// validateOpening accepts the first message only when it plausibly
// describes a health concern. Symptom hits always pass; otherwise a
// non-medical pattern rejects and a medical keyword rescues.
func (o *Orchestrator) validateOpening(text string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))

	if len(lower) < 5 {
		return TooShortMessage, false
	}
	if len(o.lexicon.Extract(text)) > 0 {
		return "", true
	}
	for _, re := range nonMedicalPatterns {
		if re.MatchString(lower) {
			return RejectionMessage, false
		}
	}
	for _, kw := range medicalKeywords {
		if strings.Contains(lower, kw) {
			return "", true
		}
	}
	return RejectionMessage, false
}

func (o *Orchestrator) finalize(ctx context.Context) (string, bool, *string) {
	o.finished = true

	if len(o.patient.Symptoms) == 0 {
		o.log.Warn("interview finished with no symptoms on record")
		return NoSymptomsMessage, true, nil
	}

	assessment := o.engine.Diagnose(ctx, o.patient)
	o.assessment = &assessment

	fullReport := report.Render(o.patient, assessment, o.now())
	summary := report.Summary(o.patient, assessment)

	o.log.Info("interview complete",
		zap.Int("triage_level", assessment.TriageLevel),
		zap.String("department", assessment.Department),
		zap.Int("turns", o.state.TurnCount()))

	return summary, true, &fullReport
}

// Finished reports whether the session has ended, by report or rejection.
func (o *Orchestrator) Finished() bool { return o.finished }

// Patient exposes the record for archival after a finished session.
func (o *Orchestrator) Patient() *pkg.PatientProfile { return o.patient }

// DiagnosisData returns the structured assessment for a finished session,
// or nil while the interview is still running or ended without one.
func (o *Orchestrator) DiagnosisData() *pkg.DiagnosisData {
	if o.assessment == nil {
		return nil
	}
	return &pkg.DiagnosisData{
		Patient:         *o.patient,
		Diagnoses:       o.assessment.Diagnoses,
		TriageLevel:     o.assessment.TriageLevel,
		TriageLevelName: pkg.TriageLevelName(o.assessment.TriageLevel),
		TriageMessage:   o.assessment.TriageMessage,
		Recommendation:  o.assessment.TriageMessage,
		Department:      o.assessment.Department,
	}
}

// Info summarizes session progress for the HTTP shell.
func (o *Orchestrator) Info() pkg.SessionInfo {
	return pkg.SessionInfo{
		TurnCount:         o.state.TurnCount(),
		SymptomsCollected: append([]string(nil), o.patient.Symptoms...),
		InfoCollected:     o.state.CollectedItems(),
		InfoSkipped:       o.state.SkippedItems(),
	}
}
