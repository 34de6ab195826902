package intake

import (
	"context"
	"strings"
	"testing"
	"time"

	"intellicare/internal/llm"
)

// interviewLLM answers diagnosis prompts with a fixed differential and
// everything else with a follow-up question.
type interviewLLM struct {
	diagnosis string
	followUp  string
}

func (s *interviewLLM) Generate(_ context.Context, prompt string, _ llm.Options) (string, error) {
	if strings.Contains(prompt, "differential diagnoses") {
		return s.diagnosis, nil
	}
	return s.followUp, nil
}

func newTestOrchestrator(client llm.Client) *Orchestrator {
	o := NewOrchestrator(client)
	o.now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }
	return o
}

func TestChatRejectsNonMedicalOpening(t *testing.T) {
	o := newTestOrchestrator(&interviewLLM{})
	reply, isFinal, report := o.Chat(context.Background(), "what's 5+5?")
	if !isFinal {
		t.Fatal("non-medical opening must end the session")
	}
	if report != nil {
		t.Fatal("rejection must not produce a report")
	}
	if reply != RejectionMessage {
		t.Fatalf("reply = %q, want rejection message", reply)
	}
	if o.DiagnosisData() != nil {
		t.Fatal("rejected session must have no diagnosis data")
	}
}

func TestChatRejectsTooShortOpening(t *testing.T) {
	o := newTestOrchestrator(&interviewLLM{})
	reply, isFinal, _ := o.Chat(context.Background(), "hi")
	if !isFinal || reply != TooShortMessage {
		t.Fatalf("reply = %q final = %v, want short-input rejection", reply, isFinal)
	}
}

func TestChatAcceptsMedicalKeywordWithoutSymptomHit(t *testing.T) {
	o := newTestOrchestrator(&interviewLLM{followUp: "Can you tell me more about what you feel?"})
	_, isFinal, _ := o.Chat(context.Background(), "I feel really unwell since the weekend")
	if isFinal {
		t.Fatal("medical keyword opening must not be rejected")
	}
}

func TestChatOnlyFirstMessageValidated(t *testing.T) {
	o := newTestOrchestrator(&interviewLLM{followUp: "Do you also have any nausea?"})
	o.Chat(context.Background(), "I have a headache")
	// a later turn that happens to look non-medical is still processed
	_, isFinal, _ := o.Chat(context.Background(), "42")
	if isFinal {
		t.Fatal("validation must apply to the opening message only")
	}
}

func TestChatChestPainScenario(t *testing.T) {
	client := &interviewLLM{
		diagnosis: "1. Acute Coronary Syndrome - 70% - Potential life-threatening emergency requiring immediate evaluation\n" +
			"2. Unstable Angina - 20% - Cardiac chest pain at rest\n" +
			"3. Musculoskeletal Strain - 10% - Chest wall strain",
		followUp: "Do you also have nausea or sweating?",
	}
	o := newTestOrchestrator(client)
	ctx := context.Background()

	turns := []string{
		"I have chest pain",
		"I am 45",
		"male",
		"2 hours",
		"8",
		"no",
		"yes, sweating a lot",
		"it gets worse when I move",
		"nothing helps so far",
	}

	var (
		reply   string
		isFinal bool
		report  *string
	)
	for i, turn := range turns {
		reply, isFinal, report = o.Chat(ctx, turn)
		if isFinal && i != len(turns)-1 {
			t.Fatalf("session ended early at turn %d with reply %q", i+1, reply)
		}
	}

	if !isFinal {
		t.Fatalf("session not final after %d turns; last reply %q", len(turns), reply)
	}
	if report == nil {
		t.Fatal("finished session must produce a report")
	}
	if !strings.Contains(*report, "PATIENT MEDICAL ASSESSMENT REPORT") {
		t.Fatal("report missing header")
	}
	if !strings.Contains(reply, "MEDICAL ASSESSMENT") {
		t.Fatalf("closing reply is not the assessment summary: %q", reply)
	}

	data := o.DiagnosisData()
	if data == nil {
		t.Fatal("DiagnosisData() = nil after completion")
	}
	if data.TriageLevel != 1 {
		t.Fatalf("TriageLevel = %d, want 1 for chest pain", data.TriageLevel)
	}
	if data.TriageLevelName != "IMMEDIATE EMERGENCY" {
		t.Fatalf("TriageLevelName = %q", data.TriageLevelName)
	}
	if data.Department != "Emergency Medicine" {
		t.Fatalf("Department = %q, want Emergency Medicine", data.Department)
	}
	if !strings.Contains(data.TriageMessage, "911") {
		t.Fatalf("TriageMessage = %q, want level-1 directive", data.TriageMessage)
	}
	if data.Recommendation != data.TriageMessage {
		t.Fatal("Recommendation must alias TriageMessage")
	}

	patient := o.Patient()
	if patient.Age == nil || *patient.Age != 45 {
		t.Fatalf("Age = %v, want 45", patient.Age)
	}
	if !contains(patient.Symptoms, "chest pain") || !contains(patient.Symptoms, "sweating") {
		t.Fatalf("Symptoms = %v, want chest pain plus mid-interview sweating", patient.Symptoms)
	}
	if patient.Duration != "2 hours" {
		t.Fatalf("Duration = %q", patient.Duration)
	}
	if patient.Severity != "severe (8/10)" {
		t.Fatalf("Severity = %q", patient.Severity)
	}

	info := o.Info()
	if info.TurnCount != len(turns) {
		t.Fatalf("TurnCount = %d, want %d", info.TurnCount, len(turns))
	}
}

func TestChatTurnCountIncrementsOncePerMessage(t *testing.T) {
	o := newTestOrchestrator(&interviewLLM{followUp: "Do you also have any nausea?"})
	ctx := context.Background()
	o.Chat(ctx, "I have a cough")
	o.Chat(ctx, "27")
	o.Chat(ctx, "skip")
	if got := o.Info().TurnCount; got != 3 {
		t.Fatalf("TurnCount = %d, want 3", got)
	}
}

func TestResetClearsSession(t *testing.T) {
	o := newTestOrchestrator(&interviewLLM{followUp: "Do you also have any nausea?"})
	o.Chat(context.Background(), "I have a fever")
	o.Reset()
	info := o.Info()
	if info.TurnCount != 0 || len(info.SymptomsCollected) != 0 || len(info.InfoCollected) != 0 {
		t.Fatalf("Info after reset = %+v, want empty", info)
	}
	if o.Finished() {
		t.Fatal("reset session must not be finished")
	}
}
