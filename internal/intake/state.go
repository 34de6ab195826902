package intake

// InfoItem names one piece of information the interview collects.
type InfoItem string

const (
	ItemAge      InfoItem = "age"
	ItemGender   InfoItem = "gender"
	ItemSymptoms InfoItem = "primary_symptoms"
	ItemDuration InfoItem = "symptom_duration"
	ItemSeverity InfoItem = "symptom_severity"
	ItemHistory  InfoItem = "medical_history"
)

// requiredItems is the fixed priority order in which missing items are
// asked: one item per turn, optional demographics first.
var requiredItems = []InfoItem{
	ItemAge,
	ItemGender,
	ItemSymptoms,
	ItemDuration,
	ItemSeverity,
	ItemHistory,
}

// criticalItems can never be skipped; the planner re-asks until answered.
var criticalItems = []InfoItem{
	ItemSymptoms,
	ItemDuration,
	ItemSeverity,
	ItemHistory,
}

// optionalItems may be declined by the patient.
var optionalItems = []InfoItem{
	ItemAge,
	ItemGender,
}

const (
	maxAdaptiveQuestions = 3
	defaultMaxTurns      = 15
	// maxAdaptiveAttempts bounds failed generations (duplicate or invalid
	// question) per adaptive round before forcing progression.
	maxAdaptiveAttempts = 2
)

// State tracks which information has been collected or skipped, the turn
// counter, and the adaptive-questioning sub-phase. States are implicit in
// the (collected, skipped, counters) tuple; there is no separate phase
// enum.
type State struct {
	collected map[InfoItem]bool
	skipped   map[InfoItem]bool

	turnCount int
	maxTurns  int

	adaptiveAsked    int
	adaptiveAttempts int

	pregnancyAsked   bool
	awaitingPregnant bool

	lastQuestion     string
	firstUserMessage bool
}

// NewState returns the initial state: nothing collected, turn zero.
func NewState() *State {
	return &State{
		collected:        make(map[InfoItem]bool),
		skipped:          make(map[InfoItem]bool),
		maxTurns:         defaultMaxTurns,
		firstUserMessage: true,
	}
}

// SetMaxTurns overrides the forced-termination turn limit. Values below 1
// are ignored.
func (s *State) SetMaxTurns(n int) {
	if n >= 1 {
		s.maxTurns = n
	}
}

// MarkCollected records an item as answered.
func (s *State) MarkCollected(item InfoItem) {
	s.collected[item] = true
}

// MarkSkipped records a declined item. Critical items cannot be skipped;
// asking to skip one is a no-op and the planner will re-ask.
func (s *State) MarkSkipped(item InfoItem) {
	if !isOptional(item) {
		return
	}
	if s.collected[item] {
		return
	}
	s.skipped[item] = true
}

// Collected reports whether the item has been answered.
func (s *State) Collected(item InfoItem) bool { return s.collected[item] }

// Skipped reports whether the item was declined.
func (s *State) Skipped(item InfoItem) bool { return s.skipped[item] }

// MissingInfo returns the required items not yet collected or skipped, in
// priority order.
func (s *State) MissingInfo() []InfoItem {
	var missing []InfoItem
	for _, item := range requiredItems {
		if !s.collected[item] && !s.skipped[item] {
			missing = append(missing, item)
		}
	}
	return missing
}

// CurrentQuestion is the item the conversation is waiting on: the first
// missing item in priority order, or "" once all are resolved.
func (s *State) CurrentQuestion() InfoItem {
	if missing := s.MissingInfo(); len(missing) > 0 {
		return missing[0]
	}
	return ""
}

// IsComplete reports whether the interview has gathered enough to triage:
// every critical item collected, every optional item collected or skipped,
// and the adaptive-question target reached. The turn limit is a forced
// termination escape valve: once it is hit, only critical items matter,
// even if adaptive questioning is unfinished.
func (s *State) IsComplete() bool {
	criticalCollected := true
	for _, item := range criticalItems {
		if !s.collected[item] {
			criticalCollected = false
			break
		}
	}

	optionalHandled := true
	for _, item := range optionalItems {
		if !s.collected[item] && !s.skipped[item] {
			optionalHandled = false
			break
		}
	}

	if s.turnCount >= s.maxTurns && criticalCollected {
		return true
	}
	return criticalCollected && optionalHandled && s.adaptiveAsked >= maxAdaptiveQuestions
}

// TurnCount returns the number of chat turns processed so far.
func (s *State) TurnCount() int { return s.turnCount }

// IncrementTurn advances the turn counter by one.
func (s *State) IncrementTurn() { s.turnCount++ }

// AdaptiveAsked returns how many adaptive follow-up rounds have completed.
func (s *State) AdaptiveAsked() int { return s.adaptiveAsked }

// CanAskAdaptive reports whether another adaptive follow-up is allowed.
func (s *State) CanAskAdaptive() bool { return s.adaptiveAsked < maxAdaptiveQuestions }

// MarkAdaptiveAsked completes the current adaptive round and resets its
// attempt counter for the next one.
func (s *State) MarkAdaptiveAsked() {
	s.adaptiveAsked++
	s.adaptiveAttempts = 0
}

// CollectedItems returns the collected item names for progress snapshots.
func (s *State) CollectedItems() []string {
	var out []string
	for _, item := range requiredItems {
		if s.collected[item] {
			out = append(out, string(item))
		}
	}
	return out
}

// SkippedItems returns the declined item names for progress snapshots.
func (s *State) SkippedItems() []string {
	var out []string
	for _, item := range optionalItems {
		if s.skipped[item] {
			out = append(out, string(item))
		}
	}
	return out
}

func isOptional(item InfoItem) bool {
	for _, o := range optionalItems {
		if o == item {
			return true
		}
	}
	return false
}
