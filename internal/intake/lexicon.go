package intake

import (
	"sort"
	"strings"
)

// symptomVocabulary is the fixed set of canonical symptom phrases matched
// directly against patient text. Matching is case-insensitive substring
// matching, which is intentionally permissive: a generic word like "pain"
// appears in many canonical phrases and a single mention can match several
// of them. That recall-over-precision trade-off is inherited behavior, not
// an accident of implementation.
var symptomVocabulary = []string{
	// respiratory
	"cough", "shortness of breath", "wheezing", "chest pain", "sore throat",
	"runny nose", "congestion", "sneezing", "cold", "stuffy nose",
	"difficulty breathing", "tight chest", "phlegm", "mucus", "chest tightness",
	"chronic cough", "dry cough", "wet cough", "bloody cough", "hemoptysis",
	"hoarseness", "voice loss", "laryngitis", "stridor", "rapid breathing",
	"shallow breathing", "labored breathing", "chest congestion", "postnasal drip",
	"sinus pressure", "nasal discharge", "sniffles", "nose bleed", "epistaxis",

	// gastrointestinal
	"nausea", "vomiting", "diarrhea", "constipation", "abdominal pain",
	"bloating", "loss of appetite", "heartburn", "morning sickness", "nauseous",
	"stomach pain", "stomach ache", "belly pain", "cramping", "gas",
	"indigestion", "acid reflux", "gerd", "upset stomach", "queasy",
	"bloody stool", "black stool", "tarry stool", "rectal bleeding",
	"blood in stool", "mucus in stool", "pale stool", "fatty stool",
	"foul smelling stool", "watery diarrhea", "chronic diarrhea",
	"abdominal cramps", "stomach cramps", "intestinal pain", "bowel pain",
	"difficulty swallowing", "dysphagia", "feeling full", "early satiety",
	"excessive burping", "belching", "flatulence", "abdominal distension",
	"liver pain", "jaundice", "yellowing", "yellow eyes", "yellow skin",
	"loss of taste", "metallic taste", "bitter taste", "food aversion",

	// pain by location
	"headache", "back pain", "joint pain", "muscle pain", "neck pain",
	"leg pain", "knee pain", "ankle pain", "shoulder pain", "hip pain",
	"pelvic pain", "cramps", "arm pain", "wrist pain",
	"hand pain", "finger pain", "toe pain", "foot pain", "heel pain",
	"elbow pain", "groin pain", "thigh pain", "calf pain", "shin pain",
	"lower back pain", "upper back pain", "middle back pain", "tailbone pain",
	"jaw pain", "facial pain", "ear pain", "eye pain", "tooth pain",
	"throat pain", "rib pain", "side pain", "flank pain",
	"sciatic pain", "sciatica", "nerve pain", "burning pain", "shooting pain",
	"stabbing pain", "throbbing pain", "dull ache", "sharp pain", "chronic pain",
	"migraine", "cluster headache", "tension headache", "sinus headache",

	// systemic / general
	"fever", "chills", "fatigue", "weakness", "sweating", "weight loss",
	"dizziness", "fainting", "tired", "exhaustion", "dizzy", "weak",
	"night sweats", "cold sweats", "hot flashes", "flushed", "feverish",
	"temperature", "high temperature", "low grade fever", "chills and fever",
	"malaise", "lethargy", "sluggish", "lack of energy", "always tired",
	"weakness in limbs", "general weakness", "weight gain", "rapid weight loss",
	"unintentional weight loss", "appetite loss", "increased appetite",
	"dehydration", "excessive thirst", "dry mouth", "increased urination",
	"frequent urination", "decreased urination", "dark urine", "bloody urine",
	"painful urination", "burning urination", "urgency", "incontinence",
	"bed wetting", "loss of consciousness", "fainting spells", "syncope",
	"presyncope", "lightheaded", "feeling faint", "vertigo", "spinning",
	"balance problems", "unsteady", "loss of balance", "falls", "stumbling",

	// neurological
	"confusion", "numbness", "tingling", "vision changes", "hearing loss",
	"seizures", "tremors", "memory loss", "forgetfulness", "disorientation",
	"brain fog", "difficulty concentrating", "loss of focus", "mental fog",
	"blurred vision", "double vision", "diplopia", "vision loss", "blind spots",
	"floaters", "flashing lights", "light sensitivity", "photophobia",
	"ringing in ears", "tinnitus", "ear ringing", "muffled hearing",
	"pins and needles", "burning sensation", "electric shock sensation",
	"paralysis", "muscle weakness", "difficulty walking",
	"difficulty speaking", "slurred speech", "speech problems", "aphasia",
	"trembling", "shaking", "twitching", "muscle spasms", "involuntary movements",
	"loss of coordination", "clumsiness", "difficulty with balance",
	"facial drooping", "facial numbness",
	"cognitive decline", "memory problems", "amnesia", "blackouts",

	// cardiovascular
	"palpitations", "irregular heartbeat", "chest pressure", "rapid heartbeat",
	"slow heartbeat", "racing heart", "fluttering", "heart flutter",
	"skipped heartbeat", "pounding heart", "tachycardia", "bradycardia",
	"chest discomfort", "pressure in chest", "squeezing chest",
	"angina", "heart pain", "radiating pain", "arm pain with chest pain",
	"cold hands", "cold feet", "blue fingers", "blue toes", "cyanosis",
	"swollen ankles", "swollen legs", "edema", "leg swelling", "foot swelling",
	"poor circulation", "claudication", "leg pain when walking",

	// dermatological
	"rash", "itching", "swelling", "bruising", "pale skin",
	"hives", "welts", "red spots", "skin lesions", "bumps",
	"blisters", "sores", "ulcers", "boils", "abscess",
	"dry skin", "flaky skin", "peeling skin", "cracked skin",
	"eczema", "psoriasis", "acne", "pimples", "blackheads",
	"skin discoloration", "dark spots", "white patches", "vitiligo",
	"moles", "new mole", "changing mole", "bleeding mole",
	"itchy skin", "burning skin", "skin burning", "skin pain",
	"sensitive skin", "red skin", "inflamed skin", "skin inflammation",
	"skin infection", "pus", "discharge from skin", "oozing",
	"hair loss", "alopecia", "bald patches", "thinning hair",
	"nail changes", "brittle nails", "discolored nails", "nail pain",

	// gynecological / pregnancy-related
	"vaginal bleeding", "missed period",
	"breast tenderness", "tender breasts", "spotting", "late period", "no period",
	"heavy bleeding", "heavy period", "menorrhagia", "light period",
	"irregular period", "painful period", "dysmenorrhea", "menstrual cramps",
	"abnormal discharge", "vaginal discharge", "foul discharge", "bloody discharge",
	"vaginal itching", "vaginal burning", "vaginal pain", "painful intercourse",
	"breast pain", "breast lump", "nipple discharge", "swollen breasts",
	"pregnancy symptoms", "breast changes",
	"ovulation pain", "mid-cycle pain", "pms", "premenstrual syndrome",
	"mood swings", "menopause symptoms",

	// urinary
	"urgent urination",
	"difficulty urinating", "weak stream", "dribbling", "urinary retention",
	"blood in urine", "hematuria", "cloudy urine",
	"foul smelling urine", "urinary incontinence", "leaking urine",
	"kidney pain", "bladder pain", "bladder pressure",

	// musculoskeletal
	"stiff joints", "joint stiffness", "swollen joints", "joint swelling",
	"muscle aches", "body aches", "sore muscles", "muscle soreness",
	"muscle cramps", "charlie horse", "leg cramps",
	"back stiffness", "neck stiffness", "limited range of motion",
	"difficulty moving", "inability to bend", "difficulty standing",
	"difficulty sitting", "difficulty lying down", "pain when moving",
	"arthritis pain", "gout", "bursitis", "tendonitis",

	// psychiatric / mental health
	"anxiety", "panic", "panic attacks", "nervousness", "worry",
	"depression", "sadness", "hopelessness", "feeling down", "low mood",
	"mood changes", "irritability", "anger", "agitation", "restlessness",
	"insomnia", "sleep problems", "difficulty sleeping", "cant sleep",
	"excessive sleeping", "sleeping too much", "drowsiness", "sleepiness",
	"nightmares", "night terrors", "sleep disturbances",
	"suicidal thoughts", "thoughts of self harm", "wanting to die",
	"hallucinations", "hearing voices", "seeing things", "delusions",

	// endocrine / metabolic
	"excessive hunger", "always hungry", "polyphagia", "increased thirst",
	"polydipsia", "polyuria",
	"heat intolerance", "cold intolerance", "always cold", "always hot",
	"thyroid problems", "goiter", "neck swelling", "neck lump",

	// allergic / immunologic
	"allergic reaction", "allergy symptoms", "hay fever", "seasonal allergies",
	"food allergy", "drug allergy", "anaphylaxis", "severe allergic reaction",
	"itchy eyes", "watery eyes", "red eyes", "eye redness",
	"swollen face", "facial swelling", "lip swelling", "tongue swelling",
	"difficulty breathing from allergy", "wheezing from allergy",

	// infectious / fever-related
	"infection symptoms", "signs of infection", "infected wound",
	"swollen lymph nodes", "swollen glands",
	"tender lymph nodes", "lumps in neck", "lumps under arm",
	"lumps in groin", "body aches with fever", "chills with fever",

	// emergency / severe
	"severe pain", "excruciating pain", "unbearable pain", "worst pain ever",
	"crushing chest pain", "sudden severe headache", "thunderclap headache",
	"stroke symptoms", "arm weakness", "speech difficulty",
	"seizure", "convulsions", "fitting",
	"unresponsive", "passed out", "collapsed", "heart attack symptoms",
	"cant breathe", "choking", "severe bleeding",
	"coughing up blood", "vomiting blood", "hematemesis",
	"severe burn", "severe injury", "broken bone", "fracture",
	"head injury", "concussion", "unconscious",
}

// synonymTable maps colloquial phrasing to a canonical phrase. Synonyms are
// applied after direct vocabulary matching and never override a canonical
// phrase that was already matched directly.
var synonymTable = []struct {
	variant   string
	canonical string
}{
	// respiratory
	{"can't breathe", "difficulty breathing"},
	{"cannot breathe", "difficulty breathing"},
	{"hard to breathe", "difficulty breathing"},
	{"trouble breathing", "difficulty breathing"},
	{"out of breath", "shortness of breath"},
	{"winded", "shortness of breath"},
	{"stuffy", "congestion"},
	{"blocked nose", "congestion"},
	{"nose blocked", "congestion"},

	// gastrointestinal
	{"stomach pain", "abdominal pain"},
	{"stomach ache", "abdominal pain"},
	{"belly ache", "abdominal pain"},
	{"tummy ache", "abdominal pain"},
	{"throwing up", "vomiting"},
	{"throw up", "vomiting"},
	{"puking", "vomiting"},
	{"upset stomach", "nausea"},
	{"feel sick", "nausea"},
	{"feeling sick", "nausea"},
	{"queasy", "nausea"},
	{"sick to stomach", "nausea"},
	{"loose stool", "diarrhea"},
	{"runny stool", "diarrhea"},
	{"the runs", "diarrhea"},

	// temperature
	{"temperature", "fever"},
	{"feverish", "fever"},
	{"burning up", "fever"},
	{"high temp", "fever"},

	// energy
	{"tired", "fatigue"},
	{"exhausted", "fatigue"},
	{"worn out", "fatigue"},
	{"drained", "fatigue"},
	{"no energy", "fatigue"},
	{"wiped out", "fatigue"},

	// dizziness
	{"dizzy", "dizziness"},
	{"lightheaded", "dizziness"},
	{"light headed", "dizziness"},
	{"head spinning", "dizziness"},
	{"room spinning", "vertigo"},

	// pain
	{"sore", "pain"},
	{"aching", "pain"},
	{"hurts", "pain"},
	{"painful", "pain"},

	// pregnancy / period
	{"late period", "missed period"},
	{"no period", "missed period"},
	{"period late", "missed period"},
	{"haven't had period", "missed period"},
	{"skipped period", "missed period"},
	{"sore breasts", "breast tenderness"},
	{"tender breasts", "breast tenderness"},
	{"painful breasts", "breast tenderness"},

	// mental
	{"can't sleep", "insomnia"},
	{"cannot sleep", "insomnia"},
	{"trouble sleeping", "insomnia"},
	{"anxious", "anxiety"},
	{"nervous", "anxiety"},
	{"worried", "anxiety"},
	{"depressed", "depression"},
	{"sad", "depression"},

	// skin
	{"bumps", "rash"},
	{"spots", "rash"},
	{"blemishes", "rash"},
	{"itchy", "itching"},
	{"scratchy", "itching"},

	// movement
	{"difficulty walking", "leg pain"},
	{"hard to walk", "leg pain"},
	{"trouble walking", "leg pain"},
	{"can't walk", "leg pain"},
	{"difficulty moving", "joint pain"},

	// vision / hearing
	{"blurry vision", "blurred vision"},
	{"fuzzy vision", "blurred vision"},
	{"can't see clearly", "blurred vision"},
	{"ringing ears", "tinnitus"},
	{"ears ringing", "tinnitus"},
	{"buzzing in ears", "tinnitus"},

	// urinary
	{"burning when peeing", "burning urination"},
	{"painful urination", "burning urination"},
	{"hurts to pee", "burning urination"},
	{"frequent peeing", "frequent urination"},
	{"peeing a lot", "frequent urination"},
}

// Lexicon canonicalizes free patient text into known symptom terms.
// Extraction is pure and deterministic: the same input always yields the
// same sorted result, and calling it has no side effects.
type Lexicon struct {
	vocabulary []string
}

// NewLexicon builds the extractor over the fixed vocabulary.
func NewLexicon() *Lexicon {
	return &Lexicon{vocabulary: symptomVocabulary}
}

// Extract returns the canonical symptoms mentioned in text, sorted and
// deduplicated. Direct vocabulary matches are collected first; synonym
// matches are added only for canonical phrases not already found.
func (l *Lexicon) Extract(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var found []string

	for _, symptom := range l.vocabulary {
		if strings.Contains(lower, symptom) && !seen[symptom] {
			seen[symptom] = true
			found = append(found, symptom)
		}
	}

	for _, syn := range synonymTable {
		if strings.Contains(lower, syn.variant) && !seen[syn.canonical] {
			seen[syn.canonical] = true
			found = append(found, syn.canonical)
		}
	}

	sort.Strings(found)
	return found
}
