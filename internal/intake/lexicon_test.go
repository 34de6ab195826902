package intake

import (
	"reflect"
	"testing"
)

func TestExtractDirectMatches(t *testing.T) {
	lex := NewLexicon()
	got := lex.Extract("I have chest pain and a fever")
	want := []string{"chest pain", "fever"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractSynonyms(t *testing.T) {
	lex := NewLexicon()
	got := lex.Extract("I can't breathe properly")
	if !contains(got, "difficulty breathing") {
		t.Fatalf("Extract() = %v, want difficulty breathing via synonym", got)
	}
}

func TestExtractSynonymDoesNotDuplicateDirectMatch(t *testing.T) {
	lex := NewLexicon()
	// "upset stomach" is both a canonical phrase and a synonym for nausea
	got := lex.Extract("I have an upset stomach")
	if !contains(got, "upset stomach") {
		t.Fatalf("Extract() = %v, want canonical upset stomach", got)
	}
	seen := make(map[string]bool)
	for _, s := range got {
		if seen[s] {
			t.Fatalf("Extract() returned duplicate %q in %v", s, got)
		}
		seen[s] = true
	}
}

func TestExtractCaseInsensitive(t *testing.T) {
	lex := NewLexicon()
	got := lex.Extract("SEVERE HEADACHE since Monday")
	if !contains(got, "headache") {
		t.Fatalf("Extract() = %v, want headache", got)
	}
}

func TestExtractIdempotent(t *testing.T) {
	lex := NewLexicon()
	text := "fever, cough, and some dizziness"
	first := lex.Extract(text)
	second := lex.Extract(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Extract() not stable: %v then %v", first, second)
	}
}

func TestExtractNoMedicalContent(t *testing.T) {
	lex := NewLexicon()
	if got := lex.Extract("hello there, nice day"); len(got) != 0 {
		t.Fatalf("Extract() = %v, want empty", got)
	}
}

func TestExtractPermissiveSubstrings(t *testing.T) {
	lex := NewLexicon()
	// "knee pain" mentions also satisfy the generic "pain" synonym path;
	// the match set stays sorted either way
	got := lex.Extract("my knee pain is painful")
	if !contains(got, "knee pain") {
		t.Fatalf("Extract() = %v, want knee pain", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("Extract() not sorted: %v", got)
		}
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
