package speech

import "testing"

func TestEstimateDuration(t *testing.T) {
	if got := EstimateDuration("Práce"); got != 500 {
		t.Fatalf("want 500ms for five characters, got %d", got)
	}
	if got := EstimateDuration(""); got != 0 {
		t.Fatalf("empty text: %d", got)
	}
}

func TestLocale(t *testing.T) {
	cases := map[string]string{"cs": "cs-CZ", "en": "en-US", "de": "de-DE", "fr": "cs-CZ", "": "cs-CZ"}
	for in, want := range cases {
		if got := Locale(in); got != want {
			t.Errorf("%q: want %s, got %s", in, want, got)
		}
	}
}

func TestVoiceName(t *testing.T) {
	if got := VoiceName("en", "default"); got != "en-US-Standard-D" {
		t.Fatalf("en default: %s", got)
	}
	if got := VoiceName("cs", "alt1"); got != "cs-CZ-Wavenet-A" {
		t.Fatalf("cs alt1: %s", got)
	}
	if got := VoiceName("xx", "unknown"); got != "cs-CZ-Standard-A" {
		t.Fatalf("fallback: %s", got)
	}
}
