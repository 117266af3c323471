package persona

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"persona-bot/internal/memory"
)

func TestLoad(t *testing.T) {
	p, err := Load("")
	if err != nil || !strings.Contains(p, "Tomáš Baťa") {
		t.Fatalf("default persona: %v", err)
	}

	path := filepath.Join(t.TempDir(), "persona.txt")
	if err := os.WriteFile(path, []byte("  Jsem Jan Antonín Baťa.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err = Load(path)
	if err != nil || p != "Jsem Jan Antonín Baťa." {
		t.Fatalf("file persona: %q %v", p, err)
	}

	empty := filepath.Join(t.TempDir(), "empty.txt")
	_ = os.WriteFile(empty, []byte("\n"), 0o644)
	if _, err := Load(empty); err == nil {
		t.Fatalf("empty persona must fail")
	}
}

func TestAugment(t *testing.T) {
	if got := Augment("base", nil); got != "base" {
		t.Fatalf("no recall must keep prompt, got %q", got)
	}
	got := Augment("base", &memory.Exchange{UserMessage: "Jak najmout zaměstnance?", BotResponse: "Najímejte lidi, kteří..."})
	want := "base\nPředchozí relevantní konverzace:\nOtázka: Jak najmout zaměstnance?\nOdpověď: Najímejte lidi, kteří..."
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
