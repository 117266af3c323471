package llm

import (
	"strings"
	"testing"
)

func TestFactoryCreateClient(t *testing.T) {
	f := &Factory{OpenaiAPIKey: "sk-test", OpenaiModel: "gpt-3.5-turbo"}

	c, err := f.CreateClient("OpenAI")
	if err != nil {
		t.Fatalf("openai: %v", err)
	}
	oc, ok := c.(*OpenAIClient)
	if !ok || oc.model != "gpt-3.5-turbo" {
		t.Fatalf("unexpected client %#v", c)
	}

	if _, err := f.CreateClient("llama"); err == nil {
		t.Fatalf("unknown provider must fail")
	}
	if _, err := (&Factory{}).CreateClient(ProviderOpenAI); err == nil {
		t.Fatalf("missing api key must fail")
	}
}

func TestYandexTokenCap(t *testing.T) {
	long := Response{
		Content:          "jedna dva tři čtyři pět šest sedm osm devět deset",
		PromptTokens:     30,
		CompletionTokens: 20,
		TotalTokens:      50,
	}

	got := capTokens(long, 10)
	if got.CompletionTokens != 10 || got.TotalTokens != 40 || got.PromptTokens != 30 {
		t.Fatalf("usage not capped: %+v", got)
	}
	if len([]rune(got.Content)) > len([]rune(long.Content))/2 {
		t.Fatalf("content not trimmed: %q", got.Content)
	}
	if !strings.HasPrefix(long.Content, got.Content) || strings.HasSuffix(got.Content, " ") {
		t.Fatalf("content must be a word-aligned prefix, got %q", got.Content)
	}

	if same := capTokens(long, 0); same != long {
		t.Fatalf("zero limit must leave reply untouched")
	}
	if same := capTokens(long, 20); same != long {
		t.Fatalf("reply within limit must be untouched")
	}
}
