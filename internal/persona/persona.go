// Package persona holds the system prompt describing the simulated figure.
package persona

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"persona-bot/internal/memory"
)

//go:embed bata.txt
var defaultPrompt string

// Default returns the built-in Tomáš Baťa persona.
func Default() string { return defaultPrompt }

// Load reads the persona prompt from path, or returns the built-in one when
// path is empty.
func Load(path string) (string, error) {
	if path == "" {
		return defaultPrompt, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read persona prompt: %w", err)
	}
	p := strings.TrimSpace(string(data))
	if p == "" {
		return "", fmt.Errorf("persona prompt %s is empty", path)
	}
	return p, nil
}

// Augment appends a recalled exchange to the persona prompt.
func Augment(prompt string, recalled *memory.Exchange) string {
	if recalled == nil {
		return prompt
	}
	return fmt.Sprintf("%s\nPředchozí relevantní konverzace:\nOtázka: %s\nOdpověď: %s",
		prompt, recalled.UserMessage, recalled.BotResponse)
}
