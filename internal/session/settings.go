package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Settings are per-session presentation and voice preferences.
type Settings struct {
	Theme      string `json:"theme"`
	FontSize   string `json:"font_size"`
	Language   string `json:"language"`
	Voice      string `json:"voice"`
	SpeechRate Rate   `json:"speech_rate"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:      "light",
		FontSize:   "medium",
		Language:   "cs",
		Voice:      "default",
		SpeechRate: 1.0,
	}
}

// ParseSettings decodes a settings body. Fields absent from data take their
// default value, not the previously stored one.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	if s.SpeechRate <= 0 {
		return Settings{}, fmt.Errorf("speech_rate must be positive, got %v", float64(s.SpeechRate))
	}
	return s, nil
}

// Rate is a speaking rate that accepts both a JSON number and a numeric string.
type Rate float64

func (r *Rate) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid speech_rate %q", raw)
	}
	*r = Rate(f)
	return nil
}

// ParseRate parses a form value, returning def when v is empty.
func ParseRate(v string, def Rate) (Rate, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid speech_rate %q", v)
	}
	return Rate(f), nil
}
