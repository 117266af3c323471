// Package speech wraps the speech-to-text and text-to-speech services used by
// the voice endpoints.
package speech

import (
	"context"
	"errors"
	"unicode/utf8"
)

// ErrNoTranscript is returned when recognition yields no result.
var ErrNoTranscript = errors.New("speech: no transcript")

// MillisPerChar is the fixed per-character duration used to estimate how long
// synthesized audio plays.
const MillisPerChar = 100

type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, language string) (string, error)
}

// VoiceOptions selects the synthesized voice.
type VoiceOptions struct {
	Language     string
	Voice        string
	SpeakingRate float64
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts VoiceOptions) ([]byte, error)
}

// EstimateDuration approximates playback length in milliseconds from the
// character count. It does not inspect the audio.
func EstimateDuration(text string) int {
	return utf8.RuneCountInString(text) * MillisPerChar
}

var locales = map[string]string{
	"cs": "cs-CZ",
	"en": "en-US",
	"de": "de-DE",
}

// Locale maps a short language code to the BCP-47 locale used by the speech
// services, defaulting to Czech.
func Locale(language string) string {
	if l, ok := locales[language]; ok {
		return l
	}
	return locales["cs"]
}

// voices lists the default, alt1 and alt2 voices per locale.
var voices = map[string][3]string{
	"cs-CZ": {"cs-CZ-Standard-A", "cs-CZ-Wavenet-A", "cs-CZ-Standard-B"},
	"en-US": {"en-US-Standard-D", "en-US-Standard-B", "en-US-Wavenet-D"},
	"de-DE": {"de-DE-Standard-A", "de-DE-Standard-B", "de-DE-Wavenet-B"},
}

// VoiceName resolves the concrete voice for a language and a voice preset
// ("default", "alt1", "alt2"). Unknown presets use the default voice.
func VoiceName(language, voice string) string {
	v := voices[Locale(language)]
	switch voice {
	case "alt1":
		return v[1]
	case "alt2":
		return v[2]
	default:
		return v[0]
	}
}
