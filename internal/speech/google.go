package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	speechv1 "google.golang.org/api/speech/v1"
	ttsv1 "google.golang.org/api/texttospeech/v1"
)

const (
	recognitionEncoding   = "WEBM_OPUS"
	recognitionSampleRate = 48000
)

// GoogleRecognizer calls Cloud Speech-to-Text v1 synchronously.
type GoogleRecognizer struct {
	svc     *speechv1.Service
	timeout time.Duration
}

func NewGoogleRecognizer(ctx context.Context, timeout time.Duration, opts ...option.ClientOption) (*GoogleRecognizer, error) {
	svc, err := speechv1.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init speech service: %w", err)
	}
	return &GoogleRecognizer{svc: svc, timeout: timeout}, nil
}

func (g *GoogleRecognizer) Recognize(ctx context.Context, audio []byte, language string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.svc.Speech.Recognize(&speechv1.RecognizeRequest{
		Config: &speechv1.RecognitionConfig{
			Encoding:        recognitionEncoding,
			SampleRateHertz: recognitionSampleRate,
			LanguageCode:    Locale(language),
		},
		Audio: &speechv1.RecognitionAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("speech recognize: %w", err)
	}
	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return "", ErrNoTranscript
	}
	text := strings.TrimSpace(resp.Results[0].Alternatives[0].Transcript)
	if text == "" {
		return "", ErrNoTranscript
	}
	return text, nil
}

// GoogleSynthesizer calls Cloud Text-to-Speech v1 and returns MP3 bytes.
type GoogleSynthesizer struct {
	svc     *ttsv1.Service
	timeout time.Duration
}

func NewGoogleSynthesizer(ctx context.Context, timeout time.Duration, opts ...option.ClientOption) (*GoogleSynthesizer, error) {
	svc, err := ttsv1.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init text-to-speech service: %w", err)
	}
	return &GoogleSynthesizer{svc: svc, timeout: timeout}, nil
}

func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text string, opts VoiceOptions) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	rate := opts.SpeakingRate
	if rate <= 0 {
		rate = 1.0
	}
	resp, err := g.svc.Text.Synthesize(&ttsv1.SynthesizeSpeechRequest{
		Input: &ttsv1.SynthesisInput{Text: text},
		Voice: &ttsv1.VoiceSelectionParams{
			LanguageCode: Locale(opts.Language),
			Name:         VoiceName(opts.Language, opts.Voice),
			SsmlGender:   "MALE",
		},
		AudioConfig: &ttsv1.AudioConfig{
			AudioEncoding: "MP3",
			SpeakingRate:  rate,
		},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return audio, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
