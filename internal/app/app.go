// Package app wires the chat pipeline from configuration. It is shared by
// the HTTP server and the MCP server.
package app

import (
	"context"
	"fmt"

	"google.golang.org/api/option"

	"persona-bot/internal/analytics"
	"persona-bot/internal/chat"
	"persona-bot/internal/config"
	"persona-bot/internal/gcloud"
	"persona-bot/internal/llm"
	"persona-bot/internal/memory"
	"persona-bot/internal/observe"
	"persona-bot/internal/persona"
	"persona-bot/internal/storage"
	"persona-bot/internal/translate"
)

type Pipeline struct {
	Chat      *chat.Orchestrator
	Analytics *analytics.Aggregator
	// GoogleOptions authenticate the Google services used by the pipeline.
	GoogleOptions []option.ClientOption

	transcript *storage.FileRecorder
}

// NewPipeline builds the orchestrator and its shared state.
func NewPipeline(ctx context.Context, cfg *config.Config, obs *observe.Observer) (*Pipeline, error) {
	llmClient, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider))
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	prompt, err := persona.Load(cfg.PersonaPromptPath)
	if err != nil {
		return nil, err
	}

	gopts, err := gcloud.ClientOptions(ctx, gcloud.Credentials{
		CredentialsFile: cfg.GoogleCredentialsFile,
		APIKey:          cfg.GoogleAPIKey,
	})
	if err != nil {
		return nil, err
	}
	tr, err := translate.NewGoogle(ctx, gopts...)
	if err != nil {
		return nil, err
	}

	var (
		rec        storage.Recorder
		transcript *storage.FileRecorder
	)
	if cfg.TranscriptLogPath != "" {
		transcript, err = storage.NewFileRecorder(cfg.TranscriptLogPath)
		if err != nil {
			obs.Log().Warn().Err(err).Msg("failed to init transcript log")
			transcript = nil
		} else {
			rec = transcript
		}
	}

	mem := memory.NewStore(cfg.MemoryCapacity)
	obs.Log().Info().Int("capacity", mem.Capacity()).Msg("conversation memory ready")
	stats := analytics.NewAggregator()
	orch := chat.New(chat.Deps{
		Memory:    mem,
		Analytics: stats,
		Bridge:    translate.NewBridge(tr, cfg.NativeLanguage, cfg.ExternalTimeout, obs),
		LLM:       llmClient,
		Recorder:  rec,
		Observer:  obs,
	}, chat.Options{
		Persona:     prompt,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.ExternalTimeout,
	})

	return &Pipeline{Chat: orch, Analytics: stats, GoogleOptions: gopts, transcript: transcript}, nil
}

// Close releases the transcript file, if one is open.
func (p *Pipeline) Close() error {
	if p.transcript == nil {
		return nil
	}
	return p.transcript.Close()
}
