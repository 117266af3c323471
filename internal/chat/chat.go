// Package chat assembles the persona prompt, calls the generation service and
// commits the finished turn to memory and analytics.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"persona-bot/internal/analytics"
	"persona-bot/internal/apperr"
	"persona-bot/internal/llm"
	"persona-bot/internal/memory"
	"persona-bot/internal/observe"
	"persona-bot/internal/persona"
	"persona-bot/internal/retrieval"
	"persona-bot/internal/storage"
	"persona-bot/internal/translate"
)

// Apology is returned to the caller whenever a turn cannot be completed.
const Apology = "Omlouvám se, ale nastala chyba při generování odpovědi."

const op = "chat.respond"

// Options are the generation settings applied to every turn.
type Options struct {
	Persona     string
	MaxTokens   int
	Temperature float32
	// Timeout bounds the generation call.
	Timeout time.Duration
}

// Deps are the collaborators and the shared state the orchestrator owns.
type Deps struct {
	Memory    *memory.Store
	Analytics *analytics.Aggregator
	Bridge    *translate.Bridge
	LLM       llm.Client
	// Recorder is optional.
	Recorder storage.Recorder
	Observer *observe.Observer
}

type Orchestrator struct {
	memory    *memory.Store
	retriever *retrieval.Retriever
	analytics *analytics.Aggregator
	bridge    *translate.Bridge
	llm       llm.Client
	recorder  storage.Recorder
	obs       *observe.Observer
	opts      Options
	now       func() time.Time
}

func New(d Deps, opts Options) *Orchestrator {
	if opts.Persona == "" {
		opts.Persona = persona.Default()
	}
	if d.Observer == nil {
		d.Observer = observe.Discard()
	}
	return &Orchestrator{
		memory:    d.Memory,
		retriever: retrieval.New(d.Memory),
		analytics: d.Analytics,
		bridge:    d.Bridge,
		llm:       d.LLM,
		recorder:  d.Recorder,
		obs:       d.Observer,
		opts:      opts,
		now:       time.Now,
	}
}

// Reply is the outcome of one turn. Text is always safe to show: on a
// generation failure it holds Apology and Err has kind apperr.Generation.
// Validation failures leave Text empty.
type Reply struct {
	Text string
	Err  error
}

func (r Reply) Failed() bool { return r.Err != nil }

// turn is a generated but not yet committed exchange.
type turn struct {
	nativeInput    string
	nativeResponse string
	response       string
	language       string
	elapsed        time.Duration
	model          string
	tokens         int
}

// Respond runs one turn. Memory and analytics change only when the whole
// turn succeeds and the caller is still waiting for it.
func (o *Orchestrator) Respond(ctx context.Context, userInput, language string) Reply {
	if strings.TrimSpace(userInput) == "" {
		return Reply{Err: apperr.E(apperr.Validation, op, errors.New("empty user input"))}
	}
	if language == "" {
		language = o.bridge.Native()
	}

	ctx, span := o.obs.StartSpan(ctx, op)
	defer span.End()
	span.SetAttributes(attribute.String("language", language))

	t, err := o.generate(ctx, userInput, language)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "turn failed")
		o.obs.Log().Error().Err(err).Str("language", language).Msg("failed to generate response")
		return Reply{Text: Apology, Err: apperr.E(apperr.Generation, op, err)}
	}

	o.commit(t)
	o.obs.Log().Info().
		Str("model", t.model).
		Str("language", language).
		Int("tokens", t.tokens).
		Int("elapsed_ms", int(t.elapsed.Milliseconds())).
		Msg("turn completed")
	return Reply{Text: t.response}
}

func (o *Orchestrator) generate(ctx context.Context, userInput, language string) (turn, error) {
	start := o.now()

	native, err := o.bridge.ToNative(ctx, userInput, language)
	if err != nil {
		return turn{}, fmt.Errorf("translate input: %w", err)
	}

	var recalled *memory.Exchange
	if ex, ok := o.retriever.Find(native); ok {
		recalled = &ex
	}
	system := persona.Augment(o.opts.Persona, recalled)

	gctx := ctx
	if o.opts.Timeout > 0 {
		var cancel context.CancelFunc
		gctx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
		defer cancel()
	}
	resp, err := o.llm.Generate(gctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: native},
	}, llm.Options{MaxTokens: o.opts.MaxTokens, Temperature: o.opts.Temperature})
	if err != nil {
		return turn{}, fmt.Errorf("generate: %w", err)
	}
	if resp.Content == "" {
		return turn{}, errors.New("generate: empty completion")
	}

	out, err := o.bridge.FromNative(ctx, resp.Content, language)
	if err != nil {
		return turn{}, fmt.Errorf("translate response: %w", err)
	}

	return turn{
		nativeInput:    native,
		nativeResponse: resp.Content,
		response:       out,
		language:       language,
		elapsed:        o.now().Sub(start),
		model:          resp.Model,
		tokens:         resp.TotalTokens,
	}, nil
}

func (o *Orchestrator) commit(t turn) {
	o.analytics.RecordTurn(t.nativeInput, t.elapsed)
	o.memory.Append(memory.Exchange{UserMessage: t.nativeInput, BotResponse: t.nativeResponse})

	if o.recorder == nil {
		return
	}
	err := o.recorder.AppendInteraction(storage.Event{
		Timestamp:         o.now().UTC(),
		Language:          t.language,
		UserMessage:       t.nativeInput,
		AssistantResponse: t.nativeResponse,
		ResponseTimeMs:    t.elapsed.Milliseconds(),
	})
	if err != nil {
		o.obs.Log().Warn().Err(err).Msg("failed to append transcript")
	}
}

// Analytics exposes the aggregator for read-only endpoints.
func (o *Orchestrator) Analytics() *analytics.Aggregator { return o.analytics }
