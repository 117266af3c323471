// Package translate bridges callers who do not speak the persona's native
// language.
package translate

import (
	"context"
	"errors"
	"time"

	"persona-bot/internal/observe"
)

// Translator converts text into the target language code.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Bridge translates between a caller language and the native language.
// Service failures fall back to the untranslated text; timeouts and
// cancellation are returned so the caller can abandon the turn.
type Bridge struct {
	tr      Translator
	native  string
	timeout time.Duration
	obs     *observe.Observer
}

func NewBridge(tr Translator, native string, timeout time.Duration, obs *observe.Observer) *Bridge {
	return &Bridge{tr: tr, native: native, timeout: timeout, obs: obs}
}

func (b *Bridge) Native() string { return b.native }

// NeedsTranslation reports whether lang differs from the native language.
func (b *Bridge) NeedsTranslation(lang string) bool {
	return lang != "" && lang != b.native
}

// ToNative translates text written in lang into the native language.
func (b *Bridge) ToNative(ctx context.Context, text, lang string) (string, error) {
	if !b.NeedsTranslation(lang) {
		return text, nil
	}
	return b.translate(ctx, text, b.native)
}

// FromNative translates native-language text into lang.
func (b *Bridge) FromNative(ctx context.Context, text, lang string) (string, error) {
	if !b.NeedsTranslation(lang) {
		return text, nil
	}
	return b.translate(ctx, text, lang)
}

func (b *Bridge) translate(ctx context.Context, text, target string) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	out, err := b.tr.Translate(ctx, text, target)
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "", err
	}
	b.obs.Log().Warn().Err(err).Str("target", target).Msg("translation failed, using original text")
	return text, nil
}
