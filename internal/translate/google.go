package translate

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	translatev2 "google.golang.org/api/translate/v2"
)

// Google uses the Cloud Translation v2 REST API.
type Google struct {
	svc *translatev2.Service
}

func NewGoogle(ctx context.Context, opts ...option.ClientOption) (*Google, error) {
	svc, err := translatev2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init translate service: %w", err)
	}
	return &Google{svc: svc}, nil
}

func (g *Google) Translate(ctx context.Context, text, target string) (string, error) {
	resp, err := g.svc.Translations.List([]string{text}, target).Format("text").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", target, err)
	}
	if len(resp.Translations) == 0 {
		return "", errors.New("translate returned no translations")
	}
	return resp.Translations[0].TranslatedText, nil
}
