package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/Morwran/yagpt"
)

// YandexClient talks to YandexGPT. The library exposes no completion
// options, so temperature stays at the service default and MaxTokens is
// enforced on the returned text instead.
type YandexClient struct {
	ya       yagpt.YaGPTFace
	iamToken string
}

func NewYandex(oauthToken, folderID string) (*YandexClient, error) {
	// Create IAM token from OAuth token
	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init yandex iam: %w", err)
	}
	resp, err := iam.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create iam token: %w", err)
	}

	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to init yagpt: %w", err)
	}

	return &YandexClient{
		ya:       ya,
		iamToken: resp.IamToken,
	}, nil
}

func (c *YandexClient) Generate(ctx context.Context, messages []Message, opts Options) (Response, error) {
	yaMsgs := make([]yagpt.Message, 0, len(messages))
	for _, m := range messages {
		yaMsgs = append(yaMsgs, yagpt.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := c.ya.CompletionWithCtx(ctx, c.iamToken, yaMsgs)
	if err != nil {
		return Response{}, fmt.Errorf("yagpt completion failed: %w", err)
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return Response{}, fmt.Errorf("yagpt returned empty response")
	}
	out := Response{Content: strings.TrimSpace(resp.Alternatives[0].Message.Content), Model: yagpt.YaModelLite}
	out.PromptTokens = int(resp.Usage.InputTextTokens)
	out.CompletionTokens = int(resp.Usage.CompletionTokens)
	out.TotalTokens = int(resp.Usage.TotalTokens)
	return capTokens(out, opts.MaxTokens), nil
}

// capTokens trims a reply whose completion exceeds maxTokens. Text is cut in
// proportion to the token overrun, back to a word boundary, and the usage
// counters are lowered to match.
func capTokens(out Response, maxTokens int) Response {
	if maxTokens <= 0 || out.CompletionTokens <= maxTokens {
		return out
	}
	runes := []rune(out.Content)
	keep := len(runes) * maxTokens / out.CompletionTokens
	cut := string(runes[:keep])
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	}
	out.Content = strings.TrimSpace(cut)
	out.TotalTokens -= out.CompletionTokens - maxTokens
	out.CompletionTokens = maxTokens
	return out
}
