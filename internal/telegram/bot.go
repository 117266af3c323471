// Package telegram serves the persona through a Telegram bot on the same
// pipeline as the HTTP surface.
package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"persona-bot/internal/analytics"
	"persona-bot/internal/auth"
	"persona-bot/internal/chat"
	"persona-bot/internal/commands"
	"persona-bot/internal/observe"
)

const (
	feedbackUp   = "feedback:positive"
	feedbackDown = "feedback:negative"
)

// sender is the part of the Bot API used for replies.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type botAPISender struct{ api *tgbotapi.BotAPI }

func (s botAPISender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return s.api.Send(c)
}

// Responder runs one chat turn.
type Responder interface {
	Respond(ctx context.Context, userInput, language string) chat.Reply
}

type Bot struct {
	api     *tgbotapi.BotAPI
	s       sender
	authSvc *auth.Service
	chat    Responder
	stats   *analytics.Aggregator
	obs     *observe.Observer
	// languages maps Telegram language codes to the ones the bridge handles.
	languages map[string]bool
}

func New(botToken string, authSvc *auth.Service, responder Responder, stats *analytics.Aggregator, obs *observe.Observer) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	if obs == nil {
		obs = observe.Discard()
	}
	return &Bot{
		api:       api,
		s:         botAPISender{api: api},
		authSvc:   authSvc,
		chat:      responder,
		stats:     stats,
		obs:       obs,
		languages: map[string]bool{"cs": true, "en": true, "de": true},
	}, nil
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.obs.Log().Info().Str("bot", b.api.Self.UserName).Msg("telegram bot started")
	if b.authSvc.Open() {
		b.obs.Log().Warn().Msg("telegram allowlist empty, bot is open to everyone")
	}

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
				continue
			}
			if update.CallbackQuery != nil {
				b.handleCallback(update.CallbackQuery)
			}
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Text == "" {
		return
	}
	if !b.authSvc.IsAllowed(msg.From.ID) {
		b.obs.Log().Warn().Int("user_id", int(msg.From.ID)).Str("username", msg.From.UserName).Msg("unauthorized telegram user")
		b.sendMessage(msg.Chat.ID, "Omlouvám se, nemáte přístup k tomuto botu.")
		return
	}
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	if action, ok := commands.Match(msg.Text); ok {
		b.obs.Log().Info().Str("command", action.Kind.String()).Int("user_id", int(msg.From.ID)).Msg("voice command")
		b.sendMessage(msg.Chat.ID, action.Response)
		return
	}

	reply := b.chat.Respond(ctx, msg.Text, b.language(msg.From))
	if reply.Failed() && reply.Text == "" {
		b.obs.Log().Warn().Err(reply.Err).Msg("message rejected")
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, reply.Text)
	if !reply.Failed() {
		out.ReplyMarkup = feedbackKeyboard()
	}
	if _, err := b.s.Send(out); err != nil {
		b.obs.Log().Error().Err(err).Msg("failed to send message")
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, "Dobrý den, jsem Tomáš Baťa. Na co se chcete zeptat?")
	case "stats":
		b.sendMessage(msg.Chat.ID, b.stats.Snapshot().Summary())
	default:
		b.sendMessage(msg.Chat.ID, "Neznámý příkaz.")
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	var kind string
	switch cb.Data {
	case feedbackUp:
		kind = analytics.FeedbackPositive
	case feedbackDown:
		kind = analytics.FeedbackNegative
	default:
		return
	}
	if err := b.stats.RecordFeedback(kind); err != nil {
		b.obs.Log().Error().Err(err).Msg("failed to record feedback")
		return
	}
	b.sendMessage(cb.Message.Chat.ID, "Zpětná vazba byla zaznamenána")
}

// language picks the caller's language from the Telegram client setting.
// Unsupported or missing codes fall back to the native language.
func (b *Bot) language(u *tgbotapi.User) string {
	if u != nil && b.languages[u.LanguageCode] {
		return u.LanguageCode
	}
	return ""
}

func feedbackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👍", feedbackUp),
			tgbotapi.NewInlineKeyboardButtonData("👎", feedbackDown),
		),
	)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		b.obs.Log().Error().Err(err).Msg("failed to send message")
	}
}
