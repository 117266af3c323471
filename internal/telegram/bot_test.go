package telegram

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"persona-bot/internal/analytics"
	"persona-bot/internal/apperr"
	"persona-bot/internal/auth"
	"persona-bot/internal/chat"
	"persona-bot/internal/observe"
)

type fakeSender struct{ sent []tgbotapi.MessageConfig }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) texts() []string {
	out := make([]string, len(f.sent))
	for i, m := range f.sent {
		out[i] = m.Text
	}
	return out
}

type fakeResponder struct {
	reply chat.Reply
	langs []string
}

func (f *fakeResponder) Respond(_ context.Context, input, language string) chat.Reply {
	f.langs = append(f.langs, language)
	if f.reply.Text != "" || f.reply.Err != nil {
		return f.reply
	}
	return chat.Reply{Text: "Baťa: " + input}
}

func newTestBot(allowed []int64, r *fakeResponder) (*Bot, *fakeSender) {
	fs := &fakeSender{}
	return &Bot{
		s:         fs,
		authSvc:   auth.New(allowed),
		chat:      r,
		stats:     analytics.NewAggregator(),
		obs:       observe.Discard(),
		languages: map[string]bool{"cs": true, "en": true, "de": true},
	}, fs
}

func message(userID int64, lang, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, LanguageCode: lang},
		Chat: &tgbotapi.Chat{ID: 100},
		Text: text,
	}
}

func TestHandleIncomingMessage_Replies(t *testing.T) {
	r := &fakeResponder{}
	b, fs := newTestBot(nil, r)

	b.handleIncomingMessage(context.Background(), message(1, "en", "Hello"))

	if len(fs.sent) != 1 || fs.sent[0].Text != "Baťa: Hello" {
		t.Fatalf("unexpected sent: %+v", fs.texts())
	}
	if _, ok := fs.sent[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); !ok {
		t.Fatalf("reply should carry feedback buttons")
	}
	if r.langs[0] != "en" {
		t.Fatalf("language not forwarded: %q", r.langs[0])
	}
}

func TestHandleIncomingMessage_UnsupportedLanguageFallsBack(t *testing.T) {
	r := &fakeResponder{}
	b, _ := newTestBot(nil, r)
	b.handleIncomingMessage(context.Background(), message(1, "ru", "Привет"))
	if r.langs[0] != "" {
		t.Fatalf("unsupported language should fall back to native, got %q", r.langs[0])
	}
}

func TestHandleIncomingMessage_Unauthorized(t *testing.T) {
	r := &fakeResponder{}
	b, fs := newTestBot([]int64{42}, r)
	b.handleIncomingMessage(context.Background(), message(7, "cs", "Ahoj"))
	if len(r.langs) != 0 {
		t.Fatalf("unauthorized user reached the orchestrator")
	}
	if len(fs.sent) != 1 || !strings.Contains(fs.sent[0].Text, "nemáte přístup") {
		t.Fatalf("unexpected sent: %+v", fs.texts())
	}
}

func TestHandleIncomingMessage_CommandShortCircuits(t *testing.T) {
	r := &fakeResponder{}
	b, fs := newTestBot(nil, r)
	b.handleIncomingMessage(context.Background(), message(1, "cs", "Změň téma, prosím"))
	if len(r.langs) != 0 {
		t.Fatalf("command reached the orchestrator")
	}
	if len(fs.sent) != 1 || fs.sent[0].Text != "Téma bylo změněno." {
		t.Fatalf("unexpected sent: %+v", fs.texts())
	}
}

func TestHandleIncomingMessage_ApologyHasNoFeedbackButtons(t *testing.T) {
	r := &fakeResponder{reply: chat.Reply{Text: chat.Apology, Err: apperr.Errorf(apperr.Generation, "chat.respond", "boom")}}
	b, fs := newTestBot(nil, r)
	b.handleIncomingMessage(context.Background(), message(1, "cs", "Ahoj"))
	if len(fs.sent) != 1 || fs.sent[0].Text != chat.Apology {
		t.Fatalf("unexpected sent: %+v", fs.texts())
	}
	if fs.sent[0].ReplyMarkup != nil {
		t.Fatalf("apology should not ask for feedback")
	}
}

func TestFeedbackCallback(t *testing.T) {
	b, fs := newTestBot(nil, &fakeResponder{})
	msg := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 5}}
	b.handleCallback(&tgbotapi.CallbackQuery{Data: feedbackUp, Message: msg})
	b.handleCallback(&tgbotapi.CallbackQuery{Data: feedbackDown, Message: msg})
	b.handleCallback(&tgbotapi.CallbackQuery{Data: "other", Message: msg})

	got := b.stats.Snapshot().Feedback
	if got.Positive != 1 || got.Negative != 1 {
		t.Fatalf("feedback %+v", got)
	}
	if len(fs.sent) != 2 {
		t.Fatalf("expected 2 confirmations, got %+v", fs.texts())
	}
}

func TestStatsCommand(t *testing.T) {
	b, fs := newTestBot(nil, &fakeResponder{})
	msg := message(1, "cs", "/stats")
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}}
	b.handleIncomingMessage(context.Background(), msg)
	if len(fs.sent) != 1 || fs.sent[0].Text != b.stats.Snapshot().Summary() {
		t.Fatalf("unexpected sent: %+v", fs.texts())
	}
}
