package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"persona-bot/internal/analytics"
	"persona-bot/internal/apperr"
	"persona-bot/internal/chat"
)

type fakeResponder struct {
	reply chat.Reply
	lang  string
}

func (f *fakeResponder) Respond(_ context.Context, input, language string) chat.Reply {
	f.lang = language
	if f.reply.Text != "" || f.reply.Err != nil {
		return f.reply
	}
	return chat.Reply{Text: "Odpověď: " + input}
}

func text(t *testing.T, res *mcp.CallToolResultFor[any]) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestAskPersona(t *testing.T) {
	r := &fakeResponder{}
	p := &PersonaMCPServer{chat: r, stats: analytics.NewAggregator()}

	res, err := p.AskPersona(context.Background(), nil, &mcp.CallToolParamsFor[AskPersonaParams]{
		Arguments: AskPersonaParams{Text: "Co je úspěch?", Language: "en"},
	})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if res.IsError || text(t, res) != "Odpověď: Co je úspěch?" {
		t.Fatalf("unexpected result %+v", res)
	}
	if r.lang != "en" {
		t.Fatalf("language not forwarded: %q", r.lang)
	}
}

func TestAskPersona_Errors(t *testing.T) {
	p := &PersonaMCPServer{chat: &fakeResponder{}, stats: analytics.NewAggregator()}
	res, _ := p.AskPersona(context.Background(), nil, &mcp.CallToolParamsFor[AskPersonaParams]{})
	if !res.IsError {
		t.Fatalf("missing text must be a tool error")
	}

	p.chat = &fakeResponder{reply: chat.Reply{Text: chat.Apology, Err: apperr.Errorf(apperr.Generation, "chat.respond", "timeout")}}
	res, _ = p.AskPersona(context.Background(), nil, &mcp.CallToolParamsFor[AskPersonaParams]{
		Arguments: AskPersonaParams{Text: "Ahoj"},
	})
	if !res.IsError || text(t, res) != chat.Apology {
		t.Fatalf("generation failure should carry the apology as an error result: %+v", res)
	}
}

func TestGetAnalytics(t *testing.T) {
	stats := analytics.NewAggregator()
	stats.RecordTurn("kvalita výroby", time.Second)
	p := &PersonaMCPServer{chat: &fakeResponder{}, stats: stats}

	res, err := p.GetAnalytics(context.Background(), nil, &mcp.CallToolParamsFor[AnalyticsParams]{})
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	var snap analytics.Snapshot
	if err := json.Unmarshal([]byte(text(t, res)), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.TotalConversations != 1 || snap.PopularTopics["výroby"] != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	res, _ = p.GetAnalytics(context.Background(), nil, &mcp.CallToolParamsFor[AnalyticsParams]{
		Arguments: AnalyticsParams{Format: "summary"},
	})
	if text(t, res) != stats.Snapshot().Summary() {
		t.Fatalf("summary mismatch")
	}
}
