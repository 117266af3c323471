package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"persona-bot/internal/analytics"
	"persona-bot/internal/app"
	"persona-bot/internal/chat"
	"persona-bot/internal/config"
	"persona-bot/internal/observe"
)

// AskPersonaParams are the arguments of the ask_persona tool.
type AskPersonaParams struct {
	Text     string `json:"text" mcp:"question for the persona"`
	Language string `json:"language,omitempty" mcp:"language code of the question and answer (cs, en, de); defaults to cs"`
}

// AnalyticsParams are the arguments of the get_analytics tool.
type AnalyticsParams struct {
	Format string `json:"format,omitempty" mcp:"'summary' for plain text or 'json' (default: json)"`
}

type responder interface {
	Respond(ctx context.Context, userInput, language string) chat.Reply
}

// PersonaMCPServer exposes the persona pipeline as MCP tools.
type PersonaMCPServer struct {
	chat  responder
	stats *analytics.Aggregator
}

// AskPersona runs one chat turn.
func (p *PersonaMCPServer) AskPersona(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[AskPersonaParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	if args.Text == "" {
		return toolError("text parameter is required"), nil
	}
	reply := p.chat.Respond(ctx, args.Text, args.Language)
	if reply.Failed() && reply.Text == "" {
		return toolError(reply.Err.Error()), nil
	}
	return &mcp.CallToolResultFor[any]{
		IsError: reply.Failed(),
		Content: []mcp.Content{&mcp.TextContent{Text: reply.Text}},
	}, nil
}

// GetAnalytics returns the current usage statistics.
func (p *PersonaMCPServer) GetAnalytics(_ context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[AnalyticsParams]) (*mcp.CallToolResultFor[any], error) {
	snap := p.stats.Snapshot()
	if params.Arguments.Format == "summary" {
		return toolText(snap.Summary()), nil
	}
	out, err := snap.ToJSON()
	if err != nil {
		return toolError(err.Error()), nil
	}
	return toolText(out), nil
}

func toolText(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func toolError(msg string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func registerTools(server *mcp.Server, p *PersonaMCPServer) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_persona",
		Description: "Asks the historical persona a question and returns the answer in the requested language",
	}, p.AskPersona)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_analytics",
		Description: "Returns conversation statistics: counts, average response time, popular topics and feedback",
	}, p.GetAnalytics)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// stdout carries the protocol.
	obs := observe.New(os.Stderr, cfg.LogFormat, cfg.LogVerbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := app.NewPipeline(ctx, cfg, obs)
	if err != nil {
		log.Fatalf("failed to init pipeline: %v", err)
	}
	defer pipeline.Close()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "persona-mcp-server",
		Version: "1.0.0",
	}, nil)
	registerTools(server, &PersonaMCPServer{chat: pipeline.Chat, stats: pipeline.Analytics})

	obs.Log().Info().Msg("persona MCP server ready on stdio")
	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil && ctx.Err() == nil {
		log.Fatalf("persona MCP server failed: %v", err)
	}
}
