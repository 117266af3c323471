package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"persona-bot/internal/app"
	"persona-bot/internal/auth"
	"persona-bot/internal/config"
	"persona-bot/internal/observe"
	"persona-bot/internal/scheduler"
	"persona-bot/internal/server"
	"persona-bot/internal/session"
	"persona-bot/internal/speech"
	"persona-bot/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	obs := observe.New(os.Stderr, cfg.LogFormat, cfg.LogVerbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := app.NewPipeline(ctx, cfg, obs)
	if err != nil {
		log.Fatalf("failed to init pipeline: %v", err)
	}
	defer pipeline.Close()

	recognizer, err := speech.NewGoogleRecognizer(ctx, cfg.ExternalTimeout, pipeline.GoogleOptions...)
	if err != nil {
		log.Fatalf("failed to init speech recognizer: %v", err)
	}
	synthesizer, err := speech.NewGoogleSynthesizer(ctx, cfg.ExternalTimeout, pipeline.GoogleOptions...)
	if err != nil {
		log.Fatalf("failed to init speech synthesizer: %v", err)
	}

	sessions, err := session.NewStore(cfg.SessionTTL, obs)
	if err != nil {
		log.Fatalf("failed to init sessions: %v", err)
	}
	defer sessions.Close()

	sched := scheduler.New(cfg.AnalyticsReportSchedule, obs)
	sched.SetReportFunction(scheduler.AnalyticsReport(pipeline.Analytics, obs))
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	var wg sync.WaitGroup
	if cfg.TelegramBotToken != "" {
		bot, err := telegram.New(cfg.TelegramBotToken, auth.New(cfg.TelegramAllowedUsers), pipeline.Chat, pipeline.Analytics, obs)
		if err != nil {
			log.Fatalf("failed to create telegram bot: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			bot.Start(ctx)
		}()
	}

	srv := server.New(server.Deps{
		Chat:        pipeline.Chat,
		Analytics:   pipeline.Analytics,
		Sessions:    sessions,
		Recognizer:  recognizer,
		Synthesizer: synthesizer,
		Observer:    obs,
	}, server.Options{
		Addr:           cfg.ListenAddr,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	if err := srv.Run(ctx); err != nil {
		obs.Log().Error().Err(err).Msg("http server failed")
		stop()
	}
	wg.Wait()
}
