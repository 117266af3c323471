// Package server exposes the persona chat over HTTP.
package server

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"persona-bot/internal/analytics"
	"persona-bot/internal/chat"
	"persona-bot/internal/observe"
	"persona-bot/internal/session"
	"persona-bot/internal/speech"
)

//go:embed index.html
var indexHTML []byte

const defaultMaxUpload = 10 << 20

// Responder runs one chat turn.
type Responder interface {
	Respond(ctx context.Context, userInput, language string) chat.Reply
}

type Deps struct {
	Chat        Responder
	Analytics   *analytics.Aggregator
	Sessions    *session.Store
	Recognizer  speech.Recognizer
	Synthesizer speech.Synthesizer
	Observer    *observe.Observer
}

type Options struct {
	Addr           string
	MaxUploadBytes int64
	// TempDir receives uploaded audio while it is processed; empty means os.TempDir.
	TempDir         string
	ShutdownTimeout time.Duration
}

type Server struct {
	chat     Responder
	stats    *analytics.Aggregator
	sessions *session.Store
	stt      speech.Recognizer
	tts      speech.Synthesizer
	obs      *observe.Observer
	opts     Options
}

func New(d Deps, opts Options) *Server {
	if d.Observer == nil {
		d.Observer = observe.Discard()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		chat:     d.Chat,
		stats:    d.Analytics,
		sessions: d.Sessions,
		stt:      d.Recognizer,
		tts:      d.Synthesizer,
		obs:      d.Observer,
		opts:     opts,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.requestLogger, middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/analytics", s.handleAnalytics)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.handleIndex)
		r.Post("/text_chat", s.handleTextChat)
		r.Post("/voice_chat", s.handleVoiceChat)
		r.Post("/update_settings", s.handleUpdateSettings)
		r.Get("/get_settings", s.handleGetSettings)
		r.Post("/clear_history", s.handleClearHistory)
		r.Post("/provide_feedback", s.handleFeedback)
	})
	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.obs.Log().Info().Str("addr", s.opts.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.obs.Log().Info().Msg("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}
