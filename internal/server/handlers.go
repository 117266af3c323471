package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"persona-bot/internal/apperr"
	"persona-bot/internal/chat"
	"persona-bot/internal/commands"
	"persona-bot/internal/session"
	"persona-bot/internal/speech"
)

type textChatRequest struct {
	Text       string        `json:"text"`
	Language   string        `json:"language"`
	Voice      string        `json:"voice"`
	SpeechRate *session.Rate `json:"speech_rate"`
}

type chatResponse struct {
	Response      string `json:"response"`
	Audio         string `json:"audio"`
	AudioDuration int    `json:"audio_duration"`
}

type voiceChatResponse struct {
	Audio          string `json:"audio"`
	RecognizedText string `json:"recognized_text"`
	ResponseText   string `json:"response_text"`
	AudioDuration  int    `json:"audio_duration"`
}

type commandResponse struct {
	Response       string `json:"response"`
	RecognizedText string `json:"recognized_text,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTextChat(w http.ResponseWriter, r *http.Request) {
	const op = "server.text_chat"
	sess := sessionFrom(r)

	var req textChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, apperr.E(apperr.Validation, op, err), "Neplatný požadavek")
		return
	}
	if req.Text == "" {
		s.fail(w, r, apperr.Errorf(apperr.Validation, op, "missing text"), "Chybí vstupní text")
		return
	}
	voice := voiceOptions(sess.Settings(), req.Language, req.Voice, req.SpeechRate)

	if action, ok := commands.Match(req.Text); ok {
		s.applyCommand(sess, action)
		writeJSON(w, http.StatusOK, commandResponse{Response: action.Response})
		return
	}

	text, ok := s.respond(w, r, req.Text, voice.Language)
	if !ok {
		return
	}
	audio, err := s.tts.Synthesize(r.Context(), text, voice)
	if err != nil {
		s.fail(w, r, apperr.E(apperr.Unexpected, op, err), "Nastala neočekávaná chyba")
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Response:      text,
		Audio:         base64.StdEncoding.EncodeToString(audio),
		AudioDuration: speech.EstimateDuration(text),
	})
}

func (s *Server) handleVoiceChat(w http.ResponseWriter, r *http.Request) {
	const op = "server.voice_chat"
	sess := sessionFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Audio soubor je příliš velký"})
			return
		}
		s.fail(w, r, apperr.E(apperr.Validation, op, err), "Žádný audio soubor nebyl nahrán")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, apperr.E(apperr.Validation, op, err), "Žádný audio soubor nebyl nahrán")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		s.fail(w, r, apperr.Errorf(apperr.Validation, op, "empty filename"), "Nebyl vybrán žádný soubor")
		return
	}

	var rate *session.Rate
	if v := r.FormValue("speech_rate"); v != "" {
		parsed, err := session.ParseRate(v, 0)
		if err != nil {
			s.fail(w, r, apperr.E(apperr.Validation, op, err), "Neplatná rychlost řeči")
			return
		}
		rate = &parsed
	}
	voice := voiceOptions(sess.Settings(), r.FormValue("language"), r.FormValue("voice"), rate)

	content, err := s.readUpload(file, header.Filename)
	if err != nil {
		s.fail(w, r, apperr.E(apperr.Unexpected, op, err), "Nastala neočekávaná chyba při zpracování hlasového vstupu")
		return
	}

	recognized, err := s.stt.Recognize(r.Context(), content, voice.Language)
	if errors.Is(err, speech.ErrNoTranscript) {
		s.fail(w, r, apperr.E(apperr.RecognitionEmpty, op, err), "Nepodařilo se rozpoznat text z audio souboru")
		return
	}
	if err != nil {
		s.fail(w, r, apperr.E(apperr.Unexpected, op, err), "Nastala neočekávaná chyba při zpracování hlasového vstupu")
		return
	}

	if action, ok := commands.Match(recognized); ok {
		s.applyCommand(sess, action)
		writeJSON(w, http.StatusOK, commandResponse{Response: action.Response, RecognizedText: recognized})
		return
	}

	text, ok := s.respond(w, r, recognized, voice.Language)
	if !ok {
		return
	}
	audio, err := s.tts.Synthesize(r.Context(), text, voice)
	if err != nil {
		s.fail(w, r, apperr.E(apperr.Unexpected, op, err), "Nastala neočekávaná chyba při zpracování hlasového vstupu")
		return
	}
	writeJSON(w, http.StatusOK, voiceChatResponse{
		Audio:          base64.StdEncoding.EncodeToString(audio),
		RecognizedText: recognized,
		ResponseText:   text,
		AudioDuration:  speech.EstimateDuration(text),
	})
}

// respond runs the turn. Generation failures are not HTTP errors: the
// apology text is returned like any other reply.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, text, language string) (string, bool) {
	reply := s.chat.Respond(r.Context(), text, language)
	if reply.Failed() && !apperr.Is(reply.Err, apperr.Generation) {
		s.fail(w, r, reply.Err, "Chybí vstupní text")
		return "", false
	}
	return reply.Text, true
}

// readUpload stages the upload in a temp file that is removed on every path.
func (s *Server) readUpload(src io.Reader, name string) ([]byte, error) {
	tmp, err := os.CreateTemp(s.opts.TempDir, "voice-*"+filepath.Ext(filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("save upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	return os.ReadFile(tmp.Name())
}

func (s *Server) applyCommand(sess *session.Session, action commands.Action) {
	if action.Kind.ClearsHistory() {
		sess.ClearHistory()
	}
	s.obs.Log().Info().Str("command", action.Kind.String()).Str("session", sess.ID).Msg("voice command")
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	const op = "server.update_settings"
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 64<<10))
	if err != nil {
		s.fail(w, r, apperr.E(apperr.Validation, op, err), "Neplatný požadavek")
		return
	}
	st, err := session.ParseSettings(body)
	if err != nil {
		s.fail(w, r, apperr.E(apperr.Validation, op, err), "Neplatné nastavení")
		return
	}
	sess := sessionFrom(r)
	sess.SetSettings(st)
	if !s.sessions.Save(sess) {
		s.fail(w, r, apperr.Errorf(apperr.Unexpected, op, "session %s not stored", sess.ID), "Nastavení se nepodařilo uložit")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Nastavení aktualizováno"})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Settings())
}

func (s *Server) handleAnalytics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).ClearHistory()
	writeJSON(w, http.StatusOK, messageResponse{Message: "Historie úspěšně smazána"})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	const op = "server.provide_feedback"
	var req struct {
		FeedbackType string `json:"feedback_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, apperr.E(apperr.Validation, op, err), "Neplatný požadavek")
		return
	}
	if err := s.stats.RecordFeedback(req.FeedbackType); err != nil {
		s.fail(w, r, err, "Neznámý typ zpětné vazby")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Zpětná vazba byla zaznamenána"})
}

// voiceOptions fills request fields left empty from the session settings.
func voiceOptions(st session.Settings, language, voice string, rate *session.Rate) speech.VoiceOptions {
	opts := speech.VoiceOptions{Language: language, Voice: voice, SpeakingRate: float64(st.SpeechRate)}
	if opts.Language == "" {
		opts.Language = st.Language
	}
	if opts.Voice == "" {
		opts.Voice = st.Voice
	}
	if rate != nil && *rate > 0 {
		opts.SpeakingRate = float64(*rate)
	}
	return opts
}

// fail writes err as a JSON error. 5xx responses carry the underlying error;
// client errors carry msg only.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := apperr.HTTPStatus(apperr.KindOf(err))
	if status >= http.StatusInternalServerError {
		s.obs.Log().Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = fmt.Sprintf("%s: %v", msg, err)
	} else {
		s.obs.Log().Warn().Err(err).Str("path", r.URL.Path).Msg("request rejected")
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

var _ Responder = (*chat.Orchestrator)(nil)
