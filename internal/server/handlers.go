package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/13anudhan2005-netizen/language-translator/internal/dispatcher"
	"github.com/13anudhan2005-netizen/language-translator/internal/languages"
	"github.com/13anudhan2005-netizen/language-translator/internal/session"
	"github.com/13anudhan2005-netizen/language-translator/internal/speech"
)

type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
	Speak  bool   `json:"speak"`
	Slow   bool   `json:"slow"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
	Backend        string `json:"backend"`
	Source         string `json:"source"`
	SourceLabel    string `json:"source_label"`
	Target         string `json:"target"`
	TargetLabel    string `json:"target_label"`
	Detected       bool   `json:"detected"`
	Audio          string `json:"audio,omitempty"`
	Warning        string `json:"warning,omitempty"`
}

type speechRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Slow     bool   `json:"slow"`
}

type historyItem struct {
	session.Entry
	InputPreview  string `json:"input_preview"`
	OutputPreview string `json:"output_preview"`
	Direction     string `json:"languages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"backends": s.config.Backends,
		"sessions": s.registry.Len(),
	})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sources": languages.Sources(),
		"targets": languages.Targets(),
	})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	out, ok := s.translate(w, r)
	if !ok {
		return
	}

	resp := translateResponse{
		TranslatedText: out.Output,
		Backend:        out.Backend,
		Source:         out.SourceCode,
		SourceLabel:    out.SourceLabel,
		Target:         out.TargetCode,
		TargetLabel:    out.TargetLabel,
		Detected:       out.Detected,
		Warning:        out.Warning,
	}
	if len(out.Audio) > 0 {
		resp.Audio = base64.StdEncoding.EncodeToString(out.Audio)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTranslateText returns the translation as a downloadable file.
func (s *Server) handleTranslateText(w http.ResponseWriter, r *http.Request) {
	out, ok := s.translate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="translation.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out.Output))
}

func (s *Server) translate(w http.ResponseWriter, r *http.Request) (*session.Output, bool) {
	var req translateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if req.Source == "" {
		req.Source = languages.Auto
	}

	out, err := s.sessions.Run(r.Context(), sessionFrom(r.Context()), session.Input{
		Text:   req.Text,
		Source: req.Source,
		Target: req.Target,
		Speak:  req.Speak,
		Slow:   req.Slow,
	})
	if err != nil {
		s.writeTranslateError(w, err)
		return nil, false
	}
	return out, true
}

func (s *Server) writeTranslateError(w http.ResponseWriter, err error) {
	var verr *dispatcher.ValidationError
	var ferr *dispatcher.AllBackendsFailedError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &ferr):
		s.logger.Error("translation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "translation failed: no translation service is reachable, please try again later")
	default:
		s.logger.Error("translation request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text must not be empty")
		return
	}
	if req.Language == "" || strings.EqualFold(req.Language, languages.Auto) {
		writeError(w, http.StatusBadRequest, "language must be set")
		return
	}

	audio, err := s.sessions.Speak(r.Context(), req.Text, req.Language, req.Slow)
	if err != nil {
		if errors.Is(err, speech.ErrUnsupportedLanguage) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if errors.Is(err, session.ErrSpeechDisabled) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		s.logger.Warn("speech synthesis failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "speech synthesis failed")
		return
	}

	w.Header().Set("Content-Type", speech.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="speech.mp3"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	entries, err := s.sessions.History(r.Context(), sess)
	if err != nil {
		s.logger.Error("history lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	total, err := s.sessions.HistoryTotal(r.Context(), sess)
	if err != nil {
		s.logger.Error("history count failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]historyItem, len(entries))
	for i, e := range entries {
		in, out := e.Preview()
		items[i] = historyItem{Entry: e, InputPreview: in, OutputPreview: out, Direction: e.Languages()}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": items, "total": total})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.ClearHistory(r.Context(), sessionFrom(r.Context())); err != nil {
		s.logger.Error("history clear failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
