package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/13anudhan2005-netizen/language-translator/internal/dispatcher"
	"github.com/13anudhan2005-netizen/language-translator/internal/languages"
	"github.com/13anudhan2005-netizen/language-translator/internal/speech"
	"github.com/13anudhan2005-netizen/language-translator/internal/store"
	"github.com/13anudhan2005-netizen/language-translator/internal/translator"
)

// ErrSpeechDisabled is returned by Speak when no synthesizer is configured.
var ErrSpeechDisabled = errors.New("speech synthesis is disabled")

// Translator is satisfied by *dispatcher.Dispatcher.
type Translator interface {
	Translate(ctx context.Context, req translator.Request) (*dispatcher.Result, error)
}

// HistoryStore is satisfied by *store.Store.
type HistoryStore interface {
	AppendHistory(ctx context.Context, e store.HistoryEntry) error
	RecentHistory(ctx context.Context, sessionID string, limit int) ([]store.HistoryEntry, error)
	PruneHistory(ctx context.Context, sessionID string, keep int) (int64, error)
	ClearHistory(ctx context.Context, sessionID string) (int64, error)
	CountHistory(ctx context.Context, sessionID string) (int, error)
}

type Config struct {
	DisplayLimit int
	MaxEntries   int
}

type Input struct {
	Text   string
	Source string
	Target string
	Speak  bool
	Slow   bool
}

type Output struct {
	Entry
	Detected bool
	// Audio is set when speech was requested and succeeded.
	Audio []byte
	// Warning describes a non-fatal failure, such as speech synthesis.
	Warning string
}

type Service struct {
	translator Translator
	history    HistoryStore
	speech     speech.Synthesizer
	config     Config
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the workflow. synth may be nil to disable speech.
func NewService(t Translator, history HistoryStore, synth speech.Synthesizer, config Config, logger *zap.Logger) *Service {
	if config.DisplayLimit <= 0 {
		config.DisplayLimit = DefaultDisplayLimit
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultMaxEntries
	}
	if config.MaxEntries < config.DisplayLimit {
		config.MaxEntries = config.DisplayLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		translator: t,
		history:    history,
		speech:     synth,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// Run translates in, records the result in the session history and, when
// asked, synthesizes speech for the translation. Only translation errors are
// returned; history and speech failures degrade to logs and Output.Warning.
func (s *Service) Run(ctx context.Context, sess *Session, in Input) (*Output, error) {
	if sess == nil {
		return nil, fmt.Errorf("session is required")
	}

	res, err := s.translator.Translate(ctx, translator.Request{
		Text:       in.Text,
		SourceLang: canonical(in.Source),
		TargetLang: canonical(in.Target),
	})
	if err != nil {
		return nil, err
	}

	out := &Output{
		Entry: Entry{
			Input:       in.Text,
			Output:      res.TranslatedText,
			SourceCode:  res.SourceLang,
			SourceLabel: languages.Label(res.SourceLang),
			TargetCode:  res.TargetLang,
			TargetLabel: languages.Label(res.TargetLang),
			Backend:     res.Backend,
			CreatedAt:   s.now(),
		},
		Detected: res.Detected,
	}

	s.record(ctx, sess, out.Entry)

	if in.Speak {
		audio, err := s.Speak(ctx, out.Output, out.TargetCode, in.Slow)
		if err != nil {
			out.Warning = fmt.Sprintf("audio unavailable: %v", err)
			s.logger.Warn("speech synthesis failed",
				zap.String("session", sess.ID),
				zap.String("language", out.TargetCode),
				zap.Error(err))
		} else {
			out.Audio = audio
		}
	}

	return out, nil
}

// Speak synthesizes text in the given language.
func (s *Service) Speak(ctx context.Context, text, lang string, slow bool) ([]byte, error) {
	if s.speech == nil {
		return nil, ErrSpeechDisabled
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}
	return s.speech.Synthesize(ctx, text, speech.Options{Language: canonical(lang), Slow: slow})
}

func (s *Service) record(ctx context.Context, sess *Session, e Entry) {
	if s.history == nil {
		return
	}
	err := s.history.AppendHistory(ctx, store.HistoryEntry{
		ID:          uuid.NewString(),
		SessionID:   sess.ID,
		Input:       e.Input,
		Output:      e.Output,
		SourceCode:  e.SourceCode,
		SourceLabel: e.SourceLabel,
		TargetCode:  e.TargetCode,
		TargetLabel: e.TargetLabel,
		Backend:     e.Backend,
		CreatedAt:   e.CreatedAt,
	})
	if err != nil {
		s.logger.Warn("failed to record history", zap.String("session", sess.ID), zap.Error(err))
		return
	}
	if _, err := s.history.PruneHistory(ctx, sess.ID, s.config.MaxEntries); err != nil {
		s.logger.Warn("failed to prune history", zap.String("session", sess.ID), zap.Error(err))
	}
}

// History returns the newest DisplayLimit entries of sess, newest first.
func (s *Service) History(ctx context.Context, sess *Session) ([]Entry, error) {
	if s.history == nil || sess == nil {
		return nil, nil
	}
	rows, err := s.history.RecentHistory(ctx, sess.ID, s.config.DisplayLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = Entry{
			Input:       r.Input,
			Output:      r.Output,
			SourceCode:  r.SourceCode,
			SourceLabel: r.SourceLabel,
			TargetCode:  r.TargetCode,
			TargetLabel: r.TargetLabel,
			Backend:     r.Backend,
			CreatedAt:   r.CreatedAt,
		}
	}
	return entries, nil
}

func (s *Service) ClearHistory(ctx context.Context, sess *Session) error {
	if s.history == nil || sess == nil {
		return nil
	}
	_, err := s.history.ClearHistory(ctx, sess.ID)
	return err
}

// HistoryTotal reports how many entries sess has stored, which may exceed
// what History displays.
func (s *Service) HistoryTotal(ctx context.Context, sess *Session) (int, error) {
	if s.history == nil || sess == nil {
		return 0, nil
	}
	n, err := s.history.CountHistory(ctx, sess.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Forget drops the stored history of a session that left the registry.
// It matches RegistryConfig.OnEvict.
func (s *Service) Forget(sess *Session) {
	if sess == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.ClearHistory(ctx, sess); err != nil {
		s.logger.Warn("failed to clear evicted session history", zap.String("session", sess.ID), zap.Error(err))
		return
	}
	s.logger.Debug("session evicted", zap.String("session", sess.ID))
}

// canonical maps known language codes onto the table spelling and leaves
// anything else for the dispatcher to validate.
func canonical(code string) string {
	if c, ok := languages.Normalize(code); ok {
		return c
	}
	return strings.TrimSpace(code)
}
