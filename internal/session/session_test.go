package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/13anudhan2005-netizen/language-translator/internal/dispatcher"
	"github.com/13anudhan2005-netizen/language-translator/internal/speech"
	"github.com/13anudhan2005-netizen/language-translator/internal/store"
	"github.com/13anudhan2005-netizen/language-translator/internal/translator"
)

type fakeTranslator struct {
	calls atomic.Int32
	err   error
}

func (f *fakeTranslator) Translate(_ context.Context, req translator.Request) (*dispatcher.Result, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	source, detected := req.SourceLang, false
	if source == "auto" {
		source, detected = "en", true
	}
	return &dispatcher.Result{
		TranslatedText: "translated: " + req.Text,
		Backend:        "fake",
		SourceLang:     source,
		TargetLang:     req.TargetLang,
		Detected:       detected,
	}, nil
}

type fakeSynth struct {
	err  error
	opts speech.Options
}

func (f *fakeSynth) Synthesize(_ context.Context, text string, opts speech.Options) ([]byte, error) {
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3:" + text), nil
}

type failingHistory struct{}

func (failingHistory) AppendHistory(context.Context, store.HistoryEntry) error {
	return errors.New("disk on fire")
}

func (failingHistory) RecentHistory(context.Context, string, int) ([]store.HistoryEntry, error) {
	return nil, nil
}

func (failingHistory) PruneHistory(context.Context, string, int) (int64, error) {
	return 0, nil
}

func (failingHistory) ClearHistory(context.Context, string) (int64, error) {
	return 0, nil
}

func (failingHistory) CountHistory(context.Context, string) (int, error) {
	return 0, errors.New("disk on fire")
}

func newHistory(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New("")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestService_RunRecordsHistory(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeTranslator{}, newHistory(t), nil, Config{}, nil)
	sess := New()

	out, err := svc.Run(ctx, sess, Input{Text: "hello", Source: "EN", Target: "es"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Output != "translated: hello" || out.Backend != "fake" {
		t.Errorf("unexpected output %+v", out)
	}
	if out.SourceCode != "en" || out.SourceLabel != "English" {
		t.Errorf("source = %q/%q, want en/English", out.SourceCode, out.SourceLabel)
	}
	if out.TargetLabel != "Spanish" {
		t.Errorf("target label = %q", out.TargetLabel)
	}

	hist, err := svc.History(ctx, sess)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 1 || hist[0].Output != "translated: hello" {
		t.Fatalf("history = %+v", hist)
	}
	if got := hist[0].Languages(); got != "English → Spanish" {
		t.Errorf("Languages() = %q", got)
	}
}

func TestService_HistoryShowsNewestFive(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeTranslator{}, newHistory(t), nil, Config{}, nil)
	sess := New()

	for i := 1; i <= 8; i++ {
		if _, err := svc.Run(ctx, sess, Input{Text: fmt.Sprintf("text %d", i), Source: "en", Target: "fr"}); err != nil {
			t.Fatal(err)
		}
	}

	hist, err := svc.History(ctx, sess)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != DefaultDisplayLimit {
		t.Fatalf("expected %d entries, got %d", DefaultDisplayLimit, len(hist))
	}
	if hist[0].Input != "text 8" || hist[4].Input != "text 4" {
		t.Errorf("wrong order: first %q, last %q", hist[0].Input, hist[4].Input)
	}
}

func TestService_HistoryIsCapped(t *testing.T) {
	ctx := context.Background()
	h := newHistory(t)
	svc := NewService(&fakeTranslator{}, h, nil, Config{DisplayLimit: 2, MaxEntries: 3}, nil)
	sess := New()

	for i := 0; i < 6; i++ {
		if _, err := svc.Run(ctx, sess, Input{Text: "x", Source: "en", Target: "fr"}); err != nil {
			t.Fatal(err)
		}
	}
	if n, _ := h.CountHistory(ctx, sess.ID); n != 3 {
		t.Errorf("expected 3 retained entries, got %d", n)
	}
	total, err := svc.HistoryTotal(ctx, sess)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("HistoryTotal = %d, want 3", total)
	}
}

func TestService_HistoryTotalError(t *testing.T) {
	svc := NewService(&fakeTranslator{}, failingHistory{}, nil, Config{}, nil)
	if _, err := svc.HistoryTotal(context.Background(), New()); err == nil {
		t.Error("expected count error")
	}
}

func TestService_ForgetClearsHistory(t *testing.T) {
	ctx := context.Background()
	h := newHistory(t)
	svc := NewService(&fakeTranslator{}, h, nil, Config{}, nil)
	gone, kept := New(), New()

	for _, sess := range []*Session{gone, kept} {
		if _, err := svc.Run(ctx, sess, Input{Text: "hi", Source: "en", Target: "fr"}); err != nil {
			t.Fatal(err)
		}
	}
	svc.Forget(gone)
	svc.Forget(nil)

	if n, _ := h.CountHistory(ctx, gone.ID); n != 0 {
		t.Errorf("forgotten session kept %d entries", n)
	}
	if n, _ := h.CountHistory(ctx, kept.ID); n != 1 {
		t.Errorf("other session has %d entries, want 1", n)
	}
}

func TestService_FailedTranslationNotRecorded(t *testing.T) {
	ctx := context.Background()
	h := newHistory(t)
	wantErr := errors.New("all down")
	svc := NewService(&fakeTranslator{err: wantErr}, h, nil, Config{}, nil)
	sess := New()

	_, err := svc.Run(ctx, sess, Input{Text: "hello", Source: "en", Target: "es"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected translator error, got %v", err)
	}
	if n, _ := h.CountHistory(ctx, sess.ID); n != 0 {
		t.Errorf("failed translation recorded %d entries", n)
	}
}

func TestService_HistoryFailureIsSoft(t *testing.T) {
	svc := NewService(&fakeTranslator{}, failingHistory{}, nil, Config{}, nil)
	out, err := svc.Run(context.Background(), New(), Input{Text: "hello", Source: "en", Target: "es"})
	if err != nil {
		t.Fatalf("history failure must not fail the request: %v", err)
	}
	if out.Output == "" {
		t.Error("expected translation")
	}
}

func TestService_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeTranslator{}, newHistory(t), nil, Config{}, nil)
	a, b := New(), New()

	if _, err := svc.Run(ctx, a, Input{Text: "only a", Source: "en", Target: "de"}); err != nil {
		t.Fatal(err)
	}
	hist, err := svc.History(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 0 {
		t.Errorf("session b sees %d entries of session a", len(hist))
	}

	if err := svc.ClearHistory(ctx, a); err != nil {
		t.Fatal(err)
	}
	if hist, _ := svc.History(ctx, a); len(hist) != 0 {
		t.Errorf("clear left %d entries", len(hist))
	}
}

func TestService_AutoSourceLabel(t *testing.T) {
	svc := NewService(&fakeTranslator{}, nil, nil, Config{}, nil)
	out, err := svc.Run(context.Background(), New(), Input{Text: "hello", Source: "auto", Target: "es"})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Detected || out.SourceCode != "en" || out.SourceLabel != "English" {
		t.Errorf("detected source not reported: %+v", out)
	}
}

func TestService_Speak(t *testing.T) {
	synth := &fakeSynth{}
	svc := NewService(&fakeTranslator{}, nil, synth, Config{}, nil)

	out, err := svc.Run(context.Background(), New(), Input{Text: "hello", Source: "en", Target: "zh-cn", Speak: true, Slow: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(out.Audio) != "mp3:translated: hello" {
		t.Errorf("audio = %q", out.Audio)
	}
	if out.Warning != "" {
		t.Errorf("unexpected warning %q", out.Warning)
	}
	if synth.opts.Language != "zh-CN" || !synth.opts.Slow {
		t.Errorf("synth options = %+v", synth.opts)
	}
}

func TestService_SpeechFailureIsWarning(t *testing.T) {
	synth := &fakeSynth{err: fmt.Errorf("%w: haw", speech.ErrUnsupportedLanguage)}
	svc := NewService(&fakeTranslator{}, nil, synth, Config{}, nil)

	out, err := svc.Run(context.Background(), New(), Input{Text: "hello", Source: "en", Target: "haw", Speak: true})
	if err != nil {
		t.Fatalf("speech failure must not fail the request: %v", err)
	}
	if out.Output == "" {
		t.Error("translation missing")
	}
	if out.Audio != nil {
		t.Error("audio should be empty")
	}
	if !strings.Contains(out.Warning, "not supported") {
		t.Errorf("warning = %q", out.Warning)
	}
}

func TestService_SpeechDisabled(t *testing.T) {
	svc := NewService(&fakeTranslator{}, nil, nil, Config{}, nil)
	out, err := svc.Run(context.Background(), New(), Input{Text: "hello", Source: "en", Target: "es", Speak: true})
	if err != nil {
		t.Fatal(err)
	}
	if out.Warning == "" {
		t.Error("expected warning when speech is disabled")
	}
	if _, err := svc.Speak(context.Background(), "hola", "es", false); !errors.Is(err, ErrSpeechDisabled) {
		t.Errorf("Speak error = %v, want ErrSpeechDisabled", err)
	}
}

func TestService_NilSession(t *testing.T) {
	tr := &fakeTranslator{}
	svc := NewService(tr, nil, nil, Config{}, nil)
	if _, err := svc.Run(context.Background(), nil, Input{Text: "hello", Source: "en", Target: "es"}); err == nil {
		t.Error("expected error for nil session")
	}
	if tr.calls.Load() != 0 {
		t.Error("translator called without a session")
	}
}

func TestEntry_Preview(t *testing.T) {
	long := strings.Repeat("ж", 100)
	e := Entry{Input: long, Output: "short"}
	in, out := e.Preview()
	if got := len([]rune(in)); got != PreviewRunes+1 {
		t.Errorf("preview has %d runes, want %d plus ellipsis", got, PreviewRunes)
	}
	if !strings.HasSuffix(in, "…") {
		t.Errorf("preview %q lacks ellipsis", in)
	}
	if out != "short" {
		t.Errorf("short text changed: %q", out)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(RegistryConfig{})

	s, created := r.Get("")
	if !created || s.ID == "" {
		t.Fatalf("expected new session, got %+v created=%v", s, created)
	}
	again, created := r.Get(s.ID)
	if created || again != s {
		t.Error("existing session not returned")
	}
	other, created := r.Get("unknown-id")
	if !created || other.ID == "unknown-id" {
		t.Error("unknown ids must get a fresh server-generated session")
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	r := NewRegistry(RegistryConfig{
		MaxSessions: 3,
		OnEvict:     func(s *Session) { evicted = append(evicted, s.ID) },
	})

	var ids []string
	for i := 0; i < 3; i++ {
		s, _ := r.Get("")
		ids = append(ids, s.ID)
	}
	// Touch the oldest so the second becomes the eviction candidate.
	if _, created := r.Get(ids[0]); created {
		t.Fatal("session lost before capacity was reached")
	}
	for i := 0; i < 2; i++ {
		s, _ := r.Get("bogus")
		ids = append(ids, s.ID)
	}

	if r.Len() != 3 {
		t.Errorf("Len = %d, want 3", r.Len())
	}
	if len(evicted) != 2 || evicted[0] != ids[1] || evicted[1] != ids[2] {
		t.Errorf("evicted = %v, want [%s %s]", evicted, ids[1], ids[2])
	}
	if _, created := r.Get(ids[0]); created {
		t.Error("recently used session was evicted")
	}
	if _, created := r.Get(ids[1]); !created {
		t.Error("evicted session still resolves")
	}
}

func TestRegistry_StaysBounded(t *testing.T) {
	var evictions int
	r := NewRegistry(RegistryConfig{MaxSessions: 10, OnEvict: func(*Session) { evictions++ }})
	for i := 0; i < 500; i++ {
		r.Get("")
	}
	if r.Len() != 10 {
		t.Errorf("Len = %d, want 10", r.Len())
	}
	if evictions != 490 {
		t.Errorf("evictions = %d, want 490", evictions)
	}
}

func TestRegistry_IdleExpiry(t *testing.T) {
	r := NewRegistry(RegistryConfig{MaxSessions: 10, IdleTTL: 20 * time.Millisecond})
	s, _ := r.Get("")

	time.Sleep(60 * time.Millisecond)

	fresh, created := r.Get(s.ID)
	if !created || fresh.ID == s.ID {
		t.Error("idle session should have expired")
	}
}
