package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/13anudhan2005-netizen/language-translator/internal/dispatcher"
	"github.com/13anudhan2005-netizen/language-translator/internal/session"
	"github.com/13anudhan2005-netizen/language-translator/internal/speech"
	"github.com/13anudhan2005-netizen/language-translator/internal/store"
	"github.com/13anudhan2005-netizen/language-translator/internal/translator"
)

type echoTranslator struct{}

func (echoTranslator) Translate(_ context.Context, req translator.Request) (*dispatcher.Result, error) {
	if req.Text == "fail" {
		return nil, errors.New("all backends failed")
	}
	return &dispatcher.Result{
		TranslatedText: strings.ToUpper(req.Text),
		Backend:        "echo",
		SourceLang:     req.SourceLang,
		TargetLang:     req.TargetLang,
	}, nil
}

type stubSynth struct{}

func (stubSynth) Synthesize(_ context.Context, text string, _ speech.Options) ([]byte, error) {
	return []byte(text), nil
}

func newTestShell(t *testing.T, out *bytes.Buffer) *shell {
	t.Helper()
	h, err := store.New("")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { h.Close() })
	return &shell{
		svc:    session.NewService(echoTranslator{}, h, stubSynth{}, session.Config{}, nil),
		sess:   session.New(),
		source: "en",
		out:    out,
	}
}

func TestShell_TranslateAndHistory(t *testing.T) {
	var out bytes.Buffer
	sh := newTestShell(t, &out)

	input := strings.Join([]string{
		"hello",
		":target es",
		"hello",
		"fail",
		":history",
		":quit",
		"never reached",
	}, "\n")
	if err := sh.run(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Set a target language first") {
		t.Error("missing target prompt")
	}
	if !strings.Contains(got, "HELLO") {
		t.Error("translation not printed")
	}
	if !strings.Contains(got, "Error: all backends failed") {
		t.Error("failure not reported")
	}
	if !strings.Contains(got, "English → Spanish") {
		t.Errorf("history missing language direction:\n%s", got)
	}
	if strings.Contains(got, "NEVER REACHED") {
		t.Error("input after :quit was translated")
	}
}

func TestShell_LanguageCommands(t *testing.T) {
	var out bytes.Buffer
	sh := newTestShell(t, &out)

	sh.command(context.Background(), ":target auto")
	if sh.target != "" {
		t.Errorf("auto accepted as target: %q", sh.target)
	}
	sh.command(context.Background(), ":target ZH")
	if sh.target != "zh-CN" {
		t.Errorf("target = %q, want zh-CN", sh.target)
	}
	sh.command(context.Background(), ":source auto")
	if sh.source != "auto" {
		t.Errorf("source = %q, want auto", sh.source)
	}
	sh.command(context.Background(), ":source klingon")
	if sh.source != "auto" {
		t.Errorf("unknown source changed state: %q", sh.source)
	}
	if quit := sh.command(context.Background(), ":bogus"); quit {
		t.Error("unknown command quit the shell")
	}
}

func TestShell_SpeakAndClear(t *testing.T) {
	var out bytes.Buffer
	sh := newTestShell(t, &out)
	sh.target = "fr"
	ctx := context.Background()

	sh.command(ctx, ":speak")
	if !strings.Contains(out.String(), "Nothing to speak yet") {
		t.Error("speak without translation not reported")
	}

	sh.translate(ctx, "bonjour")
	path := filepath.Join(t.TempDir(), "out.mp3")
	sh.command(ctx, ":speak "+path)
	audio, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("audio not written: %v", err)
	}
	if string(audio) != "BONJOUR" {
		t.Errorf("audio = %q", audio)
	}

	sh.command(ctx, ":clear")
	entries, err := sh.svc.History(ctx, sh.sess)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("history not cleared: %d entries", len(entries))
	}
}

func TestBuildServices(t *testing.T) {
	services, err := buildServices([]translator.ServiceConfig{
		{Kind: translator.KindGoogleWeb},
		{Name: "backup", Kind: translator.KindMyMemory},
	})
	if err != nil {
		t.Fatalf("buildServices: %v", err)
	}
	if len(services) != 2 || services[0].Name() != "googleweb" || services[1].Name() != "backup" {
		t.Errorf("unexpected chain: %v", services)
	}

	if _, err := buildServices(nil); err == nil {
		t.Error("expected error for empty chain")
	}
	if _, err := buildServices([]translator.ServiceConfig{{Kind: "babelfish"}}); err == nil {
		t.Error("expected error for unknown kind")
	}
}
