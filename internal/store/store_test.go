package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New("")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func entry(session string, n int) HistoryEntry {
	return HistoryEntry{
		ID:          fmt.Sprintf("%s-%d", session, n),
		SessionID:   session,
		Input:       fmt.Sprintf("input %d", n),
		Output:      fmt.Sprintf("output %d", n),
		SourceCode:  "en",
		SourceLabel: "English",
		TargetCode:  "es",
		TargetLabel: "Spanish",
		Backend:     "fake",
		CreatedAt:   time.Now(),
	}
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)
	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_New_FilePath(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_StartsEmpty(t *testing.T) {
	s := newTestStore(t)
	n, err := s.CountHistory(context.Background(), "any")
	if err != nil {
		t.Fatalf("CountHistory failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty history, got %d entries", n)
	}
}

func TestStore_AppendAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		if err := s.AppendHistory(ctx, entry("a", i)); err != nil {
			t.Fatalf("AppendHistory failed: %v", err)
		}
	}

	got, err := s.RecentHistory(ctx, "a", 5)
	if err != nil {
		t.Fatalf("RecentHistory failed: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(got))
	}
	for i, e := range got {
		want := fmt.Sprintf("input %d", 7-i)
		if e.Input != want {
			t.Errorf("entry %d: input = %q, want %q", i, e.Input, want)
		}
	}
	if got[0].SourceLabel != "English" || got[0].TargetCode != "es" {
		t.Errorf("language fields not round-tripped: %+v", got[0])
	}

	all, err := s.RecentHistory(ctx, "a", 0)
	if err != nil {
		t.Fatalf("RecentHistory failed: %v", err)
	}
	if len(all) != 7 {
		t.Errorf("expected 7 entries without limit, got %d", len(all))
	}
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AppendHistory(ctx, entry("a", 1)); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendHistory(ctx, entry("b", 1)); err != nil {
		t.Fatal(err)
	}

	got, err := s.RecentHistory(ctx, "b", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SessionID != "b" {
		t.Errorf("session b sees %+v", got)
	}

	if _, err := s.ClearHistory(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.CountHistory(ctx, "b"); n != 1 {
		t.Errorf("clearing session a removed entries of b: count %d", n)
	}
}

func TestStore_PruneHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		if err := s.AppendHistory(ctx, entry("a", i)); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := s.PruneHistory(ctx, "a", 3)
	if err != nil {
		t.Fatalf("PruneHistory failed: %v", err)
	}
	if removed != 7 {
		t.Errorf("expected 7 removed, got %d", removed)
	}

	got, err := s.RecentHistory(ctx, "a", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Input != "input 10" || got[2].Input != "input 8" {
		t.Errorf("prune kept the wrong entries: %+v", got)
	}
}

func TestStore_AppendRequiresIDs(t *testing.T) {
	s := newTestStore(t)
	e := entry("a", 1)
	e.ID = ""
	if err := s.AppendHistory(context.Background(), e); err == nil {
		t.Error("expected error for missing id")
	}
}

func TestStore_NormalizesText(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := entry("a", 1)
	e.Input = "  Cafe\u0301  "
	if err := s.AppendHistory(ctx, e); err != nil {
		t.Fatal(err)
	}

	got, err := s.RecentHistory(ctx, "a", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Input != "Caf\u00e9" {
		t.Errorf("input = %q, want NFC %q", got[0].Input, "Caf\u00e9")
	}
}

func TestStore_SeparateStoresDoNotShare(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)
	ctx := context.Background()

	if err := a.AppendHistory(ctx, entry("s", 1)); err != nil {
		t.Fatal(err)
	}
	if n, _ := b.CountHistory(ctx, "s"); n != 0 {
		t.Errorf("second store sees %d entries from the first", n)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  hello  ", "hello"},
		{"e\u0301", "\u00e9"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeText(tt.input); got != tt.expected {
			t.Errorf("normalizeText(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
