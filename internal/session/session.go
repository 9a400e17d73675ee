// Package session carries the per-user state of the translate workflow:
// a session identity, its bounded translation history and the optional
// speech step. The dispatcher stays stateless; everything that outlives a
// single request lives here and is passed explicitly.
package session

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultDisplayLimit = 5
	DefaultMaxEntries   = 50
	PreviewRunes        = 80
	DefaultMaxSessions  = 10000
)

type Session struct {
	ID        string
	CreatedAt time.Time
}

func New() *Session {
	return &Session{ID: uuid.NewString(), CreatedAt: time.Now()}
}

// Entry is one successful translation. Codes are what backends understand;
// labels are what users see.
type Entry struct {
	Input       string    `json:"input"`
	Output      string    `json:"output"`
	SourceCode  string    `json:"source"`
	SourceLabel string    `json:"source_label"`
	TargetCode  string    `json:"target"`
	TargetLabel string    `json:"target_label"`
	Backend     string    `json:"backend"`
	CreatedAt   time.Time `json:"created_at"`
}

// Preview returns input and output truncated for list display.
func (e Entry) Preview() (input, output string) {
	return truncate(e.Input, PreviewRunes), truncate(e.Output, PreviewRunes)
}

// Languages renders the direction as "Source → Target".
func (e Entry) Languages() string {
	return e.SourceLabel + " → " + e.TargetLabel
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}

// RegistryConfig bounds the registry. OnEvict runs for every session that
// leaves it, whether pushed out by capacity or expired by IdleTTL.
type RegistryConfig struct {
	MaxSessions int
	IdleTTL     time.Duration // 0 disables expiry
	OnEvict     func(*Session)
}

// Registry maps session IDs to sessions for multi-user front ends. It holds
// at most MaxSessions entries and drops the least recently used first.
type Registry struct {
	cache *expirable.LRU[string, *Session]
}

func NewRegistry(config RegistryConfig) *Registry {
	if config.MaxSessions <= 0 {
		config.MaxSessions = DefaultMaxSessions
	}
	var onEvict expirable.EvictCallback[string, *Session]
	if config.OnEvict != nil {
		onEvict = func(_ string, s *Session) { config.OnEvict(s) }
	}
	return &Registry{
		cache: expirable.NewLRU[string, *Session](config.MaxSessions, onEvict, config.IdleTTL),
	}
}

// Get returns the session for id, creating a new one when id is empty,
// unknown or expired. created reports whether a new session was made.
// Returning an existing session restarts its idle timer.
func (r *Registry) Get(id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := r.cache.Get(id); ok {
			r.cache.Add(id, s)
			return s, false
		}
	}
	s = New()
	r.cache.Add(s.ID, s)
	return s, true
}

// Len reports the number of sessions held, including expired ones not yet
// swept.
func (r *Registry) Len() int {
	return r.cache.Len()
}
