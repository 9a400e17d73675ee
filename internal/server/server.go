// Package server exposes the translate workflow over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/13anudhan2005-netizen/language-translator/internal/session"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "session_id"

	maxBodyBytes = 1 << 20
)

type Config struct {
	Addr           string
	RateLimit      int // requests per minute per client IP, 0 disables
	AllowedOrigins []string
	// Backends is reported by /healthz.
	Backends []string
}

type Server struct {
	sessions *session.Service
	registry *session.Registry
	config   Config
	logger   *zap.Logger
	router   chi.Router
}

func New(sessions *session.Service, registry *session.Registry, config Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = session.NewRegistry(session.RegistryConfig{OnEvict: sessions.Forget})
	}
	s := &Server{
		sessions: sessions,
		registry: registry,
		config:   config,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", SessionHeader},
		ExposedHeaders:   []string{SessionHeader, "Content-Disposition"},
		AllowCredentials: false,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		if s.config.RateLimit > 0 {
			api.Use(httprate.LimitByIP(s.config.RateLimit, time.Minute))
		}
		api.Get("/languages", s.handleLanguages)

		api.Group(func(sr chi.Router) {
			sr.Use(s.withSession)
			sr.Post("/translate", s.handleTranslate)
			sr.Post("/translate/text", s.handleTranslateText)
			sr.Post("/speech", s.handleSpeech)
			sr.Get("/history", s.handleHistory)
			sr.Delete("/history", s.handleClearHistory)
		})
	})
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("http server listening", zap.String("addr", s.config.Addr))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

type sessionKey struct{}

// withSession attaches the caller's session, creating one when the request
// carries no known id. The id is echoed in a header and a cookie.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}
		}

		sess, created := s.registry.Get(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(SessionHeader, sess.ID)

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey{}).(*session.Session)
	return sess
}
