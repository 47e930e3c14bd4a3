package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/intake/internal/conversation"
	"github.com/MikeSquared-Agency/intake/internal/session"
	"github.com/MikeSquared-Agency/intake/internal/store"
)

// Conversations is the session-facing side of the processor.
type Conversations interface {
	Start(ctx context.Context, mode string) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	HandleMessage(ctx context.Context, id, text string) (*session.Session, []conversation.Turn, error)
	Reset(ctx context.Context, id string) error
}

// Applications reads stored applications.
type Applications interface {
	GetApplication(ctx context.Context, id uuid.UUID) (*store.StoredApplication, error)
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	router        *chi.Mux
	conversations Conversations
	applications  Applications
	database      Pinger
	logger        *slog.Logger
	httpServer    *http.Server
}

func NewServer(port int, apiToken string, conversations Conversations, applications Applications, database Pinger, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:        router,
		conversations: conversations,
		applications:  applications,
		database:      database,
		logger:        logger,
	}

	router.Get("/health", s.health)
	router.Get("/ready", s.ready)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/", s.createSession)
		r.Get("/{id}", s.getSession)
		r.Post("/{id}/messages", s.postMessage)
		r.Delete("/{id}", s.deleteSession)
	})

	router.Route("/api/v1/applications", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Get("/{id}", s.getApplication)
	})

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Start serves until Shutdown is called, then returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight turns.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ready fails while the database is unreachable.
func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.database.Ping(ctx); err != nil {
		s.logger.Warn("readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
