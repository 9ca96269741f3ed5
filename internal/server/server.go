package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/quests/internal/handler"
	"github.com/dukerupert/quests/internal/metrics"
	"github.com/dukerupert/quests/internal/middleware"
	"github.com/dukerupert/quests/internal/query"
	"github.com/dukerupert/quests/internal/service"
	"github.com/dukerupert/quests/internal/store"
	ws "github.com/dukerupert/quests/internal/websocket"
)

type Options struct {
	Limits query.PageLimits
	// WriteRateLimit is mutating requests per client IP per minute; 0 disables.
	WriteRateLimit int
}

type Server struct {
	db         *sql.DB
	hub        *ws.Hub
	metrics    *metrics.Metrics
	limiter    *middleware.WriteLimiter
	questH     *handler.QuestHandler
	applicantH *handler.ApplicantHandler
	logger     *slog.Logger
}

func New(db *sql.DB, opts Options, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	m := metrics.New()
	m.WatchDB(db)
	m.WatchFeed(hub)

	questStore := store.NewQuestStore(db)
	applicantStore := store.NewApplicantStore(db)

	questLogger := logger.With("component", "quest")
	applicantLogger := logger.With("component", "applicant")

	s := &Server{
		db:      db,
		hub:     hub,
		metrics: m,
		questH: handler.NewQuestHandler(
			service.NewQuestService(questStore, questLogger),
			service.NewQuestQueryService(questStore, questLogger),
			opts.Limits, hub, questLogger,
		),
		applicantH: handler.NewApplicantHandler(
			service.NewApplicantService(applicantStore, applicantLogger),
			service.NewApplicantQueryService(applicantStore, applicantLogger),
			opts.Limits, hub, applicantLogger,
		),
		logger: logger,
	}
	if opts.WriteRateLimit > 0 {
		s.limiter = middleware.NewWriteLimiter(opts.WriteRateLimit, time.Minute)
	}
	return s
}

// Hub returns the change feed hub so it can be closed on shutdown.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// WriteLimiter returns the write limiter for its cleanup loop, or nil when
// limiting is disabled.
func (s *Server) WriteLimiter() *middleware.WriteLimiter {
	return s.limiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Quest API routes
	mux.HandleFunc("GET /api/quests", s.questH.List)
	mux.HandleFunc("GET /api/quests/count", s.questH.Count)
	mux.HandleFunc("GET /api/quests/{id}", s.questH.Get)
	mux.HandleFunc("POST /api/quests", s.questH.Create)
	mux.HandleFunc("PUT /api/quests/{id}", s.questH.Update)
	mux.HandleFunc("PATCH /api/quests/{id}", s.questH.Patch)
	mux.HandleFunc("DELETE /api/quests/{id}", s.questH.Delete)

	// Applicant API routes
	mux.HandleFunc("GET /api/applicants", s.applicantH.List)
	mux.HandleFunc("GET /api/applicants/count", s.applicantH.Count)
	mux.HandleFunc("GET /api/applicants/{id}", s.applicantH.Get)
	mux.HandleFunc("POST /api/applicants", s.applicantH.Create)
	mux.HandleFunc("PUT /api/applicants/{id}", s.applicantH.Update)
	mux.HandleFunc("PATCH /api/applicants/{id}", s.applicantH.Patch)
	mux.HandleFunc("DELETE /api/applicants/{id}", s.applicantH.Delete)

	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /health", s.healthHandler)

	mws := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RequestLogger(s.logger.With("component", "http")),
	}
	if s.limiter != nil {
		mws = append(mws, s.limiter.Middleware)
	}
	mws = append(mws, s.metrics.Middleware)
	return middleware.Chain(mux, mws...)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
