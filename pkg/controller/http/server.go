package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
	"github.com/gigbook/herald/pkg/utils/logging"
)

// NotificationUseCase is the engine surface served over HTTP
type NotificationUseCase interface {
	RunSweep(ctx context.Context, userID types.UserID) ([]*model.Notification, error)
	GetActiveNotifications(ctx context.Context, userID types.UserID, limit int) ([]*model.Notification, error)
	Dismiss(ctx context.Context, userID types.UserID, id types.NotificationID) error
}

// Scheduler registers users for periodic sweeps
type Scheduler interface {
	Track(userID types.UserID) bool
	Untrack(userID types.UserID) bool
}

type Server struct {
	router    *chi.Mux
	uc        NotificationUseCase
	scheduler Scheduler
}

type Options func(*Server)

// WithScheduler enables session tracking. Without it, listing notifications
// does not start periodic sweeps and ending a session is a no-op.
func WithScheduler(scheduler Scheduler) Options {
	return func(s *Server) {
		s.scheduler = scheduler
	}
}

func New(uc NotificationUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler)

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Post("/sweep", s.sweepHandler)
		r.Get("/notifications", s.listHandler)
		r.Post("/notifications/{notificationID}/dismiss", s.dismissHandler)
		r.Delete("/session", s.endSessionHandler)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok")) //nolint:errcheck // header already committed
}
