package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jwebster45206/word-battle/pkg/question"
	"github.com/jwebster45206/word-battle/pkg/storage"
)

// Deps are the services the API routes are built from.
type Deps struct {
	Storage    storage.Storage
	Arena      Arena
	Subscriber Subscriber
	Bank       *question.Bank
	Logger     *slog.Logger
}

// NewRouter wires every API route.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(chimw.Recoverer)

	r.Method(http.MethodGet, "/health", NewHealthHandler(d.Storage, d.Logger))

	r.Route("/v1", func(r chi.Router) {
		r.Method(http.MethodGet, "/questions", NewQuestionsHandler(d.Bank, d.Logger))
		r.Method(http.MethodGet, "/inventory", NewInventoryHandler(d.Logger))
		r.Route("/matches", NewMatchesHandler(d.Arena, d.Logger).Routes)
		r.Method(http.MethodGet, "/events/matches/{id}", NewEventsHandler(d.Subscriber, d.Logger))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, d.Logger, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, d.Logger, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()))
		})
	}
}
