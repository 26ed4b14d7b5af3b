// Package server exposes the dashboard JSON API: quotes, 30-day history,
// market overview, and next-day predictions.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"StockPulse/internal/market"
	"StockPulse/internal/predictor"
)

// Server wires the fetchers and the prediction engine to HTTP routes.
type Server struct {
	Logger   *zap.Logger
	Fallback *market.FallbackFetcher
	// Overview uses the underlying fetcher directly: a symbol whose fetch
	// fails is dropped from the batch instead of being synthesized, so the
	// overview never mixes live and fake rows.
	Overview market.Fetcher
	Engine   *predictor.Engine
}

func New(logger *zap.Logger, fallback *market.FallbackFetcher, overview market.Fetcher, engine *predictor.Engine) *Server {
	return &Server{
		Logger:   logger,
		Fallback: fallback,
		Overview: overview,
		Engine:   engine,
	}
}

// Handler builds the chi router with all API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/quote/{symbol}", s.handleQuote)
		r.Get("/history/{symbol}", s.handleHistory)
		r.Get("/overview", s.handleOverview)
		r.Post("/predict", s.handlePredict)
		r.Post("/data", s.handleData)
	})
	return r
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := uuid.New().String()
		w.Header().Set("X-Request-ID", rid)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info("request",
			zap.String("rid", rid),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
