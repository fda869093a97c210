// Package server exposes the engine over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/assist"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/corpus"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/pipeline"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/rag"
)

// Server wires the HTTP surface to the engine.
type Server struct {
	service   *corpus.Service
	builder   *pipeline.Builder
	engine    *rag.Engine
	assistant *assist.Assistant
}

func New(service *corpus.Service, builder *pipeline.Builder, engine *rag.Engine, assistant *assist.Assistant) *Server {
	return &Server{service: service, builder: builder, engine: engine, assistant: assistant}
}

// Router builds the route tree with the standard middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/scrape", s.handleScrape)
		r.Post("/ask", s.handleAsk)
		r.Post("/summary", s.handleSummary)
		r.Post("/ratings", s.handleRatings)
		r.Get("/reviews/{product}", s.handleReviews)
		r.Post("/assist/complete", s.handleComplete)
		r.Post("/assist/personalize", s.handlePersonalize)
		r.Post("/assist/feedback", s.handleFeedback)
		r.Post("/assist/template", s.handleTemplate)
	})
	return r
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func respondErr(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, corpus.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrNoLinks), errors.Is(err, pipeline.ErrNoReviews):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
