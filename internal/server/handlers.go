package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/corpus"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/index"
)

type productRequest struct {
	Product  string   `json:"product"`
	URLs     []string `json:"urls,omitempty"`
	Question string   `json:"question,omitempty"`
	Partial  string   `json:"partial,omitempty"`
	Category string   `json:"category,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Audience string   `json:"audience,omitempty"`
	Excerpts string   `json:"excerpts,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`
}

func decodeProductRequest(w http.ResponseWriter, r *http.Request) (productRequest, bool) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.Product == "" {
		respondErr(w, http.StatusBadRequest, "product is required")
		return req, false
	}
	return req, true
}

// bundle resolves the request to a cached or freshly built bundle plus
// its searchable index.
func (s *Server) bundle(ctx context.Context, req productRequest) (*corpus.Bundle, *index.Index, error) {
	build := s.builder.BundleBuilder(req.Product, req.URLs)
	var (
		b   *corpus.Bundle
		err error
	)
	if req.Refresh {
		b, err = s.service.Refresh(ctx, req.Product, build)
	} else {
		b, err = s.service.GetOrCreate(ctx, req.Product, build)
	}
	if err != nil {
		return nil, nil, err
	}
	ix, err := s.builder.OpenIndex(b)
	if err != nil {
		return nil, nil, err
	}
	return b, ix, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}
	b, _, err := s.bundle(r.Context(), req)
	if err != nil {
		zap.L().Error("scrape failed", zap.String("product", req.Product), zap.Error(err))
		respondErr(w, statusFor(err), err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"product":   b.Product,
		"reviews":   len(b.Reviews),
		"passages":  len(b.Passages),
		"price":     b.Price,
		"image_url": b.ImageURL,
		"links":     b.Links,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}
	if req.Question == "" {
		respondErr(w, http.StatusBadRequest, "question is required")
		return
	}
	_, ix, err := s.bundle(r.Context(), req)
	if err != nil {
		respondErr(w, statusFor(err), err.Error())
		return
	}
	answer, err := s.engine.Answer(r.Context(), ix, req.Product, req.Question)
	if err != nil {
		zap.L().Error("answer failed", zap.String("product", req.Product), zap.Error(err))
		respondErr(w, statusFor(err), err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]string{"answer": answer})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}
	_, ix, err := s.bundle(r.Context(), req)
	if err != nil {
		respondErr(w, statusFor(err), err.Error())
		return
	}
	summary, err := s.engine.Summarize(r.Context(), ix, req.Product)
	if err != nil {
		respondErr(w, statusFor(err), err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}
	_, ix, err := s.bundle(r.Context(), req)
	if err != nil {
		respondErr(w, statusFor(err), err.Error())
		return
	}
	report, err := s.engine.ComponentRatings(r.Context(), ix, req.Product)
	if err != nil {
		respondErr(w, statusFor(err), err.Error())
		return
	}
	respond(w, http.StatusOK, report)
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	product, err := url.PathUnescape(chi.URLParam(r, "product"))
	if err != nil || product == "" {
		respondErr(w, http.StatusBadRequest, "product is required")
		return
	}
	b, err := s.service.Get(r.Context(), product)
	if err != nil {
		respondErr(w, statusFor(err), err.Error())
		return
	}
	respond(w, http.StatusOK, b)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}
	if s.assistant == nil {
		respondErr(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}
	questions, err := s.assistant.CompleteQuestion(r.Context(), req.Product, req.Partial)
	if err != nil {
		respondErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string][]string{"questions": questions})
}

func (s *Server) handlePersonalize(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Answer == "" || req.Audience == "" {
		respondErr(w, http.StatusBadRequest, "answer and audience are required")
		return
	}
	if s.assistant == nil {
		respondErr(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}
	out, err := s.assistant.Personalize(r.Context(), req.Answer, req.Audience)
	if err != nil {
		respondErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]string{"answer": out})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Answer == "" {
		respondErr(w, http.StatusBadRequest, "answer is required")
		return
	}
	if s.assistant == nil {
		respondErr(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}
	out, err := s.assistant.Critique(r.Context(), req.Question, req.Answer, req.Excerpts)
	if err != nil {
		respondErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]string{"feedback": out})
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}
	if s.assistant == nil {
		respondErr(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}
	category := req.Category
	if category == "" {
		category = req.Product
	}
	template, err := s.assistant.Template(r.Context(), category)
	if err != nil {
		respondErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]string{"template": template})
}
