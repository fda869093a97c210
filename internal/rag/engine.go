// Package rag answers questions about a product by retrieving the most
// relevant review chunks and grounding a language model on them.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/model"
	"github.com/eapenjoshymuttom/Review-consolidator/pkg/llm"
)

// Retriever returns the k chunks most similar to a query. The vector
// index satisfies this.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]model.ScoredChunk, error)
}

// Config tunes retrieval depth and generation.
type Config struct {
	TopK        int
	SummaryTopK int
	MaxTokens   int64
	Temperature float64
	Stream      bool
}

// Engine wires retrieval to generation.
type Engine struct {
	client llm.Client
	cfg    Config
}

func New(client llm.Client, cfg Config) *Engine {
	if cfg.TopK <= 0 {
		cfg.TopK = 8
	}
	if cfg.SummaryTopK <= 0 {
		cfg.SummaryTopK = 10
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &Engine{client: client, cfg: cfg}
}

// Answer responds to a free-form question about the product, grounded on
// the TopK most relevant review chunks.
func (e *Engine) Answer(ctx context.Context, idx Retriever, product, question string) (string, error) {
	excerpts, err := e.retrieve(ctx, idx, question, e.cfg.TopK)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(answerPrompt, product, excerpts, question)
	return e.generate(ctx, prompt)
}

// Summarize produces an overall review summary, retrieving against a
// fixed probe query so the widest slice of opinions surfaces.
func (e *Engine) Summarize(ctx context.Context, idx Retriever, product string) (string, error) {
	probe := fmt.Sprintf("overall opinion pros cons of %s", product)
	excerpts, err := e.retrieve(ctx, idx, probe, e.cfg.SummaryTopK)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(summaryPrompt, product, excerpts)
	return e.generate(ctx, prompt)
}

// ComponentRatings asks the model to score the product aspects reviewers
// discuss. A response that does not parse as the expected JSON yields an
// empty report, never an error, so callers can render whatever came back.
func (e *Engine) ComponentRatings(ctx context.Context, idx Retriever, product string) (model.RatingReport, error) {
	probe := fmt.Sprintf("quality of individual components and features of %s", product)
	excerpts, err := e.retrieve(ctx, idx, probe, e.cfg.SummaryTopK)
	if err != nil {
		return model.RatingReport{}, err
	}
	prompt := fmt.Sprintf(ratingsPrompt, product, excerpts)
	raw, err := e.generate(ctx, prompt)
	if err != nil {
		return model.RatingReport{}, err
	}
	report, ok := parseRatingReport(raw)
	if !ok {
		zap.L().Warn("component ratings response did not parse", zap.String("product", product))
	}
	return report, nil
}

func (e *Engine) retrieve(ctx context.Context, idx Retriever, query string, k int) (string, error) {
	scored, err := idx.Search(ctx, query, k)
	if err != nil {
		return "", eris.Wrap(err, "retrieve chunks")
	}
	if len(scored) == 0 {
		return "", eris.New("no review chunks to ground on")
	}
	var sb strings.Builder
	for i, sc := range scored {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, sc.Text)
	}
	return sb.String(), nil
}

func (e *Engine) generate(ctx context.Context, prompt string) (string, error) {
	temp := e.cfg.Temperature
	out, err := e.client.Complete(ctx, prompt, llm.Options{
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: &temp,
		Stream:      e.cfg.Stream,
	})
	if err != nil {
		return "", eris.Wrap(err, "generate")
	}
	return out, nil
}
