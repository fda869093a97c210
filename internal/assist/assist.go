// Package assist holds the lighter LLM helpers around the main query
// flow: question completion, answer restyling, review templates and
// feedback capture.
package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/eapenjoshymuttom/Review-consolidator/pkg/llm"
)

type Assistant struct {
	client    llm.Client
	maxTokens int64
}

func New(client llm.Client, maxTokens int64) *Assistant {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &Assistant{client: client, maxTokens: maxTokens}
}

// CompleteQuestion expands a partial question into up to three full
// questions a buyer might ask about the product, one per line.
func (a *Assistant) CompleteQuestion(ctx context.Context, product, partial string) ([]string, error) {
	prompt := fmt.Sprintf(
		"A shopper is typing a question about %s and has written: %q\n"+
			"Suggest up to three complete questions they might be asking. "+
			"Reply with one question per line and nothing else.",
		product, partial)
	out, err := a.client.Complete(ctx, prompt, llm.Options{MaxTokens: a.maxTokens})
	if err != nil {
		return nil, eris.Wrap(err, "complete question")
	}
	var questions []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" {
			questions = append(questions, line)
		}
	}
	if len(questions) > 3 {
		questions = questions[:3]
	}
	return questions, nil
}

// Personalize restyles an answer for a given audience without changing
// its factual content.
func (a *Assistant) Personalize(ctx context.Context, answer, audience string) (string, error) {
	prompt := fmt.Sprintf(
		"Rewrite the following answer for this audience: %s.\n"+
			"Keep every fact unchanged and do not add new claims.\n\nAnswer:\n%s",
		audience, answer)
	out, err := a.client.Complete(ctx, prompt, llm.Options{MaxTokens: a.maxTokens})
	if err != nil {
		return "", eris.Wrap(err, "personalize answer")
	}
	return out, nil
}

// Template produces a fill-in-the-blanks review template for a product
// category, covering the aspects buyers in that category care about.
func (a *Assistant) Template(ctx context.Context, category string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a short review template for a product in the category: %s.\n"+
			"Use [brackets] for the parts the reviewer fills in. "+
			"Cover the aspects buyers of this category care about most. "+
			"Reply with the template only.",
		category)
	out, err := a.client.Complete(ctx, prompt, llm.Options{MaxTokens: a.maxTokens})
	if err != nil {
		return "", eris.Wrap(err, "review template")
	}
	return out, nil
}

// Critique grades how well an answer stays grounded in the given review
// excerpts and flags unsupported claims.
func (a *Assistant) Critique(ctx context.Context, question, answer, excerpts string) (string, error) {
	prompt := fmt.Sprintf(
		"Question: %s\n\nAnswer given:\n%s\n\nReview excerpts the answer should rely on:\n%s\n\n"+
			"List any claims in the answer that the excerpts do not support. "+
			"If every claim is supported, reply exactly: grounded.",
		question, answer, excerpts)
	out, err := a.client.Complete(ctx, prompt, llm.Options{MaxTokens: a.maxTokens})
	if err != nil {
		return "", eris.Wrap(err, "critique answer")
	}
	return out, nil
}
