package rag

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/model"
	"github.com/eapenjoshymuttom/Review-consolidator/pkg/llm"
)

type stubLLM struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubLLM) Complete(_ context.Context, prompt string, _ llm.Options) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

type stubRetriever struct {
	chunks  []model.ScoredChunk
	err     error
	queries []string
	ks      []int
}

func (s *stubRetriever) Search(_ context.Context, query string, k int) ([]model.ScoredChunk, error) {
	s.queries = append(s.queries, query)
	s.ks = append(s.ks, k)
	return s.chunks, s.err
}

func scoredChunks(texts ...string) []model.ScoredChunk {
	out := make([]model.ScoredChunk, len(texts))
	for i, txt := range texts {
		out[i] = model.ScoredChunk{Chunk: model.Chunk{Text: txt, Pos: i}, Score: 1.0 - float64(i)*0.1}
	}
	return out
}

func TestAnswer_GroundsPromptOnRetrievedChunks(t *testing.T) {
	client := &stubLLM{reply: "Battery lasts about two days."}
	ret := &stubRetriever{chunks: scoredChunks("battery last two day", "charge overnight fine")}
	e := New(client, Config{TopK: 8})

	answer, err := e.Answer(context.Background(), ret, "widget x", "How is the battery?")
	require.NoError(t, err)
	assert.Equal(t, "Battery lasts about two days.", answer)

	require.Len(t, ret.queries, 1)
	assert.Equal(t, "How is the battery?", ret.queries[0])
	assert.Equal(t, []int{8}, ret.ks)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "battery last two day")
	assert.Contains(t, client.prompts[0], "charge overnight fine")
	assert.Contains(t, client.prompts[0], "How is the battery?")
	assert.Contains(t, client.prompts[0], "widget x")
}

func TestAnswer_EmptyRetrieval(t *testing.T) {
	e := New(&stubLLM{reply: "x"}, Config{})
	_, err := e.Answer(context.Background(), &stubRetriever{}, "widget x", "anything?")
	assert.Error(t, err)
}

func TestAnswer_RetrieverError(t *testing.T) {
	e := New(&stubLLM{reply: "x"}, Config{})
	ret := &stubRetriever{err: eris.New("index corrupt")}
	_, err := e.Answer(context.Background(), ret, "widget x", "anything?")
	assert.Error(t, err)
}

func TestSummarize_UsesSummaryDepth(t *testing.T) {
	client := &stubLLM{reply: "Mostly positive."}
	ret := &stubRetriever{chunks: scoredChunks("good value", "minor heat issue")}
	e := New(client, Config{TopK: 8, SummaryTopK: 10})

	summary, err := e.Summarize(context.Background(), ret, "widget x")
	require.NoError(t, err)
	assert.Equal(t, "Mostly positive.", summary)
	assert.Equal(t, []int{10}, ret.ks)
}

func TestComponentRatings_ParsesJSON(t *testing.T) {
	client := &stubLLM{reply: `Here you go:
{"components": [{"name": "battery", "rating": "4"}, {"name": "display", "rating": "5"}], "overall_rating": "4.5"}`}
	ret := &stubRetriever{chunks: scoredChunks("battery good", "display sharp")}
	e := New(client, Config{})

	report, err := e.ComponentRatings(context.Background(), ret, "widget x")
	require.NoError(t, err)
	assert.Equal(t, "4.5", report.OverallRating)
	require.Len(t, report.Components, 2)
	assert.Equal(t, "battery", report.Components[0].Name)
	assert.Equal(t, "4", report.Components[0].Rating)
}

func TestComponentRatings_MalformedResponseYieldsEmptyReport(t *testing.T) {
	client := &stubLLM{reply: "I cannot produce JSON today."}
	ret := &stubRetriever{chunks: scoredChunks("battery good")}
	e := New(client, Config{})

	report, err := e.ComponentRatings(context.Background(), ret, "widget x")
	require.NoError(t, err)
	assert.Empty(t, report.Components)
	assert.Empty(t, report.OverallRating)
}

func TestComponentRatings_LLMError(t *testing.T) {
	client := &stubLLM{err: eris.New("rate limited")}
	ret := &stubRetriever{chunks: scoredChunks("battery good")}
	e := New(client, Config{})

	_, err := e.ComponentRatings(context.Background(), ret, "widget x")
	assert.Error(t, err)
}
