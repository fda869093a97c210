package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tfidfCorpus = []string{
	"battery lasts long",
	"camera takes sharp photos",
	"battery drains fast",
}

func preparedTFIDF(t *testing.T) *TFIDF {
	t.Helper()
	e := NewTFIDF()
	require.NoError(t, e.Prepare(context.Background(), tfidfCorpus))
	return e
}

func TestTFIDF_PrepareSetsDimension(t *testing.T) {
	e := preparedTFIDF(t)
	// 9 distinct terms across the corpus.
	assert.Equal(t, 9, e.Dimension())
}

func TestTFIDF_EmbedBeforePrepare(t *testing.T) {
	_, err := NewTFIDF().Embed(context.Background(), "battery")
	assert.Error(t, err)
}

func TestTFIDF_EmptyCorpus(t *testing.T) {
	assert.Error(t, NewTFIDF().Prepare(context.Background(), nil))
	assert.Error(t, NewTFIDF().Prepare(context.Background(), []string{"!!!", "..."}))
}

func TestTFIDF_VectorsAreUnitLength(t *testing.T) {
	e := preparedTFIDF(t)
	vec, err := e.Embed(context.Background(), "battery lasts long")
	require.NoError(t, err)
	require.Len(t, vec, e.Dimension())

	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestTFIDF_OutOfVocabularyIsZeroVector(t *testing.T) {
	e := preparedTFIDF(t)
	vec, err := e.Embed(context.Background(), "completely unrelated words")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestTFIDF_Deterministic(t *testing.T) {
	a := NewTFIDF()
	b := NewTFIDF()
	require.NoError(t, a.Prepare(context.Background(), tfidfCorpus))
	require.NoError(t, b.Prepare(context.Background(), tfidfCorpus))

	va, err := a.Embed(context.Background(), "battery camera")
	require.NoError(t, err)
	vb, err := b.Embed(context.Background(), "battery camera")
	require.NoError(t, err)
	assert.Equal(t, va, vb)
}

func TestTFIDF_StateRoundTrip(t *testing.T) {
	e := preparedTFIDF(t)
	state, err := e.State()
	require.NoError(t, err)

	restored := NewTFIDF()
	require.NoError(t, restored.Restore(state))
	assert.Equal(t, e.Dimension(), restored.Dimension())

	want, err := e.Embed(context.Background(), "battery lasts")
	require.NoError(t, err)
	got, err := restored.Embed(context.Background(), "battery lasts")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTFIDF_RarerTermsWeighMore(t *testing.T) {
	e := preparedTFIDF(t)
	// "battery" appears in two documents, "camera" in one.
	cam, err := e.Embed(context.Background(), "camera")
	require.NoError(t, err)
	bat, err := e.Embed(context.Background(), "battery camera")
	require.NoError(t, err)

	var camIdx int
	for i, v := range cam {
		if v > 0 {
			camIdx = i
		}
	}
	var batIdx int
	for i, v := range bat {
		if v > 0 && i != camIdx {
			batIdx = i
		}
	}
	assert.Greater(t, bat[camIdx], bat[batIdx])
}

func TestTFIDF_StateBeforePrepare(t *testing.T) {
	_, err := NewTFIDF().State()
	assert.Error(t, err)
}
