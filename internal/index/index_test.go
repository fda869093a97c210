package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/embed"
)

var testPassages = []string{
	"battery life long",
	"camera photo quality",
	"screen display bright",
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Build(context.Background(), testPassages, ChunkConfig{Size: 3, Overlap: 0}, embed.NewTFIDF())
	require.NoError(t, err)
	require.Equal(t, 3, ix.Size())
	return ix
}

func TestBuild_EmptyPassages(t *testing.T) {
	_, err := Build(context.Background(), nil, ChunkConfig{Size: 10, Overlap: 0}, embed.NewTFIDF())
	assert.Error(t, err)
}

func TestSearch_RanksMatchingChunkFirst(t *testing.T) {
	ix := newTestIndex(t)

	got, err := ix.Search(context.Background(), "battery life", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "battery life long", got[0].Text)
	assert.Greater(t, got[0].Score, 0.0)
}

func TestSearch_ClampsK(t *testing.T) {
	ix := newTestIndex(t)

	got, err := ix.Search(context.Background(), "battery", 50)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSearch_KZero(t *testing.T) {
	ix := newTestIndex(t)

	got, err := ix.Search(context.Background(), "battery", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_DeterministicOrder(t *testing.T) {
	ix := newTestIndex(t)

	first, err := ix.Search(context.Background(), "camera quality", 3)
	require.NoError(t, err)
	for range 5 {
		again, err := ix.Search(context.Background(), "camera quality", 3)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, "camera photo quality", first[0].Text)

	// Chunks the query matches not at all tie at zero and fall back to
	// position order.
	assert.Less(t, first[1].Pos, first[2].Pos)
}

func TestMarshalRoundTrip(t *testing.T) {
	ix := newTestIndex(t)

	data, err := ix.Marshal()
	require.NoError(t, err)

	restored, err := Unmarshal(data, embed.NewTFIDF())
	require.NoError(t, err)
	assert.Equal(t, ix.Size(), restored.Size())

	want, err := ix.Search(context.Background(), "battery life", 3)
	require.NoError(t, err)
	got, err := restored.Search(context.Background(), "battery life", 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUnmarshal_EmbedderMismatch(t *testing.T) {
	ix := newTestIndex(t)
	data, err := ix.Marshal()
	require.NoError(t, err)

	_, err = Unmarshal(data, embed.NewAPI("http://localhost:1", "", "test-model"))
	assert.Error(t, err)
}
