package index

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("tok%d", i)
	}
	return out
}

func TestChunks_WindowArithmetic(t *testing.T) {
	passage := strings.Join(tokens(120), " ")

	chunks, err := Chunks([]string{passage}, ChunkConfig{Size: 50, Overlap: 8})
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	first := strings.Fields(chunks[0].Text)
	second := strings.Fields(chunks[1].Text)
	third := strings.Fields(chunks[2].Text)

	assert.Len(t, first, 50)
	assert.Len(t, second, 50)
	assert.Len(t, third, 36)

	// Adjacent chunks share exactly the overlap.
	assert.Equal(t, first[42:], second[:8])
	assert.Equal(t, second[42:], third[:8])

	assert.Equal(t, 0, chunks[0].Pos)
	assert.Equal(t, 1, chunks[1].Pos)
	assert.Equal(t, 2, chunks[2].Pos)
}

func TestChunks_ShortInput(t *testing.T) {
	chunks, err := Chunks([]string{"just a few tokens"}, ChunkConfig{Size: 100, Overlap: 50})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a few tokens", chunks[0].Text)
}

func TestChunks_SpansPassageBoundaries(t *testing.T) {
	chunks, err := Chunks([]string{"alpha beta", "gamma delta"}, ChunkConfig{Size: 3, Overlap: 1})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "alpha beta gamma", chunks[0].Text)
	assert.Equal(t, "gamma delta", chunks[1].Text)
}

func TestChunks_EmptyInput(t *testing.T) {
	chunks, err := Chunks(nil, ChunkConfig{Size: 10, Overlap: 2})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkConfig_Validate(t *testing.T) {
	assert.NoError(t, ChunkConfig{Size: 100, Overlap: 50}.Validate())
	assert.Error(t, ChunkConfig{Size: 0, Overlap: 0}.Validate())
	assert.Error(t, ChunkConfig{Size: 10, Overlap: 10}.Validate())
	assert.Error(t, ChunkConfig{Size: 10, Overlap: -1}.Validate())
}
