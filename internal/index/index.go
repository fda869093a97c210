package index

import (
	"bytes"
	"context"
	"encoding/gob"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/embed"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/model"
)

// Index is an immutable in-memory vector index over chunks. Vectors are
// L2-normalized by the embedder, so ranking uses plain dot product (cosine
// similarity). Once built, an Index is safe for concurrent read-only use.
type Index struct {
	chunks  []model.Chunk
	vectors [][]float64
	emb     embed.Embedder
}

// snapshot is the gob-serializable form of an Index.
type snapshot struct {
	Chunks        []model.Chunk
	Vectors       [][]float64
	EmbedderName  string
	EmbedderState []byte
}

// Build chunks the passages, fits the embedder to the chunk texts and embeds
// every chunk in one batch. The returned index is immutable.
func Build(ctx context.Context, passages []string, cfg ChunkConfig, emb embed.Embedder) (*Index, error) {
	chunks, err := Chunks(passages, cfg)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, eris.New("index: no chunks to index")
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	if err := emb.Prepare(ctx, texts); err != nil {
		return nil, eris.Wrap(err, "index: prepare embedder")
	}

	vectors := make([][]float64, len(chunks))
	for i, text := range texts {
		vec, err := emb.Embed(ctx, text)
		if err != nil {
			return nil, eris.Wrapf(err, "index: embed chunk %d", i)
		}
		vectors[i] = vec
	}

	zap.L().Debug("index built",
		zap.Int("chunks", len(chunks)),
		zap.String("embedder", emb.Name()),
	)

	return &Index{chunks: chunks, vectors: vectors, emb: emb}, nil
}

// Size returns the number of indexed chunks.
func (ix *Index) Size() int { return len(ix.chunks) }

// Search returns up to k chunks ranked most-similar first. k larger than the
// index is clamped; k <= 0 returns nil. Ranking is deterministic for a fixed
// index: ties break on chunk position.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]model.ScoredChunk, error) {
	if k <= 0 || len(ix.chunks) == 0 {
		return nil, nil
	}
	if k > len(ix.chunks) {
		k = len(ix.chunks)
	}

	qvec, err := ix.emb.Embed(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "index: embed query")
	}

	scored := make([]model.ScoredChunk, len(ix.chunks))
	for i := range ix.chunks {
		scored[i] = model.ScoredChunk{
			Chunk: ix.chunks[i],
			Score: dot(ix.vectors[i], qvec),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.Pos < scored[j].Chunk.Pos
	})

	return scored[:k], nil
}

// Marshal serializes the index, including the embedder's fitted state when
// it has one.
func (ix *Index) Marshal() ([]byte, error) {
	snap := snapshot{
		Chunks:       ix.chunks,
		Vectors:      ix.vectors,
		EmbedderName: ix.emb.Name(),
	}
	if st, ok := ix.emb.(embed.Stateful); ok {
		state, err := st.State()
		if err != nil {
			return nil, eris.Wrap(err, "index: embedder state")
		}
		snap.EmbedderState = state
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, eris.Wrap(err, "index: encode")
	}
	return buf.Bytes(), nil
}

// Unmarshal restores an index from Marshal output, rebinding it to the given
// embedder. The embedder must match the one the index was built with.
func Unmarshal(data []byte, emb embed.Embedder) (*Index, error) {
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, eris.Wrap(err, "index: decode")
	}
	if snap.EmbedderName != emb.Name() {
		return nil, eris.Errorf("index: built with embedder %q, loading with %q",
			snap.EmbedderName, emb.Name())
	}
	if len(snap.EmbedderState) > 0 {
		st, ok := emb.(embed.Stateful)
		if !ok {
			return nil, eris.Errorf("index: embedder %q cannot restore saved state", emb.Name())
		}
		if err := st.Restore(snap.EmbedderState); err != nil {
			return nil, err
		}
	}

	return &Index{chunks: snap.Chunks, vectors: snap.Vectors, emb: emb}, nil
}

func dot(a, b []float64) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
