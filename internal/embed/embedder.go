// Package embed provides pluggable text embedding for the vector index.
package embed

import "context"

// Embedder converts text into a fixed-dimension vector. Implementations may
// require a preparation pass over the corpus before embedding. After Prepare
// an embedder is read-only and safe for concurrent Embed calls.
type Embedder interface {
	Name() string
	// Prepare fits the embedder to the corpus and pins the vector
	// dimension. Providers with no fitting phase return nil immediately.
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Stateful is implemented by embedders whose fitted state must survive a
// bundle save/load cycle (e.g. a TF-IDF vocabulary). Embedders backed by an
// external model have no state to carry.
type Stateful interface {
	State() ([]byte, error)
	Restore(state []byte) error
}
