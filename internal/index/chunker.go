// Package index builds the chunked vector index over normalized passages
// and answers nearest-neighbor queries against it.
package index

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/model"
)

// ChunkConfig sets the sliding-window parameters. Overlap must be strictly
// smaller than Size so the window always advances.
type ChunkConfig struct {
	Size    int
	Overlap int
}

// Validate checks the window parameters.
func (c ChunkConfig) Validate() error {
	if c.Size <= 0 {
		return eris.Errorf("chunk: size must be positive, got %d", c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return eris.Errorf("chunk: overlap must be in [0, size), got %d for size %d", c.Overlap, c.Size)
	}
	return nil
}

// Chunks slides a token window over the concatenated passages. Every chunk
// holds at most Size tokens and each adjacent pair shares exactly Overlap
// tokens, except that the final chunk may be shorter.
func Chunks(passages []string, cfg ChunkConfig) ([]model.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tokens := strings.Fields(strings.Join(passages, " "))
	if len(tokens) == 0 {
		return nil, nil
	}

	step := cfg.Size - cfg.Overlap
	var chunks []model.Chunk
	for start, pos := 0, 0; start < len(tokens); start, pos = start+step, pos+1 {
		end := start + cfg.Size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, model.Chunk{
			Text: strings.Join(tokens[start:end], " "),
			Pos:  pos,
		})
		if end == len(tokens) {
			break
		}
	}

	return chunks, nil
}
