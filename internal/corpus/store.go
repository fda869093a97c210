package corpus

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrNotFound reports that no bundle exists under a key.
var ErrNotFound = eris.New("bundle not found")

// Store persists bundles. Save overwrites any bundle under the same key.
type Store interface {
	Save(ctx context.Context, key string, b *Bundle) error
	Load(ctx context.Context, key string) (*Bundle, error)
}

const maxKeyLen = 100

// SanitizeKey maps a free-form product name onto a storage key. Runs of
// anything outside [a-zA-Z0-9] collapse to single underscores so the key
// is safe as a filename and a primary key alike.
func SanitizeKey(product string) string {
	var (
		out  []byte
		prev byte
	)
	for i := 0; i < len(product) && len(out) < maxKeyLen; i++ {
		c := product[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out = append(out, c)
			prev = c
		default:
			if prev != '_' && len(out) > 0 {
				out = append(out, '_')
				prev = '_'
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '_' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "_"
	}
	return string(out)
}
