// Package corpus persists scraped review bundles keyed by product
// identity and hands them out to the query side.
package corpus

import (
	"time"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/model"
)

// Bundle is everything the engine keeps for one product: the raw
// reviews, the normalized passages, the serialized retrieval index, and
// the product details scraped alongside them.
type Bundle struct {
	ID        string         `json:"id"`
	Product   string         `json:"product"`
	Links     []string       `json:"links"`
	Price     string         `json:"price"`
	ImageURL  string         `json:"image_url"`
	Reviews   []model.Review `json:"reviews"`
	Passages  []string       `json:"passages"`
	Index     []byte         `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
}
