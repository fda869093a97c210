package rag

import (
	"encoding/json"
	"strings"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/model"
)

// parseRatingReport digs the JSON object out of a model response that may
// wrap it in prose or a code fence. Returns false when no well-formed
// object is found.
func parseRatingReport(raw string) (model.RatingReport, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return model.RatingReport{}, false
	}
	var report model.RatingReport
	if err := json.Unmarshal([]byte(raw[start:end+1]), &report); err != nil {
		return model.RatingReport{}, false
	}
	return report, true
}
