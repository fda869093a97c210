// Package model holds the core data types shared across the review pipeline.
package model

// Sentinel is the placeholder value for a review field that could not be
// extracted from the page markup.
const Sentinel = "N/A"

// Review is a single product review as scraped from a listing page. Every
// field is always populated: extraction failures degrade individual fields
// to Sentinel instead of dropping the record.
type Review struct {
	Reviewer       string `json:"reviewer"`
	Rating         string `json:"rating"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	Body           string `json:"body"`
	CertifiedBuyer bool   `json:"certified_buyer"`
	HelpfulVotes   string `json:"helpful_votes"`
}

// Chunk is a bounded-length slice of concatenated passage text, the unit
// that gets embedded and indexed.
type Chunk struct {
	Text string `json:"text"`
	Pos  int    `json:"pos"`
}

// ScoredChunk pairs a chunk with its similarity score for a query.
type ScoredChunk struct {
	Chunk `json:"chunk"`
	Score float64 `json:"score"`
}

// ComponentRating is an LLM-derived rating for one product aspect. Ratings
// stay free-form strings ("4.5", "9/10") exactly as the model phrased them.
type ComponentRating struct {
	Name   string `json:"name"`
	Rating string `json:"rating"`
}

// RatingReport aggregates component-level ratings with an overall score.
type RatingReport struct {
	Components    []ComponentRating `json:"components"`
	OverallRating string            `json:"overall_rating"`
}
