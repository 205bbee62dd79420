package models

import "time"

// Recommendation wraps a candidate with its computed score. Derived and
// ephemeral: recomputed per request, never persisted.
type Recommendation struct {
	Restaurant       Restaurant `json:"restaurant"`
	Score            float64    `json:"score"`
	EliminationCount int        `json:"elimination_count"`
	IsFavorited      bool       `json:"is_favorited"`
	Reasoning        string     `json:"reasoning,omitempty"`
}

// RecommendationResult is the ranked answer for one request.
type RecommendationResult struct {
	Recommendations   []Recommendation `json:"recommendations"`
	TotalParticipants int              `json:"total_participants"`
	TotalRestaurants  int              `json:"total_restaurants"`
	GeneratedAt       time.Time        `json:"generated_at"`
}
