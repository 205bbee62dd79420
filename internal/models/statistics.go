package models

import "time"

// GroupStatistics is a pure function of all responses for a session at a
// point in time. It is recomputed from scratch on every read, never patched
// incrementally, so its counts are independent of mutation order.
type GroupStatistics struct {
	SessionID                   string         `json:"session_id"`
	ParticipantCount            int            `json:"participant_count"`
	TotalEliminations           int            `json:"total_eliminations"`
	CuisineEliminationCounts    map[string]int `json:"cuisine_elimination_counts"`
	VenueEliminationCounts      map[string]int `json:"venue_elimination_counts"`
	RestaurantEliminationCounts map[string]int `json:"restaurant_elimination_counts"`
	UpdatedAt                   time.Time      `json:"updated_at"`
}

// TypeEliminations returns the effective elimination count for a category
// tag: the maximum of its cuisine and venue counts. A tag eliminated as a
// cuisine by one participant and as a venue by another still only counts the
// stronger of the two tallies.
func (g *GroupStatistics) TypeEliminations(categoryType string) int {
	cuisine := g.CuisineEliminationCounts[categoryType]
	venue := g.VenueEliminationCounts[categoryType]
	if venue > cuisine {
		return venue
	}
	return cuisine
}

// FullyEliminatedType reports whether every current participant eliminated
// the category tag. Always false with zero participants.
func (g *GroupStatistics) FullyEliminatedType(categoryType string) bool {
	return g.ParticipantCount > 0 && g.TypeEliminations(categoryType) == g.ParticipantCount
}
