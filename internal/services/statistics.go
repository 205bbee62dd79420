package services

import (
	"time"

	"github.com/lancecummins/eatout/internal/models"
)

// ComputeGroupStatistics folds every participant's elimination sets into
// group-wide counts. Each count is the number of distinct participants whose
// set contains the key, so the result is independent of the order in which
// responses are folded and of how often a participant toggled along the way.
// Recomputing on unchanged input yields identical counts.
func ComputeGroupStatistics(sessionID string, responses []*models.ParticipantResponse) models.GroupStatistics {
	stats := models.GroupStatistics{
		SessionID:                   sessionID,
		ParticipantCount:            len(responses),
		CuisineEliminationCounts:    make(map[string]int),
		VenueEliminationCounts:      make(map[string]int),
		RestaurantEliminationCounts: make(map[string]int),
		UpdatedAt:                   time.Now(),
	}

	for _, response := range responses {
		stats.TotalEliminations += countSet(response.EliminatedCuisines, stats.CuisineEliminationCounts)
		stats.TotalEliminations += countSet(response.EliminatedVenues, stats.VenueEliminationCounts)
		stats.TotalEliminations += countSet(response.EliminatedRestaurants, stats.RestaurantEliminationCounts)
	}

	return stats
}

// countSet adds one count per distinct key in a single participant's set and
// returns how many keys were counted. Duplicates within one set are skipped
// so a dirty record can never inflate a count past the participant count.
func countSet(set []string, counts map[string]int) int {
	if len(set) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(set))
	counted := 0
	for _, key := range set {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		counts[key]++
		counted++
	}
	return counted
}
