package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lancecummins/eatout/internal/models"
)

func makeResponse(userID string, cuisines, venues, restaurants []string) *models.ParticipantResponse {
	r := models.NewParticipantResponse("session-1", userID, "")
	r.EliminatedCuisines = cuisines
	r.EliminatedVenues = venues
	r.EliminatedRestaurants = restaurants
	return r
}

func TestComputeGroupStatistics(t *testing.T) {
	t.Run("counts distinct participants per key", func(t *testing.T) {
		responses := []*models.ParticipantResponse{
			makeResponse("u1", []string{"italian_restaurant", "thai_restaurant"}, nil, []string{"place-1"}),
			makeResponse("u2", []string{"italian_restaurant"}, []string{"bar"}, nil),
			makeResponse("u3", nil, nil, nil),
		}

		stats := ComputeGroupStatistics("session-1", responses)

		assert.Equal(t, 3, stats.ParticipantCount)
		assert.Equal(t, 2, stats.CuisineEliminationCounts["italian_restaurant"])
		assert.Equal(t, 1, stats.CuisineEliminationCounts["thai_restaurant"])
		assert.Equal(t, 1, stats.VenueEliminationCounts["bar"])
		assert.Equal(t, 1, stats.RestaurantEliminationCounts["place-1"])
		assert.Equal(t, 5, stats.TotalEliminations)
	})

	t.Run("duplicates in one set never inflate counts", func(t *testing.T) {
		responses := []*models.ParticipantResponse{
			makeResponse("u1", []string{"cafe", "cafe", "cafe"}, nil, nil),
		}

		stats := ComputeGroupStatistics("session-1", responses)

		assert.Equal(t, 1, stats.CuisineEliminationCounts["cafe"])
		assert.Equal(t, 1, stats.TotalEliminations)
	})

	t.Run("independent of response order", func(t *testing.T) {
		a := makeResponse("u1", []string{"italian_restaurant"}, []string{"bar"}, nil)
		b := makeResponse("u2", []string{"thai_restaurant"}, nil, []string{"place-9"})
		c := makeResponse("u3", []string{"italian_restaurant", "thai_restaurant"}, nil, nil)

		forward := ComputeGroupStatistics("session-1", []*models.ParticipantResponse{a, b, c})
		reversed := ComputeGroupStatistics("session-1", []*models.ParticipantResponse{c, b, a})

		assert.Equal(t, forward.CuisineEliminationCounts, reversed.CuisineEliminationCounts)
		assert.Equal(t, forward.VenueEliminationCounts, reversed.VenueEliminationCounts)
		assert.Equal(t, forward.RestaurantEliminationCounts, reversed.RestaurantEliminationCounts)
		assert.Equal(t, forward.TotalEliminations, reversed.TotalEliminations)
	})

	t.Run("no participants yields empty counts", func(t *testing.T) {
		stats := ComputeGroupStatistics("session-1", nil)

		assert.Equal(t, 0, stats.ParticipantCount)
		assert.Equal(t, 0, stats.TotalEliminations)
		assert.Empty(t, stats.CuisineEliminationCounts)
	})

	t.Run("empty string keys are skipped", func(t *testing.T) {
		responses := []*models.ParticipantResponse{
			makeResponse("u1", []string{"", "cafe"}, nil, nil),
		}

		stats := ComputeGroupStatistics("session-1", responses)

		assert.Equal(t, 1, stats.TotalEliminations)
		assert.NotContains(t, stats.CuisineEliminationCounts, "")
	})
}

func TestGroupStatistics_TypeEliminations(t *testing.T) {
	stats := models.GroupStatistics{
		ParticipantCount:         3,
		CuisineEliminationCounts: map[string]int{"cafe": 1},
		VenueEliminationCounts:   map[string]int{"cafe": 3},
	}

	t.Run("takes the stronger of cuisine and venue tallies", func(t *testing.T) {
		assert.Equal(t, 3, stats.TypeEliminations("cafe"))
	})

	t.Run("fully eliminated only at full participation", func(t *testing.T) {
		assert.True(t, stats.FullyEliminatedType("cafe"))
		assert.False(t, stats.FullyEliminatedType("bar"))
	})

	t.Run("never fully eliminated with zero participants", func(t *testing.T) {
		empty := models.GroupStatistics{}
		assert.False(t, empty.FullyEliminatedType("cafe"))
	})
}
