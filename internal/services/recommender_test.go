package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lancecummins/eatout/internal/models"
)

func defaultRecommender() *Recommender {
	return NewRecommender(DefaultRecommendationOptions())
}

func statsWith(participants int, cuisines, venues, restaurants map[string]int) models.GroupStatistics {
	if cuisines == nil {
		cuisines = map[string]int{}
	}
	if venues == nil {
		venues = map[string]int{}
	}
	if restaurants == nil {
		restaurants = map[string]int{}
	}
	return models.GroupStatistics{
		SessionID:                   "session-1",
		ParticipantCount:            participants,
		CuisineEliminationCounts:    cuisines,
		VenueEliminationCounts:      venues,
		RestaurantEliminationCounts: restaurants,
	}
}

func TestRecommender_Score(t *testing.T) {
	r := defaultRecommender()

	t.Run("untouched unrated restaurant scores exactly 1", func(t *testing.T) {
		restaurant := models.Restaurant{PlaceID: "p1", Name: "Plain"}
		result := r.Recommend([]models.Restaurant{restaurant}, nil, statsWith(2, nil, nil, nil))

		assert.Len(t, result.Recommendations, 1)
		assert.InDelta(t, 1.0, result.Recommendations[0].Score, 1e-9)
	})

	t.Run("direct eliminations penalize proportionally", func(t *testing.T) {
		restaurant := models.Restaurant{PlaceID: "p1", Name: "Half Out"}
		stats := statsWith(2, nil, nil, map[string]int{"p1": 1})

		result := r.Recommend([]models.Restaurant{restaurant}, nil, stats)

		// penalty = 1/2, no quality bonus
		assert.InDelta(t, 0.5, result.Recommendations[0].Score, 1e-9)
	})

	t.Run("favoriting halves the penalty", func(t *testing.T) {
		restaurant := models.Restaurant{PlaceID: "p1", Name: "Half Out"}
		stats := statsWith(2, nil, nil, map[string]int{"p1": 1})

		result := r.Recommend([]models.Restaurant{restaurant}, []string{"p1"}, stats)

		// penalty = 0.5 * (1 - 0.5) = 0.25
		assert.InDelta(t, 0.75, result.Recommendations[0].Score, 1e-9)
		assert.True(t, result.Recommendations[0].IsFavorited)
	})

	t.Run("type penalty averages over all tags", func(t *testing.T) {
		restaurant := models.Restaurant{
			PlaceID: "p1",
			Name:    "Two Tags",
			Types:   []string{"italian_restaurant", "mexican_restaurant"},
		}
		stats := statsWith(4, map[string]int{
			"italian_restaurant": 4,
			"mexican_restaurant": 2,
		}, nil, nil)

		result := r.Recommend([]models.Restaurant{restaurant}, nil, stats)

		// avgTypeRate = (1.0 + 0.5) / 2 = 0.75
		assert.InDelta(t, 0.25, result.Recommendations[0].Score, 1e-9)
	})

	t.Run("penalty is the worse of type and direct rates", func(t *testing.T) {
		restaurant := models.Restaurant{
			PlaceID: "p1",
			Types:   []string{"italian_restaurant"},
		}
		stats := statsWith(4,
			map[string]int{"italian_restaurant": 1}, // rate 0.25
			nil,
			map[string]int{"p1": 3}, // rate 0.75
		)

		result := r.Recommend([]models.Restaurant{restaurant}, nil, stats)

		assert.InDelta(t, 0.25, result.Recommendations[0].Score, 1e-9)
	})

	t.Run("quality bonus saturates at a thousand reviews", func(t *testing.T) {
		restaurant := models.Restaurant{
			PlaceID:     "p1",
			Name:        "Beloved",
			Rating:      5.0,
			RatingCount: 999,
		}

		result := r.Recommend([]models.Restaurant{restaurant}, nil, statsWith(2, nil, nil, nil))

		// quality = (5/5) * (0.5 + 0.5*log10(1000)/3) = 1.0, weighted 0.1
		assert.InDelta(t, 1.1, result.Recommendations[0].Score, 1e-9)
	})

	t.Run("well-rated candidate eliminated by one of three", func(t *testing.T) {
		restaurant := models.Restaurant{PlaceID: "p1", Rating: 4.5, RatingCount: 200}
		stats := statsWith(3, nil, nil, map[string]int{"p1": 1})

		result := r.Recommend([]models.Restaurant{restaurant}, nil, stats)

		// 1 - 1/3 + 0.9*(0.5+0.5*log10(201)/3)*0.1
		assert.InDelta(t, 0.746, result.Recommendations[0].Score, 0.001)
	})

	t.Run("favoriting outranks the unfavorited twin", func(t *testing.T) {
		twin := models.Restaurant{PlaceID: "fav", Rating: 4.5, RatingCount: 200}
		other := models.Restaurant{PlaceID: "plain", Rating: 4.5, RatingCount: 200}
		stats := statsWith(3, nil, nil, map[string]int{"fav": 1, "plain": 1})

		result := r.Recommend([]models.Restaurant{other, twin}, []string{"fav"}, stats)

		assert.Equal(t, "fav", result.Recommendations[0].Restaurant.PlaceID)
		assert.InDelta(t, 0.913, result.Recommendations[0].Score, 0.001)
	})

	t.Run("zero participants means no penalty for anyone", func(t *testing.T) {
		restaurants := []models.Restaurant{
			{PlaceID: "p1", Types: []string{"italian_restaurant"}},
			{PlaceID: "p2", Rating: 4.0, RatingCount: 100},
		}

		result := r.Recommend(restaurants, nil, statsWith(0, nil, nil, nil))

		// Only the quality term differentiates; the rated one wins.
		assert.Equal(t, "p2", result.Recommendations[0].Restaurant.PlaceID)
		assert.InDelta(t, 1.0, result.Recommendations[1].Score, 1e-9)
	})

	t.Run("venue counts participate in type eliminations", func(t *testing.T) {
		restaurant := models.Restaurant{PlaceID: "p1", Types: []string{"bar"}}
		stats := statsWith(2, nil, map[string]int{"bar": 1}, nil)

		result := r.Recommend([]models.Restaurant{restaurant}, nil, stats)

		assert.InDelta(t, 0.5, result.Recommendations[0].Score, 1e-9)
	})
}

func TestRecommender_Ranking(t *testing.T) {
	r := defaultRecommender()

	t.Run("best first, capped at the maximum", func(t *testing.T) {
		restaurants := []models.Restaurant{
			{PlaceID: "p1", Name: "A"},
			{PlaceID: "p2", Name: "B"},
			{PlaceID: "p3", Name: "C"},
			{PlaceID: "p4", Name: "D"},
		}
		stats := statsWith(4, nil, nil, map[string]int{
			"p1": 3,
			"p2": 0,
			"p3": 1,
			"p4": 2,
		})

		result := r.Recommend(restaurants, nil, stats)

		assert.Len(t, result.Recommendations, 3)
		assert.Equal(t, "p2", result.Recommendations[0].Restaurant.PlaceID)
		assert.Equal(t, "p3", result.Recommendations[1].Restaurant.PlaceID)
		assert.Equal(t, "p4", result.Recommendations[2].Restaurant.PlaceID)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		restaurants := []models.Restaurant{
			{PlaceID: "p1", Name: "First"},
			{PlaceID: "p2", Name: "Second"},
			{PlaceID: "p3", Name: "Third"},
		}

		result := r.Recommend(restaurants, nil, statsWith(2, nil, nil, nil))

		assert.Equal(t, "p1", result.Recommendations[0].Restaurant.PlaceID)
		assert.Equal(t, "p2", result.Recommendations[1].Restaurant.PlaceID)
		assert.Equal(t, "p3", result.Recommendations[2].Restaurant.PlaceID)
	})

	t.Run("identical inputs rank identically", func(t *testing.T) {
		restaurants := []models.Restaurant{
			{PlaceID: "p1", Rating: 4.2, RatingCount: 120},
			{PlaceID: "p2", Rating: 4.8, RatingCount: 15},
			{PlaceID: "p3", Rating: 3.9, RatingCount: 900},
		}
		stats := statsWith(3, nil, nil, map[string]int{"p2": 1})

		first := r.Recommend(restaurants, nil, stats)
		second := r.Recommend(restaurants, nil, stats)

		for i := range first.Recommendations {
			assert.Equal(t, first.Recommendations[i].Restaurant.PlaceID, second.Recommendations[i].Restaurant.PlaceID)
			assert.Equal(t, first.Recommendations[i].Score, second.Recommendations[i].Score)
		}
	})
}

func TestRecommender_Reasoning(t *testing.T) {
	r := defaultRecommender()

	t.Run("no eliminations", func(t *testing.T) {
		result := r.Recommend([]models.Restaurant{{PlaceID: "p1"}}, nil, statsWith(4, nil, nil, nil))
		assert.Equal(t, "No one eliminated this", result.Recommendations[0].Reasoning)
	})

	t.Run("single elimination", func(t *testing.T) {
		stats := statsWith(4, nil, nil, map[string]int{"p1": 1})
		result := r.Recommend([]models.Restaurant{{PlaceID: "p1"}}, nil, stats)
		assert.Equal(t, "Only 1 person eliminated this", result.Recommendations[0].Reasoning)
	})

	t.Run("multiple eliminations with percentage", func(t *testing.T) {
		stats := statsWith(4, nil, nil, map[string]int{"p1": 2})
		result := r.Recommend([]models.Restaurant{{PlaceID: "p1"}}, nil, stats)
		assert.Equal(t, "2 people (50%) eliminated this", result.Recommendations[0].Reasoning)
	})

	t.Run("favorite and rating reasons are appended", func(t *testing.T) {
		restaurant := models.Restaurant{PlaceID: "p1", Rating: 4.5, RatingCount: 100}
		result := r.Recommend([]models.Restaurant{restaurant}, []string{"p1"}, statsWith(4, nil, nil, nil))

		assert.Equal(t, "No one eliminated this • Admin favorite • 4.5★ rating", result.Recommendations[0].Reasoning)
	})

	t.Run("sub-four ratings get no rating reason", func(t *testing.T) {
		restaurant := models.Restaurant{PlaceID: "p1", Rating: 3.9, RatingCount: 100}
		result := r.Recommend([]models.Restaurant{restaurant}, nil, statsWith(4, nil, nil, nil))

		assert.Equal(t, "No one eliminated this", result.Recommendations[0].Reasoning)
	})
}

func TestRecommender_FilterViable(t *testing.T) {
	r := defaultRecommender()

	restaurants := []models.Restaurant{
		{PlaceID: "p1", Types: []string{"italian_restaurant"}},
		{PlaceID: "p2", Types: []string{"italian_restaurant", "bar"}},
		{PlaceID: "p3"},
	}

	t.Run("removes unanimous direct eliminations", func(t *testing.T) {
		stats := statsWith(2, nil, nil, map[string]int{"p3": 2})

		viable := r.FilterViable(restaurants, stats)

		assert.Len(t, viable, 2)
		for _, v := range viable {
			assert.NotEqual(t, "p3", v.PlaceID)
		}
	})

	t.Run("removes restaurants with all tags fully eliminated", func(t *testing.T) {
		stats := statsWith(2, map[string]int{"italian_restaurant": 2}, nil, nil)

		viable := r.FilterViable(restaurants, stats)

		// p1 loses its only tag; p2 survives via bar; p3 has no tags.
		assert.Len(t, viable, 2)
		assert.Equal(t, "p2", viable[0].PlaceID)
		assert.Equal(t, "p3", viable[1].PlaceID)
	})

	t.Run("partial direct eliminations keep the restaurant", func(t *testing.T) {
		stats := statsWith(3, nil, nil, map[string]int{"p1": 2})

		viable := r.FilterViable(restaurants, stats)

		assert.Len(t, viable, 3)
	})

	t.Run("zero participants filter nothing", func(t *testing.T) {
		viable := r.FilterViable(restaurants, statsWith(0, nil, nil, nil))
		assert.Len(t, viable, 3)
	})

	t.Run("untagged restaurants only fall to the direct path", func(t *testing.T) {
		stats := statsWith(2, map[string]int{"italian_restaurant": 2, "bar": 2}, map[string]int{"bar": 2}, nil)

		viable := r.FilterViable(restaurants, stats)

		assert.Len(t, viable, 1)
		assert.Equal(t, "p3", viable[0].PlaceID)
	})
}

func TestRecommender_EliminationCount(t *testing.T) {
	r := defaultRecommender()

	t.Run("direct count wins when present", func(t *testing.T) {
		restaurant := models.Restaurant{PlaceID: "p1", Types: []string{"italian_restaurant"}}
		stats := statsWith(4, map[string]int{"italian_restaurant": 3}, nil, map[string]int{"p1": 1})

		result := r.Recommend([]models.Restaurant{restaurant}, nil, stats)

		assert.Equal(t, 1, result.Recommendations[0].EliminationCount)
	})

	t.Run("falls back to worst type tally", func(t *testing.T) {
		restaurant := models.Restaurant{
			PlaceID: "p1",
			Types:   []string{"italian_restaurant", "bar"},
		}
		stats := statsWith(4, map[string]int{"italian_restaurant": 1}, map[string]int{"bar": 3}, nil)

		result := r.Recommend([]models.Restaurant{restaurant}, nil, stats)

		assert.Equal(t, 3, result.Recommendations[0].EliminationCount)
	})
}
