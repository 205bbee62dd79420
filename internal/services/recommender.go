package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lancecummins/eatout/internal/config"
	"github.com/lancecummins/eatout/internal/models"
)

// RecommendationOptions tunes the scorer. Zero values fall back to the
// deployed defaults.
type RecommendationOptions struct {
	MaxRecommendations int
	FavoriteBoost      float64 // reduces the elimination penalty for admin favorites
	QualityWeight      float64 // weight of the rating-based quality bonus
}

// DefaultRecommendationOptions returns the deployed scoring configuration.
func DefaultRecommendationOptions() RecommendationOptions {
	return RecommendationOptions{
		MaxRecommendations: config.DefaultMaxRecommendations,
		FavoriteBoost:      config.DefaultFavoriteBoost,
		QualityWeight:      config.DefaultQualityWeight,
	}
}

func (o RecommendationOptions) withDefaults() RecommendationOptions {
	defaults := DefaultRecommendationOptions()
	if o.MaxRecommendations <= 0 {
		o.MaxRecommendations = defaults.MaxRecommendations
	}
	if o.FavoriteBoost == 0 {
		o.FavoriteBoost = defaults.FavoriteBoost
	}
	if o.QualityWeight == 0 {
		o.QualityWeight = defaults.QualityWeight
	}
	return o
}

// Recommender ranks viable restaurants by elimination pressure, quality
// signal and favorite boost. It is stateless: identical inputs always
// produce identical scores and identical order.
type Recommender struct {
	opts RecommendationOptions
}

func NewRecommender(opts RecommendationOptions) *Recommender {
	return &Recommender{opts: opts.withDefaults()}
}

// FilterViable removes restaurants eliminated by every participant, either
// directly or because all of their category tags are fully eliminated. With
// zero participants nothing is removed. Restaurants without tags can only be
// removed by the direct path.
func (r *Recommender) FilterViable(restaurants []models.Restaurant, stats models.GroupStatistics) []models.Restaurant {
	if stats.ParticipantCount == 0 {
		return restaurants
	}

	viable := make([]models.Restaurant, 0, len(restaurants))
	for _, restaurant := range restaurants {
		if stats.RestaurantEliminationCounts[restaurant.PlaceID] == stats.ParticipantCount {
			continue
		}

		if len(restaurant.Types) > 0 {
			allTypesEliminated := true
			for _, t := range restaurant.Types {
				if !stats.FullyEliminatedType(t) {
					allTypesEliminated = false
					break
				}
			}
			if allTypesEliminated {
				continue
			}
		}

		viable = append(viable, restaurant)
	}
	return viable
}

// Recommend scores and ranks the given restaurants, returning at most
// MaxRecommendations entries, best first. Callers are expected to pass
// already-viable restaurants; fully eliminated ones would simply rank last.
func (r *Recommender) Recommend(restaurants []models.Restaurant, favoritedIDs []string, stats models.GroupStatistics) models.RecommendationResult {
	favorited := make(map[string]bool, len(favoritedIDs))
	for _, id := range favoritedIDs {
		favorited[id] = true
	}

	scored := make([]models.Recommendation, 0, len(restaurants))
	for _, restaurant := range restaurants {
		scored = append(scored, r.score(restaurant, favorited[restaurant.PlaceID], stats))
	}

	// Stable sort keeps input order on ties for deterministic ranking.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > r.opts.MaxRecommendations {
		scored = scored[:r.opts.MaxRecommendations]
	}

	return models.RecommendationResult{
		Recommendations:   scored,
		TotalParticipants: stats.ParticipantCount,
		TotalRestaurants:  len(restaurants),
		GeneratedAt:       time.Now(),
	}
}

func (r *Recommender) score(restaurant models.Restaurant, isFavorited bool, stats models.GroupStatistics) models.Recommendation {
	var avgTypeRate float64
	if len(restaurant.Types) > 0 && stats.ParticipantCount > 0 {
		var total float64
		for _, t := range restaurant.Types {
			total += float64(stats.TypeEliminations(t)) / float64(stats.ParticipantCount)
		}
		avgTypeRate = total / float64(len(restaurant.Types))
	}

	directCount := stats.RestaurantEliminationCounts[restaurant.PlaceID]
	var directRate float64
	if stats.ParticipantCount > 0 {
		directRate = float64(directCount) / float64(stats.ParticipantCount)
	}

	penalty := math.Max(avgTypeRate, directRate)
	if isFavorited {
		penalty *= 1 - r.opts.FavoriteBoost
	}

	score := 1 - penalty + qualityScore(restaurant)*r.opts.QualityWeight

	// Elimination count shown to users: direct count, falling back to the
	// worst category tally when nobody eliminated the place itself.
	eliminationCount := directCount
	if eliminationCount == 0 {
		for _, t := range restaurant.Types {
			if n := stats.TypeEliminations(t); n > eliminationCount {
				eliminationCount = n
			}
		}
	}

	return models.Recommendation{
		Restaurant:       restaurant,
		Score:            score,
		EliminationCount: eliminationCount,
		IsFavorited:      isFavorited,
		Reasoning:        reasoning(eliminationCount, stats.ParticipantCount, isFavorited, restaurant),
	}
}

// qualityScore maps rating and review volume to [0,1]. Confidence grows
// logarithmically with review count and saturates near 1000 reviews: 10
// reviews ≈ 0.5, 100 ≈ 0.75, 1000+ = 1.0. Unrated restaurants score 0.
func qualityScore(restaurant models.Restaurant) float64 {
	normalizedRating := restaurant.Rating / 5
	confidence := math.Min(1, math.Log10(float64(restaurant.RatingCount)+1)/3)
	return normalizedRating * (0.5 + 0.5*confidence)
}

// reasoning builds the cosmetic explanation string. It plays no part in
// ranking.
func reasoning(eliminationCount, participantCount int, isFavorited bool, restaurant models.Restaurant) string {
	var reasons []string

	switch {
	case eliminationCount == 0:
		reasons = append(reasons, "No one eliminated this")
	case eliminationCount == 1:
		reasons = append(reasons, "Only 1 person eliminated this")
	default:
		percentage := int(math.Round(float64(eliminationCount) / float64(participantCount) * 100))
		reasons = append(reasons, fmt.Sprintf("%d people (%d%%) eliminated this", eliminationCount, percentage))
	}

	if isFavorited {
		reasons = append(reasons, "Admin favorite")
	}

	if restaurant.Rating >= 4.0 {
		reasons = append(reasons, fmt.Sprintf("%.1f★ rating", restaurant.Rating))
	}

	out := reasons[0]
	for _, reason := range reasons[1:] {
		out += " • " + reason
	}
	return out
}
