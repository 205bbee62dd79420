package services

import (
	"github.com/lancecummins/eatout/internal/config"
	"github.com/lancecummins/eatout/internal/models"
)

// BatchSelector partitions the cached restaurant pool into fixed-size pages
// and decides when the active page may advance. It holds no state of its
// own: the offset lives on the session record, the pool on the session's
// cached snapshot.
type BatchSelector struct {
	batchSize int
}

// NewBatchSelector creates a selector. batchSize <= 0 selects the deployed
// default.
func NewBatchSelector(batchSize int) *BatchSelector {
	if batchSize <= 0 {
		batchSize = config.RestaurantBatchSize
	}
	return &BatchSelector{batchSize: batchSize}
}

func (b *BatchSelector) BatchSize() int {
	return b.batchSize
}

// ReadyForRestaurants reports whether the one-time pool fetch may proceed:
// either the requester is alone in the session, or every existing response
// has already reached the restaurants stage.
func (b *BatchSelector) ReadyForRestaurants(responses []*models.ParticipantResponse) bool {
	if len(responses) <= 1 {
		return true
	}
	for _, r := range responses {
		if !r.CurrentStage.AtLeast(models.StageRestaurants) {
			return false
		}
	}
	return true
}

// CurrentBatch returns the active page of the pool. Offsets past the end
// yield an empty page.
func (b *BatchSelector) CurrentBatch(pool []models.SlimRestaurant, offset int) []models.SlimRestaurant {
	if offset < 0 || offset >= len(pool) {
		return nil
	}
	end := offset + b.batchSize
	if end > len(pool) {
		end = len(pool)
	}
	return pool[offset:end]
}

// NextOffset re-evaluates the auto-advance condition: when every restaurant
// in the active page appears in the union of all participants' restaurant
// eliminations AND a further page exists, the offset moves forward one page.
// Exhausting the last page is terminal. Returns the (possibly unchanged)
// offset and whether it advanced.
func (b *BatchSelector) NextOffset(pool []models.SlimRestaurant, offset int, responses []*models.ParticipantResponse) (int, bool) {
	batch := b.CurrentBatch(pool, offset)
	if len(batch) == 0 {
		return offset, false
	}

	eliminated := UnionEliminatedRestaurants(responses)
	for _, restaurant := range batch {
		if !eliminated[restaurant.PlaceID] {
			return offset, false
		}
	}

	if offset+b.batchSize >= len(pool) {
		// Last page: nowhere further to advance.
		return offset, false
	}
	return offset + b.batchSize, true
}

// Survivors filters a page through the union of all participants' direct
// restaurant eliminations. This is the candidate set for winner lock-in.
func (b *BatchSelector) Survivors(batch []models.SlimRestaurant, responses []*models.ParticipantResponse) []models.SlimRestaurant {
	eliminated := UnionEliminatedRestaurants(responses)

	survivors := make([]models.SlimRestaurant, 0, len(batch))
	for _, restaurant := range batch {
		if !eliminated[restaurant.PlaceID] {
			survivors = append(survivors, restaurant)
		}
	}
	return survivors
}

// UnionEliminatedRestaurants collects every place id any participant
// eliminated directly.
func UnionEliminatedRestaurants(responses []*models.ParticipantResponse) map[string]bool {
	union := make(map[string]bool)
	for _, response := range responses {
		for _, placeID := range response.EliminatedRestaurants {
			union[placeID] = true
		}
	}
	return union
}
