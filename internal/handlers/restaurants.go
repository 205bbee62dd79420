package handlers

import (
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase/core"

	"github.com/lancecummins/eatout/internal/models"
	"github.com/lancecummins/eatout/internal/places"
	"github.com/lancecummins/eatout/internal/services"
)

type RestaurantHandlers struct {
	sessions  *services.SessionManager
	responses *services.ResponseManager
	selector  *services.BatchSelector
	places    *places.Client
	metrics   *services.Metrics
}

func NewRestaurantHandlers(sm *services.SessionManager, rm *services.ResponseManager, selector *services.BatchSelector, placesClient *places.Client, metrics *services.Metrics) *RestaurantHandlers {
	return &RestaurantHandlers{
		sessions:  sm,
		responses: rm,
		selector:  selector,
		places:    placesClient,
		metrics:   metrics,
	}
}

type batchResponse struct {
	Ready       bool                    `json:"ready"`
	Restaurants []models.SlimRestaurant `json:"restaurants,omitempty"`
	BatchOffset int                     `json:"batch_offset"`
	BatchSize   int                     `json:"batch_size"`
	PoolSize    int                     `json:"pool_size"`
	HasMore     bool                    `json:"has_more"`
	WaitingOn   int                     `json:"waiting_on,omitempty"` // participants still in category stages
}

// GetRestaurants serves the active elimination page. The first caller past
// the stage gate triggers the one-time provider fetch; everyone else reads
// the cached pool. Callers arriving before the whole group has finished the
// category stages get a waiting payload instead.
func (h *RestaurantHandlers) GetRestaurants(re *core.RequestEvent) error {
	sessionID := re.Request.PathValue("sessionId")
	userID := re.Request.URL.Query().Get("user_id")

	session, err := h.sessions.GetSession(sessionID)
	if err != nil {
		return errorResponse(re, err)
	}

	pool, cached, err := h.sessions.LoadPool(sessionID)
	if err != nil {
		return errorResponse(re, err)
	}

	if !cached {
		responses, err := h.responses.GetSessionResponses(sessionID)
		if err != nil {
			return errorResponse(re, err)
		}

		if !h.selector.ReadyForRestaurants(responses) {
			waiting := 0
			for _, r := range responses {
				if !r.CurrentStage.AtLeast(models.StageRestaurants) {
					waiting++
				}
			}
			return re.JSON(http.StatusOK, batchResponse{
				Ready:     false,
				BatchSize: h.selector.BatchSize(),
				WaitingOn: waiting,
			})
		}

		pool, err = h.fetchPool(re, session, responses, userID)
		if err != nil {
			h.metrics.IncrementProviderErrors()
			return errorResponse(re, err)
		}
	}

	batch := h.selector.CurrentBatch(pool, session.BatchOffset)
	return re.JSON(http.StatusOK, batchResponse{
		Ready:       true,
		Restaurants: batch,
		BatchOffset: session.BatchOffset,
		BatchSize:   h.selector.BatchSize(),
		PoolSize:    len(pool),
		HasMore:     session.BatchOffset+h.selector.BatchSize() < len(pool),
	})
}

// fetchPool performs the one-time provider search and caches the result.
// The search is narrowed by the requester's own category eliminations so
// the pool skews toward options they can live with; other participants'
// eliminations are applied later by viability filtering.
func (h *RestaurantHandlers) fetchPool(re *core.RequestEvent, session *models.Session, responses []*models.ParticipantResponse, userID string) ([]models.SlimRestaurant, error) {
	eliminated := make(map[string]bool)
	for _, r := range responses {
		if r.UserID != userID {
			continue
		}
		for _, t := range r.EliminatedCuisines {
			eliminated[t] = true
		}
		for _, t := range r.EliminatedVenues {
			eliminated[t] = true
		}
	}

	types := make([]string, 0, len(models.DefaultSearchTypes))
	for _, t := range models.DefaultSearchTypes {
		if !eliminated[t] {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		types = models.DefaultSearchTypes
	}

	restaurants, err := h.places.SearchNearby(re.Request.Context(), places.SearchParams{
		Latitude:  session.Location.Latitude,
		Longitude: session.Location.Longitude,
		Radius:    float64(session.Location.Radius),
		Types:     types,
	})
	if err != nil {
		return nil, err
	}

	restaurants = dropEliminatedTypes(restaurants, eliminated)

	if err := h.sessions.SavePool(session.ID, restaurants); err != nil {
		return nil, err
	}

	pool := make([]models.SlimRestaurant, len(restaurants))
	for i, r := range restaurants {
		pool[i] = r.Slim()
	}
	return pool, nil
}

// dropEliminatedTypes removes restaurants carrying any type the requester
// already ruled out. A place found under one search type can still carry an
// eliminated one.
func dropEliminatedTypes(restaurants []models.Restaurant, eliminated map[string]bool) []models.Restaurant {
	if len(eliminated) == 0 {
		return restaurants
	}
	kept := restaurants[:0]
	for _, r := range restaurants {
		carries := false
		for _, t := range r.Types {
			if eliminated[t] {
				carries = true
				break
			}
		}
		if !carries {
			kept = append(kept, r)
		}
	}
	return kept
}

// PhotoURL resolves a provider photo reference into a fetchable URL.
func (h *RestaurantHandlers) PhotoURL(re *core.RequestEvent) error {
	reference := re.Request.URL.Query().Get("reference")
	if reference == "" {
		return badRequest(re, "reference is required")
	}

	width, _ := strconv.Atoi(re.Request.URL.Query().Get("max_width"))

	return re.JSON(http.StatusOK, map[string]string{
		"url": h.places.PhotoURL(reference, width),
	})
}
