package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"github.com/lancecummins/eatout/internal/models"
	"github.com/lancecummins/eatout/internal/services"
)

type ResponseHandlers struct {
	sessions    *services.SessionManager
	responses   *services.ResponseManager
	recommender *services.Recommender
}

func NewResponseHandlers(sm *services.SessionManager, rm *services.ResponseManager, rec *services.Recommender) *ResponseHandlers {
	return &ResponseHandlers{
		sessions:    sm,
		responses:   rm,
		recommender: rec,
	}
}

// Categories lists the elimination options for the two category stages.
func (h *ResponseHandlers) Categories(re *core.RequestEvent) error {
	return re.JSON(http.StatusOK, map[string]any{
		"cuisines": models.CuisineCategories,
		"venues":   models.VenueCategories,
	})
}

func (h *ResponseHandlers) ListResponses(re *core.RequestEvent) error {
	responses, err := h.responses.GetSessionResponses(re.Request.PathValue("sessionId"))
	if err != nil {
		return errorResponse(re, err)
	}
	return re.JSON(http.StatusOK, map[string]any{"responses": responses})
}

func (h *ResponseHandlers) GetResponse(re *core.RequestEvent) error {
	response, err := h.responses.GetResponse(
		re.Request.PathValue("sessionId"),
		re.Request.PathValue("userId"),
	)
	if err != nil {
		return errorResponse(re, err)
	}
	return re.JSON(http.StatusOK, response)
}

type toggleRequest struct {
	UserID string `json:"user_id"`
	Value  string `json:"value"` // category tag or place id
}

func (h *ResponseHandlers) ToggleCuisine(re *core.RequestEvent) error {
	return h.toggle(re, h.responses.ToggleCuisine)
}

func (h *ResponseHandlers) ToggleVenue(re *core.RequestEvent) error {
	return h.toggle(re, h.responses.ToggleVenue)
}

func (h *ResponseHandlers) ToggleRestaurant(re *core.RequestEvent) error {
	return h.toggle(re, h.responses.ToggleRestaurant)
}

func (h *ResponseHandlers) toggle(re *core.RequestEvent, toggle func(sessionID, userID, value string) (*models.ParticipantResponse, error)) error {
	sessionID := re.Request.PathValue("sessionId")

	var req toggleRequest
	if err := decodeJSON(re, &req); err != nil {
		return badRequest(re, "Invalid request body")
	}
	if req.UserID == "" || req.Value == "" {
		return badRequest(re, "user_id and value are required")
	}

	session, err := h.sessions.GetSession(sessionID)
	if err != nil {
		return errorResponse(re, err)
	}
	if session.Status != models.StatusActive {
		return re.JSON(http.StatusConflict, map[string]string{
			"error": "Session is no longer active",
		})
	}

	response, err := toggle(sessionID, req.UserID, req.Value)
	if err != nil {
		return errorResponse(re, err)
	}
	return re.JSON(http.StatusOK, response)
}

type stageRequest struct {
	UserID string `json:"user_id"`
	Stage  string `json:"stage,omitempty"` // empty advances to the next stage
}

// SetStage moves the caller through the workflow. Without an explicit stage
// it advances one step; with one it jumps there, backward included.
func (h *ResponseHandlers) SetStage(re *core.RequestEvent) error {
	sessionID := re.Request.PathValue("sessionId")

	var req stageRequest
	if err := decodeJSON(re, &req); err != nil {
		return badRequest(re, "Invalid request body")
	}
	if req.UserID == "" {
		return badRequest(re, "user_id is required")
	}

	var (
		response *models.ParticipantResponse
		err      error
	)
	if req.Stage == "" {
		response, err = h.responses.AdvanceStage(sessionID, req.UserID)
	} else {
		response, err = h.responses.JumpToStage(sessionID, req.UserID, models.Stage(req.Stage))
	}
	if err != nil {
		return errorResponse(re, err)
	}
	return re.JSON(http.StatusOK, response)
}

// Statistics returns the recomputed group-wide elimination counts.
func (h *ResponseHandlers) Statistics(re *core.RequestEvent) error {
	sessionID := re.Request.PathValue("sessionId")

	responses, err := h.responses.GetSessionResponses(sessionID)
	if err != nil {
		return errorResponse(re, err)
	}

	return re.JSON(http.StatusOK, services.ComputeGroupStatistics(sessionID, responses))
}

// Recommendations scores the viable candidates in the cached pool and
// returns the top picks.
func (h *ResponseHandlers) Recommendations(re *core.RequestEvent) error {
	sessionID := re.Request.PathValue("sessionId")

	session, err := h.sessions.GetSession(sessionID)
	if err != nil {
		return errorResponse(re, err)
	}

	viable, stats, err := h.viablePool(sessionID)
	if err != nil {
		return errorResponse(re, err)
	}

	result := h.recommender.Recommend(viable, session.FavoritedRestaurants, stats)
	return re.JSON(http.StatusOK, result)
}

// ViableCandidates returns the pool with fully eliminated restaurants
// removed, unranked.
func (h *ResponseHandlers) ViableCandidates(re *core.RequestEvent) error {
	sessionID := re.Request.PathValue("sessionId")

	viable, stats, err := h.viablePool(sessionID)
	if err != nil {
		return errorResponse(re, err)
	}

	return re.JSON(http.StatusOK, map[string]any{
		"restaurants":        viable,
		"participant_count":  stats.ParticipantCount,
		"total_eliminations": stats.TotalEliminations,
	})
}

func (h *ResponseHandlers) viablePool(sessionID string) ([]models.Restaurant, models.GroupStatistics, error) {
	pool, ok, err := h.sessions.LoadPool(sessionID)
	if err != nil {
		return nil, models.GroupStatistics{}, err
	}
	if !ok {
		return nil, models.GroupStatistics{}, services.ErrPoolNotFetched
	}

	responses, err := h.responses.GetSessionResponses(sessionID)
	if err != nil {
		return nil, models.GroupStatistics{}, err
	}
	stats := services.ComputeGroupStatistics(sessionID, responses)

	restaurants := make([]models.Restaurant, len(pool))
	for i, slim := range pool {
		restaurants[i] = slim.Restaurant()
	}

	return h.recommender.FilterViable(restaurants, stats), stats, nil
}
