package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"github.com/lancecummins/eatout/internal/models"
	"github.com/lancecummins/eatout/internal/places"
	"github.com/lancecummins/eatout/internal/security"
	"github.com/lancecummins/eatout/internal/services"
)

type SessionHandlers struct {
	sessions  *services.SessionManager
	responses *services.ResponseManager
	geocoder  *places.Geocoder
	hub       *services.Hub
}

func NewSessionHandlers(sm *services.SessionManager, rm *services.ResponseManager, geocoder *places.Geocoder, hub *services.Hub) *SessionHandlers {
	return &SessionHandlers{
		sessions:  sm,
		responses: rm,
		geocoder:  geocoder,
		hub:       hub,
	}
}

type createSessionRequest struct {
	AdminID   string  `json:"admin_id"`
	AdminName string  `json:"admin_name,omitempty"`
	ZipCode   string  `json:"zip_code,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Radius    int     `json:"radius,omitempty"`
}

// CreateSession starts a new session. The location comes from either a US
// zip code (geocoded server-side) or explicit coordinates; zip wins when
// both are present.
func (h *SessionHandlers) CreateSession(re *core.RequestEvent) error {
	var req createSessionRequest
	if err := decodeJSON(re, &req); err != nil {
		return badRequest(re, "Invalid request body")
	}
	if req.AdminID == "" {
		return badRequest(re, "admin_id is required")
	}

	location := models.Location{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Radius:    req.Radius,
	}

	if req.ZipCode != "" {
		geo, err := h.geocoder.GeocodeZip(re.Request.Context(), req.ZipCode)
		if err != nil {
			return badRequest(re, security.SanitizeErrorMessage(err))
		}
		location.Latitude = geo.Latitude
		location.Longitude = geo.Longitude
		location.Address = geo.FormattedAddress
	} else if location.Latitude == 0 && location.Longitude == 0 {
		return badRequest(re, "Either zip_code or coordinates are required")
	}

	session, err := h.sessions.CreateSession(req.AdminID, location)
	if err != nil {
		return errorResponse(re, err)
	}

	// The admin participates too; seed their response immediately.
	if _, err := h.responses.JoinSession(session.ID, req.AdminID, req.AdminName); err != nil {
		return errorResponse(re, err)
	}

	return re.JSON(http.StatusCreated, map[string]any{
		"session":             session,
		"formatted_join_code": security.FormatJoinCode(session.JoinCode),
	})
}

func (h *SessionHandlers) GetSession(re *core.RequestEvent) error {
	session, err := h.sessions.GetSession(re.Request.PathValue("sessionId"))
	if err != nil {
		return errorResponse(re, err)
	}
	return re.JSON(http.StatusOK, map[string]any{
		"session":   session,
		"connected": h.hub.ConnectionCount(session.ID),
	})
}

type joinSessionRequest struct {
	Code     string `json:"code"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name,omitempty"`
}

// JoinSession resolves a join code and enters the caller as a participant.
func (h *SessionHandlers) JoinSession(re *core.RequestEvent) error {
	var req joinSessionRequest
	if err := decodeJSON(re, &req); err != nil {
		return badRequest(re, "Invalid request body")
	}
	if req.Code == "" || req.UserID == "" {
		return badRequest(re, "code and user_id are required")
	}

	session, err := h.sessions.GetSessionByJoinCode(req.Code)
	if err != nil {
		return errorResponse(re, err)
	}

	response, err := h.responses.JoinSession(session.ID, req.UserID, req.UserName)
	if err != nil {
		return errorResponse(re, err)
	}

	return re.JSON(http.StatusOK, map[string]any{
		"session":  session,
		"response": response,
	})
}

type favoriteRequest struct {
	UserID  string `json:"user_id"`
	PlaceID string `json:"place_id"`
}

func (h *SessionHandlers) AddFavorite(re *core.RequestEvent) error {
	return h.mutateFavorite(re, h.sessions.AddFavorite)
}

func (h *SessionHandlers) RemoveFavorite(re *core.RequestEvent) error {
	return h.mutateFavorite(re, h.sessions.RemoveFavorite)
}

func (h *SessionHandlers) mutateFavorite(re *core.RequestEvent, mutate func(sessionID, userID, placeID string) error) error {
	sessionID := re.Request.PathValue("sessionId")

	var req favoriteRequest
	if err := decodeJSON(re, &req); err != nil {
		return badRequest(re, "Invalid request body")
	}
	if req.UserID == "" || req.PlaceID == "" {
		return badRequest(re, "user_id and place_id are required")
	}

	if err := mutate(sessionID, req.UserID, req.PlaceID); err != nil {
		return errorResponse(re, err)
	}

	session, err := h.sessions.GetSession(sessionID)
	if err != nil {
		return errorResponse(re, err)
	}
	return re.JSON(http.StatusOK, session)
}

type lockWinnerRequest struct {
	UserID string `json:"user_id"`
}

// LockInWinner freezes the final pick. Only the session admin may call it,
// and only once everyone is out of the category stages.
func (h *SessionHandlers) LockInWinner(re *core.RequestEvent) error {
	sessionID := re.Request.PathValue("sessionId")

	var req lockWinnerRequest
	if err := decodeJSON(re, &req); err != nil {
		return badRequest(re, "Invalid request body")
	}
	if req.UserID == "" {
		return badRequest(re, "user_id is required")
	}

	responses, err := h.responses.GetSessionResponses(sessionID)
	if err != nil {
		return errorResponse(re, err)
	}

	winner, err := h.sessions.LockInWinner(sessionID, req.UserID, responses)
	if err != nil {
		return errorResponse(re, err)
	}

	return re.JSON(http.StatusOK, map[string]any{"winner": winner})
}
