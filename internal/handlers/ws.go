package handlers

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/pocketbase/pocketbase/core"

	"github.com/lancecummins/eatout/internal/security"
	"github.com/lancecummins/eatout/internal/services"
)

type WSHandler struct {
	hub             *services.Hub
	sessions        *services.SessionManager
	originValidator *security.OriginValidator
}

func NewWSHandler(hub *services.Hub, sm *services.SessionManager, originValidator *security.OriginValidator) *WSHandler {
	return &WSHandler{
		hub:             hub,
		sessions:        sm,
		originValidator: originValidator,
	}
}

// HandleWebSocket upgrades the connection and hands it to the hub. The
// client's pumps own the connection from here on.
func (h *WSHandler) HandleWebSocket(re *core.RequestEvent) error {
	sessionID := re.Request.PathValue("sessionId")
	userID := re.Request.URL.Query().Get("user_id")

	// Verify session exists before upgrading
	if _, err := h.sessions.GetSession(sessionID); err != nil {
		return re.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
	}

	conn, err := websocket.Accept(re.Response, re.Request, h.originValidator.GetAcceptOptions())
	if err != nil {
		return err
	}

	client := services.NewClient(conn, h.hub, sessionID, userID)
	h.hub.Register(sessionID, client)
	client.Start()

	return nil
}
