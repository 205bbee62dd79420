package services

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/lancecummins/eatout/internal/config"
	"github.com/lancecummins/eatout/internal/models"
)

// MessageHandler processes a parsed client message. The hub owns transport
// concerns (framing, rate limits, fan-out); session semantics live behind
// this callback.
type MessageHandler func(client *Client, msg *models.WSMessage)

type Hub struct {
	// Session connections: sessionId -> set of clients
	sessions map[string]map[*Client]bool

	broadcast     chan *BroadcastMessage
	register      chan *Registration
	unregister    chan *Registration
	handleMessage chan *ClientMessage

	onMessage MessageHandler
	metrics   *Metrics

	mu sync.RWMutex
}

type Registration struct {
	SessionID string
	Client    *Client
}

type BroadcastMessage struct {
	SessionID string
	Message   *models.WSMessage
}

func NewHub(metrics *Metrics) *Hub {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Hub{
		sessions:      make(map[string]map[*Client]bool),
		broadcast:     make(chan *BroadcastMessage, config.HubBroadcastBufferSize),
		register:      make(chan *Registration),
		unregister:    make(chan *Registration),
		handleMessage: make(chan *ClientMessage, config.HubBroadcastBufferSize),
		metrics:       metrics,
	}
}

// SetMessageHandler installs the semantic handler for client messages. Must
// be called before Run.
func (h *Hub) SetMessageHandler(handler MessageHandler) {
	h.onMessage = handler
}

func (h *Hub) Metrics() *Metrics {
	return h.metrics
}

func (h *Hub) Run() {
	for {
		select {
		case reg := <-h.register:
			h.registerClient(reg)

		case reg := <-h.unregister:
			h.unregisterClient(reg)

		case msg := <-h.broadcast:
			h.broadcastToSession(msg)

		case cm := <-h.handleMessage:
			h.dispatchClientMessage(cm)
		}
	}
}

func (h *Hub) registerClient(reg *Registration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[reg.SessionID] == nil {
		h.sessions[reg.SessionID] = make(map[*Client]bool)
		h.metrics.IncrementSessions()
	}

	if len(h.sessions[reg.SessionID]) >= config.MaxConnectionsPerSession {
		log.Printf("⚠️  Session %s at connection limit, rejecting client", reg.SessionID)
		reg.Client.Close()
		return
	}

	h.sessions[reg.SessionID][reg.Client] = true
	h.metrics.IncrementConnections()

	log.Printf("✓ WebSocket registered: session=%s user=%s (total connections in session: %d)",
		reg.SessionID, reg.Client.userID, len(h.sessions[reg.SessionID]))
}

func (h *Hub) unregisterClient(reg *Registration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.sessions[reg.SessionID]
	if !ok {
		return
	}
	if _, exists := clients[reg.Client]; !exists {
		return
	}

	delete(clients, reg.Client)
	h.metrics.DecrementConnections()
	reg.Client.Close()

	// Clean up empty sessions
	if len(clients) == 0 {
		delete(h.sessions, reg.SessionID)
		h.metrics.DecrementSessions()
	}
}

func (h *Hub) broadcastToSession(msg *BroadcastMessage) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.sessions[msg.SessionID]))
	for client := range h.sessions[msg.SessionID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(msg.Message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		h.metrics.IncrementBroadcastErrors()
		return
	}

	log.Printf("📤 Broadcasting %s to session %s (%d connections)",
		msg.Message.Type, msg.SessionID, len(clients))

	for _, client := range clients {
		client.Send(data)
	}
}

func (h *Hub) dispatchClientMessage(cm *ClientMessage) {
	var msg models.WSMessage
	if err := json.Unmarshal(cm.Message, &msg); err != nil {
		log.Printf("⚠️  Malformed client message (session=%s user=%s): %v",
			cm.Client.sessionID, cm.Client.userID, err)
		h.SendToClient(cm.Client, &models.WSMessage{
			Type:    models.MsgTypeError,
			Payload: map[string]string{"message": "Malformed message."},
		})
		return
	}

	if h.onMessage != nil {
		h.onMessage(cm.Client, &msg)
	}
}

// BroadcastToSession queues a message for every client in the session.
func (h *Hub) BroadcastToSession(sessionID string, message *models.WSMessage) {
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message:   message,
	}
}

// SendToClient delivers a message to one client only.
func (h *Hub) SendToClient(client *Client, message *models.WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}
	client.Send(data)
	h.metrics.IncrementMessagesSent()
}

func (h *Hub) Register(sessionID string, client *Client) {
	h.register <- &Registration{SessionID: sessionID, Client: client}
}

func (h *Hub) Unregister(sessionID string, client *Client) {
	h.unregister <- &Registration{SessionID: sessionID, Client: client}
}

// ConnectionCount reports the number of live connections for a session.
func (h *Hub) ConnectionCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}
