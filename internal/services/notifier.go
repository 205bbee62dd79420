package services

import (
	"log"

	"github.com/pocketbase/pocketbase/core"

	"github.com/lancecummins/eatout/internal/models"
)

// Notifier is the event pipeline between the store and the hub. Every
// response write flows through here: recompute the group snapshot, run the
// batch auto-advance check, then push the derived state to every connected
// participant. Session record changes (favorites, batch offset, winner)
// fan out as session state.
type Notifier struct {
	hub       *Hub
	sessions  *SessionManager
	responses *ResponseManager
	selector  *BatchSelector
}

func NewNotifier(hub *Hub, sessions *SessionManager, responses *ResponseManager, selector *BatchSelector) *Notifier {
	if selector == nil {
		selector = NewBatchSelector(0)
	}
	n := &Notifier{
		hub:       hub,
		sessions:  sessions,
		responses: responses,
		selector:  selector,
	}
	hub.SetMessageHandler(n.HandleClientMessage)
	return n
}

// Bind attaches the pipeline to the store's record hooks. Hooks fire after
// the write committed, so every broadcast reflects persisted state.
func (n *Notifier) Bind(app core.App) {
	app.OnRecordAfterCreateSuccess("responses").BindFunc(func(e *core.RecordEvent) error {
		n.onResponseChange(e.Record.GetString("session_id"))
		return e.Next()
	})

	app.OnRecordAfterUpdateSuccess("responses").BindFunc(func(e *core.RecordEvent) error {
		n.onResponseChange(e.Record.GetString("session_id"))
		return e.Next()
	})

	app.OnRecordAfterUpdateSuccess("sessions").BindFunc(func(e *core.RecordEvent) error {
		n.onSessionChange(e.Record)
		return e.Next()
	})
}

// onResponseChange recomputes the group snapshot from all persisted
// responses and broadcasts it, then re-evaluates the batch auto-advance
// condition. An advance writes the session record, and that write's own
// hook broadcasts the new session state.
func (n *Notifier) onResponseChange(sessionID string) {
	responses, err := n.responses.GetSessionResponses(sessionID)
	if err != nil {
		log.Printf("notifier: failed to load responses for session %s: %v", sessionID, err)
		return
	}

	stats := ComputeGroupStatistics(sessionID, responses)
	n.hub.BroadcastToSession(sessionID, &models.WSMessage{
		Type:      models.MsgTypeResponsesUpdated,
		SessionID: sessionID,
		Payload: models.SnapshotPayload{
			Responses:  responses,
			Statistics: stats,
		},
	})

	n.maybeAdvanceBatch(sessionID, responses)
}

func (n *Notifier) maybeAdvanceBatch(sessionID string, responses []*models.ParticipantResponse) {
	session, err := n.sessions.GetSession(sessionID)
	if err != nil {
		log.Printf("notifier: failed to load session %s: %v", sessionID, err)
		return
	}
	if session.Status != models.StatusActive {
		return
	}

	pool, ok, err := n.sessions.LoadPool(sessionID)
	if err != nil || !ok {
		return
	}

	offset, advanced := n.selector.NextOffset(pool, session.BatchOffset, responses)
	if !advanced {
		return
	}

	log.Printf("session %s batch advanced to offset %d", sessionID, offset)
	if err := n.sessions.SetBatchOffset(sessionID, offset); err != nil {
		log.Printf("notifier: failed to advance batch for session %s: %v", sessionID, err)
	}
}

// onSessionChange pushes the updated session to the group. A freshly frozen
// winner additionally gets its own message type so clients can transition
// straight to the result screen.
func (n *Notifier) onSessionChange(record *core.Record) {
	session, err := sessionFromRecord(record)
	if err != nil {
		log.Printf("notifier: bad session record %s: %v", record.Id, err)
		return
	}

	n.hub.BroadcastToSession(session.ID, &models.WSMessage{
		Type:      models.MsgTypeSessionState,
		SessionID: session.ID,
		Payload:   session,
	})

	if session.Winner != nil {
		n.hub.BroadcastToSession(session.ID, &models.WSMessage{
			Type:      models.MsgTypeWinnerLocked,
			SessionID: session.ID,
			Payload:   session.Winner,
		})
	}
}

// HandleClientMessage serves client-initiated requests. The only one today
// is refresh: resend the full snapshot and session state to the requester,
// used after reconnects.
func (n *Notifier) HandleClientMessage(client *Client, msg *models.WSMessage) {
	switch msg.Type {
	case models.MsgTypeRefresh:
		n.sendSnapshot(client)
	default:
		log.Printf("⚠️  Unknown message type %q (session=%s, user=%s)", msg.Type, client.sessionID, client.userID)
		n.hub.SendToClient(client, &models.WSMessage{
			Type:    models.MsgTypeError,
			Payload: map[string]string{"message": "Unknown message type."},
		})
	}
}

func (n *Notifier) sendSnapshot(client *Client) {
	session, err := n.sessions.GetSession(client.sessionID)
	if err != nil {
		log.Printf("notifier: refresh for unknown session %s: %v", client.sessionID, err)
		n.hub.SendToClient(client, &models.WSMessage{
			Type:    models.MsgTypeError,
			Payload: map[string]string{"message": "Session not found."},
		})
		return
	}

	n.hub.SendToClient(client, &models.WSMessage{
		Type:      models.MsgTypeSessionState,
		SessionID: session.ID,
		Payload:   session,
	})

	responses, err := n.responses.GetSessionResponses(client.sessionID)
	if err != nil {
		log.Printf("notifier: failed to load responses for session %s: %v", client.sessionID, err)
		return
	}

	n.hub.SendToClient(client, &models.WSMessage{
		Type:      models.MsgTypeResponsesUpdated,
		SessionID: session.ID,
		Payload: models.SnapshotPayload{
			Responses:  responses,
			Statistics: ComputeGroupStatistics(session.ID, responses),
		},
	})
}
