package models

type WSMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Client → Server message types
const (
	MsgTypeRefresh = "refresh"
)

// Server → Client message types
const (
	MsgTypeSessionState     = "session_state"     // session record changed (favorites, batch, winner, status)
	MsgTypeResponsesUpdated = "responses_updated" // full response set + recomputed statistics
	MsgTypeWinnerLocked     = "winner_locked"
	MsgTypeError            = "error"
)

// SnapshotPayload is the full derived state pushed on every upstream change.
// Receivers re-render from it instead of patching local state, so delivery
// order across sessions does not matter.
type SnapshotPayload struct {
	Responses  []*ParticipantResponse `json:"responses"`
	Statistics GroupStatistics        `json:"statistics"`
}
