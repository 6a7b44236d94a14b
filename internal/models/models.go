package models

// WSFrame is the envelope for every message on the collaboration socket.
type WSFrame struct {
	Type string      `json:"type"` // "sync","update","presence","error"
	Data interface{} `json:"data"`
}

// SyncPayload is the baseline a participant receives on join: the room's full
// merged document state. Updates marshal as base64 strings.
type SyncPayload struct {
	SessionID string   `json:"sessionId"`
	Updates   [][]byte `json:"updates"`
}

// UpdatePayload carries one opaque document delta.
type UpdatePayload struct {
	Update []byte `json:"update"`
}

// PresencePayload notifies a room about a participant joining or leaving.
type PresencePayload struct {
	Event  string `json:"event"` // "join" or "leave"
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

const (
	FrameSync     = "sync"
	FrameUpdate   = "update"
	FramePresence = "presence"
	FrameError    = "error"

	PresenceJoin  = "join"
	PresenceLeave = "leave"
)
