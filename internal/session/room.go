package session

import (
	"strings"
	"sync"

	"slidesync/internal/document"
	"slidesync/internal/models"
)

const roomPrefix = "room-"

// RoomName derives the registry key for a class session.
func RoomName(sessionID string) string { return roomPrefix + sessionID }

// SessionID recovers the class session id from a registry key.
func SessionID(roomName string) string { return strings.TrimPrefix(roomName, roomPrefix) }

// Room holds the merged document state and connected participants for one
// editing session.
type Room struct {
	Name string

	mu      sync.Mutex
	clients map[*Client]struct{}
	doc     *document.State
}

func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		clients: make(map[*Client]struct{}),
		doc:     document.NewState(),
	}
}

// Join adds a participant, hands it the full baseline state, and announces it
// to the peers. Running under the room lock guarantees the baseline reaches
// the joiner before any later incremental update.
func (r *Room) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
	c.Send(models.WSFrame{
		Type: models.FrameSync,
		Data: models.SyncPayload{
			SessionID: SessionID(r.Name),
			Updates:   snapshotBytes(r.doc),
		},
	})
	r.broadcastLocked(c, models.WSFrame{
		Type: models.FramePresence,
		Data: models.PresencePayload{Event: models.PresenceJoin, UserID: c.Principal.UserID, Role: c.Principal.Role},
	})
}

// Leave removes a participant, announces the departure to the remaining
// peers, and returns how many are left.
func (r *Room) Leave(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c]; !ok {
		return len(r.clients)
	}
	delete(r.clients, c)
	r.broadcastLocked(nil, models.WSFrame{
		Type: models.FramePresence,
		Data: models.PresencePayload{Event: models.PresenceLeave, UserID: c.Principal.UserID, Role: c.Principal.Role},
	})
	return len(r.clients)
}

func (r *Room) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// ApplyUpdate merges a document delta into the room state. It reports whether
// the state changed; duplicates are no-ops and must not be rebroadcast.
func (r *Room) ApplyUpdate(u document.Update) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.Merge(u)
}

// DocLen returns the number of merged updates.
func (r *Room) DocLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.Len()
}

// Broadcast sends a frame to every participant except the sender.
func (r *Room) Broadcast(sender *Client, frame models.WSFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(sender, frame)
}

func (r *Room) broadcastLocked(sender *Client, frame models.WSFrame) {
	for c := range r.clients {
		if c == sender {
			continue
		}
		c.Send(frame)
	}
}

func snapshotBytes(doc *document.State) [][]byte {
	snap := doc.Snapshot()
	out := make([][]byte, len(snap))
	for i, u := range snap {
		out[i] = u
	}
	return out
}
