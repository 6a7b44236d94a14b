package session

import "sync"

// Hub is the registry of active rooms. It is created once at process start
// and injected into the transport layer; rooms exist only while at least one
// participant is attached.
type Hub struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	onEmpty func(name string)
}

func NewHub() *Hub { return &Hub{rooms: make(map[string]*Room)} }

// SetOnEmpty registers a callback invoked after a room is destroyed.
func (h *Hub) SetOnEmpty(fn func(name string)) {
	h.mu.Lock()
	h.onEmpty = fn
	h.mu.Unlock()
}

// Attach joins a client to the named room, creating it on first join. Holding
// the hub lock across lookup and join means a joiner can never attach to a
// room that a concurrent last-leave is tearing down.
func (h *Hub) Attach(name string, c *Client) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[name]
	if !ok {
		r = NewRoom(name)
		h.rooms[name] = r
	}
	r.Join(c)
	return r
}

// Detach removes a client from its room and destroys the room the instant the
// participant set becomes empty. It reports whether the room was destroyed.
func (h *Hub) Detach(r *Room, c *Client) bool {
	h.mu.Lock()
	left := r.Leave(c)
	destroyed := false
	if left == 0 {
		delete(h.rooms, r.Name)
		destroyed = true
	}
	onEmpty := h.onEmpty
	h.mu.Unlock()

	if destroyed && onEmpty != nil {
		onEmpty(r.Name)
	}
	return destroyed
}

// Room looks up an active room without creating one.
func (h *Hub) Room(name string) (*Room, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[name]
	return r, ok
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}
