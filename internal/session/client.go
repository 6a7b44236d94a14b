package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"slidesync/internal/models"
)

// Principal is the authenticated identity bound to a connection for its
// entire lifetime.
type Principal struct {
	UserID string
	Role   string
}

// Client is one participant connection in a room.
type Client struct {
	ID        string
	Principal Principal
	Conn      *websocket.Conn

	mu   sync.Mutex
	hook func(models.WSFrame)
}

func NewClient(conn *websocket.Conn, p Principal) *Client {
	return &Client{ID: uuid.NewString(), Principal: p, Conn: conn}
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.WSFrame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

func (c *Client) Send(frame models.WSFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.Conn == nil {
		return
	}
	_ = c.Conn.WriteJSON(frame)
}
