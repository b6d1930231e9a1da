package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is one live client connection. The ID is assigned at accept time and
// never reused while the connection is alive.
type Conn struct {
	id      string
	rawConn *websocket.Conn
	mu      sync.Mutex
}

func (c *Conn) ID() string { return c.id }

func (c *Conn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteMessage(websocket.TextMessage, data)
}

func (c *Conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteJSON(v)
}
