package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub is the transport-level pub/sub primitive: it tracks live connections
// and the multicast groups per room id. Registries decide who a message is
// for; the hub only delivers it. Everything is addressed by connection id so
// callers never touch the socket.
type Hub struct {
	conns  sync.Map // connID -> *Conn
	groups sync.Map // roomID -> *group
}

func NewHub() *Hub { return &Hub{} }

// register/unregister are called by the Server at accept and disconnect.
func (h *Hub) register(c *Conn)   { h.conns.Store(c.id, c) }
func (h *Hub) unregister(c *Conn) { h.conns.Delete(c.id) }

func (h *Hub) conn(connID string) (*Conn, bool) {
	v, ok := h.conns.Load(connID)
	if !ok {
		return nil, false
	}
	return v.(*Conn), true
}

func (h *Hub) Join(roomID, connID string) {
	c, ok := h.conn(connID)
	if !ok {
		return
	}
	g, _ := h.groups.LoadOrStore(roomID, newGroup())
	g.(*group).add(c)
}

func (h *Hub) Leave(roomID, connID string) {
	c, ok := h.conn(connID)
	if !ok {
		return
	}
	if v, ok := h.groups.Load(roomID); ok {
		if v.(*group).remove(c) {
			h.groups.Delete(roomID)
		}
	}
}

// leaveAll drops the connection from every group it is subscribed to.
func (h *Hub) leaveAll(c *Conn) {
	h.groups.Range(func(key, v any) bool {
		if v.(*group).remove(c) {
			h.groups.Delete(key)
		}
		return true
	})
}

// EmitTo sends one event to a single connection.
func (h *Hub) EmitTo(connID, event string, body any) {
	c, ok := h.conn(connID)
	if !ok {
		return
	}
	if err := c.writeJSON(OutEnvelope{Event: event, Body: body}); err != nil {
		zap.L().Debug("ws.emit_to_failed", zap.String("event", event), zap.Error(err))
		_ = c.rawConn.Close()
	}
}

// Emit sends one event to every member of the room's group.
// Unknown room ids are a no-op.
func (h *Hub) Emit(roomID, event string, body any) {
	h.emit(roomID, event, body, "")
}

// EmitExcept sends one event to every member of the room's group except the
// sender.
func (h *Hub) EmitExcept(roomID, senderID, event string, body any) {
	h.emit(roomID, event, body, senderID)
}

func (h *Hub) emit(roomID, event string, body any, exceptID string) {
	v, ok := h.groups.Load(roomID)
	if !ok {
		return
	}
	msg, err := json.Marshal(OutEnvelope{Event: event, Body: body})
	if err != nil {
		zap.L().Warn("ws.emit_marshal_failed", zap.String("event", event), zap.Error(err))
		return
	}
	for _, c := range v.(*group).broadcast(msg, exceptID) {
		// Drop the dead connection here so a group emptied by write failures
		// does not linger; the reader loop still runs the full cleanup.
		if v.(*group).remove(c) {
			h.groups.Delete(roomID)
		}
		_ = c.rawConn.Close()
	}
}

// GroupCount reports the number of live multicast groups.
func (h *Hub) GroupCount() int {
	n := 0
	h.groups.Range(func(_, _ any) bool { n++; return true })
	return n
}

// GroupSize reports the number of connections subscribed to a room id.
func (h *Hub) GroupSize(roomID string) int {
	if v, ok := h.groups.Load(roomID); ok {
		return v.(*group).size()
	}
	return 0
}

// ConnCount reports the number of live connections.
func (h *Hub) ConnCount() int {
	n := 0
	h.conns.Range(func(_, _ any) bool { n++; return true })
	return n
}
