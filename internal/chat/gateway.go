package chat

import (
	"context"

	"github.com/sourabhtirthani/CodeCollab-backend/internal/ws"
)

// Emitter is the slice of the transport the chat gateway needs.
type Emitter interface {
	Join(roomID, connID string)
	Leave(roomID, connID string)
	EmitTo(connID, event string, body any)
	Emit(roomID, event string, body any)
}

// Gateway routes the chat events between the transport and the history
// registry. Chat keeps no membership bookkeeping of its own: who hears a
// message is purely a multicast-group question.
type Gateway struct {
	registry *Registry
	emitter  Emitter
}

func NewGateway(registry *Registry, emitter Emitter) *Gateway {
	return &Gateway{registry: registry, emitter: emitter}
}

func (g *Gateway) Register(srv *ws.Server) {
	r := srv.Router()
	ws.Register(r, "join-chat", g.handleJoinChat)
	ws.Register(r, "send-message", g.handleSendMessage)
	ws.Register(r, "leave-chat", g.handleLeaveChat)
}

// handleJoinChat subscribes the connection to the room's group and answers
// with the history snapshot, oldest first.
func (g *Gateway) handleJoinChat(ctx context.Context, cc *ws.ConnContext, roomID string) error {
	g.registry.EnsureRoom(roomID)
	g.emitter.Join(roomID, cc.ConnID)
	g.emitter.EmitTo(cc.ConnID, "chat-history", g.registry.History(roomID))
	return nil
}

// handleSendMessage stores the message when its room is known, then
// broadcasts it to the whole group, sender included, regardless of whether
// storage happened. Sending without a prior join-chat therefore reaches
// current listeners but leaves no retrievable history entry.
func (g *Gateway) handleSendMessage(ctx context.Context, cc *ws.ConnContext, msg Message) error {
	err := g.registry.Append(msg)
	g.emitter.Emit(msg.RoomID, "chat-message", msg)
	return err
}

// handleLeaveChat drops the connection from the room's group; the history is
// untouched.
func (g *Gateway) handleLeaveChat(ctx context.Context, cc *ws.ConnContext, roomID string) error {
	g.emitter.Leave(roomID, cc.ConnID)
	return nil
}
