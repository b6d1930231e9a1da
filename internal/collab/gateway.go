package collab

import (
	"context"

	"github.com/sourabhtirthani/CodeCollab-backend/internal/ws"
)

// Emitter is the slice of the transport the gateway needs: room-scoped
// multicast plus single-connection delivery, addressed by connection id.
type Emitter interface {
	Join(roomID, connID string)
	Leave(roomID, connID string)
	EmitTo(connID, event string, body any)
	Emit(roomID, event string, body any)
	EmitExcept(roomID, senderID, event string, body any)
}

// Gateway routes the code-editing events between the transport and the
// room registry.
type Gateway struct {
	registry *Registry
	emitter  Emitter
}

func NewGateway(registry *Registry, emitter Emitter) *Gateway {
	return &Gateway{registry: registry, emitter: emitter}
}

// Register binds all code-editing events and the disconnect sweep.
func (g *Gateway) Register(srv *ws.Server) {
	r := srv.Router()
	ws.Register(r, "join-room", g.handleJoinRoom)
	ws.Register(r, "code-change", g.handleCodeChange)
	ws.Register(r, "language-change", g.handleLanguageChange)
	ws.Register(r, "leave-room", g.handleLeaveRoom)
	ws.Register(r, "typing-start", g.typingHandler(true))
	ws.Register(r, "typing-stop", g.typingHandler(false))
	ws.Register(r, "code-execution", g.handleCodeExecution)
	ws.Register(r, "cursor-position", g.handleCursorPosition)
	srv.OnDisconnect(g.HandleDisconnect)
}

// handleJoinRoom creates the room on first join, seeds it with the default
// document, and answers the joiners with the authoritative snapshot. Everyone
// already present learns about the newcomer.
func (g *Gateway) handleJoinRoom(ctx context.Context, cc *ws.ConnContext, req JoinRoomRequest) error {
	snapshot, user := g.registry.Join(req.RoomID, cc.ConnID, req.UserName)
	g.emitter.Join(req.RoomID, cc.ConnID)

	g.emitter.EmitTo(cc.ConnID, "room-state", snapshot)
	g.emitter.EmitExcept(req.RoomID, cc.ConnID, "user-joined", user)
	return nil
}

// handleCodeChange replaces the document and fans the new text out to the
// other members; the sender already holds the authoritative text locally.
// Mutations against an unknown room are dropped silently.
func (g *Gateway) handleCodeChange(ctx context.Context, cc *ws.ConnContext, req CodeChangeRequest) error {
	if err := g.registry.SetCode(req.RoomID, req.Code); err != nil {
		return err
	}
	g.emitter.EmitExcept(req.RoomID, cc.ConnID, "code-update", req.Code)
	return nil
}

func (g *Gateway) handleLanguageChange(ctx context.Context, cc *ws.ConnContext, req LanguageChangeRequest) error {
	if err := g.registry.SetLanguage(req.RoomID, req.Language); err != nil {
		return err
	}
	g.emitter.EmitExcept(req.RoomID, cc.ConnID, "language-update", req.Language)
	return nil
}

// handleLeaveRoom removes the participant and tells whoever remains. The
// multicast group is left first so the leaver never sees its own departure.
func (g *Gateway) handleLeaveRoom(ctx context.Context, cc *ws.ConnContext, roomID string) error {
	user, ok := g.registry.Leave(roomID, cc.ConnID)
	g.emitter.Leave(roomID, cc.ConnID)
	if !ok {
		return ErrRoomNotFound
	}
	g.emitter.Emit(roomID, "user-left", user)
	return nil
}

// typingHandler builds the handler for typing-start / typing-stop. Purely
// ephemeral presence: no room existence check, nothing stored.
func (g *Gateway) typingHandler(isTyping bool) func(context.Context, *ws.ConnContext, TypingRequest) error {
	return func(ctx context.Context, cc *ws.ConnContext, req TypingRequest) error {
		g.emitter.EmitExcept(req.RoomID, cc.ConnID, "user-typing", TypingEvent{
			UserName: req.UserName,
			IsTyping: isTyping,
		})
		return nil
	}
}

// handleCodeExecution relays an externally computed output string to the
// whole room, sender included. The output is never interpreted here.
func (g *Gateway) handleCodeExecution(ctx context.Context, cc *ws.ConnContext, req CodeExecutionRequest) error {
	g.emitter.Emit(req.RoomID, "output-update", req.Output)
	return nil
}

func (g *Gateway) handleCursorPosition(ctx context.Context, cc *ws.ConnContext, req CursorPositionRequest) error {
	g.emitter.EmitExcept(req.RoomID, cc.ConnID, "user-cursor-move", CursorMoveEvent{
		UserName:     req.UserName,
		Position:     req.Position,
		From:         req.From,
		ConnectionID: cc.ConnID,
	})
	return nil
}

// HandleDisconnect applies leave semantics to every room the connection was
// in: remaining members are notified and emptied rooms are destroyed.
func (g *Gateway) HandleDisconnect(cc *ws.ConnContext) {
	for _, dep := range g.registry.RemoveFromAllRooms(cc.ConnID) {
		g.emitter.Leave(dep.RoomID, cc.ConnID)
		g.emitter.Emit(dep.RoomID, "user-left", dep.User)
	}
}
