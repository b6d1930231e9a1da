package statshandler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sourabhtirthani/CodeCollab-backend/internal/chat"
	"github.com/sourabhtirthani/CodeCollab-backend/internal/collab"
	"github.com/sourabhtirthani/CodeCollab-backend/internal/ws"
)

// StatsResponse is the live snapshot returned by GET /api/stats.
type StatsResponse struct {
	Connections int       `json:"connections"`
	ActiveRooms []string  `json:"active_rooms"`
	RoomCount   int       `json:"room_count"`
	ChatRooms   int       `json:"chat_rooms"`
	Timestamp   time.Time `json:"timestamp"`
}

type Handler struct {
	hub   *ws.Hub
	rooms *collab.Registry
	chat  *chat.Registry
}

func New(hub *ws.Hub, rooms *collab.Registry, chatRegistry *chat.Registry) *Handler {
	return &Handler{hub: hub, rooms: rooms, chat: chatRegistry}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/api/stats", h.stats)
}

func (h *Handler) stats(c *gin.Context) {
	rooms := h.rooms.ActiveRooms()
	c.JSON(http.StatusOK, StatsResponse{
		Connections: h.hub.ConnCount(),
		ActiveRooms: rooms,
		RoomCount:   len(rooms),
		ChatRooms:   h.chat.RoomCount(),
		Timestamp:   time.Now().UTC(),
	})
}
