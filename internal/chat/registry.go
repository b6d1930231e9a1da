package chat

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HistoryLimit caps each room's retained history; the oldest message is
// evicted on every append beyond it.
const HistoryLimit = 100

// ErrRoomNotFound marks an append against a chat room nobody has joined yet.
// Diagnostics only, never surfaced to a client.
var ErrRoomNotFound = errors.New("chat room not found")

// Message is one chat entry. Immutable once stored; only eviction removes it.
type Message struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Sender    string    `json:"sender"`
	SenderID  string    `json:"senderId"`
	Timestamp time.Time `json:"timestamp"`
	RoomID    string    `json:"roomId" validate:"required"`
}

// Registry owns the bounded per-room chat history. Chat rooms are created
// lazily and, unlike code-editing rooms, never destroyed: once a room id is
// known its (bounded) history sticks around for the process lifetime. That
// asymmetry is intentional and pinned by tests.
type Registry struct {
	mu    sync.Mutex
	rooms map[string][]Message
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string][]Message)}
}

// EnsureRoom creates an empty history for the id if it is unknown.
func (r *Registry) EnsureRoom(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = []Message{}
		zap.L().Info("chat.room_created", zap.String("room_id", roomID))
	}
}

// Append stores the message in its room's history, evicting the oldest entry
// once the limit is exceeded. Storage requires a prior EnsureRoom; appends to
// unknown rooms are rejected (the caller may still broadcast the message).
func (r *Registry) Append(msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	history, ok := r.rooms[msg.RoomID]
	if !ok {
		return ErrRoomNotFound
	}

	history = append(history, msg)
	if len(history) > HistoryLimit {
		history = history[1:]
	}
	r.rooms[msg.RoomID] = history
	return nil
}

// History returns the room's messages oldest to newest. Unknown rooms yield
// an empty slice.
func (r *Registry) History(roomID string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message{}, r.rooms[roomID]...)
}

// Has reports whether the room id is known.
func (r *Registry) Has(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[roomID]
	return ok
}

// RoomCount reports the number of known chat rooms.
func (r *Registry) RoomCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
