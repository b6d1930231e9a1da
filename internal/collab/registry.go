package collab

import (
	"errors"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	// Seed content for a freshly created room.
	DefaultCode     = "// Start coding...\nconsole.log(\"Hello World!\");"
	DefaultLanguage = "javascript"
)

// ErrRoomNotFound marks a mutation against an unknown room id. It is used
// for diagnostics only and never surfaces to a client.
var ErrRoomNotFound = errors.New("room not found")

// Participant is one connection's membership record within a room.
type Participant struct {
	ID   string `json:"id"` // connection identity
	Name string `json:"name"`
}

// Room is the state of one code-editing session. Users keeps join order.
type Room struct {
	ID       string
	Code     string
	Language string
	Users    []Participant
}

// Departure records one participant leaving one room, for the disconnect
// sweep and its notifications.
type Departure struct {
	RoomID string
	User   Participant
}

// Registry owns the room map for the code-editing feature. All mutations are
// atomic per call; a room exists in the map iff it has at least one member
// (it is destroyed the instant it empties and recreated from defaults on the
// next join).
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Join adds the connection to the room, creating the room with default
// content if the id is unknown. A connection already in the room is not
// duplicated; its display name is refreshed instead. Returns the full room
// snapshot and the participant record.
func (r *Registry) Join(roomID, connID, userName string) (Snapshot, Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = &Room{
			ID:       roomID,
			Code:     DefaultCode,
			Language: DefaultLanguage,
		}
		r.rooms[roomID] = room
		zap.L().Info("collab.room_created", zap.String("room_id", roomID))
	}

	user := Participant{ID: connID, Name: userName}
	if _, idx, found := lo.FindIndexOf(room.Users, func(u Participant) bool { return u.ID == connID }); found {
		room.Users[idx] = user // refresh, never duplicate
	} else {
		room.Users = append(room.Users, user)
	}

	return Snapshot{
		Code:     room.Code,
		Language: room.Language,
		Users:    append([]Participant(nil), room.Users...),
	}, user
}

// SetCode replaces the whole document. Last write wins; there is no version
// check, a stale update can overwrite a newer one.
func (r *Registry) SetCode(roomID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	room.Code = code
	return nil
}

// SetLanguage replaces the language tag, independent of document content.
func (r *Registry) SetLanguage(roomID, language string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	room.Language = language
	return nil
}

// Leave removes the connection from the room. The room is destroyed the
// moment its last member leaves. Reports the removed participant and whether
// the connection was actually a member.
func (r *Registry) Leave(roomID, connID string) (Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(roomID, connID)
}

// RemoveFromAllRooms sweeps every room for the connection. Under the current
// client behavior a connection sits in at most one room, but nothing enforces
// that, so the disconnect path stays multi-room safe.
func (r *Registry) RemoveFromAllRooms(connID string) []Departure {
	r.mu.Lock()
	defer r.mu.Unlock()

	var departures []Departure
	for roomID := range r.rooms {
		if user, ok := r.removeLocked(roomID, connID); ok {
			departures = append(departures, Departure{RoomID: roomID, User: user})
		}
	}
	return departures
}

func (r *Registry) removeLocked(roomID, connID string) (Participant, bool) {
	room, ok := r.rooms[roomID]
	if !ok {
		return Participant{}, false
	}

	user, found := lo.Find(room.Users, func(u Participant) bool { return u.ID == connID })
	if !found {
		return Participant{}, false
	}

	room.Users = lo.Reject(room.Users, func(u Participant, _ int) bool { return u.ID == connID })
	if len(room.Users) == 0 {
		delete(r.rooms, roomID)
		zap.L().Info("collab.room_closed", zap.String("room_id", roomID))
	}
	return user, true
}

// Has reports whether the room currently exists.
func (r *Registry) Has(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[roomID]
	return ok
}

// Members returns the room's participant list in join order.
func (r *Registry) Members(roomID string) []Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	return append([]Participant(nil), room.Users...)
}

// RoomCount reports the number of live rooms.
func (r *Registry) RoomCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// ActiveRooms lists the ids of live rooms.
func (r *Registry) ActiveRooms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Keys(r.rooms)
}
