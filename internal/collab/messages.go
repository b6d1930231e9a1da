package collab

// ──────────────────────────── Inbound payloads ───────────────────────────────

// JoinRoomRequest is the body for "join-room". UserName is taken as-is,
// empty included.
type JoinRoomRequest struct {
	RoomID   string `json:"roomId" validate:"required"`
	UserName string `json:"userName"`
}

// CodeChangeRequest is the body for "code-change". Code replaces the whole
// document, last write wins.
type CodeChangeRequest struct {
	RoomID string `json:"roomId" validate:"required"`
	Code   string `json:"code"`
}

// LanguageChangeRequest is the body for "language-change".
type LanguageChangeRequest struct {
	RoomID   string `json:"roomId" validate:"required"`
	Language string `json:"language"`
}

// TypingRequest is the body for "typing-start" and "typing-stop".
type TypingRequest struct {
	RoomID   string `json:"roomId" validate:"required"`
	UserName string `json:"userName"`
}

// CodeExecutionRequest is the body for "code-execution". Output is an
// already-computed string relayed verbatim; nothing is executed here.
type CodeExecutionRequest struct {
	RoomID string `json:"roomId" validate:"required"`
	Output string `json:"output"`
}

// Position is a cursor location in the editor buffer.
type Position struct {
	Line int `json:"line"`
	Ch   int `json:"ch"`
}

// CursorPositionRequest is the body for "cursor-position". From is the start
// of the previous selection, if any.
type CursorPositionRequest struct {
	RoomID   string    `json:"roomId" validate:"required"`
	UserName string    `json:"userName"`
	Position Position  `json:"position"`
	From     *Position `json:"from"`
}

// ──────────────────────────── Outbound payloads ──────────────────────────────

// Snapshot is the full room state sent to a joiner as "room-state".
type Snapshot struct {
	Code     string        `json:"code"`
	Language string        `json:"language"`
	Users    []Participant `json:"users"`
}

// TypingEvent is the body of "user-typing".
type TypingEvent struct {
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}

// CursorMoveEvent is the body of "user-cursor-move".
type CursorMoveEvent struct {
	UserName     string    `json:"userName"`
	Position     Position  `json:"position"`
	From         *Position `json:"from"`
	ConnectionID string    `json:"connectionId"`
}
