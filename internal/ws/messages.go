package ws

import "encoding/json"

// Envelope wraps every inbound WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "join-room"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON value
}

// OutEnvelope is the outbound counterpart. Body is kept even when it is a
// scalar (code-update carries the bare document string as its body).
type OutEnvelope struct {
	Event string `json:"event"`
	Body  any    `json:"body"`
}
