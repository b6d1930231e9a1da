package ws

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	errUnknownEvent = errors.New("unknown_event")
	errBadPayload   = errors.New("bad_payload")
)

// validate checks payload structs at the dispatch boundary.
var validate = validator.New()

// internal (untyped) handler signature.
type rawHandler func(ctx context.Context, cc *ConnContext, body json.RawMessage) error

// Router keeps a map[event]handler, à-la gin.Engine.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]rawHandler
}

func NewRouter() *Router { return &Router{handlers: make(map[string]rawHandler)} }

// Register binds an event to a strongly-typed handler. The payload is
// unmarshalled into Req and, for struct payloads, validated; frames that fail
// either step are dropped (no error event goes back to the client).
func Register[Req any](
	r *Router,
	event string,
	h func(ctx context.Context, cc *ConnContext, req Req) error,
) {
	if event == "" {
		panic("ws router: empty event")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[event] = func(ctx context.Context, cc *ConnContext, body json.RawMessage) error {
		var req Req
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				return errors.Join(errBadPayload, err)
			}
		}
		if reflect.ValueOf(&req).Elem().Kind() == reflect.Struct {
			if err := validate.Struct(&req); err != nil {
				return errors.Join(errBadPayload, err)
			}
		}
		return h(ctx, cc, req)
	}
}

// dispatch is called by the server's reader loop. Handler errors are for
// diagnostics only; nothing is ever written back to the originating client.
func (r *Router) dispatch(ctx context.Context, cc *ConnContext, env Envelope) error {
	r.mu.RLock()
	h, ok := r.handlers[env.Event]
	r.mu.RUnlock()
	if !ok {
		return errUnknownEvent
	}
	return h(ctx, cc, env.Body)
}
