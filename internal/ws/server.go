package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10 // must be < pongWait
)

// ConnContext carries the per-connection identity handed to event handlers.
type ConnContext struct {
	ConnID string
}

// Server accepts websocket upgrades and pumps inbound frames through the
// Router. Dispatch is serialized: one event runs to completion (registry
// mutations plus all emits) before the next one starts, so handlers never
// interleave and the registries see strictly ordered mutations.
type Server struct {
	hub      *Hub
	router   *Router
	upgrader websocket.Upgrader

	readLimit int64

	dispatchMu   sync.Mutex
	onDisconnect []func(cc *ConnContext)
}

func NewServer(hub *Hub, allowedOrigins []string, readLimit int64) *Server {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &Server{
		hub:    hub,
		router: NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		readLimit: readLimit,
	}
}

// Router exposes the event router so gateways can register their handlers.
func (s *Server) Router() *Router { return s.router }

// OnDisconnect registers a cleanup hook fired when a connection goes away,
// while the connection is still subscribed to its multicast groups.
func (s *Server) OnDisconnect(fn func(cc *ConnContext)) {
	s.onDisconnect = append(s.onDisconnect, fn)
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *Server) Handle(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade_failed", zap.Error(err))
		return
	}

	conn := &Conn{id: uuid.NewString(), rawConn: rawConn}
	s.hub.register(conn)
	zap.L().Info("ws.connected", zap.String("conn_id", conn.id))

	go s.reader(conn)
	go s.pinger(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *Server) reader(conn *Conn) {
	defer func() {
		s.disconnect(conn)
		conn.rawConn.Close()
	}()

	cc := &ConnContext{ConnID: conn.id}

	conn.rawConn.SetReadLimit(s.readLimit)
	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.rawConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("ws.read_failed", zap.String("conn_id", conn.id), zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			zap.L().Warn("ws.bad_frame", zap.String("conn_id", conn.id), zap.Error(err))
			continue
		}

		s.dispatchMu.Lock()
		err = s.router.dispatch(context.Background(), cc, env)
		s.dispatchMu.Unlock()

		if err != nil {
			// Dropped frames and no-op mutations are diagnostics only;
			// clients never receive an error event.
			switch {
			case errors.Is(err, errUnknownEvent), errors.Is(err, errBadPayload):
				zap.L().Warn("ws.frame_dropped",
					zap.String("conn_id", conn.id),
					zap.String("event", env.Event),
					zap.Error(err))
			default:
				zap.L().Debug("ws.handler_noop",
					zap.String("conn_id", conn.id),
					zap.String("event", env.Event),
					zap.Error(err))
			}
		}
	}
}

func (s *Server) disconnect(conn *Conn) {
	zap.L().Info("ws.disconnected", zap.String("conn_id", conn.id))

	// The whole cleanup runs under the dispatch lock: disconnect is an event
	// like any other and must not interleave with in-flight handlers. The
	// group sweep in particular has to happen here — a join dispatched
	// between the sweep and the group deletion could land on an orphaned
	// group and never hear another emit.
	s.dispatchMu.Lock()
	cc := &ConnContext{ConnID: conn.id}
	for _, fn := range s.onDisconnect {
		fn(cc)
	}
	s.hub.leaveAll(conn)
	s.hub.unregister(conn)
	s.dispatchMu.Unlock()
}

func (s *Server) pinger(conn *Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		deadline := time.Now().Add(writeWait)
		if err := conn.rawConn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			_ = conn.rawConn.Close()
			return
		}
	}
}
