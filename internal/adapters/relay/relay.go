// Package relay terminates websocket connections and wires transport events
// into the presence and broadcast core. It owns connection identifiers,
// payload validation, and disconnect cleanup; nothing else in the process
// touches a socket.
package relay

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dmelo/sala/internal/app"
	"github.com/dmelo/sala/internal/config"
	"github.com/dmelo/sala/internal/core"
	"github.com/dmelo/sala/internal/metrics"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Presence *app.PresenceCoordinator
	Router   *app.BroadcastRouter

	cfg      *config.Config
	upgrader websocket.Upgrader
}

func NewController(cfg *config.Config, presence *app.PresenceCoordinator, router *app.BroadcastRouter) *Controller {
	allowed, allowAll := normalizeOrigins(cfg.AllowedOrigins)
	return &Controller{
		Presence: presence,
		Router:   router,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r, allowed, allowAll)
			},
		},
	}
}

// wsConn adapts a gorilla websocket to core.SignalConnection. TrySend never
// blocks: a full send buffer surfaces as ErrBackpressure and the frame is
// the caller's problem.
type wsConn struct {
	conn    *websocket.Conn
	send    chan core.Frame
	limiter *messageLimiter

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleChat upgrades the request and runs the connection until the peer
// goes away. Every upgrade gets a fresh connection identifier; a reconnect
// is a brand-new connection that must re-join explicitly.
func (ctl *Controller) HandleChat(ctx context.Context, c *gin.Context) {
	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("ws upgrade")
		return
	}

	cid := core.ConnID(uuid.NewString())
	log.Info().Str("module", "relay").Str("cid", string(cid)).Str("remote", c.Request.RemoteAddr).Msg("new connection")

	conn := &wsConn{
		conn:    ws,
		send:    make(chan core.Frame, 32),
		limiter: newMessageLimiter(ctl.cfg.MessageBurst, ctl.cfg.MessageWindow),
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	ctx, cancel := context.WithCancel(ctx)
	metrics.ActiveConnections.Inc()

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, cid, conn)
}
