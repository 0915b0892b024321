// Package session implements the Session Handler (spec §4.4): one instance
// per client connection, performing the version/token handshake, sending a
// welcome snapshot, then running the downstream/upstream pumps that bridge
// the connection to the Broadcast Bus and World Store.
//
// Grounded on the teacher's (rackaracka123-terraforming-mars)
// internal/delivery/websocket/core/{handler,connection}.go: a
// websocket.Upgrader-backed HTTP handler that hands each accepted
// connection to its own goroutines. Generalized from the teacher's
// Hub-routed multi-game model (one Hub, many Connections grouped by game
// id, message routing through a handler registry) down to this domain's
// single-world model: there is one World Store and one Bus, so there is no
// hub to route through — each Session Handler talks to the store and bus
// directly.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rack-games/holdfast-server/internal/bus"
	"github.com/rack-games/holdfast-server/internal/logger"
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// handshakeTimeout bounds how long a client has to send its Join frame
// after the socket upgrades (§4.4 "Wait at most 2 s").
const handshakeTimeout = 2 * time.Second

// keepalivePeriod is the downstream ping cadence (§4.4 Steady state).
const keepalivePeriod = 10 * time.Second

// writeWait bounds a single outbound frame write, mirroring the teacher's
// connection write-deadline discipline.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Game clients connect from an embedded shim served off-origin; the
		// core enforces identity via the handshake token, not Origin.
		return true
	},
}

// Handler accepts WebSocket upgrades and runs the per-connection state
// machine described in §4.4.
type Handler struct {
	store      *world.Store
	bus        *bus.Bus
	minVersion uint32
	log        *zap.Logger
}

// New creates a Handler bound to store and bus, gating handshakes at
// minVersion (§4.4, §6 MIN_CLIENT_VERSION).
func New(store *world.Store, b *bus.Bus, minVersion uint32) *Handler {
	return &Handler{store: store, bus: b, minVersion: minVersion, log: logger.Get()}
}

// ServeWS upgrades the HTTP request to a WebSocket connection and runs the
// session to completion on its own goroutine tree. Intended to be wired as
// a gin route handler (r.GET("/ws", func(c *gin.Context) { h.ServeWS(c.Writer, c.Request) })).
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	connID := uuid.New().String()
	h.log.Debug("connection accepted", zap.String("connection_id", connID))
	h.run(conn, connID)
}

// run drives a single connection through handshake then steady state. It
// returns (and its own deferred Close shuts the socket) once both pumps
// have stopped; either pump exiting stops the other, per §4.4 "Either
// sub-task exiting aborts the other."
func (h *Handler) run(conn *websocket.Conn, connID string) {
	defer conn.Close()

	playerID, chunk, token, err := h.handshake(conn)
	if err != nil {
		h.log.Debug("handshake failed", zap.String("connection_id", connID), zap.Error(err))
		return
	}

	log := logger.WithSession(playerID, token)
	log.Info("session established", zap.String("connection_id", connID))

	if err := h.sendWelcome(conn, playerID, chunk, token); err != nil {
		log.Debug("welcome send failed", zap.Error(err))
		return
	}

	h.bus.Publish(protocol.Envelope{
		Type:    protocol.MessageTypeNewPlayer,
		Payload: protocol.NewPlayerPayload{Player: protocol.PlayerView{PlayerID: playerID, ChunkX: chunk.X, ChunkY: chunk.Y}},
	})
	h.bus.Publish(h.resourceUpdate(playerID))

	h.steadyState(conn, playerID, connID, log)
}
