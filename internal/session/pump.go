package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rack-games/holdfast-server/internal/bus"
	"github.com/rack-games/holdfast-server/internal/protocol"
)

// steadyState runs the downstream and upstream pumps concurrently (§4.4
// step 2). If upstream exits first it signals done, which stops downstream;
// if downstream exits first the connection is closed, which ends upstream's
// blocked read. steadyState returns once both have stopped.
func (h *Handler) steadyState(conn *websocket.Conn, playerID uint64, connID string, log *zap.Logger) {
	sub := h.bus.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	var once sync.Once
	stop := func() { once.Do(func() { close(done) }) }

	upstreamDone := make(chan struct{})
	go func() {
		defer close(upstreamDone)
		h.upstreamPump(conn, playerID, log)
		stop()
	}()

	h.downstreamPump(conn, sub, done, log)
	stop()
	conn.Close()

	<-upstreamDone
	log.Debug("session ended", zap.String("connection_id", connID))
}

// downstreamPump drains the bus subscription and forwards each message as a
// text frame, pinging every keepalivePeriod. Any write error, or the
// subscription closing (dropped as a slow consumer, §4.3), ends the pump.
func (h *Handler) downstreamPump(conn *websocket.Conn, sub *bus.Subscription, done <-chan struct{}, log *zap.Logger) {
	ticker := time.NewTicker(keepalivePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return

		case msg, ok := <-sub.C():
			if !ok {
				log.Debug("bus subscription dropped, ending session")
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("downstream write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("keepalive ping failed", zap.Error(err))
				return
			}
		}
	}
}

// upstreamPump reads frames until the socket errors or closes. Parse or
// validation failures never end the session — they are silently dropped
// per §7(c)/(d); only a transport error returns.
func (h *Handler) upstreamPump(conn *websocket.Conn, playerID uint64, log *zap.Logger) {
	conn.SetReadDeadline(time.Time{})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Debug("upstream read ended", zap.Error(err))
			return
		}

		var raw protocol.RawEnvelope
		if err := json.Unmarshal(data, &raw); err != nil {
			log.Debug("malformed upstream frame, dropping", zap.Error(err))
			continue
		}

		h.dispatch(playerID, raw, log)
	}
}
