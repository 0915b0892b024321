package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// ErrHandshake covers every way the handshake can fail: read timeout,
// malformed frame, wrong first message type, or a rejected version. All are
// handled the same way by the caller — close without a Welcome (§4.4, §7b).
var ErrHandshake = errors.New("handshake failed")

// handshake waits for the client's Join frame, rejects versions below
// minVersion, and otherwise enrolls or resumes the player (§4.4 step 1).
func (h *Handler) handshake(conn *websocket.Conn) (playerID uint64, chunk world.Chunk, token string, err error) {
	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))

	var raw protocol.RawEnvelope
	if readErr := conn.ReadJSON(&raw); readErr != nil {
		return 0, world.Chunk{}, "", fmt.Errorf("%w: %v", ErrHandshake, readErr)
	}

	if raw.Type != protocol.MessageTypeJoin {
		h.sendError(conn, "Invalid handshake: expected Join message")
		return 0, world.Chunk{}, "", fmt.Errorf("%w: first message must be join, got %s", ErrHandshake, raw.Type)
	}

	var join protocol.JoinPayload
	if decErr := protocol.DecodePayload(raw.Payload, &join); decErr != nil {
		h.sendError(conn, "Invalid handshake: expected Join message")
		return 0, world.Chunk{}, "", fmt.Errorf("%w: %v", ErrHandshake, decErr)
	}

	if join.Version < h.minVersion {
		msg := fmt.Sprintf("Client version %d is too old. Minimum required: %d", join.Version, h.minVersion)
		h.sendError(conn, msg)
		return 0, world.Chunk{}, "", fmt.Errorf("%w: %s", ErrHandshake, msg)
	}

	requested := ""
	if join.Token != nil {
		requested = *join.Token
	}

	playerID, chunk, token, _ = h.store.EnrollOrResume(requested)
	return playerID, chunk, token, nil
}

// sendError writes a best-effort Error frame before the caller closes the
// connection (§7b: protocol errors at handshake respond then close).
func (h *Handler) sendError(conn *websocket.Conn, msg string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteJSON(protocol.Envelope{Type: protocol.MessageTypeError, Payload: protocol.ErrorPayload{Message: msg}})
}

// sendWelcome builds and writes the Welcome payload from a store snapshot
// (§4.1 snapshot_view, §4.4 step 1).
func (h *Handler) sendWelcome(conn *websocket.Conn, playerID uint64, chunk world.Chunk, token string) error {
	players, units, buildings, resources, popCap, popUsed := h.store.SnapshotView(playerID)

	playerViews := make([]protocol.PlayerView, 0, len(players))
	for _, p := range players {
		playerViews = append(playerViews, protocol.PlayerView{PlayerID: p.PlayerID, ChunkX: p.ChunkX, ChunkY: p.ChunkY})
	}

	unitViews := make([]protocol.UnitView, 0, len(units))
	for _, u := range units {
		unitViews = append(unitViews, protocol.UnitView{
			OwnerID: u.Owner, Idx: u.Idx, Kind: u.Kind, X: u.X, Y: u.Y, Hp: u.HP, Carry: wireCarry(u.Carry),
		})
	}

	buildingViews := make([]protocol.BuildingView, 0, len(buildings))
	for _, b := range buildings {
		buildingViews = append(buildingViews, protocol.BuildingView{ID: b.ID, OwnerID: b.Owner, Kind: b.Kind, TileX: b.Tile.X, TileY: b.Tile.Y, Hp: b.HP})
	}

	payload := protocol.WelcomePayload{
		PlayerID:  playerID,
		ChunkX:    chunk.X,
		ChunkY:    chunk.Y,
		Players:   playerViews,
		Units:     unitViews,
		Buildings: buildingViews,
		Token:     token,
		Resources: wireResources(resources),
		PopCap:    popCap,
		PopUsed:   popUsed,
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(protocol.Envelope{Type: protocol.MessageTypeWelcome, Payload: payload})
}

func wireResources(r world.Resources) protocol.Resources {
	return protocol.Resources{Wood: r.Wood, Stone: r.Stone, Gold: r.Gold, Food: r.Food}
}

func wireCarry(c world.Resources) protocol.Carry {
	return protocol.Carry{Wood: c.Wood, Stone: c.Stone, Gold: c.Gold, Food: c.Food}
}

func (h *Handler) resourceUpdate(playerID uint64) protocol.Envelope {
	var resources world.Resources
	var popCap, popUsed int
	h.store.Do(func(s *world.State) {
		resources = s.Resources(playerID)
		popCap = s.PopCap(playerID)
		popUsed = s.PopUsed(playerID)
	})
	return protocol.Envelope{
		Type: protocol.MessageTypeResourceUpdate,
		Payload: protocol.ResourceUpdatePayload{
			PlayerID:  playerID,
			Resources: wireResources(resources),
			PopCap:    popCap,
			PopUsed:   popUsed,
		},
	}
}
