package command

import (
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// UnitMove writes a unit's position into the store and re-broadcasts the
// move. The caller's authenticated playerID always overrides whatever
// player_id the client payload claims — a deliberate hardening of the
// original protocol's "trust the client" behavior (spec §9 open question),
// since the wire payload is otherwise an unauthenticated write target.
func UnitMove(s *world.Store, playerID uint64, p protocol.UnitMovePayload) ([]protocol.Envelope, error) {
	ok := s.Try(func(st *world.State) {
		u := st.UnitAt(playerID, p.UnitIdx)
		if u == nil {
			return
		}
		u.X, u.Y = p.X, p.Y
	})
	if !ok {
		return nil, ErrContended
	}

	p.PlayerID = playerID
	return []protocol.Envelope{{Type: protocol.MessageTypeUnitMove, Payload: p}}, nil
}
