package command

import (
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// UnitSync is a hard reconciliation of a unit's position — same validation
// and effect as UnitMove (spec §4.4 command table).
func UnitSync(s *world.Store, playerID uint64, p protocol.UnitSyncPayload) ([]protocol.Envelope, error) {
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
	return []protocol.Envelope{{Type: protocol.MessageTypeUnitSync, Payload: p}}, nil
}
