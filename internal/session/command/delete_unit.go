package command

import (
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// DeleteUnit removes a unit the session owns, refunding the food cost if it
// was a worker (§4.4 command table).
func DeleteUnit(s *world.Store, playerID uint64, p protocol.DeleteUnitPayload) ([]protocol.Envelope, error) {
	var msgs []protocol.Envelope
	var validationErr error

	ok := s.Try(func(st *world.State) {
		u := st.UnitAt(playerID, p.UnitIdx)
		if u == nil {
			validationErr = ErrNotFound
			return
		}

		kind := u.Kind
		st.RemoveUnit(playerID, p.UnitIdx)
		st.ClearGather(playerID, p.UnitIdx)

		if kind == world.UnitWorker {
			cost, _, _ := world.UnitSpec(world.UnitWorker)
			st.Refund(playerID, cost)
		}

		msgs = []protocol.Envelope{
			{Type: protocol.MessageTypeUnitDied, Payload: protocol.UnitDiedPayload{OwnerID: playerID, UnitIdx: p.UnitIdx}},
			resourceUpdate(st, playerID),
		}
	})
	if !ok {
		return nil, ErrContended
	}
	if validationErr != nil {
		return nil, validationErr
	}
	return msgs, nil
}
