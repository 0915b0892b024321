package command

import (
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// DeleteBuilding removes a player-owned, non-Town-Center building at tile,
// refunding its full cost and, for a House, decrementing pop cap floored at
// the base (§4.4 command table, §3 "cannot be voluntarily destroyed").
func DeleteBuilding(s *world.Store, playerID uint64, p protocol.DeleteBuildingPayload) ([]protocol.Envelope, error) {
	tile := world.Tile{X: p.TileX, Y: p.TileY}

	var msgs []protocol.Envelope
	var validationErr error

	ok := s.Try(func(st *world.State) {
		b, found := st.BuildingAt(tile)
		if !found || b.Owner != playerID {
			validationErr = ErrNotOwned
			return
		}
		if b.Kind == world.BuildingTownCenter {
			validationErr = ErrNotOwned
			return
		}

		cost, _, _ := world.BuildingSpec(b.Kind)
		st.RemoveBuilding(b.ID)
		st.Refund(playerID, cost)

		if b.Kind == world.BuildingHouse {
			st.AdjustPopCap(playerID, -1)
		}

		msgs = []protocol.Envelope{
			{Type: protocol.MessageTypeBuildingDestroyed, Payload: protocol.BuildingDestroyedPayload{TileX: p.TileX, TileY: p.TileY}},
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
