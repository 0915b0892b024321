package command

import (
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// Build validates tile occupancy and affordability, spends the cost,
// inserts a BuildTask at progress 0, and (per spec §4.4's command table)
// immediately grants the +1 population cap for a House at command time
// rather than waiting for the build to finish.
func Build(s *world.Store, playerID uint64, p protocol.BuildPayload) ([]protocol.Envelope, error) {
	cost, _, known := world.BuildingSpec(p.Kind)
	if !known || p.Kind == world.BuildingTownCenter {
		return nil, ErrUnknownKind
	}

	tile := world.Tile{X: p.TileX, Y: p.TileY}

	var msgs []protocol.Envelope
	var validationErr error

	ok := s.Try(func(st *world.State) {
		if st.TileBlocked(tile) {
			validationErr = ErrTileBlocked
			return
		}
		if !st.Spend(playerID, cost) {
			validationErr = ErrInsufficientResources
			return
		}
		if !st.StartBuild(playerID, p.Kind, tile) {
			st.Refund(playerID, cost)
			validationErr = ErrTileBlocked
			return
		}
		if p.Kind == world.BuildingHouse {
			st.AdjustPopCap(playerID, 1)
		}

		msgs = []protocol.Envelope{
			{Type: protocol.MessageTypeBuildProgress, Payload: protocol.BuildProgressPayload{TileX: p.TileX, TileY: p.TileY, Kind: p.Kind, Progress: 0}},
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
