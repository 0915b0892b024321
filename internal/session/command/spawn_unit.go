package command

import (
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// SpawnUnit instantly spawns a worker in the grid layout next to the
// player's town center, validating population room and affordability
// (§4.4 command table).
func SpawnUnit(s *world.Store, playerID uint64) ([]protocol.Envelope, error) {
	cost, hp, _ := world.UnitSpec(world.UnitWorker)

	var msgs []protocol.Envelope
	var validationErr error

	ok := s.Try(func(st *world.State) {
		if st.PopUsed(playerID) >= st.PopCap(playerID) {
			validationErr = ErrPopCapReached
			return
		}
		player, found := st.Player(playerID)
		if !found {
			validationErr = ErrNotFound
			return
		}
		if !st.Spend(playerID, cost) {
			validationErr = ErrInsufficientResources
			return
		}

		center := player.Chunk.CenterTile()
		x, y := world.WorkerGridPosition(center, st.PopUsed(playerID))
		idx := st.SpawnUnit(playerID, world.Unit{Owner: playerID, Kind: world.UnitWorker, X: x, Y: y, HP: hp})

		msgs = []protocol.Envelope{
			{Type: protocol.MessageTypeUnitSpawned, Payload: protocol.UnitSpawnedPayload{
				Unit: protocol.UnitView{OwnerID: playerID, Idx: idx, Kind: world.UnitWorker, X: x, Y: y, Hp: hp},
			}},
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
