package command

import (
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// TrainUnit accepts only kind=1 (warrior): validates the building is owned
// by the session and population room exists, then spends the cost and
// spawns the warrior synchronously at the building's offset (§4.4 command
// table). TrainTask exists as a mechanism but is only ever populated by
// internal flows (spec §9 open question) — this command never queues one.
func TrainUnit(s *world.Store, playerID uint64, p protocol.TrainUnitPayload) ([]protocol.Envelope, error) {
	if p.Kind != world.UnitWarrior {
		return nil, ErrUnknownKind
	}

	cost, hp, _ := world.UnitSpec(world.UnitWarrior)

	var msgs []protocol.Envelope
	var validationErr error

	ok := s.Try(func(st *world.State) {
		b, found := st.FindBuilding(playerID, p.BuildingID)
		if !found {
			validationErr = ErrNotOwned
			return
		}
		if st.PopUsed(playerID) >= st.PopCap(playerID) {
			validationErr = ErrPopCapReached
			return
		}
		if !st.Spend(playerID, cost) {
			validationErr = ErrInsufficientResources
			return
		}

		x, y := world.WarriorOffsetPosition(b.Tile)
		idx := st.SpawnUnit(playerID, world.Unit{Owner: playerID, Kind: world.UnitWarrior, X: x, Y: y, HP: hp})

		msgs = []protocol.Envelope{
			{Type: protocol.MessageTypeUnitSpawned, Payload: protocol.UnitSpawnedPayload{
				Unit: protocol.UnitView{OwnerID: playerID, Idx: idx, Kind: world.UnitWarrior, X: x, Y: y, Hp: hp},
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
