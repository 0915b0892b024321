package sim

import (
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// trainProgressPerTick is the per-tick TrainTask advance (~4s to
// completion at the 200ms cadence) (§4.2 Phase B).
const trainProgressPerTick = 0.05

// phaseTrainProgress is Phase B. TrainTask exists as a mechanism but, per
// spec §9's open question, is only ever populated by internal flows —
// external TrainUnit commands spawn synchronously (see
// internal/session/command/train_unit.go).
func (t *Ticker) phaseTrainProgress() {
	t.store.Try(func(s *world.State) {
		for _, done := range s.AdvanceTrainTasks(trainProgressPerTick) {
			centerTile := done.OriginChunk.CenterTile()

			var x, y float64
			var hp int
			if done.Kind == world.UnitWarrior {
				x, y = world.WarriorOffsetPosition(centerTile)
				_, hp, _ = world.UnitSpec(world.UnitWarrior)
			} else {
				x, y = world.WorkerGridPosition(centerTile, s.PopUsed(done.Owner))
				_, hp, _ = world.UnitSpec(world.UnitWorker)
			}

			idx := s.SpawnUnit(done.Owner, world.Unit{Owner: done.Owner, Kind: done.Kind, X: x, Y: y, HP: hp})
			t.publish(protocol.MessageTypeUnitSpawned, protocol.UnitSpawnedPayload{
				Unit: protocol.UnitView{OwnerID: done.Owner, Idx: idx, Kind: done.Kind, X: x, Y: y, Hp: hp},
			})
			t.markPopDirty(done.Owner)
		}
	})
}
