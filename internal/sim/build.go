package sim

import (
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

const (
	buildHelperRadiusTiles   = 1.5
	buildProgressPerWorker   = 0.12
	buildMaxEffectiveHelpers = 4
)

// phaseBuildProgress is Phase A: advance or cancel every in-flight
// BuildTask (§4.2).
func (t *Ticker) phaseBuildProgress() {
	t.store.Try(func(s *world.State) {
		for _, task := range s.BuildTasks() {
			cx, cy := tileCenterWorld(task.Tile)
			radius := float64(world.TileSize) * buildHelperRadiusTiles

			workers := 0
			for _, units := range s.AllUnits() {
				for _, u := range units {
					if u.Owner != task.Owner || u.Kind != world.UnitWorker {
						continue
					}
					if dist(u.X, u.Y, cx, cy) <= radius {
						workers++
					}
				}
			}

			if workers == 0 {
				cost, _, _ := world.BuildingSpec(task.Kind)
				s.CancelBuild(task.Tile)
				s.Refund(task.Owner, cost)
				t.publish(protocol.MessageTypeBuildProgress, protocol.BuildProgressPayload{
					TileX: task.Tile.X, TileY: task.Tile.Y, Kind: task.Kind, Progress: -1,
				})
				t.markPopDirty(task.Owner)
				continue
			}

			effective := workers
			if effective > buildMaxEffectiveHelpers {
				effective = buildMaxEffectiveHelpers
			}
			progress := task.Progress + buildProgressPerWorker*float64(effective)

			if progress >= 1 {
				s.CancelBuild(task.Tile)
				b := s.InsertBuilding(task.Owner, task.Kind, task.Tile)
				t.publish(protocol.MessageTypeBuildingSpawned, protocol.BuildingSpawnedPayload{
					Building: protocol.BuildingView{ID: b.ID, OwnerID: b.Owner, Kind: b.Kind, TileX: b.Tile.X, TileY: b.Tile.Y, Hp: b.HP},
				})
				continue
			}

			s.UpdateBuildProgress(task.Tile, progress)
		}
	})
}
