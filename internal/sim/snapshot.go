package sim

import "github.com/rack-games/holdfast-server/internal/world"

// unitSnap is a lightweight copy of a unit's combat-relevant state (§4.2
// Phase C).
type unitSnap struct {
	Owner uint64
	Idx   int
	Kind  int
	X, Y  float64
}

// buildingSnap is a lightweight copy of a building's combat-relevant state.
type buildingSnap struct {
	ID    uint64
	Owner uint64
	Kind  int
	Tile  world.Tile
}

// towerSnap is a Tower building paired with its world-pixel position.
type towerSnap struct {
	BuildingID uint64
	Owner      uint64
	X, Y       float64
}

// phaseSnapshot copies unit, building, and tower state out from under the
// lock so later phases can work without re-acquiring it for every
// comparison (§4.2 Phase C).
func (t *Ticker) phaseSnapshot() (units []unitSnap, buildings []buildingSnap, towers []towerSnap) {
	t.store.Try(func(s *world.State) {
		for owner, list := range s.AllUnits() {
			for idx, u := range list {
				units = append(units, unitSnap{Owner: owner, Idx: idx, Kind: u.Kind, X: u.X, Y: u.Y})
			}
		}

		for _, b := range s.Buildings() {
			buildings = append(buildings, buildingSnap{ID: b.ID, Owner: b.Owner, Kind: b.Kind, Tile: b.Tile})
			if b.Kind == world.BuildingTower {
				x, y := tileCenterWorld(b.Tile)
				towers = append(towers, towerSnap{BuildingID: b.ID, Owner: b.Owner, X: x, Y: y})
			}
		}
	})
	return
}
