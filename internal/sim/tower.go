package sim

import (
	"math"

	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// towerShotHitRadius is how close a unit/building must be to a shot's
// target point to be struck (§4.2 Phase H).
const towerShotHitRadius = 16.0

type towerShot struct {
	Owner      uint64
	SrcX, SrcY float64
	DstX, DstY float64
}

// phaseTowerTargeting is Phase G: each tower picks the nearest hostile unit
// within range and queues a shot toward it.
func (t *Ticker) phaseTowerTargeting(towers []towerSnap, units []unitSnap) []towerShot {
	var shots []towerShot
	for _, tw := range towers {
		from := unitSnap{Owner: tw.Owner, X: tw.X, Y: tw.Y}
		if victim, ok := nearestHostileUnit(units, from, world.TowerRange); ok {
			shots = append(shots, towerShot{Owner: tw.Owner, SrcX: tw.X, SrcY: tw.Y, DstX: victim.X, DstY: victim.Y})
		}
	}
	return shots
}

// phaseTowerResolution is Phase H: resolve each queued shot against whatever
// is within towerShotHitRadius of its end point, preferring a hostile unit
// and falling back to a hostile building, then broadcast the beam itself so
// clients can render it.
func (t *Ticker) phaseTowerResolution(shots []towerShot) {
	if len(shots) == 0 {
		return
	}

	t.store.Try(func(s *world.State) {
		for _, shot := range shots {
			if owner, idx, ok := nearestHostileUnitAt(s, shot.Owner, shot.DstX, shot.DstY, towerShotHitRadius); ok {
				u := s.UnitAt(owner, idx)
				u.HP -= int(world.TowerDamage)
				if u.HP <= 0 {
					s.RemoveUnit(owner, idx)
					t.publish(protocol.MessageTypeUnitDied, protocol.UnitDiedPayload{OwnerID: owner, UnitIdx: idx})
					t.markPopDirty(owner)
				} else {
					t.publish(protocol.MessageTypeUnitHp, protocol.UnitHpPayload{OwnerID: owner, UnitIdx: idx, Hp: u.HP})
				}
			} else if id, ok := nearestHostileBuildingAt(s, shot.Owner, shot.DstX, shot.DstY, towerShotHitRadius); ok {
				b, _ := s.BuildingByID(id)
				b.HP -= int(world.TowerDamage)
				if b.HP <= 0 {
					s.RemoveBuilding(id)
					if b.Kind == world.BuildingHouse {
						s.AdjustPopCap(b.Owner, -1)
						t.markPopDirty(b.Owner)
					}
					t.publish(protocol.MessageTypeBuildingDestroyed, protocol.BuildingDestroyedPayload{TileX: b.Tile.X, TileY: b.Tile.Y})
				} else {
					t.publish(protocol.MessageTypeBuildingHp, protocol.BuildingHpPayload{TileX: b.Tile.X, TileY: b.Tile.Y, Hp: b.HP})
				}
			}

			t.publish(protocol.MessageTypeTowerShot, protocol.TowerShotPayload{X1: shot.SrcX, Y1: shot.SrcY, X2: shot.DstX, Y2: shot.DstY})
		}
	})
}

func nearestHostileUnitAt(s *world.State, excludeOwner uint64, x, y, radius float64) (owner uint64, idx int, ok bool) {
	best := math.MaxFloat64
	for o, list := range s.AllUnits() {
		if o == excludeOwner {
			continue
		}
		for i, u := range list {
			d := dist(x, y, u.X, u.Y)
			if d <= radius && d < best {
				best = d
				owner, idx, ok = o, i, true
			}
		}
	}
	return
}

func nearestHostileBuildingAt(s *world.State, excludeOwner uint64, x, y, radius float64) (id uint64, ok bool) {
	best := math.MaxFloat64
	for _, b := range s.Buildings() {
		if b.Owner == excludeOwner {
			continue
		}
		cx, cy := tileCenterWorld(b.Tile)
		d := dist(x, y, cx, cy)
		if d <= radius && d < best {
			best = d
			id, ok = b.ID, true
		}
	}
	return
}
