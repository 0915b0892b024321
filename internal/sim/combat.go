package sim

import (
	"math"
	"sort"

	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// warriorDamagePerTick = WARRIOR_DPS * tick period in seconds = 30 * 0.2 = 6
// (§4.2 Phase E).
const warriorDamagePerTick = world.WarriorDPS * (world.TickPeriodMillis / 1000.0)

type unitDamage struct {
	Owner  uint64
	Idx    int
	Amount float64
}

type buildingDamage struct {
	ID     uint64
	Amount float64
}

// phaseWarriorCombat is Phase E: every warrior targets the nearest hostile
// unit within range, falling back to the nearest hostile building.
func (t *Ticker) phaseWarriorCombat(units []unitSnap, buildings []buildingSnap) (unitDmg []unitDamage, buildingDmg []buildingDamage) {
	for _, w := range units {
		if w.Kind != world.UnitWarrior {
			continue
		}

		if victim, ok := nearestHostileUnit(units, w, world.WarriorRange); ok {
			unitDmg = append(unitDmg, unitDamage{Owner: victim.Owner, Idx: victim.Idx, Amount: warriorDamagePerTick})
			continue
		}

		if target, ok := nearestHostileBuilding(buildings, w.Owner, w.X, w.Y, world.WarriorRange); ok {
			buildingDmg = append(buildingDmg, buildingDamage{ID: target.ID, Amount: warriorDamagePerTick})
		}
	}
	return
}

func nearestHostileUnit(units []unitSnap, from unitSnap, radius float64) (unitSnap, bool) {
	best := unitSnap{}
	bestDist := math.MaxFloat64
	found := false

	for _, u := range units {
		if u.Owner == from.Owner {
			continue
		}
		d := dist(from.X, from.Y, u.X, u.Y)
		if d <= radius && d < bestDist {
			bestDist = d
			best = u
			found = true
		}
	}
	return best, found
}

func nearestHostileBuilding(buildings []buildingSnap, owner uint64, x, y, radius float64) (buildingSnap, bool) {
	best := buildingSnap{}
	bestDist := math.MaxFloat64
	found := false

	for _, b := range buildings {
		if b.Owner == owner {
			continue
		}
		cx, cy := tileCenterWorld(b.Tile)
		d := dist(x, y, cx, cy)
		if d <= radius && d < bestDist {
			bestDist = d
			best = b
			found = true
		}
	}
	return best, found
}

// phaseDamageApplication is Phase F: apply queued unit damage in descending
// unit-index order per owner, then queued building damage in descending
// building order, so removals never invalidate an earlier index (§4.2,
// §9 "Unit indices as identifiers").
func (t *Ticker) phaseDamageApplication(unitDmg []unitDamage, buildingDmg []buildingDamage) {
	if len(unitDmg) == 0 && len(buildingDmg) == 0 {
		return
	}

	t.store.Try(func(s *world.State) {
		t.applyUnitDamage(s, unitDmg)
		t.applyBuildingDamage(s, buildingDmg)
	})
}

func (t *Ticker) applyUnitDamage(s *world.State, unitDmg []unitDamage) {
	type key struct {
		Owner uint64
		Idx   int
	}
	totals := make(map[key]float64)
	byOwner := make(map[uint64][]int)

	for _, d := range unitDmg {
		k := key{Owner: d.Owner, Idx: d.Idx}
		if _, seen := totals[k]; !seen {
			byOwner[d.Owner] = append(byOwner[d.Owner], d.Idx)
		}
		totals[k] += d.Amount
	}

	for owner, idxs := range byOwner {
		sort.Sort(sort.Reverse(sort.IntSlice(idxs)))
		for _, idx := range idxs {
			u := s.UnitAt(owner, idx)
			if u == nil {
				continue
			}
			u.HP -= int(totals[key{Owner: owner, Idx: idx}])
			if u.HP <= 0 {
				s.RemoveUnit(owner, idx)
				t.publish(protocol.MessageTypeUnitDied, protocol.UnitDiedPayload{OwnerID: owner, UnitIdx: idx})
				t.markPopDirty(owner)
				continue
			}
			t.publish(protocol.MessageTypeUnitHp, protocol.UnitHpPayload{OwnerID: owner, UnitIdx: idx, Hp: u.HP})
		}
	}
}

func (t *Ticker) applyBuildingDamage(s *world.State, buildingDmg []buildingDamage) {
	totals := make(map[uint64]float64)
	for _, d := range buildingDmg {
		totals[d.ID] += d.Amount
	}

	ids := make([]uint64, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	for _, id := range ids {
		b, ok := s.BuildingByID(id)
		if !ok {
			continue
		}
		b.HP -= int(totals[id])
		if b.HP <= 0 {
			s.RemoveBuilding(id)
			if b.Kind == world.BuildingHouse {
				s.AdjustPopCap(b.Owner, -1)
				t.markPopDirty(b.Owner)
			}
			t.publish(protocol.MessageTypeBuildingDestroyed, protocol.BuildingDestroyedPayload{TileX: b.Tile.X, TileY: b.Tile.Y})
			continue
		}
		t.publish(protocol.MessageTypeBuildingHp, protocol.BuildingHpPayload{TileX: b.Tile.X, TileY: b.Tile.Y, Hp: b.HP})
	}
}
