package sim

import (
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

const (
	dropOffRadiusTiles = 1.2
	nodeRadiusTiles    = 2.5
	gatherPerTick      = 2.0
)

// phaseGathering is Phase D (§4.2): advance every GatherTask — lazily
// materialize nodes, deposit at drop-offs, harvest, and clean up exhausted
// nodes.
func (t *Ticker) phaseGathering() {
	t.store.Try(func(s *world.State) {
		for _, task := range s.GatherTasks() {
			unit := s.UnitAt(task.Owner, task.Unit)
			if unit == nil || unit.Kind != world.UnitWorker {
				continue
			}

			node := s.EnsureNode(task.Target, task.Kind)

			if carriedAny(unit.Carry) {
				if _, ok := t.findDropOff(s, unit.Owner, task.Kind, unit.X, unit.Y); ok {
					t.deposit(s, unit, task.Unit)
					continue
				}
			}

			nx, ny := tileCenterWorld(task.Target)
			if dist(unit.X, unit.Y, nx, ny) > nodeRadiusTiles*world.TileSize {
				continue
			}

			room := world.CarryCap - unit.Carry.Component(task.Kind)
			amount := minF(gatherPerTick, room, node.Remaining)
			if amount > 0 {
				unit.Carry = unit.Carry.WithComponent(task.Kind, unit.Carry.Component(task.Kind)+amount)
				node.Remaining -= amount
				t.publishCarry(unit, task.Unit)
			}

			full := unit.Carry.Component(task.Kind) >= world.CarryCap
			emptied := node.Remaining <= 0

			if full || emptied {
				if _, ok := t.findDropOff(s, unit.Owner, task.Kind, unit.X, unit.Y); ok {
					t.deposit(s, unit, task.Unit)
				}
			}

			if emptied {
				s.RemoveNode(task.Target)
			}
		}
	})
}

func carriedAny(c world.Resources) bool {
	return c.Wood > 0 || c.Stone > 0 || c.Gold > 0 || c.Food > 0
}

func minF(values ...float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// findDropOff locates an owner-owned building within dropOffRadiusTiles of
// (x, y) that accepts resourceKind (town center accepts everything) (§4.2
// Phase D drop-off routing).
func (t *Ticker) findDropOff(s *world.State, owner uint64, resourceKind int, x, y float64) (world.Building, bool) {
	accepted := map[int]bool{world.BuildingTownCenter: true}
	for _, k := range world.DropOffKinds(resourceKind) {
		accepted[k] = true
	}

	radius := dropOffRadiusTiles * world.TileSize
	for _, b := range s.Buildings() {
		if b.Owner != owner || !accepted[b.Kind] {
			continue
		}
		cx, cy := tileCenterWorld(b.Tile)
		if dist(x, y, cx, cy) <= radius {
			return b, true
		}
	}
	return world.Building{}, false
}

// deposit drains all four carry components of unit into its owner's
// resources and broadcasts the carry-cleared and resource-update messages
// (§4.2 Phase D, §8 Carry-deposit law).
func (t *Ticker) deposit(s *world.State, unit *world.Unit, idx int) {
	carried := unit.Carry
	unit.Carry = world.Resources{}
	s.Refund(unit.Owner, carried)

	t.publishCarry(unit, idx)

	t.publish(protocol.MessageTypeResourceUpdate, protocol.ResourceUpdatePayload{
		PlayerID:  unit.Owner,
		Resources: toWireResources(s.Resources(unit.Owner)),
		PopCap:    s.PopCap(unit.Owner),
		PopUsed:   s.PopUsed(unit.Owner),
	})
}

func (t *Ticker) publishCarry(unit *world.Unit, idx int) {
	t.publish(protocol.MessageTypeUnitCarry, protocol.UnitCarryPayload{
		OwnerID: unit.Owner,
		UnitIdx: idx,
		Carry:   protocol.Carry{Wood: unit.Carry.Wood, Stone: unit.Carry.Stone, Gold: unit.Carry.Gold, Food: unit.Carry.Food},
	})
}
