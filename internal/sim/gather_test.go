package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rack-games/holdfast-server/internal/bus"
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// TestPhaseGathering_AccumulatesUpToCarryCap is the §8 gather round-trip
// scenario: a worker standing on a wood node harvests 2/tick up to the
// 20-per-component carry cap, with no drop-off in range to interfere.
func TestPhaseGathering_AccumulatesUpToCarryCap(t *testing.T) {
	store := world.New()
	b := bus.New()
	ticker := New(store, b)
	sub := b.Subscribe()
	defer sub.Close()

	owner := uint64(7)
	nodeTile := world.Tile{X: 50, Y: 50}
	nx, ny := tileCenterWorld(nodeTile)

	var idx int
	store.Do(func(s *world.State) {
		s.EnsureNode(nodeTile, world.ResourceWood)
		idx = s.SpawnUnit(owner, world.Unit{Owner: owner, Kind: world.UnitWorker, X: nx, Y: ny})
		s.AssignGather(owner, idx, nodeTile, world.ResourceKindFromWire(2))
	})

	for i := 0; i < 10; i++ {
		ticker.phaseGathering()
		msg := <-sub.C()
		require.Equal(t, protocol.MessageTypeUnitCarry, msg.Type)
	}

	store.Do(func(s *world.State) {
		unit := s.UnitAt(owner, idx)
		require.NotNil(t, unit)
		assert.Equal(t, world.CarryCap, unit.Carry.Wood)

		node, ok := s.Node(nodeTile)
		require.True(t, ok)
		assert.Equal(t, 100.0, node.Remaining)
	})
}

// TestPhaseGathering_DepositsWhenNearDropOff is the deposit half of the
// round-trip: a worker already carrying a full load, standing within range
// of an accepting building, drains to zero and credits the owner.
func TestPhaseGathering_DepositsWhenNearDropOff(t *testing.T) {
	store := world.New()
	b := bus.New()
	ticker := New(store, b)
	sub := b.Subscribe()
	defer sub.Close()

	owner, chunk, _, _ := store.EnrollOrResume("")
	center := chunk.CenterTile()
	cx, cy := tileCenterWorld(center)

	farTile := world.Tile{X: 900, Y: 900}

	var idx int
	var before world.Resources
	store.Do(func(s *world.State) {
		before = s.Resources(owner)
		idx = s.SpawnUnit(owner, world.Unit{Owner: owner, Kind: world.UnitWorker, X: cx, Y: cy, Carry: world.Resources{Wood: 20}})
		s.AssignGather(owner, idx, farTile, world.ResourceKindFromWire(2))
	})

	ticker.phaseGathering()

	carryMsg := <-sub.C()
	require.Equal(t, protocol.MessageTypeUnitCarry, carryMsg.Type)
	carryPayload := carryMsg.Payload.(protocol.UnitCarryPayload)
	assert.Zero(t, carryPayload.Carry.Wood)

	resMsg := <-sub.C()
	require.Equal(t, protocol.MessageTypeResourceUpdate, resMsg.Type)

	store.Do(func(s *world.State) {
		after := s.Resources(owner)
		assert.Equal(t, before.Wood+20, after.Wood)

		unit := s.UnitAt(owner, idx)
		require.NotNil(t, unit)
		assert.Zero(t, unit.Carry.Wood)

		node, ok := s.Node(farTile)
		require.True(t, ok, "the target node is lazily materialized even on a deposit-only tick")
		assert.Equal(t, world.ResourceWood, node.Kind)
		assert.Equal(t, 120.0, node.Remaining, "the early-deposit path must continue before harvesting the target node")
	})
}

// TestPhaseGathering_GoldWireKindHarvestsGold drives the wire gather
// encoding through a tick: kind 4 must materialize a gold node with the
// gold default amount and fill only the gold carry component.
func TestPhaseGathering_GoldWireKindHarvestsGold(t *testing.T) {
	store := world.New()
	b := bus.New()
	ticker := New(store, b)
	sub := b.Subscribe()
	defer sub.Close()

	owner := uint64(7)
	nodeTile := world.Tile{X: 50, Y: 50}
	nx, ny := tileCenterWorld(nodeTile)

	var idx int
	store.Do(func(s *world.State) {
		idx = s.SpawnUnit(owner, world.Unit{Owner: owner, Kind: world.UnitWorker, X: nx, Y: ny})
		s.AssignGather(owner, idx, nodeTile, world.ResourceKindFromWire(4))
	})

	ticker.phaseGathering()

	msg := <-sub.C()
	require.Equal(t, protocol.MessageTypeUnitCarry, msg.Type)
	payload := msg.Payload.(protocol.UnitCarryPayload)
	assert.Equal(t, 2.0, payload.Carry.Gold)
	assert.Zero(t, payload.Carry.Wood)

	store.Do(func(s *world.State) {
		unit := s.UnitAt(owner, idx)
		require.NotNil(t, unit)
		assert.Equal(t, 2.0, unit.Carry.Gold)
		assert.Zero(t, unit.Carry.Wood)

		node, ok := s.Node(nodeTile)
		require.True(t, ok)
		assert.Equal(t, world.ResourceGold, node.Kind)
		assert.Equal(t, 118.0, node.Remaining)
	})
}

// TestPhaseGathering_FoodWireKindUsesFoodNodeAmount: wire kind 5 must
// materialize a food node at the food default (100, not the 120 the other
// kinds get) and harvest into the food component.
func TestPhaseGathering_FoodWireKindUsesFoodNodeAmount(t *testing.T) {
	store := world.New()
	b := bus.New()
	ticker := New(store, b)
	sub := b.Subscribe()
	defer sub.Close()

	owner := uint64(7)
	nodeTile := world.Tile{X: 50, Y: 50}
	nx, ny := tileCenterWorld(nodeTile)

	var idx int
	store.Do(func(s *world.State) {
		idx = s.SpawnUnit(owner, world.Unit{Owner: owner, Kind: world.UnitWorker, X: nx, Y: ny})
		s.AssignGather(owner, idx, nodeTile, world.ResourceKindFromWire(5))
	})

	ticker.phaseGathering()

	store.Do(func(s *world.State) {
		unit := s.UnitAt(owner, idx)
		require.NotNil(t, unit)
		assert.Equal(t, 2.0, unit.Carry.Food)

		node, ok := s.Node(nodeTile)
		require.True(t, ok)
		assert.Equal(t, world.ResourceFood, node.Kind)
		assert.Equal(t, 98.0, node.Remaining)
	})
}
