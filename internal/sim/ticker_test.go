package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rack-games/holdfast-server/internal/bus"
	"github.com/rack-games/holdfast-server/internal/world"
)

// TestTick_HouseDestructionBoundsPopCap is the §8 "House destruction bounds
// pop cap" scenario: losing a House must not drop pop cap below BASE_POP_CAP,
// even if it was never raised above it.
func TestTick_HouseDestructionBoundsPopCap(t *testing.T) {
	store := world.New()
	b := bus.New()
	ticker := New(store, b)

	owner := uint64(4)
	houseTile := world.Tile{X: 12, Y: 12}

	var houseID uint64
	store.Do(func(s *world.State) {
		s.InsertBuilding(owner, world.BuildingHouse, houseTile)
		s.AdjustPopCap(owner, -100)
		assert.Equal(t, world.BasePopCap, s.PopCap(owner))

		b, ok := s.BuildingAt(houseTile)
		require.True(t, ok)
		houseID = b.ID
	})

	ticker.phaseDamageApplication(nil, []buildingDamage{{ID: houseID, Amount: 1000}})
	ticker.phaseEmitPopUpdates()

	store.Do(func(s *world.State) {
		assert.Equal(t, world.BasePopCap, s.PopCap(owner), "pop cap must be floored at the base even after a House is destroyed")
		_, ok := s.BuildingAt(houseTile)
		assert.False(t, ok)
	})
}

// TestTick_RunsAllPhasesWithoutPanicking is a smoke test that a full tick()
// over a freshly enrolled player's default state completes cleanly.
func TestTick_RunsAllPhasesWithoutPanicking(t *testing.T) {
	store := world.New()
	b := bus.New()
	ticker := New(store, b)
	sub := b.Subscribe()
	defer sub.Close()

	store.EnrollOrResume("")

	assert.NotPanics(t, func() { ticker.tick() })

	select {
	case msg := <-sub.C():
		t.Fatalf("expected no messages from an idle default state's tick, got %v", msg.Type)
	default:
	}
}
