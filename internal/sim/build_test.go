package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rack-games/holdfast-server/internal/bus"
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// TestPhaseBuildProgress_CancelRefundsExactly is the §8 build-refund law:
// canceling a build due to no workers in range restores the owner's
// pre-build resources exactly.
func TestPhaseBuildProgress_CancelRefundsExactly(t *testing.T) {
	store := world.New()
	b := bus.New()
	ticker := New(store, b)
	sub := b.Subscribe()
	defer sub.Close()

	owner, _, _, _ := store.EnrollOrResume("")

	var before world.Resources
	store.Do(func(s *world.State) { before = s.Resources(owner) })

	farTile := world.Tile{X: 500, Y: 500}
	cost, _, _ := world.BuildingSpec(world.BuildingWall)
	store.Do(func(s *world.State) {
		require.True(t, s.Spend(owner, cost))
		require.True(t, s.StartBuild(owner, world.BuildingWall, farTile))
	})

	ticker.phaseBuildProgress()

	var after world.Resources
	store.Do(func(s *world.State) { after = s.Resources(owner) })
	assert.Equal(t, before, after, "cancel must refund the full cost, restoring pre-build resources exactly")

	msg := <-sub.C()
	require.Equal(t, protocol.MessageTypeBuildProgress, msg.Type)
	payload := msg.Payload.(protocol.BuildProgressPayload)
	assert.Equal(t, -1.0, payload.Progress)
	assert.Equal(t, farTile.X, payload.TileX)

	store.Do(func(s *world.State) {
		assert.Empty(t, s.BuildTasks(), "a canceled task must be removed")
	})
}

// TestPhaseBuildProgress_FinalizesWithEnoughWorkers exercises the
// four-effective-workers cap and completion path.
func TestPhaseBuildProgress_FinalizesWithEnoughWorkers(t *testing.T) {
	store := world.New()
	b := bus.New()
	ticker := New(store, b)
	sub := b.Subscribe()
	defer sub.Close()

	owner, _, _, _ := store.EnrollOrResume("")
	tile := world.Tile{X: 40, Y: 40}
	cx, cy := tileCenterWorld(tile)

	store.Do(func(s *world.State) {
		require.True(t, s.StartBuild(owner, world.BuildingWall, tile))
		s.UpdateBuildProgress(tile, 0.9)
		for i := 0; i < 6; i++ {
			s.SpawnUnit(owner, world.Unit{Owner: owner, Kind: world.UnitWorker, X: cx, Y: cy})
		}
	})

	ticker.phaseBuildProgress()

	msg := <-sub.C()
	require.Equal(t, protocol.MessageTypeBuildingSpawned, msg.Type)
	payload := msg.Payload.(protocol.BuildingSpawnedPayload)
	assert.Equal(t, world.BuildingWall, payload.Building.Kind)
	assert.Equal(t, tile.X, payload.Building.TileX)
	assert.Equal(t, owner, payload.Building.OwnerID)

	store.Do(func(s *world.State) {
		assert.Empty(t, s.BuildTasks())
		building, ok := s.BuildingAt(tile)
		require.True(t, ok)
		assert.Equal(t, 200, building.HP)
	})
}
