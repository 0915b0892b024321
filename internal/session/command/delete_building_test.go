package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// TestDeleteBuilding_RefundsFullCostAndDecrementsPopCap is the §8
// delete-refund law for buildings, plus the House pop-cap bookkeeping.
func TestDeleteBuilding_RefundsFullCostAndDecrementsPopCap(t *testing.T) {
	store := world.New()
	owner, _, _, _ := store.EnrollOrResume("")

	houseTile := world.Tile{X: 70, Y: 70}
	_, err := Build(store, owner, protocol.BuildPayload{Kind: world.BuildingHouse, TileX: houseTile.X, TileY: houseTile.Y})
	require.NoError(t, err)

	// Build only queues a BuildTask; finish it so a House stands on the tile.
	store.Do(func(s *world.State) {
		s.CancelBuild(houseTile)
		s.InsertBuilding(owner, world.BuildingHouse, houseTile)
	})

	var beforeDelete world.Resources
	var popBefore int
	store.Do(func(s *world.State) {
		beforeDelete = s.Resources(owner)
		popBefore = s.PopCap(owner)
	})

	msgs, err := DeleteBuilding(store, owner, protocol.DeleteBuildingPayload{TileX: houseTile.X, TileY: houseTile.Y})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, protocol.MessageTypeBuildingDestroyed, msgs[0].Type)

	cost, _, _ := world.BuildingSpec(world.BuildingHouse)
	store.Do(func(s *world.State) {
		after := s.Resources(owner)
		assert.Equal(t, beforeDelete.Wood+cost.Wood, after.Wood)
		assert.Equal(t, popBefore-1, s.PopCap(owner))

		_, ok := s.BuildingAt(houseTile)
		assert.False(t, ok)
	})
}

func TestDeleteBuilding_RejectsTownCenterAndUnowned(t *testing.T) {
	store := world.New()
	owner, chunk, _, _ := store.EnrollOrResume("")
	other, _, _, _ := store.EnrollOrResume("")

	center := chunk.CenterTile()
	_, err := DeleteBuilding(store, owner, protocol.DeleteBuildingPayload{TileX: center.X, TileY: center.Y})
	assert.ErrorIs(t, err, ErrNotOwned, "a Town Center cannot be voluntarily destroyed")

	_, err = DeleteBuilding(store, other, protocol.DeleteBuildingPayload{TileX: center.X, TileY: center.Y})
	assert.ErrorIs(t, err, ErrNotOwned, "a building owned by another player must be rejected")
}
