package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

func TestBuild_SpendsAndQueuesTask(t *testing.T) {
	store := world.New()
	owner, _, _, _ := store.EnrollOrResume("")

	var before world.Resources
	store.Do(func(s *world.State) { before = s.Resources(owner) })

	msgs, err := Build(store, owner, protocol.BuildPayload{Kind: world.BuildingWall, TileX: 60, TileY: 60})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, protocol.MessageTypeBuildProgress, msgs[0].Type)
	assert.Equal(t, protocol.MessageTypeResourceUpdate, msgs[1].Type)

	cost, _, _ := world.BuildingSpec(world.BuildingWall)
	store.Do(func(s *world.State) {
		after := s.Resources(owner)
		assert.Equal(t, before.Wood-cost.Wood, after.Wood)
		assert.Equal(t, before.Stone-cost.Stone, after.Stone)

		tasks := s.BuildTasks()
		require.Len(t, tasks, 1)
		assert.Equal(t, world.BuildingWall, tasks[0].Kind)
	})
}

func TestBuild_RejectsTownCenterAndUnknownKind(t *testing.T) {
	store := world.New()
	owner, _, _, _ := store.EnrollOrResume("")

	_, err := Build(store, owner, protocol.BuildPayload{Kind: world.BuildingTownCenter, TileX: 1, TileY: 1})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Build(store, owner, protocol.BuildPayload{Kind: 99, TileX: 1, TileY: 1})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestBuild_RejectsBlockedTile(t *testing.T) {
	store := world.New()
	owner, chunk, _, _ := store.EnrollOrResume("")
	center := chunk.CenterTile()

	_, err := Build(store, owner, protocol.BuildPayload{Kind: world.BuildingWall, TileX: center.X, TileY: center.Y})
	assert.ErrorIs(t, err, ErrTileBlocked)
}

func TestBuild_RejectsInsufficientResourcesAndRefundsNothingSpent(t *testing.T) {
	store := world.New()
	owner, _, _, _ := store.EnrollOrResume("")
	store.Do(func(s *world.State) { s.SetResources(owner, world.Resources{}) })

	_, err := Build(store, owner, protocol.BuildPayload{Kind: world.BuildingWall, TileX: 60, TileY: 60})
	assert.ErrorIs(t, err, ErrInsufficientResources)

	store.Do(func(s *world.State) {
		assert.Empty(t, s.BuildTasks(), "a rejected build must not queue a task")
		assert.Equal(t, world.Resources{}, s.Resources(owner), "a rejected build must not spend anything")
	})
}

func TestBuild_HouseGrantsPopCapImmediately(t *testing.T) {
	store := world.New()
	owner, _, _, _ := store.EnrollOrResume("")

	before := 0
	store.Do(func(s *world.State) { before = s.PopCap(owner) })

	_, err := Build(store, owner, protocol.BuildPayload{Kind: world.BuildingHouse, TileX: 70, TileY: 70})
	require.NoError(t, err)

	store.Do(func(s *world.State) {
		assert.Equal(t, before+1, s.PopCap(owner), "a House must grant +1 pop cap at command time, not on build completion")
	})
}
