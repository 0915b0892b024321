package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// TestDeleteUnit_RefundsWorkerFoodCost is the §8 delete-refund law for units.
func TestDeleteUnit_RefundsWorkerFoodCost(t *testing.T) {
	store := world.New()
	owner, _, _, _ := store.EnrollOrResume("")

	var before world.Resources
	store.Do(func(s *world.State) { before = s.Resources(owner) })

	msgs, err := DeleteUnit(store, owner, protocol.DeleteUnitPayload{UnitIdx: 0})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, protocol.MessageTypeUnitDied, msgs[0].Type)

	cost, _, _ := world.UnitSpec(world.UnitWorker)
	store.Do(func(s *world.State) {
		after := s.Resources(owner)
		assert.Equal(t, before.Food+cost.Food, after.Food)
		assert.Equal(t, 1, s.PopUsed(owner))
	})
}

func TestDeleteUnit_ClearsGatherTaskAndRejectsUnknownIndex(t *testing.T) {
	store := world.New()
	owner, _, _, _ := store.EnrollOrResume("")
	store.Do(func(s *world.State) {
		s.AssignGather(owner, 0, world.Tile{X: 1, Y: 1}, world.ResourceWood)
	})

	_, err := DeleteUnit(store, owner, protocol.DeleteUnitPayload{UnitIdx: 0})
	require.NoError(t, err)

	store.Do(func(s *world.State) {
		assert.Empty(t, s.GatherTasks())
	})

	_, err = DeleteUnit(store, owner, protocol.DeleteUnitPayload{UnitIdx: 99})
	assert.ErrorIs(t, err, ErrNotFound)
}
