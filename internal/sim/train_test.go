package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rack-games/holdfast-server/internal/bus"
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// TestPhaseTrainProgress_SpawnsOnCompletion covers the internal TrainTask
// mechanism (§9 open question: it coexists with the synchronous external
// TrainUnit command but is only ever populated by internal flows).
func TestPhaseTrainProgress_SpawnsOnCompletion(t *testing.T) {
	store := world.New()
	b := bus.New()
	ticker := New(store, b)
	sub := b.Subscribe()
	defer sub.Close()

	owner := uint64(3)
	origin := world.Chunk{X: 0, Y: 0}

	store.Do(func(s *world.State) {
		s.QueueTrain(owner, world.UnitWarrior, origin)
	})

	for i := 0; i < 19; i++ {
		ticker.phaseTrainProgress()
	}
	store.Do(func(s *world.State) {
		assert.Equal(t, 0, s.PopUsed(owner), "the warrior must not spawn before progress reaches 1")
	})

	ticker.phaseTrainProgress()

	msg := <-sub.C()
	require.Equal(t, protocol.MessageTypeUnitSpawned, msg.Type)
	payload := msg.Payload.(protocol.UnitSpawnedPayload)
	assert.Equal(t, owner, payload.Unit.OwnerID)
	assert.Equal(t, world.UnitWarrior, payload.Unit.Kind)
	assert.Equal(t, world.WarriorHP, payload.Unit.Hp)

	store.Do(func(s *world.State) {
		assert.Equal(t, 1, s.PopUsed(owner))
		assert.Empty(t, s.TrainTasks())
	})
}
