// Package sim is the Simulation Ticker (spec §4.2): a single task firing at
// a fixed cadence that advances construction, training, gathering, and
// combat, and publishes derived state changes to the Broadcast Bus.
//
// Grounded on the teacher's (rackaracka123-terraforming-mars) habit of
// splitting one business concern into many small ordered functions over a
// shared struct (its internal/action package, one file per operation); the
// tick-phase algorithm itself is novel since nothing in the retrieval pack
// runs a fixed-cadence authoritative tick loop like this one.
package sim

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rack-games/holdfast-server/internal/bus"
	"github.com/rack-games/holdfast-server/internal/logger"
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// Ticker owns the 200ms authoritative tick loop (§4.2).
type Ticker struct {
	store  *world.Store
	bus    *bus.Bus
	log    *zap.Logger
	period time.Duration

	// per-tick scratch state, reset at the top of every tick() call.
	popUpdates map[uint64]struct{}
}

// New creates a Ticker over store, publishing derived messages to b.
func New(store *world.Store, b *bus.Bus) *Ticker {
	return &Ticker{
		store:      store,
		bus:        b,
		log:        logger.Get(),
		period:     world.TickPeriodMillis * time.Millisecond,
		popUpdates: make(map[uint64]struct{}),
	}
}

// Run loops until ctx is canceled, executing one tick per period. A panic
// inside a single tick is logged and the loop continues (§7 "Panics in the
// ticker are logged but the loop continues").
func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.safeTick()
		}
	}
}

func (t *Ticker) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("recovered panic in simulation tick", zap.Any("panic", r))
		}
	}()
	t.tick()
}

// tick executes phases A through I in order (§4.2). Each phase acquires the
// store lock independently and is skipped outright if the lock is
// contended, per the non-blocking-try-acquire discipline (§5, §9).
func (t *Ticker) tick() {
	t.popUpdates = make(map[uint64]struct{})

	t.phaseBuildProgress()  // A
	t.phaseTrainProgress()  // B

	units, buildings, towers := t.phaseSnapshot() // C

	t.phaseGathering() // D

	unitDamage, buildingDamage := t.phaseWarriorCombat(units, buildings) // E
	t.phaseDamageApplication(unitDamage, buildingDamage)                 // F

	shots := t.phaseTowerTargeting(towers, units) // G
	t.phaseTowerResolution(shots)                 // H

	t.phaseEmitPopUpdates() // I
}

func (t *Ticker) publish(msgType protocol.MessageType, payload interface{}) {
	t.bus.Publish(protocol.Envelope{Type: msgType, Payload: payload})
}

func (t *Ticker) markPopDirty(owner uint64) {
	t.popUpdates[owner] = struct{}{}
}

// phaseEmitPopUpdates is Phase I: for every owner touched by a population
// change this tick, broadcast a fresh resource/pop snapshot.
func (t *Ticker) phaseEmitPopUpdates() {
	for owner := range t.popUpdates {
		var resources world.Resources
		var popCap, popUsed int
		ok := t.store.Try(func(s *world.State) {
			resources = s.Resources(owner)
			popCap = s.PopCap(owner)
			popUsed = s.PopUsed(owner)
		})
		if !ok {
			continue
		}
		t.publish(protocol.MessageTypeResourceUpdate, protocol.ResourceUpdatePayload{
			PlayerID:  owner,
			Resources: toWireResources(resources),
			PopCap:    popCap,
			PopUsed:   popUsed,
		})
	}
}

func toWireResources(r world.Resources) protocol.Resources {
	return protocol.Resources{Wood: r.Wood, Stone: r.Stone, Gold: r.Gold, Food: r.Food}
}
