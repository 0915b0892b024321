// Package bus implements the one-to-many broadcast fan-out described in
// spec §4.3, generalized from the teacher's per-game Hub/Connection.Send
// channel pattern (rackaracka123-terraforming-mars
// internal/delivery/websocket/{hub,connection}.go) to a single-world bus:
// there is one game here, not many, so there is no per-game connection map.
package bus

import (
	"sync"

	"go.uber.org/zap"

	"github.com/rack-games/holdfast-server/internal/logger"
	"github.com/rack-games/holdfast-server/internal/protocol"
)

// BufferSize is the bounded per-subscriber buffer (§4.3 "≈100 messages").
const BufferSize = 100

// Subscription is a single session's inbound view of the bus. A subscriber
// that falls behind has its channel closed and is dropped from future
// publishes; it must tear down on seeing the channel close.
type Subscription struct {
	ch      chan protocol.Envelope
	bus     *Bus
	mu      sync.Mutex
	dropped bool
}

// C returns the channel to range over.
func (sub *Subscription) C() <-chan protocol.Envelope {
	return sub.ch
}

// Close unsubscribes and releases the subscription. Safe to call multiple
// times and from either the reader or the bus itself.
func (sub *Subscription) Close() {
	sub.bus.remove(sub)
}

// Bus is a multi-producer / multi-consumer fan-out. The Simulation Ticker
// and every Session Handler publish already-serialized messages; every
// session handler subscribes and drains (§4.3).
type Bus struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
	log  *zap.Logger
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{}), log: logger.Get()}
}

// Subscribe registers a new subscription with a bounded buffer.
func (b *Bus) Subscribe() *Subscription {
	sub := &Subscription{ch: make(chan protocol.Envelope, BufferSize), bus: b}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	_, present := b.subs[sub]
	if present {
		delete(b.subs, sub)
	}
	b.mu.Unlock()

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if !sub.dropped {
		sub.dropped = true
		close(sub.ch)
	}
}

// Publish fans msg out to every subscriber. A subscriber whose buffer is
// full is dropped silently rather than allowed to block the publisher
// (§4.3 "Slow-consumer policy"); this is what gives the Simulation Ticker
// backpressure isolation from one slow client.
func (b *Bus) Publish(msg protocol.Envelope) {
	b.mu.Lock()
	targets := make([]*Subscription, 0, len(b.subs))
	for sub := range b.subs {
		targets = append(targets, sub)
	}
	b.mu.Unlock()

	for _, sub := range targets {
		overflow := false
		sub.mu.Lock()
		if !sub.dropped {
			select {
			case sub.ch <- msg:
			default:
				overflow = true
			}
		}
		sub.mu.Unlock()

		if overflow {
			b.log.Warn("dropping slow subscriber", zap.String("message_type", string(msg.Type)))
			b.remove(sub)
		}
	}
}

// SubscriberCount reports the number of active subscriptions, for tests.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
