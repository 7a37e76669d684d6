// Package telemetry fans telemetry snapshots out to subscribers. Delivery is
// non-blocking and at most once per tick: a slow subscriber loses ticks but
// never observes an older snapshot after a newer one. Only the latest
// snapshot is retained.
package telemetry

import (
	"sync"

	"github.com/kilianp07/pulsecore/core/model"
)

// Bus is the snapshot publish/subscribe channel between the tick scheduler
// and external consumers.
type Bus struct {
	mu        sync.RWMutex
	subs      []chan model.TelemetrySnapshot
	latest    model.TelemetrySnapshot
	hasLatest bool
	closed    bool
}

// NewBus creates an empty Bus.
func NewBus() *Bus { return &Bus{} }

// Publish records the snapshot as latest and offers it to every subscriber.
// A full subscriber buffer is drained first so the undelivered element is
// always the newest snapshot, never a stale one.
func (b *Bus) Publish(snap model.TelemetrySnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.latest = snap
	b.hasLatest = true
	for _, ch := range b.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Subscribe registers a subscriber and returns its channel. The channel is
// buffered for a single snapshot; an undelivered snapshot is replaced by the
// next publish, never queued behind it.
func (b *Bus) Subscribe() <-chan model.TelemetrySnapshot {
	ch := make(chan model.TelemetrySnapshot, 1)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan model.TelemetrySnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Latest returns the most recently published snapshot, if any.
func (b *Bus) Latest() (model.TelemetrySnapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.hasLatest
}

// Close closes all subscriber channels and rejects further publishes.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
