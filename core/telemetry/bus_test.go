package telemetry

import (
	"testing"
	"time"

	"github.com/kilianp07/pulsecore/core/model"
)

func snapWithRPM(rpm float64) model.TelemetrySnapshot {
	return model.TelemetrySnapshot{RPM: rpm}
}

func TestPublishFanout(t *testing.T) {
	b := NewBus()
	defer b.Close()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish(snapWithRPM(1000))
	if got := <-a; got.RPM != 1000 {
		t.Fatalf("subscriber a got %v", got.RPM)
	}
	if got := <-c; got.RPM != 1000 {
		t.Fatalf("subscriber c got %v", got.RPM)
	}
}

func TestSlowSubscriberKeepsNewest(t *testing.T) {
	b := NewBus()
	defer b.Close()
	sub := b.Subscribe()

	// Nobody drains between publishes; each publish replaces the buffered
	// snapshot rather than queueing behind it.
	b.Publish(snapWithRPM(1))
	b.Publish(snapWithRPM(2))
	b.Publish(snapWithRPM(3))

	got := <-sub
	if got.RPM != 3 {
		t.Fatalf("got %v, want the newest snapshot", got.RPM)
	}
	select {
	case extra := <-sub:
		t.Fatalf("unexpected queued snapshot %v", extra.RPM)
	case <-time.After(10 * time.Millisecond):
	}
	if latest, ok := b.Latest(); !ok || latest.RPM != 3 {
		t.Fatalf("latest = %v, %v", latest.RPM, ok)
	}
}

func TestStalledSubscriberResumesAtNewest(t *testing.T) {
	b := NewBus()
	defer b.Close()
	sub := b.Subscribe()

	for i := 1; i <= 100; i++ {
		b.Publish(snapWithRPM(float64(i)))
	}
	got := <-sub
	if got.RPM != 100 {
		t.Fatalf("stalled subscriber resumed at %v, want 100", got.RPM)
	}
}

func TestLatestEmpty(t *testing.T) {
	b := NewBus()
	defer b.Close()
	if _, ok := b.Latest(); ok {
		t.Fatal("latest reported before any publish")
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus()
	defer b.Close()
	sub := b.Subscribe()
	b.Unsubscribe(sub)
	if _, open := <-sub; open {
		t.Fatal("channel not closed on unsubscribe")
	}
	// Publishing after unsubscribe must not panic.
	b.Publish(snapWithRPM(5))
}

func TestClose(t *testing.T) {
	b := NewBus()
	sub := b.Subscribe()
	b.Close()
	if _, open := <-sub; open {
		t.Fatal("channel not closed on bus close")
	}
	// Publish and Close after Close are no-ops.
	b.Publish(snapWithRPM(9))
	b.Close()
	// New subscriptions on a closed bus come back closed.
	late := b.Subscribe()
	if _, open := <-late; open {
		t.Fatal("subscription on closed bus not closed")
	}
}
