package events

import (
	"testing"
	"time"

	"github.com/smazurov/lichtwerk/internal/device"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan StateChangedEvent, 1)

	unsub := bus.Subscribe(func(e StateChangedEvent) {
		received <- e
	})
	defer unsub()

	st := device.New(30, 18)
	st.Brightness = 42
	bus.Publish(StateChangedEvent{State: st, Operation: "set_brightness", Revision: 1})

	select {
	case got := <-received:
		if got.State.Brightness != 42 || got.Operation != "set_brightness" {
			t.Errorf("got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBus_MultipleSubscribers(_ *testing.T) {
	bus := New()
	received1 := make(chan RenderModeChangedEvent, 1)
	received2 := make(chan RenderModeChangedEvent, 1)

	unsub1 := bus.Subscribe(func(e RenderModeChangedEvent) {
		received1 <- e
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(e RenderModeChangedEvent) {
		received2 <- e
	})
	defer unsub2()

	bus.Publish(RenderModeChangedEvent{Mode: ModeRendering})

	<-received1
	<-received2
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan HardwareErrorEvent, 1)

	unsub := bus.Subscribe(func(e HardwareErrorEvent) {
		received <- e
	})

	bus.Publish(HardwareErrorEvent{Driver: "spi"})
	<-received

	unsub()

	bus.Publish(HardwareErrorEvent{Driver: "spi"})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
		// Expected - no event
	}
}

func TestBus_UnknownHandlerIsNoop(_ *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(string) {})
	unsub()
}

func TestSubscribeToChannel_Delivers(t *testing.T) {
	bus := New()
	ch := make(chan any, 1)

	unsub := SubscribeToChannel[LogEntryEvent](bus, ch)
	defer unsub()

	bus.Publish(LogEntryEvent{Seq: 1})
	bus.Publish(LogEntryEvent{Seq: 2})

	deadline := time.After(time.Second)
	select {
	case ev := <-ch:
		if _, ok := ev.(LogEntryEvent); !ok {
			t.Fatalf("got %T, want LogEntryEvent", ev)
		}
	case <-deadline:
		t.Fatal("no event on channel")
	}
}

func TestSubscribeToChannel_DropsWhenFull(t *testing.T) {
	bus := New()
	ch := make(chan any, 1)
	unsub := SubscribeToChannel[RenderModeChangedEvent](bus, ch)
	defer unsub()

	bus.Publish(RenderModeChangedEvent{Mode: ModeRendering})
	bus.Publish(RenderModeChangedEvent{Mode: ModeIdle})
	bus.Publish(RenderModeChangedEvent{Mode: ModeRendering})

	deadline := time.Now().Add(time.Second)
	for bus.Dropped() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := bus.Dropped(); got != 2 {
		t.Fatalf("Dropped() = %d, want 2", got)
	}
	if got := (<-ch).(RenderModeChangedEvent); got.Mode != ModeRendering {
		t.Errorf("first delivered mode = %q, want %q", got.Mode, ModeRendering)
	}
}

func TestSubscribeSignal_Coalesces(t *testing.T) {
	bus := New()
	ch := make(chan struct{}, 1)
	unsub := SubscribeSignal[StateChangedEvent](bus, ch)
	defer unsub()

	for i := range 5 {
		bus.Publish(StateChangedEvent{Revision: uint64(i + 1)})
	}
	time.Sleep(50 * time.Millisecond)

	select {
	case <-ch:
	default:
		t.Fatal("no signal after publish")
	}
	select {
	case <-ch:
		t.Fatal("signals were not coalesced")
	default:
	}
	if bus.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0", bus.Dropped())
	}
}
