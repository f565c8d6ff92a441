package events

import "github.com/kelindar/event"

// SubscribeToChannel forwards events of type T into ch for select-loop
// consumers such as SSE handlers. The publisher never blocks: an event that
// does not fit into ch is dropped and counted in Bus.Dropped.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
			bus.dropped.Add(1)
		}
	})
}

// SubscribeSignal wakes ch whenever an event of type T is published. Signals
// coalesce: while one is pending further events add nothing, so the consumer
// must re-read current state instead of relying on event payloads.
func SubscribeSignal[T Event](bus *Bus, ch chan<- struct{}) func() {
	return event.Subscribe(bus.dispatcher, func(T) {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
}
