package events

import "github.com/kelindar/event"

// SubscribeToChannel forwards every event of type T into ch, for
// consumers that drive a select loop (the SSE handlers) rather than a
// callback. Sends never block: when ch is full the event is dropped so
// a slow client cannot stall the dispatcher. The returned function
// cancels the subscription.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
