package event

import (
	"reflect"
	"sync"
)

type subscriberKey struct {
	topic     string
	eventType reflect.Type
}

// Bus delivers typed, mutable events to ordered subscriber lists keyed by topic and event type.
// A Bus is an explicit object: components that publish or subscribe receive it from the
// engine context, so independent buses never observe each other's subscribers.
type Bus struct {
	mu          *sync.RWMutex
	subscribers map[subscriberKey][]any
}

// NewBus creates an empty Bus.
//
// Returns:
//   - *Bus: a bus with no subscribers
func NewBus() *Bus {
	return &Bus{
		mu:          &sync.RWMutex{},
		subscribers: make(map[subscriberKey][]any),
	}
}

// Subscribe appends fn to the subscriber list for events of type E on topic.
// Subscribers run in registration order.
//
// Parameters:
//   - b: the bus to register on
//   - topic: the topic name
//   - fn: the subscriber, invoked with the dispatched event instance
func Subscribe[E Event](b *Bus, topic string, fn func(E)) {
	key := subscriberKey{topic: topic, eventType: reflect.TypeFor[E]()}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[key] = append(b.subscribers[key], fn)
}

// Dispatch delivers ev to every subscriber of type E on topic in registration order.
// After each subscriber the event's cancellation flag is checked; a cancelled event
// stops delivery and the Result carries the reason. A topic without subscribers
// trivially passes.
//
// The subscriber list is copied before delivery, so subscribers may subscribe or
// dispatch re-entrantly. Subscribers registered during a dispatch take effect on
// the next dispatch.
//
// Parameters:
//   - b: the bus to dispatch on
//   - topic: the topic name
//   - ev: the event instance shared by all subscribers
//
// Returns:
//   - Result: Passed, or Cancelled with the cancelling subscriber's reason
func Dispatch[E Event](b *Bus, topic string, ev E) Result {
	key := subscriberKey{topic: topic, eventType: reflect.TypeFor[E]()}

	b.mu.RLock()
	subs := make([]any, len(b.subscribers[key]))
	copy(subs, b.subscribers[key])
	b.mu.RUnlock()

	for _, s := range subs {
		s.(func(E))(ev)
		if ev.Cancelled() {
			return Result{Outcome: Cancelled, Reason: ev.Reason()}
		}
	}
	return Result{Outcome: Passed}
}

// SubscriberCount returns how many subscribers of type E are registered on topic.
func SubscriberCount[E Event](b *Bus, topic string) int {
	key := subscriberKey{topic: topic, eventType: reflect.TypeFor[E]()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[key])
}
