package fastloop

import "sync"

// BusHandler receives a published payload.
type BusHandler func(payload any)

type busSubscription struct {
	id int
	fn BusHandler
}

// Bus is an explicit publish/subscribe channel for data-change
// notifications. Renderers configured with WithDataChannel subscribe to a
// topic and treat each published payload as a replacement data sequence.
// The bus is instance-scoped: callers construct and share it deliberately
// instead of relying on ambient process-wide dispatch.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	topics map[string][]busSubscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		topics: make(map[string][]busSubscription),
	}
}

// Subscribe registers fn for topic and returns a disposer that removes the
// subscription. Disposing twice is safe.
func (b *Bus) Subscribe(topic string, fn BusHandler) func() {
	if fn == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], busSubscription{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.topics[topic]
		for i, s := range subs {
			if s.id == id {
				b.topics[topic] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(b.topics[topic]) == 0 {
			delete(b.topics, topic)
		}
	}
}

// Publish synchronously delivers payload to every subscriber of topic, in
// subscription order.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	registered := b.topics[topic]
	subs := make([]busSubscription, len(registered))
	copy(subs, registered)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(payload)
	}
}

// SubscriberCount returns the number of active subscriptions for topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}
