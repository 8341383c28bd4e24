// Package eventbus is the in-process publish/subscribe channel decoupling
// screens that mutate backend data from screens that must refresh. Delivery
// is synchronous and in registration order; a panicking handler does not
// stop the rest.
package eventbus

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

type Topic string

const (
	// TopicJournalUpdated is the generic change event: some transactional
	// data changed, re-fetch if relevant.
	TopicJournalUpdated Topic = "journal.updated"

	// TopicSourceDetailsRefresh asks the sources screen to reload one
	// source's detail card.
	TopicSourceDetailsRefresh Topic = "source.details.refresh"

	// TopicPricesUpdated fires after the price cache was rewritten.
	TopicPricesUpdated Topic = "prices.updated"
)

// Event is the payload delivered to subscribers.
type Event struct {
	ChatID int64
	Detail any
}

type Handler func(e Event)

// Subscription identifies one registered handler and is the token for
// Unsubscribe.
type Subscription struct {
	topic Topic
	id    int
}

type subscriber struct {
	id      int
	handler Handler
}

type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Topic][]subscriber
}

func New() *Bus {
	return &Bus{subs: make(map[Topic][]subscriber)}
}

func (b *Bus) Subscribe(topic Topic, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[topic] = append(b.subs[topic], subscriber{id: b.nextID, handler: handler})
	return &Subscription{topic: topic, id: b.nextID}
}

func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[sub.topic]
	for i, s := range subs {
		if s.id == sub.id {
			b.subs[sub.topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish invokes every handler registered for topic, in registration order,
// on the caller's goroutine. Publishing with zero subscribers is a no-op.
func (b *Bus) Publish(topic Topic, e Event) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.RUnlock()

	for _, s := range subs {
		b.invoke(topic, s, e)
	}
}

func (b *Bus) invoke(topic Topic, s subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error(
				"panic recovered in eventbus handler",
				slog.String("topic", string(topic)),
				slog.Int("subscriberID", s.id),
				slog.Any("panic", r),
				slog.String("stacktrace", string(debug.Stack())),
			)
		}
	}()
	s.handler(e)
}
