package simevent

import (
	"sync"

	"github.com/cuemby/qnetsim/pkg/simtypes"
)

// Notification is a coarse-grained record of something the engine did,
// published for external observers (a metrics sink, a plotting harness). It is unrelated to the internal Event used for
// scheduling — a Notification is informational and carries no scheduling
// semantics.
type Notification struct {
	Kind       Kind
	Time       float64
	Node       string
	CustomerID simtypes.CustomerID
	Message    string
}

// Subscriber is a channel that receives notifications.
type Subscriber chan *Notification

// Broker distributes Notifications to any number of subscribers without
// blocking the dispatch loop: a full subscriber buffer simply drops the
// notification rather than stalling the simulation.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[Subscriber]bool
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{subscribers: make(map[Subscriber]bool)}
}

// Subscribe creates a new subscription and returns its channel.
func (b *Broker) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := make(Subscriber, 64)
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[sub]; ok {
		delete(b.subscribers, sub)
		close(sub)
	}
}

// Publish fans out a notification to every current subscriber.
func (b *Broker) Publish(n *Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subscribers {
		select {
		case sub <- n:
		default:
			// subscriber buffer full; drop rather than block the dispatch loop
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
