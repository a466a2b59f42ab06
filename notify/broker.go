// Package notify fans change notifications out to open event streams.
package notify

import (
	"context"
	"sync"
)

// Publisher sends a change notification.
type Publisher interface {
	Publish(ctx context.Context, data []byte) error
}

// Broker fans messages out to local subscribers. Slow subscribers miss
// messages instead of blocking the publisher.
type Broker struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan []byte]struct{})}
}

// Subscribe registers a new subscriber channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 8)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes ch. It is safe to call more than once.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Subscribers reports the number of registered subscribers.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Broadcast delivers data to every subscriber with room in its buffer.
func (b *Broker) Broadcast(data []byte) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
		}
	}
	b.mu.Unlock()
}

// Publish broadcasts locally. It lets a Broker stand in for a relay when no
// redis is configured.
func (b *Broker) Publish(_ context.Context, data []byte) error {
	b.Broadcast(data)
	return nil
}
