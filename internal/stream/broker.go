// Package stream fans session state changes out to connected dashboard
// pages over WebSocket.
package stream

import (
	"sync"
	"sync/atomic"
	"time"
)

const subscriberBufSize = 256

// Event kinds published by the dashboard service.
const (
	KindFrame      = "frame"      // playhead moved
	KindStatus     = "status"     // playing/paused flipped, seek, reset
	KindTranscript = "transcript" // chat turns appended or cleared
	KindCompleted  = "completed"  // replay reached the last bar and halted
)

// Event is one session state change. Frame and Revision let a client
// reconcile out-of-order or dropped deliveries: higher revision wins.
type Event struct {
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Frame     int       `json:"frame"`
	Status    string    `json:"status"`
	TurnCount int       `json:"turn_count"`
	Revision  int64     `json:"revision"`
	At        time.Time `json:"at"`
}

// Broker fans out events to all subscribed clients.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[int64]chan Event
	nextID      atomic.Int64
}

// NewBroker creates an event broker with no subscribers.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[int64]chan Event),
	}
}

// Subscribe registers a new client. Returns the subscriber ID and the
// channel events arrive on. The channel is buffered; slow consumers have
// events dropped rather than stalling the publisher.
func (b *Broker) Subscribe() (int64, <-chan Event) {
	id := b.nextID.Add(1)
	ch := make(chan Event, subscriberBufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(id int64) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers without blocking. A dropped
// frame event is harmless: the next one carries a fresher revision.
func (b *Broker) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}

// ClientCount returns the number of active subscribers.
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
