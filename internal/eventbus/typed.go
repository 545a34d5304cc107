package eventbus

import (
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the channel capacity used by Subscribe.
const DefaultBuffer = 8

// TypedBus is a type-safe publish/subscribe bus for events of type T.
type TypedBus[T any] struct {
	mu      sync.RWMutex
	subs    []chan T
	closed  bool
	dropped atomic.Uint64
}

// NewTyped creates a new TypedBus.
func NewTyped[T any]() *TypedBus[T] { return &TypedBus[T]{} }

// Publish sends the event to all subscribers. Delivery is non-blocking; an
// event is dropped for a subscriber whose buffer is full.
func (b *TypedBus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe registers a subscriber with DefaultBuffer capacity.
func (b *TypedBus[T]) Subscribe() <-chan T { return b.SubscribeN(DefaultBuffer) }

// SubscribeN registers a subscriber whose channel holds up to size events.
func (b *TypedBus[T]) SubscribeN(size int) <-chan T {
	if size < 0 {
		size = 0
	}
	ch := make(chan T, size)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *TypedBus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Dropped returns how many deliveries were skipped because a subscriber was
// not keeping up.
func (b *TypedBus[T]) Dropped() uint64 { return b.dropped.Load() }

// Close closes the bus and all subscriber channels.
func (b *TypedBus[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
