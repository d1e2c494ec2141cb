// Package notify implements the coalescing "data changed" signal.
package notify

import (
	"sync"
)

// Notifier delivers a coalesced change signal to every subscriber.
//
// Each subscription channel has a buffer of one, so any burst of Notify
// calls between two receives collapses into a single signal. Delivery is
// at-least-once: subscribers must tolerate redundant signals.
type Notifier struct {
	subs   map[*Subscription]struct{}
	mu     sync.Mutex
	depth  int  // вложенность Batch
	dirty  bool // был Notify внутри Batch
	closed bool
}

// Subscription is one consumer of change signals.
type Subscription struct {
	n      *Notifier
	signal chan struct{} // buffered, size 1
	once   sync.Once
}

// New creates a notifier without subscribers.
func New() *Notifier {
	return &Notifier{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new consumer.
func (n *Notifier) Subscribe() *Subscription {
	s := &Subscription{n: n, signal: make(chan struct{}, 1)}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		close(s.signal)
		return s
	}
	n.subs[s] = struct{}{}
	return s
}

// Notify signals every subscriber without blocking. Inside Batch the signal
// is deferred until the outermost Batch returns.
func (n *Notifier) Notify() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.depth > 0 {
		n.dirty = true
		return
	}
	n.broadcastLocked()
}

// Batch runs fn and emits at most one signal afterwards, however many
// Notify calls fn made. Used for bulk edits.
func (n *Notifier) Batch(fn func()) {
	n.mu.Lock()
	n.depth++
	n.mu.Unlock()

	defer func() {
		n.mu.Lock()
		defer n.mu.Unlock()

		n.depth--
		if n.depth == 0 && n.dirty {
			n.dirty = false
			n.broadcastLocked()
		}
	}()

	fn()
}

func (n *Notifier) broadcastLocked() {
	if n.closed {
		return
	}
	for s := range n.subs {
		// Non-blocking: buffer of 1 coalesces multiple signals
		select {
		case s.signal <- struct{}{}:
		default:
		}
	}
}

// Close closes every subscription channel. Later Notify calls are no-ops.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for s := range n.subs {
		s.once.Do(func() { close(s.signal) })
	}
	n.subs = nil
}

// C returns the signal channel. It is closed when the subscription ends.
func (s *Subscription) C() <-chan struct{} {
	return s.signal
}

// Unsubscribe stops delivery and closes the channel.
func (s *Subscription) Unsubscribe() {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()

	delete(s.n.subs, s)
	s.once.Do(func() { close(s.signal) })
}
