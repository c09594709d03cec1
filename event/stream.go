// Package event provides the synchronous signal primitives the engine
// subsystems use to talk to each other: broadcast streams for notifications
// and single-handler requests for calls that hand a value back.
package event

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNoHandler is returned by Request.Call when nothing is bound to answer it.
var ErrNoHandler = errors.New("event: no handler bound")

// Subscription identifies one subscriber on a Stream or the handler bound to
// a Request. Cancel detaches it; cancelling twice or cancelling the zero
// Subscription is a no-op.
type Subscription struct {
	id     string
	cancel func()
}

// Cancel detaches the subscriber
func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

type streamSub[T any] struct {
	id string
	fn func(T)
}

// Stream is a synchronous multi-subscriber signal. Publish invokes every
// subscriber in subscription order on the calling goroutine. Subscribers may
// subscribe or cancel from inside a delivery; the change takes effect on the
// next publish.
type Stream[T any] struct {
	mu   sync.RWMutex
	subs []streamSub[T]
}

// NewStream creates an empty stream
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{}
}

// Subscribe registers fn to receive every published value
func (s *Stream[T]) Subscribe(fn func(T)) Subscription {
	id := uuid.NewString()

	s.mu.Lock()
	s.subs = append(s.subs, streamSub[T]{id: id, fn: fn})
	s.mu.Unlock()

	return Subscription{id: id, cancel: func() { s.remove(id) }}
}

// Publish delivers v to all current subscribers in subscription order
func (s *Stream[T]) Publish(v T) {
	s.mu.RLock()
	snapshot := make([]streamSub[T], len(s.subs))
	copy(snapshot, s.subs)
	s.mu.RUnlock()

	for _, sub := range snapshot {
		sub.fn(v)
	}
}

// Len returns the current subscriber count
func (s *Stream[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Stream[T]) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Request is a synchronous request/response signal with at most one handler.
// Binding a new handler replaces the previous one.
type Request[Q, R any] struct {
	mu      sync.RWMutex
	id      string
	handler func(Q) (R, error)
}

// NewRequest creates a request with no handler bound
func NewRequest[Q, R any]() *Request[Q, R] {
	return &Request[Q, R]{}
}

// Bind installs fn as the handler and returns its Subscription.
// Cancelling detaches fn unless a later Bind already replaced it.
func (r *Request[Q, R]) Bind(fn func(Q) (R, error)) Subscription {
	id := uuid.NewString()

	r.mu.Lock()
	r.id = id
	r.handler = fn
	r.mu.Unlock()

	return Subscription{id: id, cancel: func() { r.unbind(id) }}
}

// Call invokes the bound handler with q. Returns ErrNoHandler when nothing
// is bound.
func (r *Request[Q, R]) Call(q Q) (R, error) {
	r.mu.RLock()
	handler := r.handler
	r.mu.RUnlock()

	if handler == nil {
		var zero R
		return zero, ErrNoHandler
	}
	return handler(q)
}

// Bound reports whether a handler is currently installed
func (r *Request[Q, R]) Bound() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handler != nil
}

func (r *Request[Q, R]) unbind(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.id == id {
		r.id = ""
		r.handler = nil
	}
}
