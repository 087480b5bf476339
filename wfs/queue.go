package wfs

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrQueueClosed is returned by Post after Close.
	ErrQueueClosed = errors.New("queue is closed")
	// ErrQueueFull is returned by Post when the queue is at capacity.
	ErrQueueFull = errors.New("queue is full")
)

// Queue is a bounded channel-backed EventSink. The manager creates one
// per blocking call as the private completion endpoint; embedders can
// also use it as a simple application message queue.
type Queue struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 16
	}
	return &Queue{ch: make(chan Event, capacity)}
}

var _ EventSink = &Queue{}

// Post enqueues without blocking.
func (q *Queue) Post(ev Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// TryReceive dequeues without blocking.
func (q *Queue) TryReceive() (Event, bool) {
	select {
	case ev, ok := <-q.ch:
		if !ok {
			return Event{}, false
		}
		return ev, true
	default:
		return Event{}, false
	}
}

// Len reports the number of queued events.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Drain discards all queued events and returns how many were dropped.
func (q *Queue) Drain() int {
	dropped := 0
	for {
		if _, ok := q.TryReceive(); !ok {
			return dropped
		}
		dropped++
	}
}

// Close rejects further posts. Events already queued remain readable.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}
