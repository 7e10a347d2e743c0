package progress

import (
	"sync"

	"github.com/bwt-dev/libbwt-go/pkg/engine"
)

// ErrDisconnected is returned by Send once the queue has been closed
var ErrDisconnected = engine.ErrDisconnected

// Queue is an unbounded FIFO of progress events with any number of
// producers and a single consumer. Send never blocks.
type Queue struct {
	mu     sync.Mutex
	items  []engine.Progress
	closed bool

	// ready holds a wake-up token for the consumer
	ready chan struct{}
}

// NewQueue creates an open, empty queue
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Send appends an event. It fails with ErrDisconnected after Close.
func (q *Queue) Send(event engine.Progress) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrDisconnected
	}
	q.items = append(q.items, event)
	q.mu.Unlock()

	q.wake()
	return nil
}

// Receive blocks until an event is available. It returns false once the queue
// is closed and every event queued before Close has been received.
func (q *Queue) Receive() (engine.Progress, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			event := q.items[0]
			q.items[0] = engine.Progress{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return event, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return engine.Progress{}, false
		}
		<-q.ready
	}
}

// Close disconnects the queue. Later sends fail; it is safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.wake()
}

// Closed reports whether the queue has been disconnected
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue) wake() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
