package correlation

import "sync"

// queue is an unbounded FIFO feeding the dispatch loop. push never blocks,
// so transport goroutines and callbacks running on the loop can both
// enqueue work.
type queue struct {
	mu     sync.Mutex
	items  []func()
	closed bool
	ready  chan struct{}
}

func newQueue() *queue {
	return &queue{ready: make(chan struct{}, 1)}
}

// push appends fn. It returns false once the queue is closed.
func (q *queue) push(fn func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, fn)
	q.mu.Unlock()
	q.signal()
	return true
}

func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// drain takes everything queued so far. open is false once the queue has
// been closed; the returned items must still be run.
func (q *queue) drain() (items []func(), open bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	items = q.items
	q.items = nil
	return items, !q.closed
}

func (q *queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
