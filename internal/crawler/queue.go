package crawler

import "sync"

// taskQueue is an unbounded FIFO work queue with drain detection.
//
// Pop blocks while the queue is empty but some worker is still processing
// a task that could push more URLs. It returns false once the crawl has
// drained (queue empty, nothing in flight) or the queue was closed. This
// turns "the crawl is finished" into a condition every worker observes,
// with no coordinator goroutine.
type taskQueue struct {
	mu   sync.Mutex
	cond *sync.Cond

	// items holds queued URLs in FIFO order.
	items []string

	// inflight counts tasks popped but not yet marked Done. While it is
	// nonzero an empty queue may still refill, so Pop waits.
	inflight int

	// closed stops the queue: pending Pops release and Pushes are dropped.
	closed bool
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push adds a URL to the queue. Pushes after Close are dropped.
func (q *taskQueue) Push(pageURL string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.items = append(q.items, pageURL)
	q.cond.Signal()
}

// Pop removes and returns the next URL, blocking while the queue is empty
// but tasks are still in flight. The second return value is false when the
// crawl has drained or the queue was closed. Every successful Pop must be
// paired with a Done call.
func (q *taskQueue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && q.inflight > 0 && !q.closed {
		q.cond.Wait()
	}

	if q.closed || len(q.items) == 0 {
		return "", false
	}

	item := q.items[0]
	q.items = q.items[1:]
	q.inflight++
	return item, true
}

// Done marks one popped task as finished. When the last in-flight task
// finishes with the queue empty, every blocked Pop is released.
func (q *taskQueue) Done() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.inflight--
	if q.inflight == 0 && len(q.items) == 0 {
		q.cond.Broadcast()
	}
}

// Close releases all blocked Pop calls and drops subsequent Pushes.
// It is safe to call multiple times and from any goroutine.
func (q *taskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of queued URLs.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
