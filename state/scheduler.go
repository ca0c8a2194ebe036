package state

import "sync"

// Scheduler decides where a listener callback runs. A nil Scheduler means
// the writer's goroutine, inside the write.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc is a function used as a Scheduler.
type SchedulerFunc func(func())

// Schedule calls f with fn.
func (f SchedulerFunc) Schedule(fn func()) {
	if f != nil && fn != nil {
		f(fn)
	}
}

// DirectScheduler runs fn at once.
var DirectScheduler Scheduler = SchedulerFunc(func(fn func()) { fn() })

// Queue parks callbacks until Flush. The UI loop owns one and flushes it
// between messages so listeners run on its goroutine.
//
// Every scheduled callback is kept; two writes queue two callbacks.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Schedule appends fn. It is safe to call from any goroutine.
func (q *Queue) Schedule(fn func()) {
	if q == nil || fn == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, fn)
}

// Len reports how many callbacks wait.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs what was queued when it was called, in order, and returns how
// many ran. Callbacks queued by those callbacks wait for the next Flush.
func (q *Queue) Flush() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

var (
	_ Scheduler = (*Queue)(nil)
	_ Scheduler = SchedulerFunc(nil)
)
