package runtime

import (
	"sync/atomic"

	"github.com/odvcencio/furry-store/state"
)

// wakeup posts msg to the loop at most once until the loop calls
// resetPending. A post that finds the inbox full is forgotten so the next
// request tries again.
type wakeup struct {
	post    func(Message) bool
	msg     Message
	pending atomic.Bool
}

func (w *wakeup) request() {
	if w.post == nil || !w.pending.CompareAndSwap(false, true) {
		return
	}
	if !w.post(w.msg) {
		w.pending.Store(false)
	}
}

func (w *wakeup) resetPending() {
	w.pending.Store(false)
}

// Invalidator asks the loop for a frame. Requests made before the loop
// draws collapse into one InvalidateMsg.
type Invalidator struct {
	wake wakeup
}

// NewInvalidator posts through post.
func NewInvalidator(post func(Message) bool) *Invalidator {
	inv := &Invalidator{}
	inv.wake.post = post
	inv.wake.msg = InvalidateMsg{}
	return inv
}

// Invalidate requests a frame.
func (i *Invalidator) Invalidate() {
	if i != nil {
		i.wake.request()
	}
}

// Schedule implements state.Scheduler. fn runs on the caller's goroutine
// and a frame is requested afterwards.
func (i *Invalidator) Schedule(fn func()) {
	if fn == nil {
		return
	}
	fn()
	i.Invalidate()
}

func (i *Invalidator) resetPending() {
	if i != nil {
		i.wake.resetPending()
	}
}

// QueueScheduler implements state.Scheduler by parking callbacks in a queue
// and waking the loop with a QueueFlushMsg. Store listeners scheduled this
// way always run on the loop goroutine, in write order.
type QueueScheduler struct {
	queue *state.Queue
	wake  wakeup
}

// NewQueueScheduler parks callbacks in queue and posts through post.
func NewQueueScheduler(queue *state.Queue, post func(Message) bool) *QueueScheduler {
	if queue == nil {
		queue = state.NewQueue()
	}
	qs := &QueueScheduler{queue: queue}
	qs.wake.post = post
	qs.wake.msg = QueueFlushMsg{}
	return qs
}

// Schedule parks fn and wakes the loop.
func (s *QueueScheduler) Schedule(fn func()) {
	if s == nil || fn == nil {
		return
	}
	s.queue.Schedule(fn)
	s.wake.request()
}

func (s *QueueScheduler) resetPending() {
	if s != nil {
		s.wake.resetPending()
	}
}

// QueueFlushPolicy decides which messages make the loop drain its state
// queue. A QueueFlushMsg drains it under every policy.
type QueueFlushPolicy int

const (
	FlushOnMessageAndTick QueueFlushPolicy = iota
	FlushOnMessage                         // everything but ticks
	FlushOnTick
	FlushManual // QueueFlushMsg only
)

var policyNames = [...]string{
	FlushOnMessageAndTick: "message+tick",
	FlushOnMessage:        "message",
	FlushOnTick:           "tick",
	FlushManual:           "manual",
}

func (p QueueFlushPolicy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return "unknown"
	}
	return policyNames[p]
}

// flushes reports whether msg should drain the queue under p.
func (p QueueFlushPolicy) flushes(msg Message) bool {
	switch msg.(type) {
	case QueueFlushMsg:
		return true
	case TickMsg:
		return p == FlushOnMessageAndTick || p == FlushOnTick
	}
	return p == FlushOnMessageAndTick || p == FlushOnMessage
}
