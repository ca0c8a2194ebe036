// Package state provides a minimal store with selector bindings for terminal UIs.
package state

import (
	"io"
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Listener receives the committed state after a write.
type Listener[S any] func(S)

type listener[S any] struct {
	id        uint64
	fn        Listener[S]
	scheduler Scheduler
}

// Option configures a Store.
type Option func(*options)

type options struct {
	name   string
	logger *slog.Logger
}

// WithName labels the store in log output.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger used for write tracing.
// If nil, writes are not logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Store holds a single state value and notifies listeners on every write.
//
// State is replaced wholesale on each write, never mutated in place. Every
// write notifies every listener registered when the notification pass starts,
// in registration order, even when the new value equals the old one.
//
// Writers on any goroutine are safe. Commits are totally ordered, and each
// commit's notification pass runs after the previous one has finished, so
// listeners observe writes in commit order. A write made while a pass is
// running, from a listener or from another goroutine, is committed at once
// and delivered by the goroutine already notifying, once its pass ends.
type Store[S any] struct {
	mu       sync.Mutex
	id       ulid.ULID
	name     string
	logger   *slog.Logger
	state    S
	version  uint64
	subs     []listener[S]
	next     uint64
	pending  []delivery[S]
	draining bool
}

// delivery is one committed write waiting for its notification pass.
type delivery[S any] struct {
	subs  []listener[S]
	value S
}

// NewStore creates a store seeded with initial. Any value is accepted.
func NewStore[S any](initial S, opts ...Option) *Store[S] {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store[S]{
		id:    ulid.Make(),
		name:  o.name,
		state: initial,
	}
	s.logger = logger.With("store", s.name, "store_id", s.id.String())
	return s
}

// ID returns the unique identity of this store instance.
func (s *Store[S]) ID() ulid.ULID {
	if s == nil {
		return ulid.ULID{}
	}
	return s.id
}

// Name returns the store label, if any.
func (s *Store[S]) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Get returns the most recently committed state.
func (s *Store[S]) Get() S {
	if s == nil {
		var zero S
		return zero
	}
	s.mu.Lock()
	value := s.state
	s.mu.Unlock()
	return value
}

// Set commits next and notifies listeners with it.
func (s *Store[S]) Set(next S) {
	if s == nil {
		return
	}
	s.mu.Lock()
	count := s.commitLocked(next)
	s.mu.Unlock()

	s.logger.Debug("store write", "listeners", count)
	s.drain()
}

// Update commits fn(current) and notifies listeners with the result.
// The read and the commit are atomic with respect to other writers: if
// another write lands while fn runs, fn is called again on the newer state.
// fn must therefore be pure, and must not write to this store.
func (s *Store[S]) Update(fn func(S) S) {
	if s == nil || fn == nil {
		return
	}
	for {
		s.mu.Lock()
		current, version := s.state, s.version
		s.mu.Unlock()

		next := fn(current)

		s.mu.Lock()
		if s.version != version {
			s.mu.Unlock()
			continue
		}
		count := s.commitLocked(next)
		s.mu.Unlock()

		s.logger.Debug("store write", "listeners", count)
		s.drain()
		return
	}
}

// Subscribe registers fn for synchronous notification on every write.
// Each call creates an independent membership, so registering the same
// function twice delivers twice. The returned func removes the membership;
// calling it more than once is a no-op.
func (s *Store[S]) Subscribe(fn Listener[S]) func() {
	return s.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers fn and dispatches it through scheduler.
// If scheduler is nil, fn runs synchronously inside the write.
func (s *Store[S]) SubscribeWithScheduler(scheduler Scheduler, fn Listener[S]) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs = append(s.subs, listener[S]{id: id, fn: fn, scheduler: scheduler})
	count := len(s.subs)
	s.mu.Unlock()
	s.logger.Debug("store subscribe", "listeners", count)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.remove(id)
		})
	}
}

// Len returns the number of registered listeners.
func (s *Store[S]) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// LogValue summarizes the store for structured logging.
func (s *Store[S]) LogValue() slog.Value {
	if s == nil {
		return slog.StringValue("<nil>")
	}
	return slog.GroupValue(
		slog.String("name", s.name),
		slog.String("id", s.id.String()),
		slog.Int("listeners", s.Len()),
	)
}

func (s *Store[S]) remove(id uint64) {
	s.mu.Lock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			break
		}
	}
	count := len(s.subs)
	s.mu.Unlock()
	s.logger.Debug("store unsubscribe", "listeners", count)
}

// commitLocked replaces the state and queues a notification pass over the
// listeners registered right now.
func (s *Store[S]) commitLocked(next S) int {
	s.state = next
	s.version++
	var subs []listener[S]
	if len(s.subs) > 0 {
		subs = make([]listener[S], len(s.subs))
		copy(subs, s.subs)
	}
	s.pending = append(s.pending, delivery[S]{subs: subs, value: next})
	return len(subs)
}

// drain runs queued notification passes in commit order. Only one goroutine
// drains at a time; any other caller returns and leaves its pass to it.
func (s *Store[S]) drain() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	finished := false
	defer func() {
		if !finished {
			s.mu.Lock()
			s.draining = false
			s.mu.Unlock()
		}
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.pending = nil
			s.draining = false
			finished = true
			s.mu.Unlock()
			return
		}
		d := s.pending[0]
		s.pending[0] = delivery[S]{}
		s.pending = s.pending[1:]
		s.mu.Unlock()

		notify(d.subs, d.value)
	}
}

func notify[S any](subs []listener[S], value S) {
	for _, sub := range subs {
		if sub.fn == nil {
			continue
		}
		if sub.scheduler == nil {
			sub.fn(value)
			continue
		}
		fn := sub.fn
		sub.scheduler.Schedule(func() {
			fn(value)
		})
	}
}
