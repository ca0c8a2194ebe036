package state

import "sync"

// EqualFunc compares two values for equality.
type EqualFunc[T any] func(a, b T) bool

// EqualComparable compares comparable values with ==.
func EqualComparable[T comparable](a, b T) bool {
	return a == b
}

// Selector projects the slice of state a single consumer cares about.
// Selectors must be pure.
type Selector[S, T any] func(S) T

// Identity returns the whole state.
func Identity[S any](s S) S {
	return s
}

// Binding pairs a selector with the subscription lifecycle of one consumer.
//
// The selector reruns on every raw write, whether or not the derived value
// changed. Set an EqualFunc to suppress onChange for unchanged slices.
type Binding[S, T any] struct {
	source   Source[S]
	selector Selector[S, T]

	mu       sync.Mutex
	value    T
	equal    EqualFunc[T]
	unsub    func()
	onChange func(T)
	// gen counts attachments; a callback from an earlier one is stale.
	gen uint64
}

// Select derives the current value of selector over source.
// A nil selector selects the whole state; if S is not assignable to T the
// derived value is the zero T.
func Select[S, T any](source Source[S], selector Selector[S, T]) *Binding[S, T] {
	if selector == nil {
		selector = func(s S) T {
			value, _ := any(s).(T)
			return value
		}
	}
	b := &Binding[S, T]{
		source:   source,
		selector: selector,
	}
	if source != nil {
		b.value = selector(source.Get())
	}
	return b
}

// SelectAll binds the whole state.
func SelectAll[S any](source Source[S]) *Binding[S, S] {
	return Select[S, S](source, Identity[S])
}

// SetEqualFunc configures the check used to suppress unchanged notifications.
func (b *Binding[S, T]) SetEqualFunc(fn EqualFunc[T]) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.equal = fn
	b.mu.Unlock()
}

// Get returns the last derived value.
func (b *Binding[S, T]) Get() T {
	if b == nil {
		var zero T
		return zero
	}
	b.mu.Lock()
	value := b.value
	b.mu.Unlock()
	return value
}

// Attach recomputes from the current state and subscribes onChange to every
// later write. Attaching an attached binding replaces the prior subscription.
func (b *Binding[S, T]) Attach(onChange func(T)) {
	b.AttachWithScheduler(nil, onChange)
}

// AttachWithScheduler attaches and dispatches re-derivation through scheduler.
// If scheduler is nil, re-derivation runs synchronously inside the write.
func (b *Binding[S, T]) AttachWithScheduler(scheduler Scheduler, onChange func(T)) {
	if b == nil || b.source == nil {
		return
	}
	b.Detach()

	value := b.selector(b.source.Get())
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.value = value
	b.onChange = onChange
	b.mu.Unlock()

	unsub := b.source.SubscribeWithScheduler(scheduler, func(next S) {
		b.derive(gen, next)
	})

	b.mu.Lock()
	if b.gen == gen {
		b.unsub = unsub
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	unsub()
}

// Attached reports whether the binding holds a live subscription.
func (b *Binding[S, T]) Attached() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unsub != nil
}

// Detach releases the subscription. Later calls are no-ops.
func (b *Binding[S, T]) Detach() {
	if b == nil {
		return
	}
	b.mu.Lock()
	unsub := b.unsub
	b.unsub = nil
	b.onChange = nil
	b.gen++
	b.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (b *Binding[S, T]) derive(gen uint64, next S) {
	value := b.selector(next)

	b.mu.Lock()
	if b.gen != gen {
		b.mu.Unlock()
		return
	}
	prev := b.value
	b.value = value
	equal := b.equal
	onChange := b.onChange
	b.mu.Unlock()

	if equal != nil && equal(prev, value) {
		return
	}
	if onChange != nil {
		onChange(value)
	}
}
