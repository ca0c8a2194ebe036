package state

// Source is anything a Binding can derive from.
type Source[S any] interface {
	Get() S
	SubscribeWithScheduler(scheduler Scheduler, fn Listener[S]) func()
}

// Readable exposes read-only store access.
type Readable[S any] interface {
	Source[S]
	Subscribe(fn Listener[S]) func()
}

// Writable exposes read/write store access.
type Writable[S any] interface {
	Readable[S]
	Set(next S)
	Update(fn func(S) S)
}

var (
	_ Writable[int] = (*Store[int])(nil)
	_ Source[int]   = (*Store[int])(nil)
)
