package state

import "sync"

// Subscriptions owns a set of listener registrations. Registrations made
// through Watch and Attach use its scheduler, and Clear releases them all.
// The zero value delivers synchronously.
type Subscriptions struct {
	mu      sync.Mutex
	release []func()
	sched   Scheduler
}

// NewSubscriptions returns a set that delivers through scheduler.
func NewSubscriptions(scheduler Scheduler) *Subscriptions {
	return &Subscriptions{sched: scheduler}
}

// SetScheduler changes the scheduler used by later registrations.
func (s *Subscriptions) SetScheduler(scheduler Scheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched = scheduler
}

// Scheduler returns the scheduler new registrations use.
func (s *Subscriptions) Scheduler() Scheduler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched
}

// Add takes ownership of a release func.
func (s *Subscriptions) Add(release func()) {
	if release == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release = append(s.release, release)
}

// Len counts live registrations.
func (s *Subscriptions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.release)
}

// Clear releases every registration, oldest first. Calling it again is a
// no-op until something new is added.
func (s *Subscriptions) Clear() {
	s.mu.Lock()
	pending := s.release
	s.release = nil
	s.mu.Unlock()
	for _, release := range pending {
		release()
	}
}

// Watch subscribes fn to source and hands the registration to subs.
func Watch[S any](subs *Subscriptions, source Readable[S], fn Listener[S]) {
	if source == nil || fn == nil {
		return
	}
	subs.Add(source.SubscribeWithScheduler(subs.Scheduler(), fn))
}

// Attach attaches binding and hands its Detach to subs.
func Attach[S, T any](subs *Subscriptions, binding *Binding[S, T], onChange func(T)) {
	if binding == nil {
		return
	}
	binding.AttachWithScheduler(subs.Scheduler(), onChange)
	subs.Add(binding.Detach)
}
