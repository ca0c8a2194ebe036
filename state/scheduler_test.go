package state

import (
	"sync"
	"testing"
)

func TestQueue_RunsBatchInOrder(t *testing.T) {
	q := NewQueue()
	var got []rune
	for _, r := range "xyz" {
		q.Schedule(func() { got = append(got, r) })
	}
	q.Schedule(nil)

	if n := q.Len(); n != 3 {
		t.Fatalf("expected 3 parked, got %d", n)
	}
	if n := q.Flush(); n != 3 || string(got) != "xyz" {
		t.Fatalf("expected xyz from 3 callbacks, got %q from %d", string(got), n)
	}
	if n := q.Flush(); n != 0 {
		t.Fatalf("expected an empty second flush, got %d", n)
	}
}

func TestQueue_NestedScheduleWaits(t *testing.T) {
	q := NewQueue()
	depth := 0
	q.Schedule(func() {
		depth++
		q.Schedule(func() { depth++ })
	})

	q.Flush()
	if depth != 1 || q.Len() != 1 {
		t.Fatalf("expected nested callback held for next flush, got depth=%d len=%d", depth, q.Len())
	}
	q.Flush()
	if depth != 2 {
		t.Fatalf("expected nested callback on second flush, got depth=%d", depth)
	}
}

func TestQueue_ConcurrentSchedule(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				q.Schedule(func() {})
			}
		}()
	}
	wg.Wait()
	if n := q.Flush(); n != 400 {
		t.Fatalf("expected 400 callbacks, got %d", n)
	}
}

func TestSchedulerFunc(t *testing.T) {
	var nilFunc SchedulerFunc
	nilFunc.Schedule(func() { t.Fatalf("expected nil SchedulerFunc to drop callbacks") })

	ran := 0
	DirectScheduler.Schedule(func() { ran++ })
	DirectScheduler.Schedule(nil)
	if ran != 1 {
		t.Fatalf("expected DirectScheduler to run inline once, got %d", ran)
	}
}
