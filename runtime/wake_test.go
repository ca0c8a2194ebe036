package runtime

import (
	"testing"
	"time"

	"github.com/odvcencio/furry-store/state"
)

// postRecorder accepts posts while open and records their types.
type postRecorder struct {
	open  bool
	posts []Message
}

func (r *postRecorder) post(msg Message) bool {
	if !r.open {
		return false
	}
	r.posts = append(r.posts, msg)
	return true
}

func TestInvalidator_OnePostUntilDrawn(t *testing.T) {
	rec := &postRecorder{open: true}
	inv := NewInvalidator(rec.post)

	for i := 0; i < 3; i++ {
		inv.Invalidate()
	}
	if len(rec.posts) != 1 {
		t.Fatalf("expected 1 post before the loop drew, got %d", len(rec.posts))
	}
	if _, ok := rec.posts[0].(InvalidateMsg); !ok {
		t.Fatalf("expected InvalidateMsg, got %T", rec.posts[0])
	}

	inv.resetPending()
	inv.Invalidate()
	if len(rec.posts) != 2 {
		t.Fatalf("expected a fresh post after the loop drew, got %d", len(rec.posts))
	}
}

func TestInvalidator_FullInboxRetries(t *testing.T) {
	rec := &postRecorder{}
	inv := NewInvalidator(rec.post)

	inv.Invalidate()
	rec.open = true
	inv.Invalidate()
	if len(rec.posts) != 1 {
		t.Fatalf("expected the second request to get through, got %d posts", len(rec.posts))
	}
}

func TestInvalidator_ScheduleRunsInline(t *testing.T) {
	rec := &postRecorder{open: true}
	ran := false
	NewInvalidator(rec.post).Schedule(func() { ran = true })

	if !ran || len(rec.posts) != 1 {
		t.Fatalf("expected callback to run and one frame request, got ran=%v posts=%d", ran, len(rec.posts))
	}
}

func TestQueueScheduler_ParksStoreListeners(t *testing.T) {
	rec := &postRecorder{open: true}
	queue := state.NewQueue()
	sched := NewQueueScheduler(queue, rec.post)
	store := state.NewStore("a")
	var seen []string
	store.SubscribeWithScheduler(sched, func(v string) { seen = append(seen, v) })

	store.Set("b")
	store.Set("c")
	if len(seen) != 0 || queue.Len() != 2 {
		t.Fatalf("expected 2 parked callbacks and none delivered, got seen=%v len=%d", seen, queue.Len())
	}
	if len(rec.posts) != 1 {
		t.Fatalf("expected one QueueFlushMsg, got %d", len(rec.posts))
	}

	queue.Flush()
	if len(seen) != 2 || seen[0] != "b" || seen[1] != "c" {
		t.Fatalf("expected b then c, got %v", seen)
	}

	sched.resetPending()
	store.Set("d")
	if len(rec.posts) != 2 {
		t.Fatalf("expected a new wake-up after reset, got %d", len(rec.posts))
	}
}

func TestQueueFlushPolicy(t *testing.T) {
	tick := TickMsg{Time: time.Now()}
	key := KeyMsg{Rune: 'x'}
	flush := QueueFlushMsg{}

	want := map[QueueFlushPolicy][3]bool{
		FlushOnMessageAndTick: {true, true, true},
		FlushOnMessage:        {false, true, true},
		FlushOnTick:           {true, false, true},
		FlushManual:           {false, false, true},
	}
	for policy, w := range want {
		got := [3]bool{policy.flushes(tick), policy.flushes(key), policy.flushes(flush)}
		if got != w {
			t.Fatalf("policy %s: expected tick/key/flush %v, got %v", policy, w, got)
		}
	}
	if got := QueueFlushPolicy(9).String(); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}
