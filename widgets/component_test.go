package widgets

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

type tally struct {
	Count int
	Label string
}

var tallyScope = state.NewScope[tally]("tally")

func countText(s tally) string { return strconv.Itoa(s.Count) }

func TestBoundLabel_ResolvesThroughProvider(t *testing.T) {
	store := state.NewStore(tally{Count: 2})
	label := NewBoundLabel(tallyScope, countText)
	root := NewProvider(tallyScope, store, NewVStack(NewLabel("title"), NewVStack(label)))

	if err := runtime.BindTree(root, runtime.NewServices(context.Background())); err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}
	if label.Text() != "2" {
		t.Fatalf("expected initial text 2, got %q", label.Text())
	}
	if store.Len() != 0 {
		t.Fatalf("expected no listener before mount, got %d", store.Len())
	}

	runtime.MountTree(root)
	if store.Len() != 1 {
		t.Fatalf("expected one listener after mount, got %d", store.Len())
	}
	store.Update(func(s tally) tally { s.Count = 9; return s })
	if label.Text() != "9" {
		t.Fatalf("expected text 9, got %q", label.Text())
	}

	runtime.UnmountTree(root)
	runtime.UnbindTree(root)
	if store.Len() != 0 {
		t.Fatalf("expected listener released on unmount, got %d", store.Len())
	}
	store.Update(func(s tally) tally { s.Count = 1; return s })
	if label.Text() != "9" {
		t.Fatalf("expected text frozen after unmount, got %q", label.Text())
	}
}

func TestBoundLabel_MissingProvider(t *testing.T) {
	label := NewBoundLabel(tallyScope, countText)
	err := runtime.BindTree(NewVStack(label), runtime.Services{})

	var cfgErr *state.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Scope != "tally" {
		t.Fatalf("expected scope name in error, got %q", cfgErr.Scope)
	}
	if !errors.Is(err, state.ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
}

func TestProvider_NearestWins(t *testing.T) {
	outer := state.NewStore(tally{Count: 1})
	inner := state.NewStore(tally{Count: 2})
	outerLabel := NewBoundLabel(tallyScope, countText)
	innerLabel := NewBoundLabel(tallyScope, countText)
	root := NewProvider(tallyScope, outer, NewVStack(
		outerLabel,
		NewProvider(tallyScope, inner, innerLabel),
	))

	if err := runtime.BindTree(root, runtime.Services{}); err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}
	if outerLabel.Text() != "1" || innerLabel.Text() != "2" {
		t.Fatalf("expected 1 and 2, got %q and %q", outerLabel.Text(), innerLabel.Text())
	}
}

func TestUse_SelectorIsolation(t *testing.T) {
	store := state.NewStore(tally{})
	var comp Component
	ctx := tallyScope.Provide(context.Background(), store)
	if err := comp.Bind(runtime.NewServices(ctx)); err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	var labels []string
	binding, err := Use(&comp, tallyScope, func(s tally) string { return s.Label }, func(v string) {
		labels = append(labels, v)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	binding.SetEqualFunc(state.EqualComparable[string])
	comp.Mount()

	store.Update(func(s tally) tally { s.Count++; return s })
	store.Update(func(s tally) tally { s.Label = "x"; return s })
	if len(labels) != 1 || labels[0] != "x" {
		t.Fatalf("expected only the label change delivered, got %v", labels)
	}

	comp.Unmount()
	comp.Mount()
	if comp.Subs.Len() != 1 {
		t.Fatalf("expected remount to reattach once, got %d", comp.Subs.Len())
	}
	comp.Unbind()
	if store.Len() != 0 {
		t.Fatalf("expected unbind to release listener, got %d", store.Len())
	}
}

func TestUse_QueuedThroughScheduler(t *testing.T) {
	store := state.NewStore(tally{})
	queue := state.NewQueue()
	var comp Component
	comp.Bind(runtime.NewServices(tallyScope.Provide(context.Background(), store)))
	comp.Subs.SetScheduler(queue)

	got := -1
	if _, err := Use(&comp, tallyScope, func(s tally) int { return s.Count }, func(v int) { got = v }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	comp.Mount()
	store.Set(tally{Count: 4})
	if got != -1 {
		t.Fatalf("expected delivery deferred to the queue, got %d", got)
	}
	queue.Flush()
	if got != 4 {
		t.Fatalf("expected 4 after flush, got %d", got)
	}
}
