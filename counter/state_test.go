package counter

import (
	"context"
	"errors"
	"testing"

	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

func TestReducers(t *testing.T) {
	s := State{Count: 3, Step: 2}
	if got := Increment(s); got.Count != 5 || got.Step != 2 {
		t.Fatalf("expected {5 2}, got %+v", got)
	}
	if got := Decrement(s); got.Count != 1 {
		t.Fatalf("expected 1, got %+v", got)
	}
	if got := Reset(s); got.Count != 0 || got.Step != 2 {
		t.Fatalf("expected reset to keep step, got %+v", got)
	}
	if got := WithStep(5)(s); got.Step != 5 {
		t.Fatalf("expected step 5, got %+v", got)
	}
	if got := WithStep(0)(s); got.Step != 2 {
		t.Fatalf("expected non-positive step ignored, got %+v", got)
	}
	if s.Count != 3 {
		t.Fatalf("expected reducers to leave input untouched, got %+v", s)
	}
}

func TestParity(t *testing.T) {
	if Parity(State{Count: 4}) != "even" || Parity(State{Count: -3}) != "odd" {
		t.Fatalf("unexpected parity")
	}
}

func TestStore_ThreeIncrements(t *testing.T) {
	store := NewStore(State{})
	var seen []int
	store.Subscribe(func(s State) { seen = append(seen, s.Count) })

	for i := 0; i < 3; i++ {
		store.Update(Increment)
	}

	if got := store.Get(); got != (State{Count: 3, Step: 1}) {
		t.Fatalf("expected {Count:3 Step:1}, got %+v", got)
	}
	if len(seen) != 3 || seen[0] != 1 || seen[1] != 2 || seen[2] != 3 {
		t.Fatalf("expected 1,2,3, got %v", seen)
	}
}

func TestStore_ResetFromFive(t *testing.T) {
	store := NewStore(State{Count: 5, Step: 1})
	var a, b []State
	store.Subscribe(func(s State) { a = append(a, s) })
	store.Subscribe(func(s State) { b = append(b, s) })

	store.Update(Reset)

	if store.Get().Count != 0 {
		t.Fatalf("expected 0, got %d", store.Get().Count)
	}
	if len(a) != 1 || a[0].Count != 0 || len(b) != 1 || b[0].Count != 0 {
		t.Fatalf("expected both listeners to see the zeroed state, got %v %v", a, b)
	}
}

func TestComponents_RequireProvider(t *testing.T) {
	for _, w := range []runtime.Widget{NewCounter(), NewChild(), NewGrandchild(), NewInspector("monokai")} {
		err := runtime.BindTree(w, runtime.NewServices(context.Background()))
		var cfgErr *state.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("%T: expected ConfigurationError, got %v", w, err)
		}
		if cfgErr.Scope != "counter" {
			t.Fatalf("%T: expected counter scope, got %q", w, cfgErr.Scope)
		}
	}
}

func TestRoot_SharedStore(t *testing.T) {
	store := NewStore(State{Count: 1})
	root := NewRoot(store)
	if err := runtime.BindTree(root, runtime.Services{}); err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}
	runtime.MountTree(root)
	defer func() {
		runtime.UnmountTree(root)
		runtime.UnbindTree(root)
		if store.Len() != 0 {
			t.Fatalf("expected all listeners released, got %d", store.Len())
		}
	}()

	listeners := store.Len()
	if listeners == 0 {
		t.Fatalf("expected components subscribed after mount")
	}

	store.Update(Increment)
	want := "{\n  \"count\": 2,\n  \"step\": 1\n}"
	if got := root.Inspector().JSON(); got != want {
		t.Fatalf("expected inspector json %q, got %q", want, got)
	}
	if store.Len() != listeners {
		t.Fatalf("expected listener count stable across writes")
	}
}
