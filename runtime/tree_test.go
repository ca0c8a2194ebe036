package runtime

import (
	"context"
	"errors"
	"testing"
)

type treeWidget struct {
	children  []Widget
	bindErr   error
	bound     int
	unbound   int
	mounted   int
	unmounted int
	ctx       context.Context
	scope     func(Services) Services
}

func (w *treeWidget) Measure(c Constraints) Size { return Size{} }
func (w *treeWidget) Layout(bounds Rect)         {}
func (w *treeWidget) Render(ctx RenderContext)   {}
func (w *treeWidget) HandleMessage(msg Message) HandleResult {
	return Unhandled()
}
func (w *treeWidget) ChildWidgets() []Widget { return w.children }
func (w *treeWidget) Bind(services Services) error {
	w.bound++
	w.ctx = services.Context()
	return w.bindErr
}
func (w *treeWidget) Unbind()  { w.unbound++ }
func (w *treeWidget) Mount()   { w.mounted++ }
func (w *treeWidget) Unmount() { w.unmounted++ }

type scopedWidget struct {
	treeWidget
}

type scopeKey struct{}

func (w *scopedWidget) Scope(services Services) Services {
	return services.WithContext(context.WithValue(services.Context(), scopeKey{}, "inner"))
}

func TestBindTree_ScopesDescendantsOnly(t *testing.T) {
	leaf := &treeWidget{}
	sibling := &treeWidget{}
	provider := &scopedWidget{treeWidget{children: []Widget{leaf}}}
	root := &treeWidget{children: []Widget{provider, sibling}}

	if err := BindTree(root, NewServices(context.Background())); err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}
	if got := leaf.ctx.Value(scopeKey{}); got != "inner" {
		t.Fatalf("expected leaf to see scoped value, got %v", got)
	}
	if got := provider.ctx.Value(scopeKey{}); got != nil {
		t.Fatalf("expected provider itself to bind with outer services, got %v", got)
	}
	if got := sibling.ctx.Value(scopeKey{}); got != nil {
		t.Fatalf("expected sibling outside scope, got %v", got)
	}
}

func TestBindTree_JoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	a := &treeWidget{bindErr: errA}
	b := &treeWidget{bindErr: errB}
	ok := &treeWidget{}
	root := &treeWidget{children: []Widget{a, ok, b}}

	err := BindTree(root, Services{})
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both errors joined, got %v", err)
	}
	if ok.bound != 1 {
		t.Fatalf("expected every widget visited, got %d", ok.bound)
	}
}

func TestScreen_LifecycleRoot(t *testing.T) {
	child := &treeWidget{}
	root := &treeWidget{children: []Widget{child}}
	screen := NewScreen(10, 5)

	if err := screen.SetRoot(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.bound != 1 || child.bound != 1 || root.mounted != 1 || child.mounted != 1 {
		t.Fatalf("expected bind+mount once each, got root=%d/%d child=%d/%d", root.bound, root.mounted, child.bound, child.mounted)
	}

	if err := screen.SetRoot(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.unmounted != 1 || child.unmounted != 1 || root.unbound != 1 || child.unbound != 1 {
		t.Fatalf("expected unmount+unbind once each, got root=%d/%d child=%d/%d", root.unmounted, root.unbound, child.unmounted, child.unbound)
	}
}

func TestScreen_SetRootBindFailure(t *testing.T) {
	cause := errors.New("no scope")
	child := &treeWidget{bindErr: cause}
	root := &treeWidget{children: []Widget{child}}
	screen := NewScreen(10, 5)

	err := screen.SetRoot(root)
	if !errors.Is(err, cause) {
		t.Fatalf("expected bind failure, got %v", err)
	}
	if root.mounted != 0 || child.mounted != 0 {
		t.Fatalf("expected nothing mounted after bind failure")
	}
	if root.unbound != 1 || child.unbound != 1 {
		t.Fatalf("expected partial bind to be released, got root=%d child=%d", root.unbound, child.unbound)
	}
	if screen.Root() != nil {
		t.Fatalf("expected no root after failure")
	}
}

func TestScreen_LifecycleLayer(t *testing.T) {
	root := &treeWidget{}
	overlay := &treeWidget{}
	screen := NewScreen(10, 5)

	if err := screen.SetRoot(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := screen.PushLayer(overlay, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overlay.mounted != 1 || overlay.bound != 1 {
		t.Fatalf("expected overlay bound and mounted once")
	}

	if !screen.PopLayer() {
		t.Fatalf("expected PopLayer to succeed")
	}
	if overlay.unmounted != 1 || overlay.unbound != 1 {
		t.Fatalf("expected overlay released once")
	}
	if root.unmounted != 0 {
		t.Fatalf("expected root to remain mounted, got %d", root.unmounted)
	}
	if screen.PopLayer() {
		t.Fatalf("expected base layer to stay")
	}

	screen.Close()
	if root.unmounted != 1 || root.unbound != 1 {
		t.Fatalf("expected close to release root")
	}
}
