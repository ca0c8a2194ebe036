package runtime

import "errors"

// Bindable widgets receive app services when attached to a screen.
// A non-nil error aborts mounting of the tree that contains the widget.
type Bindable interface {
	Bind(services Services) error
}

// Unbindable widgets release app services when removed.
type Unbindable interface {
	Unbind()
}

// Scoper widgets derive the services their descendants bind with.
// Store providers use this to make a store reachable below them.
type Scoper interface {
	Scope(services Services) Services
}

// Lifecycle is implemented by widgets that need mount/unmount hooks.
// Mount runs after the whole tree is bound.
type Lifecycle interface {
	Mount()
	Unmount()
}

// BindTree calls Bind on every Bindable widget, depth first, passing each
// subtree the services produced by its nearest Scoper ancestor. Every widget
// is visited; the returned error joins all bind failures.
func BindTree(root Widget, services Services) error {
	var errs []error
	bindWidget(root, services, &errs)
	return errors.Join(errs...)
}

// UnbindTree calls Unbind on widgets that implement Unbindable, children first.
func UnbindTree(root Widget) {
	walkPostOrder(root, func(w Widget) {
		if u, ok := w.(Unbindable); ok {
			u.Unbind()
		}
	})
}

// MountTree calls Mount on widgets that implement Lifecycle, parents first.
func MountTree(root Widget) {
	walkPreOrder(root, func(w Widget) {
		if m, ok := w.(Lifecycle); ok {
			m.Mount()
		}
	})
}

// UnmountTree calls Unmount on widgets that implement Lifecycle, children first.
func UnmountTree(root Widget) {
	walkPostOrder(root, func(w Widget) {
		if m, ok := w.(Lifecycle); ok {
			m.Unmount()
		}
	})
}

func bindWidget(w Widget, services Services, errs *[]error) {
	if w == nil {
		return
	}
	if b, ok := w.(Bindable); ok {
		if err := b.Bind(services); err != nil {
			*errs = append(*errs, err)
		}
	}
	if scoper, ok := w.(Scoper); ok {
		services = scoper.Scope(services)
	}
	for _, child := range children(w) {
		bindWidget(child, services, errs)
	}
}

func walkPreOrder(w Widget, fn func(Widget)) {
	if w == nil {
		return
	}
	fn(w)
	for _, child := range children(w) {
		walkPreOrder(child, fn)
	}
}

func walkPostOrder(w Widget, fn func(Widget)) {
	if w == nil {
		return
	}
	for _, child := range children(w) {
		walkPostOrder(child, fn)
	}
	fn(w)
}

func children(w Widget) []Widget {
	if provider, ok := w.(ChildProvider); ok {
		return provider.ChildWidgets()
	}
	return nil
}
