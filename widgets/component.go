package widgets

import (
	"context"

	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

// Component is a base widget with bound services and subscriptions.
//
// Bindings registered during Bind attach on Mount and detach on Unmount, so a
// component only listens to a store while it is on screen.
type Component struct {
	Base
	Services runtime.Services
	Subs     state.Subscriptions

	attachers []func()
	mounted   bool
}

// Bind attaches app services to the component.
func (c *Component) Bind(services runtime.Services) error {
	c.Services = services
	c.Subs.SetScheduler(services.Scheduler())
	return nil
}

// Unbind releases app services, subscriptions, and pending bindings.
func (c *Component) Unbind() {
	c.Subs.Clear()
	c.attachers = nil
	c.Services = runtime.Services{}
}

// Mount attaches every binding registered through Use.
func (c *Component) Mount() {
	c.mounted = true
	for _, attach := range c.attachers {
		attach()
	}
}

// Unmount detaches every binding.
func (c *Component) Unmount() {
	c.mounted = false
	c.Subs.Clear()
}

// Mounted reports whether the component is on screen.
func (c *Component) Mounted() bool {
	return c.mounted
}

// Context returns the scope context the component was bound under.
func (c *Component) Context() context.Context {
	return c.Services.Context()
}

// Invalidate requests a render pass.
func (c *Component) Invalidate() {
	c.Services.Invalidate()
}

// onMount runs attach now if mounted, and on every later Mount.
func (c *Component) onMount(attach func()) {
	c.attachers = append(c.attachers, attach)
	if c.mounted {
		attach()
	}
}

// Use resolves the store provided for scope above c and selects from it.
// The binding attaches when c mounts; onChange runs on the UI loop with each
// new selected value. Call Use from Bind.
func Use[S, T any](c *Component, scope *state.Scope[S], selector state.Selector[S, T], onChange func(T)) (*state.Binding[S, T], error) {
	binding, err := state.Use(c.Context(), scope, selector)
	if err != nil {
		return nil, err
	}
	c.onMount(func() {
		state.Attach(&c.Subs, binding, onChange)
	})
	return binding, nil
}

// UseStore resolves the store provided for scope above c.
func UseStore[S any](c *Component, scope *state.Scope[S]) (*state.Store[S], error) {
	return scope.From(c.Context())
}
