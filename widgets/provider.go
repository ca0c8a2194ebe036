package widgets

import (
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

// Provider makes store reachable through scope for every widget below it.
// It draws nothing itself; layout, rendering, and input pass to its child.
type Provider[S any] struct {
	Base
	scope *state.Scope[S]
	store *state.Store[S]
	child runtime.Widget
}

// NewProvider wraps child so its descendants resolve scope to store.
func NewProvider[S any](scope *state.Scope[S], store *state.Store[S], child runtime.Widget) *Provider[S] {
	return &Provider[S]{scope: scope, store: store, child: child}
}

// Store returns the provided store.
func (p *Provider[S]) Store() *state.Store[S] {
	return p.store
}

// Scope implements runtime.Scoper.
func (p *Provider[S]) Scope(services runtime.Services) runtime.Services {
	return services.WithContext(p.scope.Provide(services.Context(), p.store))
}

// ChildWidgets implements runtime.ChildProvider.
func (p *Provider[S]) ChildWidgets() []runtime.Widget {
	if p.child == nil {
		return nil
	}
	return []runtime.Widget{p.child}
}

// Measure returns the child's size.
func (p *Provider[S]) Measure(constraints runtime.Constraints) runtime.Size {
	if p.child == nil {
		return constraints.Constrain(runtime.Size{})
	}
	return p.child.Measure(constraints)
}

// Layout gives the child the full bounds.
func (p *Provider[S]) Layout(bounds runtime.Rect) {
	p.Base.Layout(bounds)
	if p.child != nil {
		p.child.Layout(bounds)
	}
}

// Render draws the child.
func (p *Provider[S]) Render(ctx runtime.RenderContext) {
	if p.child != nil {
		p.child.Render(ctx)
	}
}

// HandleMessage forwards to the child.
func (p *Provider[S]) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if p.child == nil {
		return runtime.Unhandled()
	}
	return p.child.HandleMessage(msg)
}

var (
	_ runtime.Scoper        = (*Provider[int])(nil)
	_ runtime.ChildProvider = (*Provider[int])(nil)
)
