package widgets

import (
	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

// BoundLabel is a label whose text is selected from a scoped store.
// It resolves the store during Bind and listens only while mounted.
type BoundLabel[S any] struct {
	Component
	scope     *state.Scope[S]
	selector  state.Selector[S, string]
	binding   *state.Binding[S, string]
	text      string
	style     backend.Style
	alignment Alignment
}

// NewBoundLabel creates a label showing selector over the store in scope.
func NewBoundLabel[S any](scope *state.Scope[S], selector state.Selector[S, string]) *BoundLabel[S] {
	return &BoundLabel[S]{
		scope:    scope,
		selector: selector,
		style:    backend.DefaultStyle(),
	}
}

// Text returns the current label text.
func (l *BoundLabel[S]) Text() string {
	return l.text
}

// SetStyle sets the label style.
func (l *BoundLabel[S]) SetStyle(style backend.Style) *BoundLabel[S] {
	l.style = style
	return l
}

// SetAlignment sets text alignment.
func (l *BoundLabel[S]) SetAlignment(align Alignment) *BoundLabel[S] {
	l.alignment = align
	return l
}

// Bind resolves the scoped store.
func (l *BoundLabel[S]) Bind(services runtime.Services) error {
	if err := l.Component.Bind(services); err != nil {
		return err
	}
	binding, err := Use(&l.Component, l.scope, l.selector, l.setText)
	if err != nil {
		return err
	}
	l.binding = binding
	l.text = binding.Get()
	return nil
}

// Unbind drops the binding.
func (l *BoundLabel[S]) Unbind() {
	l.Component.Unbind()
	l.binding = nil
}

// Mount attaches the binding and refreshes the text.
func (l *BoundLabel[S]) Mount() {
	l.Component.Mount()
	if l.binding != nil {
		l.text = l.binding.Get()
	}
}

func (l *BoundLabel[S]) setText(text string) {
	l.text = text
}

// Measure returns the size needed for the label.
func (l *BoundLabel[S]) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(measureText(l.text))
}

// Render draws the label.
func (l *BoundLabel[S]) Render(ctx runtime.RenderContext) {
	writeLine(ctx.Buffer, l.bounds, l.bounds.Y, l.text, l.style, l.alignment)
}
