package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/terminal"
)

// Overlay draws child centered in a titled box. Esc dismisses it.
type Overlay struct {
	Base
	title string
	child runtime.Widget
	style backend.Style
	inner runtime.Rect
}

// NewOverlay wraps child in a box.
func NewOverlay(title string, child runtime.Widget) *Overlay {
	return &Overlay{title: title, child: child, style: backend.DefaultStyle()}
}

// Push returns the command that shows the overlay as a modal layer.
func (o *Overlay) Push() runtime.Command {
	return runtime.PushOverlay{Widget: o, Modal: true}
}

// ChildWidgets implements runtime.ChildProvider.
func (o *Overlay) ChildWidgets() []runtime.Widget {
	if o.child == nil {
		return nil
	}
	return []runtime.Widget{o.child}
}

// Measure returns the boxed child size.
func (o *Overlay) Measure(constraints runtime.Constraints) runtime.Size {
	size := runtime.Size{}
	if o.child != nil {
		size = o.child.Measure(runtime.Constraints{MaxWidth: max(constraints.MaxWidth-4, 0), MaxHeight: max(constraints.MaxHeight-2, 0)})
	}
	size.Width = max(size.Width, runewidth.StringWidth(o.title)+2) + 4
	size.Height += 2
	return constraints.Constrain(size)
}

// Layout centers the box in bounds.
func (o *Overlay) Layout(bounds runtime.Rect) {
	size := o.Measure(runtime.Loose(runtime.Size{Width: bounds.Width, Height: bounds.Height}))
	box := runtime.Rect{
		X:      bounds.X + (bounds.Width-size.Width)/2,
		Y:      bounds.Y + (bounds.Height-size.Height)/2,
		Width:  size.Width,
		Height: size.Height,
	}
	o.Base.Layout(box)
	o.inner = runtime.Rect{X: box.X + 2, Y: box.Y + 1, Width: max(box.Width-4, 0), Height: max(box.Height-2, 0)}
	if o.child != nil {
		o.child.Layout(o.inner)
	}
}

// Render draws the frame and the child.
func (o *Overlay) Render(ctx runtime.RenderContext) {
	b := o.bounds
	if b.Width < 2 || b.Height < 2 || ctx.Buffer == nil {
		return
	}
	buf := ctx.Buffer
	buf.Fill(b, ' ', o.style)
	right, bottom := b.X+b.Width-1, b.Y+b.Height-1
	for x := b.X + 1; x < right; x++ {
		buf.Set(x, b.Y, '─', o.style)
		buf.Set(x, bottom, '─', o.style)
	}
	for y := b.Y + 1; y < bottom; y++ {
		buf.Set(b.X, y, '│', o.style)
		buf.Set(right, y, '│', o.style)
	}
	buf.Set(b.X, b.Y, '┌', o.style)
	buf.Set(right, b.Y, '┐', o.style)
	buf.Set(b.X, bottom, '└', o.style)
	buf.Set(right, bottom, '┘', o.style)
	if o.title != "" {
		title := clip(" "+o.title+" ", b.Width-4)
		buf.SetString(b.X+2, b.Y, title, o.style.Bold(true))
	}
	if o.child != nil {
		o.child.Render(ctx.Sub(o.inner))
	}
}

// HandleMessage closes on esc and forwards everything else to the child.
func (o *Overlay) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if key, ok := msg.(runtime.KeyMsg); ok && key.Key == terminal.KeyEscape {
		return runtime.WithCommand(runtime.PopOverlay{})
	}
	if o.child != nil {
		return o.child.HandleMessage(msg)
	}
	return runtime.Unhandled()
}
