package widgets

import "github.com/odvcencio/furry-store/runtime"

// VStack lays children out top to bottom at their measured heights.
// Key messages go to children in order until one handles them.
type VStack struct {
	Base
	children []runtime.Widget
	gap      int
}

// NewVStack creates a vertical stack.
func NewVStack(children ...runtime.Widget) *VStack {
	return &VStack{children: children}
}

// SetGap sets the blank rows between children.
func (s *VStack) SetGap(gap int) *VStack {
	s.gap = max(gap, 0)
	return s
}

// ChildWidgets implements runtime.ChildProvider.
func (s *VStack) ChildWidgets() []runtime.Widget {
	return s.children
}

// Measure sums child heights and takes the widest child.
func (s *VStack) Measure(constraints runtime.Constraints) runtime.Size {
	var size runtime.Size
	child := runtime.Constraints{MaxWidth: constraints.MaxWidth}
	for i, c := range s.children {
		m := c.Measure(child)
		size.Width = max(size.Width, m.Width)
		size.Height += m.Height
		if i > 0 {
			size.Height += s.gap
		}
	}
	return constraints.Constrain(size)
}

// Layout assigns each child a full-width row band.
func (s *VStack) Layout(bounds runtime.Rect) {
	s.Base.Layout(bounds)
	y := bounds.Y
	bottom := bounds.Y + bounds.Height
	for _, c := range s.children {
		h := c.Measure(runtime.Constraints{MaxWidth: bounds.Width}).Height
		h = max(min(h, bottom-y), 0)
		c.Layout(runtime.Rect{X: bounds.X, Y: y, Width: bounds.Width, Height: h})
		y += h + s.gap
	}
}

// Render re-lays out children, since bound content may change height,
// and draws each one.
func (s *VStack) Render(ctx runtime.RenderContext) {
	s.Layout(s.bounds)
	for _, c := range s.children {
		c.Render(ctx)
	}
}

// HandleMessage offers msg to children in order.
func (s *VStack) HandleMessage(msg runtime.Message) runtime.HandleResult {
	for _, c := range s.children {
		if result := c.HandleMessage(msg); result.Handled {
			return result
		}
	}
	return runtime.Unhandled()
}
