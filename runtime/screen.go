package runtime

import (
	"fmt"

	"github.com/odvcencio/furry-store/backend"
)

// Layer is a widget tree drawn above the base root.
type Layer struct {
	Root Widget
	// Modal layers keep unhandled input from reaching anything below.
	Modal bool
}

// Screen holds the base root and the overlay stack above it, and renders
// both into one buffer. Every tree it accepts is bound, laid out, and
// mounted; every tree it drops is unmounted and unbound.
type Screen struct {
	area     Rect
	base     Widget
	overlays []Layer
	buffer   *Buffer
	services Services
}

// NewScreen returns an empty w by h screen.
func NewScreen(w, h int) *Screen {
	return &Screen{area: Rect{Width: w, Height: h}, buffer: NewBuffer(w, h)}
}

// SetServices sets what trees are bound with from now on.
func (s *Screen) SetServices(services Services) {
	s.services = services
}

// Size reports the screen area.
func (s *Screen) Size() (w, h int) {
	return s.area.Width, s.area.Height
}

// Resize changes the area and lays every tree out again.
func (s *Screen) Resize(w, h int) {
	s.area = Rect{Width: w, Height: h}
	s.buffer.Resize(w, h)
	s.each(func(root Widget, _ bool) bool {
		root.Layout(s.area)
		return true
	})
}

// Buffer is the frame widgets render into.
func (s *Screen) Buffer() *Buffer {
	return s.buffer
}

// SetRoot swaps the base tree. The previous one is released first. A tree
// that fails to bind is released again, and the screen is left without a
// base.
func (s *Screen) SetRoot(root Widget) error {
	if old := s.base; old != nil {
		s.base = nil
		release(old)
	}
	if root == nil {
		return nil
	}
	if err := s.attach(root); err != nil {
		return err
	}
	s.base = root
	return nil
}

// Root returns the base tree.
func (s *Screen) Root() Widget {
	return s.base
}

// PushLayer attaches root above everything else.
func (s *Screen) PushLayer(root Widget, modal bool) error {
	if root == nil {
		return nil
	}
	if err := s.attach(root); err != nil {
		return err
	}
	s.overlays = append(s.overlays, Layer{Root: root, Modal: modal})
	s.buffer.MarkAllDirty()
	return nil
}

// PopLayer releases the top overlay. It reports false when only the base
// is left.
func (s *Screen) PopLayer() bool {
	n := len(s.overlays)
	if n == 0 {
		return false
	}
	top := s.overlays[n-1]
	s.overlays = s.overlays[:n-1]
	release(top.Root)
	s.buffer.MarkAllDirty()
	return true
}

// TopLayer returns the overlay on top, or the base when there is none.
func (s *Screen) TopLayer() *Layer {
	if n := len(s.overlays); n > 0 {
		return &s.overlays[n-1]
	}
	if s.base == nil {
		return nil
	}
	return &Layer{Root: s.base}
}

// LayerCount counts the base, if set, and every overlay.
func (s *Screen) LayerCount() int {
	if s.base == nil {
		return len(s.overlays)
	}
	return len(s.overlays) + 1
}

// Close releases overlays top down, then the base.
func (s *Screen) Close() {
	for s.PopLayer() {
	}
	_ = s.SetRoot(nil)
}

func (s *Screen) attach(root Widget) error {
	if err := BindTree(root, s.services); err != nil {
		UnbindTree(root)
		return fmt.Errorf("bind %T: %w", root, err)
	}
	root.Layout(s.area)
	MountTree(root)
	return nil
}

func release(root Widget) {
	if root == nil {
		return
	}
	UnmountTree(root)
	UnbindTree(root)
}

// each visits the base then every overlay, bottom up, until fn returns
// false. top is true for the last tree visited.
func (s *Screen) each(fn func(root Widget, top bool) bool) {
	if s.base != nil && !fn(s.base, len(s.overlays) == 0) {
		return
	}
	for i, layer := range s.overlays {
		if !fn(layer.Root, i == len(s.overlays)-1) {
			return
		}
	}
}

// Render draws the base and then each overlay over a cleared buffer.
func (s *Screen) Render() {
	s.buffer.Clear()
	s.each(func(root Widget, top bool) bool {
		root.Render(RenderContext{Buffer: s.buffer, Bounds: s.area, Focused: top})
		return true
	})
}

// HandleMessage offers msg to the top overlay first and works down. The
// first tree that handles it wins; a modal overlay ends the search.
// Overlay commands in the result are applied before returning.
func (s *Screen) HandleMessage(msg Message) HandleResult {
	for i := len(s.overlays) - 1; i >= 0; i-- {
		layer := s.overlays[i]
		if result := s.offer(layer.Root, msg); result.Handled {
			return result
		}
		if layer.Modal {
			return Unhandled()
		}
	}
	if s.base == nil {
		return Unhandled()
	}
	if result := s.offer(s.base, msg); result.Handled {
		return result
	}
	return Unhandled()
}

func (s *Screen) offer(root Widget, msg Message) HandleResult {
	result := root.HandleMessage(msg)
	for _, cmd := range result.Commands {
		switch c := cmd.(type) {
		case PopOverlay:
			s.PopLayer()
		case PushOverlay:
			if err := s.PushLayer(c.Widget, c.Modal); err != nil {
				s.services.Logger().Error("push overlay", "error", err)
			}
		}
	}
	return result
}

// RenderContext is what a widget draws with.
type RenderContext struct {
	Buffer *Buffer
	// Focused is true while drawing the top tree.
	Focused bool
	Bounds  Rect
}

// Sub narrows the context to bounds.
func (ctx RenderContext) Sub(bounds Rect) RenderContext {
	ctx.Bounds = bounds
	return ctx
}

// Clear paints the bounds with spaces in style.
func (ctx RenderContext) Clear(style backend.Style) {
	if ctx.Buffer != nil {
		ctx.Buffer.Fill(ctx.Bounds, ' ', style)
	}
}
