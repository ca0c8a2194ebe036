// Package widgets provides the widgets the store demos are built from.
package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
)

// Alignment positions text within its bounds.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Base stores layout bounds and ignores input. Widgets embed it.
type Base struct {
	bounds runtime.Rect
}

// Layout records bounds.
func (b *Base) Layout(bounds runtime.Rect) { b.bounds = bounds }

// Bounds returns the last layout.
func (b *Base) Bounds() runtime.Rect { return b.bounds }

// HandleMessage leaves every message unhandled.
func (b *Base) HandleMessage(runtime.Message) runtime.HandleResult {
	return runtime.Unhandled()
}

// clip shortens s to width columns, ending in "..." when there is room.
func clip(s string, width int) string {
	switch {
	case width <= 0:
		return ""
	case runewidth.StringWidth(s) <= width:
		return s
	case width <= 3:
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// alignedX returns the column text starts at inside bounds.
func alignedX(bounds runtime.Rect, text string, align Alignment) int {
	w := runewidth.StringWidth(text)
	switch align {
	case AlignCenter:
		return bounds.X + max(bounds.Width-w, 0)/2
	case AlignRight:
		return bounds.X + max(bounds.Width-w, 0)
	}
	return bounds.X
}

// writeLine draws text on row y of bounds, clipped to its width.
func writeLine(buf *runtime.Buffer, bounds runtime.Rect, y int, text string, style backend.Style, align Alignment) {
	if buf == nil || bounds.Width <= 0 || y < bounds.Y || y >= bounds.Y+bounds.Height {
		return
	}
	text = clip(text, bounds.Width)
	buf.SetString(alignedX(bounds, text, align), y, text, style)
}
