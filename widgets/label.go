package widgets

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
)

// Label displays static text. Newlines start new rows.
type Label struct {
	Base
	text      string
	style     backend.Style
	alignment Alignment
}

// NewLabel creates a left-aligned label.
func NewLabel(text string) *Label {
	return &Label{text: text, style: backend.DefaultStyle()}
}

// Text returns the label text.
func (l *Label) Text() string {
	return l.text
}

// SetText replaces the label text.
func (l *Label) SetText(text string) {
	l.text = text
}

// SetStyle sets the label style.
func (l *Label) SetStyle(style backend.Style) *Label {
	l.style = style
	return l
}

// SetAlignment sets text alignment.
func (l *Label) SetAlignment(align Alignment) *Label {
	l.alignment = align
	return l
}

// Measure returns the widest line and the line count.
func (l *Label) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(measureText(l.text))
}

// Render draws the label.
func (l *Label) Render(ctx runtime.RenderContext) {
	for i, line := range strings.Split(l.text, "\n") {
		writeLine(ctx.Buffer, l.bounds, l.bounds.Y+i, line, l.style, l.alignment)
	}
}

func measureText(text string) runtime.Size {
	lines := strings.Split(text, "\n")
	size := runtime.Size{Height: len(lines)}
	for _, line := range lines {
		size.Width = max(size.Width, runewidth.StringWidth(line))
	}
	return size
}
