package runtime

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-store/backend"
)

// Cell represents a single character cell in the buffer.
type Cell = backend.Cell

// Buffer is the back buffer widgets render into each frame.
//
// Dirty cells are the ones that differ from the last flushed frame, so a
// widget that clears and redraws the same content flushes nothing.
type Buffer struct {
	cells    []Cell
	flushed  []Cell
	width    int
	height   int
	dirtyAll bool
}

func blankCell() Cell {
	return Cell{Rune: ' ', Style: backend.DefaultStyle()}
}

// NewBuffer creates a blank buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	b := &Buffer{}
	b.alloc(w, h)
	return b
}

func (b *Buffer) alloc(w, h int) {
	w = max(w, 0)
	h = max(h, 0)
	b.width = w
	b.height = h
	b.cells = make([]Cell, w*h)
	b.flushed = make([]Cell, w*h)
	for i := range b.cells {
		b.cells[i] = blankCell()
		b.flushed[i] = blankCell()
	}
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Resize changes the dimensions. Content is discarded and the next flush
// redraws everything.
func (b *Buffer) Resize(w, h int) {
	if w == b.width && h == b.height {
		return
	}
	b.alloc(w, h)
	b.MarkAllDirty()
}

// Clear fills the buffer with spaces and default style.
func (b *Buffer) Clear() {
	b.Fill(Rect{0, 0, b.width, b.height}, ' ', backend.DefaultStyle())
}

// Get returns the cell at (x, y), or a blank cell when out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return blankCell()
	}
	return b.cells[y*b.width+x]
}

// Set writes a rune with style at (x, y). Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, r rune, s backend.Style) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Style: s}
}

// SetString writes s starting at (x, y) and returns the columns used.
// Wide runes take two columns; the trailing column holds a zero rune.
// A wide rune that would straddle the right edge is not written.
func (b *Buffer) SetString(x, y int, s string, style backend.Style) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > b.width {
			break
		}
		b.Set(col, y, r, style)
		if w == 2 {
			b.Set(col+1, y, 0, style)
		}
		col += w
	}
	return col - x
}

// Fill sets every cell of r to ch with style.
func (b *Buffer) Fill(r Rect, ch rune, style backend.Style) {
	r = r.Intersect(Rect{0, 0, b.width, b.height})
	for y := r.Y; y < r.Y+r.Height; y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		for x := r.X; x < r.X+r.Width; x++ {
			row[x] = Cell{Rune: ch, Style: style}
		}
	}
}

// Cells returns the row-major cell slice.
func (b *Buffer) Cells() []Cell {
	return b.cells
}

// MarkAllDirty forces the next flush to redraw every cell.
func (b *Buffer) MarkAllDirty() {
	b.dirtyAll = true
}

// IsDirty reports whether any cell needs flushing.
func (b *Buffer) IsDirty() bool {
	if b.dirtyAll {
		return len(b.cells) > 0
	}
	for i := range b.cells {
		if b.cells[i] != b.flushed[i] {
			return true
		}
	}
	return false
}

// DirtyCount returns how many cells need flushing.
func (b *Buffer) DirtyCount() int {
	if b.dirtyAll {
		return len(b.cells)
	}
	n := 0
	for i := range b.cells {
		if b.cells[i] != b.flushed[i] {
			n++
		}
	}
	return n
}

// ForEachDirtyCell calls fn for every cell that needs flushing.
func (b *Buffer) ForEachDirtyCell(fn func(x, y int, cell Cell)) {
	for i, cell := range b.cells {
		if b.dirtyAll || cell != b.flushed[i] {
			fn(i%b.width, i/b.width, cell)
		}
	}
}

// ClearDirty records the current content as flushed.
func (b *Buffer) ClearDirty() {
	copy(b.flushed, b.cells)
	b.dirtyAll = false
}

// Text returns the buffer content as lines, zero runes rendered as spaces.
func (b *Buffer) Text() []string {
	lines := make([]string, b.height)
	for y := 0; y < b.height; y++ {
		row := make([]rune, 0, b.width)
		for x := 0; x < b.width; x++ {
			r := b.cells[y*b.width+x].Rune
			if r == 0 {
				continue
			}
			row = append(row, r)
		}
		lines[y] = string(row)
	}
	return lines
}
