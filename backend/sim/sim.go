// Package sim provides an in-memory backend for tests and scripted runs.
package sim

import (
	"errors"
	"strings"
	"sync"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/terminal"
)

// ErrClosed is returned when posting to a finalized backend.
var ErrClosed = errors.New("sim backend closed")

// Backend renders into a cell grid and replays injected events.
type Backend struct {
	mu      sync.Mutex
	width   int
	height  int
	cells   []backend.Cell
	shown   []backend.Cell
	events  chan terminal.Event
	done    chan struct{}
	closed  bool
	shows   int
	beeps   int
	initErr error
}

// New creates a simulation backend with the given size.
func New(width, height int) *Backend {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	b := &Backend{
		width:  width,
		height: height,
		events: make(chan terminal.Event, 64),
		done:   make(chan struct{}),
	}
	b.cells = blank(width * height)
	b.shown = blank(width * height)
	return b
}

// FailInit makes Init return err.
func (b *Backend) FailInit(err error) {
	b.mu.Lock()
	b.initErr = err
	b.mu.Unlock()
}

// Init implements backend.Backend.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initErr
}

// Fini stops PollEvent.
func (b *Backend) Fini() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}

// Size implements backend.Backend.
func (b *Backend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// SetContent implements backend.Backend.
func (b *Backend) SetContent(x, y int, mainc rune, combc []rune, style backend.Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = backend.Cell{Rune: mainc, Style: style}
}

// SetRow implements backend.RowWriter.
func (b *Backend) SetRow(y int, startX int, cells []backend.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height || startX < 0 {
		return
	}
	row := b.cells[y*b.width : (y+1)*b.width]
	if startX >= len(row) {
		return
	}
	copy(row[startX:], cells)
}

// Show publishes drawn cells so Text observes them.
func (b *Backend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	copy(b.shown, b.cells)
	b.shows++
}

// HideCursor implements backend.Backend.
func (b *Backend) HideCursor() {}

// Beep records a bell.
func (b *Backend) Beep() error {
	b.mu.Lock()
	b.beeps++
	b.mu.Unlock()
	return nil
}

// PollEvent returns the next injected event, or nil once finalized.
func (b *Backend) PollEvent() terminal.Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.done:
		return nil
	}
}

// PostEvent queues an event for PollEvent.
func (b *Backend) PostEvent(ev terminal.Event) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}
	select {
	case b.events <- ev:
		return nil
	case <-b.done:
		return ErrClosed
	}
}

// InjectKey posts a printable key press.
func (b *Backend) InjectKey(r rune) error {
	return b.PostEvent(terminal.KeyEvent{Key: terminal.KeyRune, Rune: r})
}

// InjectKeyCode posts a special key press.
func (b *Backend) InjectKeyCode(key terminal.Key) error {
	return b.PostEvent(terminal.KeyEvent{Key: key})
}

// Resize changes the surface size and posts a resize event.
func (b *Backend) Resize(width, height int) error {
	b.mu.Lock()
	b.width = width
	b.height = height
	b.cells = blank(width * height)
	b.shown = blank(width * height)
	b.mu.Unlock()
	return b.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

// Cell returns the last shown cell at (x, y).
func (b *Backend) Cell(x, y int) backend.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return backend.Cell{Rune: ' '}
	}
	return b.shown[y*b.width+x]
}

// Text returns the last shown frame, one line per row, trailing spaces trimmed.
func (b *Backend) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		row := make([]rune, b.width)
		for x := 0; x < b.width; x++ {
			r := b.shown[y*b.width+x].Rune
			if r == 0 {
				r = ' '
			}
			row[x] = r
		}
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Shows returns how many frames were shown.
func (b *Backend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

// Beeps returns how many bells were rung.
func (b *Backend) Beeps() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.beeps
}

func blank(n int) []backend.Cell {
	cells := make([]backend.Cell, n)
	for i := range cells {
		cells[i] = backend.Cell{Rune: ' ', Style: backend.DefaultStyle()}
	}
	return cells
}

var (
	_ backend.Backend   = (*Backend)(nil)
	_ backend.RowWriter = (*Backend)(nil)
)
